package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/clems4ever/wiki-query/internal/wikipedia"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// ErrSelectionCancelled is returned when the user aborts disambiguation.
var ErrSelectionCancelled = errors.New("selection cancelled")

// selectCandidate lists the candidates and reads the user's choice.
// Empty input picks the first one, invalid input falls back to it,
// "q" or end of input cancels.
func selectCandidate(in *bufio.Reader, out io.Writer, candidates []wikipedia.Candidate, width int) (wikipedia.Candidate, error) {
	if len(candidates) == 0 {
		return wikipedia.Candidate{}, errors.New("no candidates to select from")
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	if len(candidates) > wikipedia.MaxCandidates {
		candidates = candidates[:wikipedia.MaxCandidates]
	}

	color.New(color.FgYellow).Fprintln(out, "Multiple articles found:")
	for i, c := range candidates {
		line := fmt.Sprintf("%d. %s", i+1, c.Title)
		if c.Snippet != "" {
			line += " - " + c.Snippet
		}
		if width > 0 {
			line = runewidth.Truncate(line, width, "…")
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprint(out, "Select article number [1] (q to cancel): ")

	answer, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return wikipedia.Candidate{}, fmt.Errorf("failed to read selection: %w", err)
	}
	if errors.Is(err, io.EOF) && answer == "" {
		fmt.Fprintln(out)
		return wikipedia.Candidate{}, ErrSelectionCancelled
	}

	answer = strings.TrimSpace(answer)
	switch strings.ToLower(answer) {
	case "":
		return candidates[0], nil
	case "q", "quit":
		return wikipedia.Candidate{}, ErrSelectionCancelled
	}

	idx, err := strconv.Atoi(answer)
	if err != nil || idx < 1 || idx > len(candidates) {
		color.New(color.FgRed).Fprintln(out, "Invalid choice, defaulting to 1")
		return candidates[0], nil
	}
	return candidates[idx-1], nil
}
