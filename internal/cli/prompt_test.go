package cli

import (
	"bufio"
	"errors"
	"strings"
	"testing"

	"github.com/clems4ever/wiki-query/internal/wikipedia"
	"github.com/mattn/go-runewidth"
)

func candidates(titles ...string) []wikipedia.Candidate {
	out := make([]wikipedia.Candidate, 0, len(titles))
	for _, title := range titles {
		out = append(out, wikipedia.Candidate{Title: title})
	}
	return out
}

func TestSelectCandidate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantErr   error
		wantNotes string
	}{
		{name: "default on empty line", input: "\n", want: "A"},
		{name: "explicit choice", input: "3\n", want: "C"},
		{name: "surrounding whitespace", input: "  2  \n", want: "B"},
		{name: "out of range", input: "9\n", want: "A", wantNotes: "Invalid choice, defaulting to 1"},
		{name: "not a number", input: "abc\n", want: "A", wantNotes: "Invalid choice, defaulting to 1"},
		{name: "no trailing newline", input: "2", want: "B"},
		{name: "quit", input: "q\n", wantErr: ErrSelectionCancelled},
		{name: "end of input", input: "", wantErr: ErrSelectionCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			got, err := selectCandidate(bufio.NewReader(strings.NewReader(tt.input)), &out, candidates("A", "B", "C"), 80)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Title != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Title)
			}
			if tt.wantNotes != "" && !strings.Contains(out.String(), tt.wantNotes) {
				t.Errorf("expected %q in output, got:\n%s", tt.wantNotes, out.String())
			}
		})
	}
}

func TestSelectCandidate_SingleSkipsPrompt(t *testing.T) {
	var out strings.Builder
	got, err := selectCandidate(bufio.NewReader(strings.NewReader("")), &out, candidates("Only"), 80)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Only" {
		t.Errorf("expected the only candidate, got %s", got.Title)
	}
	if out.Len() != 0 {
		t.Errorf("single candidate should not prompt, got:\n%s", out.String())
	}
}

func TestSelectCandidate_ListsAtMostFive(t *testing.T) {
	var out strings.Builder
	_, err := selectCandidate(bufio.NewReader(strings.NewReader("7\n")), &out, candidates("A", "B", "C", "D", "E", "F", "G"), 80)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "5. E") {
		t.Errorf("expected fifth candidate listed, got:\n%s", output)
	}
	if strings.Contains(output, "6. F") {
		t.Errorf("more than five candidates listed:\n%s", output)
	}
	if !strings.Contains(output, "Select article number [1] (q to cancel): ") {
		t.Errorf("expected selection prompt, got:\n%s", output)
	}
	if !strings.Contains(output, "Invalid choice") {
		t.Errorf("choice beyond the listed five should be invalid")
	}
}

func TestSelectCandidate_TruncatesLongLines(t *testing.T) {
	long := []wikipedia.Candidate{
		{Title: "Alpha", Snippet: strings.Repeat("very long snippet ", 20)},
		{Title: "Beta"},
	}

	var out strings.Builder
	if _, err := selectCandidate(bufio.NewReader(strings.NewReader("\n")), &out, long, 40); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, line := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(line, "1. Alpha") && runewidth.StringWidth(line) > 40 {
			t.Errorf("candidate line exceeds width: %q", line)
		}
	}
}
