package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/sync/errgroup"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// withSpinner runs fn while animating label on out. With enabled false it
// just runs fn.
func withSpinner[T any](ctx context.Context, out io.Writer, enabled bool, label string, fn func(ctx context.Context) (T, error)) (T, error) {
	if !enabled {
		return fn(ctx)
	}

	g, gCtx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	var result T
	g.Go(func() error {
		defer close(done)
		res, err := fn(gCtx)
		if err != nil {
			return err
		}
		result = res
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		blank := "\r" + runewidth.FillRight("", runewidth.StringWidth(label)+2) + "\r"
		for i := 0; ; i++ {
			fmt.Fprintf(out, "\r%s %s", spinnerFrames[i%len(spinnerFrames)], label)
			select {
			case <-done:
				fmt.Fprint(out, blank)
				return nil
			case <-ticker.C:
			}
		}
	})

	err := g.Wait()
	return result, err
}
