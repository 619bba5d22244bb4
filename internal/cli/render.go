package cli

import (
	"fmt"
	"io"

	"github.com/clems4ever/wiki-query/internal/summary"
	"github.com/clems4ever/wiki-query/internal/wikipedia"
	"github.com/fatih/color"
)

var (
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	titleColor   = color.New(color.Bold)
	linkColor    = color.New(color.Faint)
)

// renderSummary prints the article title, the summary and the source link.
func renderSummary(out io.Writer, page *wikipedia.Page, text string, width int) {
	titleColor.Fprintln(out, page.Title)
	fmt.Fprintln(out)
	if text == "" {
		warnColor.Fprintln(out, "(no summary available)")
	} else {
		fmt.Fprintln(out, summary.Wrap(text, width))
	}
	if page.URL != "" {
		fmt.Fprintln(out)
		linkColor.Fprintln(out, page.URL)
	}
}
