package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/clems4ever/wiki-query/internal/config"
	"github.com/clems4ever/wiki-query/internal/logger"
	myopenai "github.com/clems4ever/wiki-query/internal/openai"
	"github.com/clems4ever/wiki-query/internal/summary"
	"github.com/clems4ever/wiki-query/internal/wikipedia"
	"github.com/mattn/go-isatty"
)

// Console is where the pipeline reads selections from and prints to.
type Console struct {
	In      io.Reader
	Out     io.Writer
	Spinner bool
}

// StdConsole uses the process stdin/stdout and animates only on a terminal.
func StdConsole() Console {
	return Console{
		In:      os.Stdin,
		Out:     os.Stdout,
		Spinner: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
}

// Ask builds the inference and Wikipedia clients from cfg and answers question
// on the process console.
func Ask(ctx context.Context, cfg *config.Config, question string, log *logger.Logger) error {
	if err := exportCacheDir(cfg.Model.CacheDir); err != nil {
		return err
	}

	openaiClient, err := myopenai.NewClient(cfg.Model.APIKey(), cfg.Model.BaseURL, cfg.Model.Timeout(), nil)
	if err != nil {
		return fmt.Errorf("failed to instantiate openai client: %w", err)
	}

	wikiClient := wikipedia.NewClient(cfg.Wikipedia.Endpoint(), cfg.Wikipedia.UserAgent, cfg.Wikipedia.Timeout(), nil)

	return AskWithClients(ctx, openaiClient, wikiClient, cfg, question, StdConsole(), log)
}

// AskWithClients runs the rewrite, resolve, select, format pipeline with
// injected clients. This function is designed for testing.
func AskWithClients(ctx context.Context, gen myopenai.TextGenerator, wiki wikipedia.API, cfg *config.Config, question string, console Console, log *logger.Logger) error {
	if log == nil {
		log = logger.Discard()
	}
	out := console.Out

	model := Model(cfg.Model.ID)
	rewriter := NewRewriter(gen, model, cfg.Model.MaxInputTokens, cfg.Model.MaxOutputTokens, log)

	infoColor.Fprintf(out, "Loading model '%s'...\n", model)
	if err := rewriter.Load(ctx); err != nil {
		return err
	}
	successColor.Fprintln(out, "Model loaded successfully")

	query, err := withSpinner(ctx, out, console.Spinner, "Converting request into Wikipedia query...",
		func(ctx context.Context) (string, error) {
			return rewriter.Rewrite(ctx, question)
		})
	if err != nil {
		return err
	}

	resolver := wikipedia.NewResolver(wiki, log, cfg.Wikipedia.MaxCandidates, cfg.Wikipedia.SearchLimit)
	resolver.OnNotice(func(format string, args ...any) {
		warnColor.Fprintf(out, format+"\n", args...)
	})

	infoColor.Fprintf(out, "Searching Wikipedia for: %s\n", wikipedia.SanitizeQuery(query))
	res, err := resolver.Resolve(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", query, err)
	}

	page := res.Page
	if res.Ambiguous() {
		choice, err := selectCandidate(bufio.NewReader(console.In), out, res.Candidates, cfg.Output.Width)
		if err != nil {
			return err
		}
		infoColor.Fprintf(out, "Loading page: %s\n", choice.Title)
		page, err = resolver.Fetch(ctx, choice.Title, res.Query)
		if err != nil {
			return fmt.Errorf("failed to load %q: %w", choice.Title, err)
		}
	}
	log.Info("resolved article", "title", page.Title, "page_id", page.PageID)

	text := summary.Format(page.Extract, cfg.Output.Sentences)
	fmt.Fprintln(out)
	renderSummary(out, page, text, cfg.Output.Width)

	return nil
}

// exportCacheDir creates dir and exposes it as TRANSFORMERS_CACHE to the
// inference backend and any process it spawns.
func exportCacheDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.Setenv(config.EnvTransformersCache, dir); err != nil {
		return fmt.Errorf("failed to export %s: %w", config.EnvTransformersCache, err)
	}
	return nil
}
