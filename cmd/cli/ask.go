package main

import (
	"errors"
	"strings"

	"github.com/clems4ever/wiki-query/internal/cli"
	"github.com/clems4ever/wiki-query/internal/config"
	"github.com/clems4ever/wiki-query/internal/logger"
	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	askCmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Transform a user request into a Wikipedia query and display the summary",
		Long: `Rewrite a free-form question into a Wikipedia search query with a
pretrained text-to-text model, resolve it to one article and print the first
sentences of its summary.

Examples:
  wiki-query ask "Who is Ada Lovelace?"
  wiki-query ask --sentences 2 --model google/flan-t5-large "what does the mitochondria do"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	askCmd.Flags().IntP("sentences", "s", 0, "number of sentences to include in the summary (default 3)")
	askCmd.Flags().StringP("model", "m", "", "model used to rewrite the question (default "+string(cli.DefaultModel)+")")
	askCmd.Flags().String("cache-dir", "", "cache directory for model weights, exported as TRANSFORMERS_CACHE")
	askCmd.Flags().String("base-url", "", "OpenAI-compatible inference server URL")
	askCmd.Flags().String("lang", "", "Wikipedia language edition, e.g. en or fr")

	return askCmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	log := logger.NewLoggerWithWriter(cmd.ErrOrStderr(), config.Default().Logging.Level).WithRunID()

	cfg, err := loadConfig(cmd)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		return err
	}

	log.SetLevel(cfg.Logging.Level)
	log.Debug("configuration", "config", cfg.String())

	if err := cli.Ask(cmd.Context(), cfg, question, log); err != nil {
		if !errors.Is(err, cli.ErrSelectionCancelled) {
			log.Error("ask failed", "question", question, "error", err)
		}
		return err
	}
	return nil
}

// loadConfig layers command-line flags over the config file and environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	optional := path == ""
	if optional {
		path = config.DefaultPath()
	}

	cfg, err := config.LoadConfig(path, optional)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("sentences") {
		cfg.Output.Sentences, _ = flags.GetInt("sentences")
	}
	if flags.Changed("model") {
		model, _ := flags.GetString("model")
		cfg.Model.ID = model
	}
	if flags.Changed("cache-dir") {
		cfg.Model.CacheDir, _ = flags.GetString("cache-dir")
	}
	if flags.Changed("base-url") {
		cfg.Model.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("lang") {
		cfg.Wikipedia.Language, _ = flags.GetString("lang")
		cfg.Wikipedia.APIURL = ""
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
