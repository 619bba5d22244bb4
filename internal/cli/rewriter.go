package cli

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/clems4ever/wiki-query/internal/logger"
	myopenai "github.com/clems4ever/wiki-query/internal/openai"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"
)

// ErrModelLoad is returned when the rewriting model cannot be loaded or run.
var ErrModelLoad = errors.New("model failure")

const instructionTemplate = "Convert the following user request into a concise search query for Wikipedia:\n"

// Rewriter turns a free-form question into a short search phrase.
type Rewriter struct {
	client          myopenai.TextGenerator
	model           Model
	maxInputTokens  int
	maxOutputTokens int
	log             *logger.Logger
}

// NewRewriter creates a rewriter for model.
func NewRewriter(client myopenai.TextGenerator, model Model, maxInputTokens, maxOutputTokens int, log *logger.Logger) *Rewriter {
	if log == nil {
		log = logger.Discard()
	}
	return &Rewriter{
		client:          client,
		model:           model,
		maxInputTokens:  inputBudget(model, maxInputTokens),
		maxOutputTokens: maxOutputTokens,
		log:             log,
	}
}

// Load checks that the inference server has the model available.
func (r *Rewriter) Load(ctx context.Context) error {
	m, err := r.client.GetModel(ctx, string(r.model))
	if err != nil {
		return fmt.Errorf("%w: failed to load model %q: %v", ErrModelLoad, r.model, err)
	}
	r.log.Debug("model available", "model", m.ID, "owned_by", m.OwnedBy)
	return nil
}

// Rewrite asks the model for a search phrase. An empty generation falls back
// to the cleaned question.
func (r *Rewriter) Rewrite(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", errors.New("question is empty")
	}

	prompt, est, err := truncateTokens(instructionTemplate+question, r.maxInputTokens)
	if err != nil {
		return "", fmt.Errorf("failed to budget prompt: %w", err)
	}
	if est.Truncated {
		r.log.Warn("prompt truncated", "max_tokens", r.maxInputTokens)
	}

	res, err := r.client.GenerateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       shared.ChatModel(r.model),
		MaxTokens:   openai.Int(int64(r.maxOutputTokens)),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to generate search query: %v", ErrModelLoad, err)
	}

	var generated string
	if len(res.Choices) > 0 {
		generated = res.Choices[0].Message.Content
	}

	query := CleanQuery(generated)
	if query == "" {
		query = CleanQuery(question)
		r.log.Warn("model returned no usable query, using the question", "generated", generated)
	}

	r.log.Info("rewrote question", "question", question, "query", query)
	return query, nil
}

const queryTrimSet = " \t\"'`.,;:!?¿¡«»“”‘’*•#-–—"

var labelPrefix = regexp.MustCompile(`(?i)^(wikipedia\s+)?(search\s+)?query\s*:\s*`)

// CleanQuery strips a leading "Query:" label, surrounding quotes and
// punctuation, and collapses whitespace.
func CleanQuery(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = labelPrefix.ReplaceAllString(s, "")
	return strings.Trim(s, queryTrimSet)
}
