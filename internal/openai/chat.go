// Defines the interfaces the rewriter needs from an OpenAI-compatible inference server.
package myopenai

import (
	"context"

	"github.com/openai/openai-go"
)

// ChatGenerator provides an interface for generating chat completions using the OpenAI API.
type ChatGenerator interface {
	GenerateChatCompletion(ctx context.Context, body openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// ModelGetter looks up a model served by the inference server.
// A successful lookup means the weights are available for generation.
type ModelGetter interface {
	GetModel(ctx context.Context, id string) (*openai.Model, error)
}

// TextGenerator is what the query rewriter depends on.
type TextGenerator interface {
	ChatGenerator
	ModelGetter
}
