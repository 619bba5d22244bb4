// Provides a client implementation for OpenAI-compatible inference servers
// (vLLM, text-generation-inference, llama.cpp, OpenAI itself).
package myopenai

import (
	"context"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// clientImpl is a concrete implementation of TextGenerator using the OpenAI Go SDK.
type clientImpl struct {
	client openai.Client
}

var _ TextGenerator = (*clientImpl)(nil)

// NewClient creates a new clientImpl talking to baseURL.
// An empty baseURL keeps the SDK default (OPENAI_BASE_URL or api.openai.com).
func NewClient(apiKey, baseURL string, timeout time.Duration, httpClient *http.Client) (*clientImpl, error) {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(timeout),
		option.WithMaxRetries(1),
	}

	if baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(baseURL))
	}

	if httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(httpClient))
	}
	return &clientImpl{
		client: openai.NewClient(clientOpts...),
	}, nil
}

func (o *clientImpl) GenerateChatCompletion(ctx context.Context, body openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return o.client.Chat.Completions.New(ctx, body)
}

func (o *clientImpl) GetModel(ctx context.Context, id string) (*openai.Model, error) {
	return o.client.Models.Get(ctx, id)
}
