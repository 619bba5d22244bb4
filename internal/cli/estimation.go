package cli

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

type TokenEstimation struct {
	TokensCount int
	Truncated   bool
}

// truncateTokens cuts text down to maxTokens. The cl100k_base encoding is an
// approximation of the served model's own tokenizer, good enough for a budget.
func truncateTokens(text string, maxTokens int) (string, TokenEstimation, error) {
	enc, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return "", TokenEstimation{}, fmt.Errorf("failed to get tokenizer: %w", err)
	}

	ids, _, err := enc.Encode(text)
	if err != nil {
		return "", TokenEstimation{}, fmt.Errorf("failed to encode text: %w", err)
	}

	if len(ids) <= maxTokens {
		return text, TokenEstimation{TokensCount: len(ids)}, nil
	}

	truncated, err := enc.Decode(ids[:maxTokens])
	if err != nil {
		return "", TokenEstimation{}, fmt.Errorf("failed to decode truncated text: %w", err)
	}

	return truncated, TokenEstimation{TokensCount: maxTokens, Truncated: true}, nil
}
