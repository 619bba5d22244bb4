package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCleanQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Ada Lovelace", "Ada Lovelace"},
		{"  \"Ada   Lovelace.\"\n", "Ada Lovelace"},
		{"Query: Ada Lovelace", "Ada Lovelace"},
		{"Wikipedia search query: Eiffel Tower!", "Eiffel Tower"},
		{"C++", "C++"},
		{"Mercury (planet)", "Mercury (planet)"},
		{"- photosynthesis -", "photosynthesis"},
		{"...", ""},
	}

	for _, tt := range tests {
		if got := CleanQuery(tt.in); got != tt.want {
			t.Errorf("CleanQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRewrite(t *testing.T) {
	gen := &mockTextGenerator{
		responseFunc: func(int) string { return " \"Ada Lovelace\" " },
	}
	r := NewRewriter(gen, DefaultModel, 512, 64, nil)

	got, err := r.Rewrite(context.Background(), "Who is Ada Lovelace?")
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if got != "Ada Lovelace" {
		t.Errorf("expected 'Ada Lovelace', got %q", got)
	}

	if gen.lastParams.MaxTokens.Value != 64 {
		t.Errorf("expected max tokens 64, got %d", gen.lastParams.MaxTokens.Value)
	}
	if string(gen.lastParams.Model) != string(DefaultModel) {
		t.Errorf("unexpected model: %s", gen.lastParams.Model)
	}
}

func TestRewrite_EmptyGenerationFallsBackToQuestion(t *testing.T) {
	gen := &mockTextGenerator{
		responseFunc: func(int) string { return "  ?? " },
	}
	r := NewRewriter(gen, DefaultModel, 512, 64, nil)

	got, err := r.Rewrite(context.Background(), "Who is Ada Lovelace?")
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if got != "Who is Ada Lovelace" {
		t.Errorf("expected cleaned question, got %q", got)
	}
}

func TestRewrite_EmptyQuestion(t *testing.T) {
	gen := &mockTextGenerator{}
	r := NewRewriter(gen, DefaultModel, 512, 64, nil)

	if _, err := r.Rewrite(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty question")
	}
	if gen.callCount != 0 {
		t.Errorf("model should not be called for an empty question")
	}
}

func TestRewrite_LongQuestionIsTruncated(t *testing.T) {
	gen := &mockTextGenerator{
		responseFunc: func(int) string { return "topic" },
	}
	r := NewRewriter(gen, DefaultModel, 32, 64, nil)

	question := strings.Repeat("why is the sky blue ", 200)
	if _, err := r.Rewrite(context.Background(), question); err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}

	prompt := gen.lastParams.Messages[0].OfUser.Content.OfString.Value
	if len(prompt) >= len(instructionTemplate)+len(strings.TrimSpace(question)) {
		t.Errorf("expected prompt to be truncated, got %d bytes", len(prompt))
	}
	if !strings.HasPrefix(prompt, instructionTemplate) {
		t.Errorf("truncation must keep the instruction, got %q", prompt)
	}
}

func TestLoad(t *testing.T) {
	r := NewRewriter(&mockTextGenerator{}, DefaultModel, 512, 64, nil)
	if err := r.Load(context.Background()); err != nil {
		t.Errorf("Load failed: %v", err)
	}

	r = NewRewriter(&mockTextGenerator{modelMissing: true}, Model("nope/nope"), 512, 64, nil)
	err := r.Load(context.Background())
	if !errors.Is(err, ErrModelLoad) {
		t.Fatalf("expected ErrModelLoad, got %v", err)
	}
	if !strings.Contains(err.Error(), "nope/nope") {
		t.Errorf("expected model id in error, got %v", err)
	}
}
