package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/khrees2412/pipeliner/internal/config"
	"github.com/khrees2412/pipeliner/pkg/models"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel returns a canned reply and records the last prompt
type fakeModel struct {
	reply    string
	err      error
	messages []llms.MessageContent
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func (f *fakeModel) lastPrompt() string {
	if len(f.messages) == 0 {
		return ""
	}
	parts := f.messages[len(f.messages)-1].Parts
	if len(parts) == 0 {
		return ""
	}
	if tc, ok := parts[0].(llms.TextContent); ok {
		return tc.Text
	}
	return ""
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: `{"a":1}`, expected: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "bare fence", input: "```\n[1,2]\n```  ", expected: `[1,2]`},
		{name: "whitespace", input: "  \n ", expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.input); got != tt.expected {
				t.Errorf("StripFences(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	model := &fakeModel{reply: "```json\n" + `{
		"company": "Acme",
		"title": "Senior PM",
		"location": null,
		"compensation": "$200k",
		"summary": "Lead payments.",
		"suggestedStages": ["Recruiter Screen", "Onsite"]
	}` + "\n```"}

	ext, err := NewExtractor(model).Extract(context.Background(), "We are hiring a PM")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if ext.Company != "Acme" || ext.Title != "Senior PM" || ext.Location != "" || len(ext.SuggestedStages) != 2 {
		t.Errorf("unexpected extraction: %+v", ext)
	}
	if !strings.Contains(model.lastPrompt(), "We are hiring a PM") {
		t.Error("prompt does not include the input text")
	}
}

func TestExtractTruncatesInput(t *testing.T) {
	model := &fakeModel{reply: `{}`}
	long := strings.Repeat("é", MaxInputRunes+500)

	if _, err := NewExtractor(model).Extract(context.Background(), long); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if strings.Count(model.lastPrompt(), "é") != MaxInputRunes {
		t.Errorf("prompt carries %d runes of input, expected %d", strings.Count(model.lastPrompt(), "é"), MaxInputRunes)
	}
}

func TestExtractEmptyReply(t *testing.T) {
	ext, err := NewExtractor(&fakeModel{reply: "  "}).Extract(context.Background(), "text")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if ext.Company != "" || ext.SuggestedStages == nil || len(ext.SuggestedStages) != 0 {
		t.Errorf("expected empty extraction, got %+v", ext)
	}
}

func TestExtractPropagatesErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	if _, err := NewExtractor(&fakeModel{err: boom}).Extract(context.Background(), "text"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped model error, got %v", err)
	}
	if _, err := NewExtractor(&fakeModel{reply: "not json"}).Extract(context.Background(), "text"); err == nil {
		t.Error("expected a decode error")
	}
}

func TestNewModelRequiresKeys(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		expected error
	}{
		{name: "gemini without key", cfg: config.Config{AIProvider: "gemini"}, expected: models.ErrNotConfigured},
		{name: "default provider without key", cfg: config.Config{}, expected: models.ErrNotConfigured},
		{name: "openai without key", cfg: config.Config{AIProvider: "openai"}, expected: models.ErrNotConfigured},
		{name: "anthropic without key", cfg: config.Config{AIProvider: "anthropic"}, expected: models.ErrNotConfigured},
		{name: "unknown provider", cfg: config.Config{AIProvider: "watson"}, expected: models.ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModel(context.Background(), &tt.cfg)
			if !errors.Is(err, tt.expected) {
				t.Errorf("NewModel() error = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestNewModelLocalProviders(t *testing.T) {
	for _, provider := range []string{"ollama", "lmstudio"} {
		cfg := config.Config{AIProvider: provider, OllamaURL: "http://localhost:11434", LMStudioURL: "http://localhost:1234/v1/"}
		if _, err := NewModel(context.Background(), &cfg); err != nil {
			t.Errorf("%s: NewModel() error = %v", provider, err)
		}
	}
}
