package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// GenerateJSON sends a system and user prompt in JSON mode and decodes the
// reply into out. It reports false when the model returned nothing.
func GenerateJSON(ctx context.Context, model llms.Model, system, prompt string, out any) (bool, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	resp, err := model.GenerateContent(ctx, messages,
		llms.WithJSONMode(),
		llms.WithTemperature(0.2),
	)
	if err != nil {
		return false, fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return false, nil
	}

	text := StripFences(resp.Choices[0].Content)
	if text == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return false, fmt.Errorf("decode model output: %w", err)
	}
	return true, nil
}

// StripFences removes a surrounding markdown code fence, which some models
// add even in JSON mode
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// drop the language tag line, e.g. ```json
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
