package ai

import (
	"context"
	"fmt"

	"github.com/khrees2412/pipeliner/pkg/models"
	"github.com/tmc/langchaingo/llms"
)

// MaxInputRunes bounds the text sent for extraction
const MaxInputRunes = 7000

const extractionSystem = "You are a helpful career assistant for a job seeker. Be precise and helpful."

const extractionPrompt = `Analyze the following job description or job related text. Extract key details to help a professional track their application.

Respond with a single JSON object using exactly these keys:
{
  "company": "Company name",
  "title": "Job title",
  "location": "Job location (City, Remote, etc.) or null",
  "compensation": "Salary range or compensation details if available, else 'Unknown'",
  "summary": "A concise, user-friendly 2-sentence summary of the role.",
  "suggestedStages": ["A list of probable interview stages based on the description, e.g. 'Recruiter Screen', 'Technical Round'"]
}

Text:
%q`

// Extractor turns free text into a structured job summary
type Extractor struct {
	model llms.Model
}

func NewExtractor(model llms.Model) *Extractor {
	return &Extractor{model: model}
}

// Extract asks the model for an Extraction. An empty reply yields an empty
// Extraction; model and decoding errors are returned as is.
func (e *Extractor) Extract(ctx context.Context, text string) (*models.Extraction, error) {
	prompt := fmt.Sprintf(extractionPrompt, Truncate(text, MaxInputRunes))

	var ext models.Extraction
	if _, err := GenerateJSON(ctx, e.model, extractionSystem, prompt, &ext); err != nil {
		return nil, fmt.Errorf("extract job details: %w", err)
	}
	if ext.SuggestedStages == nil {
		ext.SuggestedStages = []string{}
	}
	return &ext, nil
}

// Truncate keeps at most n runes of s
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
