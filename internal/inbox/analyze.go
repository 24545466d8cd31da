package inbox

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/khrees2412/pipeliner/internal/ai"
	"github.com/khrees2412/pipeliner/pkg/models"
	"github.com/tmc/langchaingo/llms"
)

const analysisSystem = "You are a helpful assistant for a Product Manager tracking their job applications."

const analysisPrompt = `Analyze the following recent emails and identify if any of them indicate a status update for a job application.

Valid Statuses:
- Interviewing (scheduling request, next steps)
- Offer (offer letter, compensation details)
- Rejected (thank you for applying, moving forward with other candidates)

Ignore emails that are just newsletters, confirmations of receipt (unless it's the only interaction), or unrelated.

Respond with a JSON array. Each element must have exactly these keys:
{"id": "the ID of the email analyzed", "company": "the company name associated with the application", "newStatus": "Interviewing, Offer, Rejected, or Applied", "reason": "brief explanation of why this status is suggested based on the email text"}

Emails:
%s`

// Analyzer asks a language model which emails carry status updates
type Analyzer struct {
	model llms.Model
	now   func() time.Time
}

func NewAnalyzer(model llms.Model) *Analyzer {
	return &Analyzer{model: model, now: time.Now}
}

type rawSuggestion struct {
	ID        string `json:"id"`
	Company   string `json:"company"`
	NewStatus string `json:"newStatus"`
	Reason    string `json:"reason"`
}

// Analyze returns suggestions mapped back to their email's date and
// snippet. Suggestions with a status outside JobStatus are dropped.
func (a *Analyzer) Analyze(ctx context.Context, emails []Email) ([]models.Suggestion, error) {
	if len(emails) == 0 {
		return []models.Suggestion{}, nil
	}

	var raw []rawSuggestion
	if _, err := ai.GenerateJSON(ctx, a.model, analysisSystem, fmt.Sprintf(analysisPrompt, emailContext(emails)), &raw); err != nil {
		return nil, fmt.Errorf("analyze emails: %w", err)
	}

	byID := make(map[string]Email, len(emails))
	for _, e := range emails {
		byID[e.ID] = e
	}

	out := make([]models.Suggestion, 0, len(raw))
	for _, r := range raw {
		status := models.JobStatus(r.NewStatus)
		if !status.Valid() {
			continue
		}
		s := models.Suggestion{
			ID:        r.ID,
			Company:   r.Company,
			NewStatus: status,
			Reason:    r.Reason,
			EmailDate: a.now().UTC().Format(time.RFC3339),
		}
		if e, ok := byID[r.ID]; ok {
			s.EmailDate = e.Date
			s.EmailSnippet = e.Snippet
		}
		out = append(out, s)
	}
	return out, nil
}

func emailContext(emails []Email) string {
	var b strings.Builder
	for _, e := range emails {
		fmt.Fprintf(&b, "ID: %s\nFrom: %s\nSubject: %s\nDate: %s\nSnippet: %s\n---\n", e.ID, e.From, e.Subject, e.Date, e.Snippet)
	}
	return b.String()
}
