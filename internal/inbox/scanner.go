// Package inbox scans a Gmail mailbox for application updates and turns
// them into status suggestions with a language model.
package inbox

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/khrees2412/pipeliner/pkg/models"
)

// minSnippetLen filters out messages too short to say anything useful
const minSnippetLen = 10

// Scanner fetches candidate emails and analyzes them
type Scanner struct {
	fetcher  Fetcher
	analyzer *Analyzer
	log      *slog.Logger
}

func NewScanner(fetcher Fetcher, analyzer *Analyzer, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{fetcher: fetcher, analyzer: analyzer, log: log}
}

// Scan returns suggested status updates. Fetch and analysis failures are
// returned to the caller.
func (s *Scanner) Scan(ctx context.Context) ([]models.Suggestion, error) {
	emails, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	valid := make([]Email, 0, len(emails))
	for _, e := range emails {
		if utf8.RuneCountInString(e.Snippet) > minSnippetLen {
			valid = append(valid, e)
		}
	}
	s.log.Debug("inbox fetched", "emails", len(emails), "candidates", len(valid))

	return s.analyzer.Analyze(ctx, valid)
}
