package matcher

import (
	"strings"

	"github.com/khrees2412/pipeliner/pkg/models"
	"golang.org/x/text/cases"
)

// FindByCompany returns the index of the first job whose company contains
// company, ignoring case. A blank company never matches.
func FindByCompany(jobs []models.JobApplication, company string) (int, bool) {
	needle := normalize(company)
	if needle == "" {
		return -1, false
	}
	for i, j := range jobs {
		if strings.Contains(normalize(j.Company), needle) {
			return i, true
		}
	}
	return -1, false
}

// Matches reports whether query appears in the job's company or title.
// An empty query matches everything.
func Matches(job models.JobApplication, query string) bool {
	q := normalize(query)
	if q == "" {
		return true
	}
	return strings.Contains(normalize(job.Company), q) ||
		strings.Contains(normalize(job.Title), q)
}

// Filter keeps the jobs that match query, preserving order
func Filter(jobs []models.JobApplication, query string) []models.JobApplication {
	out := make([]models.JobApplication, 0, len(jobs))
	for _, j := range jobs {
		if Matches(j, query) {
			out = append(out, j)
		}
	}
	return out
}

// normalize case-folds so "ACME" and "acme" compare equal in any script
func normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
