package metrics

import (
	"fmt"
	"slices"
	"strings"

	"github.com/khrees2412/pipeliner/pkg/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering of a job listing
type SortKey string

const (
	SortUpdated       SortKey = "updated"
	SortAppliedNewest SortKey = "applied_newest"
	SortAppliedOldest SortKey = "applied_oldest"
	SortCompany       SortKey = "company"
	SortInterest      SortKey = "interest"
	SortStatus        SortKey = "status"
)

var SortKeys = []SortKey{SortUpdated, SortAppliedNewest, SortAppliedOldest, SortCompany, SortInterest, SortStatus}

// ParseSortKey maps user input onto a SortKey; blank means SortUpdated
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortUpdated, nil
	}
	for _, k := range SortKeys {
		if s == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: sort key %q", models.ErrInvalid, s)
}

// Comparator orders two jobs the way slices.SortFunc expects
type Comparator func(a, b models.JobApplication) int

// ByLastUpdated puts the most recently touched job first
func ByLastUpdated(a, b models.JobApplication) int {
	return b.LastUpdated.Compare(a.LastUpdated)
}

func ByAppliedNewest(a, b models.JobApplication) int {
	return b.AppliedDate.Compare(a.AppliedDate)
}

func ByAppliedOldest(a, b models.JobApplication) int {
	return a.AppliedDate.Compare(b.AppliedDate)
}

// ByInterest puts the highest interest level first
func ByInterest(a, b models.JobApplication) int {
	return b.InterestLevel - a.InterestLevel
}

// ByCompany orders company names with English collation rules.
// Collators are not safe for concurrent use, so each call builds its own.
func ByCompany() Comparator {
	c := collate.New(language.English)
	return func(a, b models.JobApplication) int {
		return c.CompareString(a.Company, b.Company)
	}
}

// ByStatus orders by the status label
func ByStatus() Comparator {
	c := collate.New(language.English)
	return func(a, b models.JobApplication) int {
		return c.CompareString(string(a.Status), string(b.Status))
	}
}

// ComparatorFor returns the comparator backing key, defaulting to ByLastUpdated
func ComparatorFor(key SortKey) Comparator {
	switch key {
	case SortUpdated:
		return ByLastUpdated
	case SortAppliedNewest:
		return ByAppliedNewest
	case SortAppliedOldest:
		return ByAppliedOldest
	case SortCompany:
		return ByCompany()
	case SortInterest:
		return ByInterest
	case SortStatus:
		return ByStatus()
	}
	return ByLastUpdated
}

// Sort returns a stably sorted copy of jobs
func Sort(jobs []models.JobApplication, key SortKey) []models.JobApplication {
	out := slices.Clone(jobs)
	slices.SortStableFunc(out, ComparatorFor(key))
	return out
}
