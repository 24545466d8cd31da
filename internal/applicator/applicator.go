// Package applicator turns boundary results into job records: extraction
// summaries become wishlist entries and inbox suggestions update or create
// jobs.
package applicator

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khrees2412/pipeliner/internal/matcher"
	"github.com/khrees2412/pipeliner/pkg/models"
)

const (
	DefaultInterest      = 3
	DefaultResumeVersion = "Default"
	UnknownCompany       = "Unknown Company"
	UnknownRole          = "Unknown Role"
)

// FromExtraction builds a wishlist job from an extraction. Suggested stage
// names become pending stages; the first one is assumed to be the recruiter
// screen and the rest are typed Other.
func FromExtraction(ext models.Extraction, fullText, url string, now time.Time) models.JobApplication {
	job := models.JobApplication{
		ID:              uuid.NewString(),
		Company:         orDefault(ext.Company, UnknownCompany),
		Title:           orDefault(ext.Title, UnknownRole),
		Location:        strings.TrimSpace(ext.Location),
		Compensation:    strings.TrimSpace(ext.Compensation),
		Description:     strings.TrimSpace(ext.Summary),
		FullDescription: fullText,
		Source:          models.SourceApplied,
		Status:          models.StatusWishlist,
		InterestLevel:   DefaultInterest,
		ResumeVersion:   DefaultResumeVersion,
		Stages:          StagesFromSuggestions(ext.SuggestedStages),
		AppliedDate:     now,
		LastUpdated:     now,
		URL:             strings.TrimSpace(url),
	}
	return job
}

// StagesFromSuggestions maps suggested names to stages with sequential IDs
func StagesFromSuggestions(names []string) []models.InterviewStage {
	stages := make([]models.InterviewStage, 0, len(names))
	for i, name := range names {
		typ := models.StageOther
		if i == 0 {
			typ = models.StageRecruiterScreen
		}
		stages = append(stages, models.InterviewStage{
			ID:     fmt.Sprintf("stage-%d", i+1),
			Name:   name,
			Status: models.StagePending,
			Type:   typ,
		})
	}
	return stages
}

// Manual builds a job the user entered by hand
func Manual(title, company, url string, now time.Time) models.JobApplication {
	return models.JobApplication{
		ID:            uuid.NewString(),
		Company:       strings.TrimSpace(company),
		Title:         strings.TrimSpace(title),
		URL:           strings.TrimSpace(url),
		Source:        models.SourceApplied,
		Status:        models.StatusApplied,
		InterestLevel: DefaultInterest,
		ResumeVersion: DefaultResumeVersion,
		Stages:        []models.InterviewStage{},
		AppliedDate:   now,
		LastUpdated:   now,
	}
}

// ApplySuggestion resolves a suggestion against jobs. When a job's company
// matches, a copy with the new status is returned; otherwise a new job is
// built and created is true.
func ApplySuggestion(jobs []models.JobApplication, s models.Suggestion, now time.Time) (models.JobApplication, bool) {
	if i, ok := matcher.FindByCompany(jobs, s.Company); ok {
		job := jobs[i].Clone()
		job.Status = s.NewStatus
		job.Touch(now)
		return job, false
	}
	return models.JobApplication{
		ID:            uuid.NewString(),
		Company:       orDefault(s.Company, UnknownCompany),
		Title:         UnknownRole,
		Description:   s.Reason,
		Source:        models.SourceOther,
		Status:        s.NewStatus,
		InterestLevel: DefaultInterest,
		ResumeVersion: DefaultResumeVersion,
		Stages:        []models.InterviewStage{},
		AppliedDate:   now,
		LastUpdated:   now,
	}, true
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
