package applicator

import (
	"testing"
	"time"

	"github.com/khrees2412/pipeliner/pkg/models"
)

var now = time.Date(2024, time.June, 3, 10, 0, 0, 0, time.UTC)

func TestFromExtraction(t *testing.T) {
	ext := models.Extraction{
		Company:         "Acme",
		Title:           "Senior PM",
		Location:        "Remote",
		Summary:         "Own the payments roadmap.",
		SuggestedStages: []string{"Recruiter Call", "Product Sense", "Onsite Loop"},
	}
	job := FromExtraction(ext, "full posting text", "https://acme.example/jobs/1", now)

	if job.ID == "" {
		t.Error("job has no ID")
	}
	if job.Status != models.StatusWishlist || job.InterestLevel != 3 || job.Source != models.SourceApplied {
		t.Errorf("unexpected defaults: status=%s interest=%d source=%s", job.Status, job.InterestLevel, job.Source)
	}
	if job.ResumeVersion != "Default" || job.FullDescription != "full posting text" || job.Description != ext.Summary {
		t.Errorf("unexpected text fields: %+v", job)
	}
	if !job.LastUpdated.Equal(now) || !job.AppliedDate.Equal(now) {
		t.Error("timestamps not set to now")
	}

	if len(job.Stages) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(job.Stages))
	}
	for i, s := range job.Stages {
		wantID := []string{"stage-1", "stage-2", "stage-3"}[i]
		if s.ID != wantID || s.Status != models.StagePending || s.Date != "" {
			t.Errorf("stage %d = %+v", i, s)
		}
	}
	if job.Stages[0].Type != models.StageRecruiterScreen {
		t.Errorf("first stage type = %s, expected Recruiter Screen", job.Stages[0].Type)
	}
	if job.Stages[1].Type != models.StageOther || job.Stages[2].Type != models.StageOther {
		t.Error("later stages should be typed Other")
	}
	if err := models.Validate(&job); err != nil {
		t.Errorf("extracted job fails validation: %v", err)
	}
}

func TestFromExtractionFallbacks(t *testing.T) {
	job := FromExtraction(models.Extraction{Company: "  "}, "", "", now)
	if job.Company != "Unknown Company" || job.Title != "Unknown Role" {
		t.Errorf("fallbacks = %q / %q", job.Company, job.Title)
	}
	if len(job.Stages) != 0 {
		t.Errorf("expected no stages, got %d", len(job.Stages))
	}
}

func TestManual(t *testing.T) {
	job := Manual(" PM ", " Globex ", "", now)
	if job.Title != "PM" || job.Company != "Globex" {
		t.Errorf("manual job = %+v", job)
	}
	if job.Status != models.StatusApplied || job.InterestLevel != 3 || len(job.Stages) != 0 {
		t.Errorf("unexpected defaults: %+v", job)
	}
}

func TestApplySuggestion(t *testing.T) {
	earlier := now.Add(-48 * time.Hour)
	jobs := []models.JobApplication{
		{ID: "j1", Company: "Globex", Status: models.StatusApplied, LastUpdated: earlier},
		{ID: "j2", Company: "Acme Corp", Status: models.StatusApplied, LastUpdated: earlier},
	}

	tests := []struct {
		name        string
		suggestion  models.Suggestion
		wantCreated bool
		wantID      string
	}{
		{
			name:       "matches existing company by substring",
			suggestion: models.Suggestion{Company: "Acme", NewStatus: models.StatusInterviewing, Reason: "invite"},
			wantID:     "j2",
		},
		{
			name:        "creates new job when nothing matches",
			suggestion:  models.Suggestion{Company: "Initech", NewStatus: models.StatusRejected, Reason: "Thanks for applying"},
			wantCreated: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, created := ApplySuggestion(jobs, tt.suggestion, now)
			if created != tt.wantCreated {
				t.Fatalf("created = %v, expected %v", created, tt.wantCreated)
			}
			if job.Status != tt.suggestion.NewStatus {
				t.Errorf("status = %s, expected %s", job.Status, tt.suggestion.NewStatus)
			}
			if !job.LastUpdated.Equal(now) {
				t.Error("lastUpdated not refreshed")
			}
			if !created {
				if job.ID != tt.wantID {
					t.Errorf("updated %s, expected %s", job.ID, tt.wantID)
				}
				return
			}
			if job.Source != models.SourceOther || job.Title != "Unknown Role" || job.Description != tt.suggestion.Reason {
				t.Errorf("new job = %+v", job)
			}
		})
	}

	if jobs[1].Status != models.StatusApplied {
		t.Error("ApplySuggestion mutated the input collection")
	}
}
