package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// JobApplication represents one tracked opportunity and its interview pipeline
type JobApplication struct {
	ID              string           `json:"id"`
	Company         string           `json:"company" validate:"required"`
	Title           string           `json:"title" validate:"required"`
	Location        string           `json:"location,omitempty"`
	Source          Source           `json:"source" validate:"source"`
	Compensation    string           `json:"compensation,omitempty"`
	Description     string           `json:"description,omitempty"`     // short summary
	FullDescription string           `json:"fullDescription,omitempty"` // raw source text
	InterestLevel   int              `json:"interestLevel" validate:"min=1,max=5"`
	Status          JobStatus        `json:"status" validate:"jobstatus"`
	ResumeVersion   string           `json:"resumeVersion,omitempty"`
	Stages          []InterviewStage `json:"stages" validate:"unique=ID,dive"`
	AppliedDate     time.Time        `json:"appliedDate"`
	LastUpdated     time.Time        `json:"lastUpdated"`
	URL             string           `json:"url,omitempty"`
}

// InterviewStage represents one round within a job's pipeline
type InterviewStage struct {
	ID     string      `json:"id" validate:"required"`
	Name   string      `json:"name"`
	Date   string      `json:"date,omitempty"` // YYYY-MM-DD, date-only
	Notes  string      `json:"notes,omitempty"`
	Status StageStatus `json:"status" validate:"stagestatus"`
	Type   StageType   `json:"type" validate:"stagetype"`
}

// Clone returns a deep copy so callers can mutate stages without touching the original
func (j JobApplication) Clone() JobApplication {
	if j.Stages != nil {
		stages := make([]InterviewStage, len(j.Stages))
		copy(stages, j.Stages)
		j.Stages = stages
	}
	return j
}

// UnmarshalJSON accepts appliedDate and lastUpdated either as RFC 3339
// timestamps or as bare YYYY-MM-DD dates, which are anchored at noon UTC.
func (j *JobApplication) UnmarshalJSON(b []byte) error {
	type plain JobApplication
	aux := struct {
		*plain
		AppliedDate string `json:"appliedDate"`
		LastUpdated string `json:"lastUpdated"`
	}{plain: (*plain)(j)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	var err error
	if j.AppliedDate, err = parseTimestamp(aux.AppliedDate); err != nil {
		return fmt.Errorf("appliedDate: %w", err)
	}
	if j.LastUpdated, err = parseTimestamp(aux.LastUpdated); err != nil {
		return fmt.Errorf("lastUpdated: %w", err)
	}
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is neither a date nor a timestamp", ErrInvalid, s)
	}
	return DayOf(t).Time(time.UTC), nil
}

// Touch refreshes LastUpdated; every mutation of a record goes through it
func (j *JobApplication) Touch(now time.Time) {
	j.LastUpdated = now
}

// Extraction is the structured summary returned by the extraction service
type Extraction struct {
	Company         string   `json:"company,omitempty"`
	Title           string   `json:"title,omitempty"`
	Location        string   `json:"location,omitempty"`
	Compensation    string   `json:"compensation,omitempty"`
	Summary         string   `json:"summary,omitempty"`
	SuggestedStages []string `json:"suggestedStages"`
}

// Suggestion is a status update inferred from an email
type Suggestion struct {
	ID           string    `json:"id"`
	Company      string    `json:"company"`
	NewStatus    JobStatus `json:"newStatus"`
	Reason       string    `json:"reason"`
	EmailDate    string    `json:"emailDate,omitempty"`
	EmailSnippet string    `json:"emailSnippet,omitempty"`
}

// DashboardMetrics holds the headline numbers shown above the pipeline
type DashboardMetrics struct {
	TotalApplications int `json:"totalApplications"`
	ActiveProcess     int `json:"activeProcess"`
	OfferRate         int `json:"offerRate"`
	InterviewingCount int `json:"interviewingCount"`
}
