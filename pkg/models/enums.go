package models

import (
	"fmt"
	"strings"
)

// JobStatus is the job-level lifecycle state
type JobStatus string

const (
	StatusWishlist     JobStatus = "Wishlist"
	StatusApplied      JobStatus = "Applied"
	StatusInterviewing JobStatus = "Interviewing"
	StatusOffer        JobStatus = "Offer"
	StatusRejected     JobStatus = "Rejected"
	StatusWithdrawn    JobStatus = "Withdrawn"
)

var JobStatuses = []JobStatus{
	StatusWishlist, StatusApplied, StatusInterviewing,
	StatusOffer, StatusRejected, StatusWithdrawn,
}

func (s JobStatus) Valid() bool {
	switch s {
	case StatusWishlist, StatusApplied, StatusInterviewing, StatusOffer, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// Active reports whether the job is still moving through a pipeline
func (s JobStatus) Active() bool {
	switch s {
	case StatusApplied, StatusInterviewing:
		return true
	case StatusWishlist, StatusOffer, StatusRejected, StatusWithdrawn:
		return false
	}
	return false
}

// Terminal reports whether the job reached an outcome
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusOffer, StatusRejected, StatusWithdrawn:
		return true
	case StatusWishlist, StatusApplied, StatusInterviewing:
		return false
	}
	return false
}

// ParseJobStatus matches s case-insensitively against the known statuses
func ParseJobStatus(s string) (JobStatus, error) {
	for _, st := range JobStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: job status %q", ErrInvalid, s)
}

// StageStatus is the stage-level lifecycle state, independent of the job status
type StageStatus string

const (
	StagePending   StageStatus = "Pending"
	StageScheduled StageStatus = "Scheduled"
	StageCompleted StageStatus = "Completed"
	StagePassed    StageStatus = "Passed"
	StageFailed    StageStatus = "Failed"
)

var StageStatuses = []StageStatus{
	StagePending, StageScheduled, StageCompleted, StagePassed, StageFailed,
}

func (s StageStatus) Valid() bool {
	switch s {
	case StagePending, StageScheduled, StageCompleted, StagePassed, StageFailed:
		return true
	}
	return false
}

// Done reports whether the stage counts towards progress
func (s StageStatus) Done() bool {
	switch s {
	case StageCompleted, StagePassed:
		return true
	case StagePending, StageScheduled, StageFailed:
		return false
	}
	return false
}

// Actionable reports whether the stage is still ahead of the candidate
func (s StageStatus) Actionable() bool {
	switch s {
	case StagePending, StageScheduled:
		return true
	case StageCompleted, StagePassed, StageFailed:
		return false
	}
	return false
}

func ParseStageStatus(s string) (StageStatus, error) {
	for _, st := range StageStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: stage status %q", ErrInvalid, s)
}

// StageType classifies an interview round
type StageType string

const (
	StageRecruiterScreen StageType = "Recruiter Screen"
	StageHiringManager   StageType = "Hiring Manager"
	StageTechnical       StageType = "Technical/Case"
	StageLeadership      StageType = "Leadership"
	StageOnsite          StageType = "Onsite"
	StageOther           StageType = "Other"
)

var StageTypes = []StageType{
	StageRecruiterScreen, StageHiringManager, StageTechnical,
	StageLeadership, StageOnsite, StageOther,
}

func (t StageType) Valid() bool {
	switch t {
	case StageRecruiterScreen, StageHiringManager, StageTechnical, StageLeadership, StageOnsite, StageOther:
		return true
	}
	return false
}

// Screening reports whether the round is the initial recruiter screen
func (t StageType) Screening() bool {
	switch t {
	case StageRecruiterScreen:
		return true
	case StageHiringManager, StageTechnical, StageLeadership, StageOnsite, StageOther:
		return false
	}
	return false
}

func ParseStageType(s string) (StageType, error) {
	for _, t := range StageTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: stage type %q", ErrInvalid, s)
}

// Source records how the opportunity came in
type Source string

const (
	SourceApplied   Source = "Applied"
	SourceRecruiter Source = "Recruiter Reachout"
	SourceReferral  Source = "Referral"
	SourceOther     Source = "Other"
)

var Sources = []Source{SourceApplied, SourceRecruiter, SourceReferral, SourceOther}

func (s Source) Valid() bool {
	switch s {
	case SourceApplied, SourceRecruiter, SourceReferral, SourceOther:
		return true
	}
	return false
}

func ParseSource(s string) (Source, error) {
	for _, src := range Sources {
		if strings.EqualFold(strings.TrimSpace(s), string(src)) {
			return src, nil
		}
	}
	return "", fmt.Errorf("%w: source %q", ErrInvalid, s)
}
