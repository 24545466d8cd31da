// Package metrics derives read-only aggregate views from a job collection.
// Nothing here mutates its input; the dashboard is recomputed from the full
// snapshot every time it is requested.
package metrics

import (
	"time"

	"github.com/khrees2412/pipeliner/internal/timeline"
	"github.com/khrees2412/pipeliner/pkg/models"
)

const defaultCurrentStage = "Application Review"

// breakdownOrder is the order statuses are listed in the status breakdown
var breakdownOrder = []models.JobStatus{
	models.StatusInterviewing,
	models.StatusApplied,
	models.StatusOffer,
	models.StatusRejected,
	models.StatusWishlist,
	models.StatusWithdrawn,
}

type StatusCount struct {
	Status models.JobStatus `json:"status"`
	Count  int              `json:"count"`
}

type FunnelStep struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PipelineRow is one active job as shown in the pipeline report
type PipelineRow struct {
	Job          models.JobApplication `json:"job"`
	CurrentStage string                `json:"currentStage"`
	DaysActive   int                   `json:"daysActive"`
	Completed    int                   `json:"completed"`
	Total        int                   `json:"total"`
	Velocity     int                   `json:"velocity"`
}

// Dashboard bundles every derived view computed from one snapshot
type Dashboard struct {
	Summary     models.DashboardMetrics `json:"summary"`
	Breakdown   []StatusCount           `json:"breakdown"`
	Funnel      []FunnelStep            `json:"funnel"`
	SuccessRate int                     `json:"successRate"`
	Pipeline    []PipelineRow           `json:"pipeline"`
}

// ActiveJobs returns the jobs still moving through a pipeline, in input order
func ActiveJobs(jobs []models.JobApplication) []models.JobApplication {
	active := make([]models.JobApplication, 0, len(jobs))
	for _, j := range jobs {
		if j.Status.Active() {
			active = append(active, j)
		}
	}
	return active
}

func CountByStatus(jobs []models.JobApplication) map[models.JobStatus]int {
	counts := make(map[models.JobStatus]int, len(models.JobStatuses))
	for _, j := range jobs {
		counts[j.Status]++
	}
	return counts
}

func OfferCount(jobs []models.JobApplication) int {
	return CountByStatus(jobs)[models.StatusOffer]
}

func RejectedCount(jobs []models.JobApplication) int {
	return CountByStatus(jobs)[models.StatusRejected]
}

// StatusBreakdown lists non-empty status buckets in display order
func StatusBreakdown(jobs []models.JobApplication) []StatusCount {
	counts := CountByStatus(jobs)
	out := make([]StatusCount, 0, len(breakdownOrder))
	for _, s := range breakdownOrder {
		if n := counts[s]; n > 0 {
			out = append(out, StatusCount{Status: s, Count: n})
		}
	}
	return out
}

// Funnel returns the Applied, Screening, Interviewing and Offers buckets.
// Monotonicity is expected from the data but not enforced.
func Funnel(jobs []models.JobApplication) []FunnelStep {
	var screening, interviewing int
	for _, j := range jobs {
		if len(j.Stages) > 0 {
			screening++
		}
		for _, s := range j.Stages {
			if !s.Type.Screening() {
				interviewing++
				break
			}
		}
	}
	return []FunnelStep{
		{Name: "Applied", Count: len(jobs)},
		{Name: "Screening", Count: screening},
		{Name: "Interviewing", Count: interviewing},
		{Name: "Offers", Count: OfferCount(jobs)},
	}
}

// SuccessRate is offers over decided outcomes as a rounded percentage
func SuccessRate(jobs []models.JobApplication) int {
	counts := CountByStatus(jobs)
	offers := counts[models.StatusOffer]
	return timeline.Percent(offers, offers+counts[models.StatusRejected])
}

// DaysActive counts whole days since the earliest of the applied date and
// any stage dated before it. Future stages never make the result negative.
func DaysActive(job models.JobApplication, now time.Time) int {
	start := job.AppliedDate
	if start.IsZero() {
		start = now
	}
	for _, s := range job.Stages {
		d, ok := models.ParseDay(s.Date)
		if !ok {
			continue
		}
		if t := d.Time(now.Location()); t.Before(start) {
			start = t
		}
	}
	days := int(now.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Velocity is the share of a job's stages already completed or passed
func Velocity(job models.JobApplication) int {
	return timeline.ProgressOf(job.Stages).Percent
}

func Summary(jobs []models.JobApplication) models.DashboardMetrics {
	counts := CountByStatus(jobs)
	return models.DashboardMetrics{
		TotalApplications: len(jobs),
		ActiveProcess:     counts[models.StatusApplied] + counts[models.StatusInterviewing],
		OfferRate:         SuccessRate(jobs),
		InterviewingCount: counts[models.StatusInterviewing],
	}
}

// Pipeline builds the active-pipeline report ordered by key
func Pipeline(jobs []models.JobApplication, now time.Time, key SortKey) []PipelineRow {
	active := Sort(ActiveJobs(jobs), key)
	rows := make([]PipelineRow, 0, len(active))
	for _, j := range active {
		current := defaultCurrentStage
		if s, ok := timeline.NextActionable(j.Stages); ok {
			current = s.Name
		}
		p := timeline.ProgressOf(j.Stages)
		rows = append(rows, PipelineRow{
			Job:          j,
			CurrentStage: current,
			DaysActive:   DaysActive(j, now),
			Completed:    p.Completed,
			Total:        p.Total,
			Velocity:     p.Percent,
		})
	}
	return rows
}

func Build(jobs []models.JobApplication, now time.Time, key SortKey) Dashboard {
	return Dashboard{
		Summary:     Summary(jobs),
		Breakdown:   StatusBreakdown(jobs),
		Funnel:      Funnel(jobs),
		SuccessRate: SuccessRate(jobs),
		Pipeline:    Pipeline(jobs, now, key),
	}
}
