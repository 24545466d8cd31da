package metrics

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/khrees2412/pipeliner/pkg/models"
)

func job(id string, status models.JobStatus, stages ...models.InterviewStage) models.JobApplication {
	return models.JobApplication{
		ID:            id,
		Company:       "Company " + id,
		Title:         "PM",
		Status:        status,
		InterestLevel: 3,
		Stages:        stages,
	}
}

func st(id, date string, typ models.StageType, status models.StageStatus) models.InterviewStage {
	return models.InterviewStage{ID: id, Name: "Round " + id, Date: date, Type: typ, Status: status}
}

func jobIDs(jobs []models.JobApplication) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestActiveJobsAndFunnel(t *testing.T) {
	jobs := []models.JobApplication{
		job("1", models.StatusApplied),
		job("2", models.StatusInterviewing),
		job("3", models.StatusOffer),
		job("4", models.StatusRejected),
	}

	active := ActiveJobs(jobs)
	if !slices.Equal(jobIDs(active), []string{"1", "2"}) {
		t.Errorf("ActiveJobs = %v, expected [1 2]", jobIDs(active))
	}

	funnel := Funnel(jobs)
	want := []FunnelStep{
		{Name: "Applied", Count: 4},
		{Name: "Screening", Count: 0},
		{Name: "Interviewing", Count: 0},
		{Name: "Offers", Count: 1},
	}
	if !slices.Equal(funnel, want) {
		t.Errorf("Funnel = %+v, expected %+v", funnel, want)
	}
}

func TestFunnelStageBuckets(t *testing.T) {
	jobs := []models.JobApplication{
		job("screen-only", models.StatusApplied, st("a", "", models.StageRecruiterScreen, models.StagePending)),
		job("onsite", models.StatusInterviewing,
			st("a", "", models.StageRecruiterScreen, models.StagePassed),
			st("b", "", models.StageOnsite, models.StagePending)),
		job("none", models.StatusWishlist),
	}
	funnel := Funnel(jobs)
	if funnel[1].Count != 2 || funnel[2].Count != 1 {
		t.Errorf("Screening/Interviewing = %d/%d, expected 2/1", funnel[1].Count, funnel[2].Count)
	}
}

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		name string
		jobs []models.JobApplication
		want int
	}{
		{name: "empty", jobs: nil, want: 0},
		{name: "no outcomes", jobs: []models.JobApplication{job("1", models.StatusApplied)}, want: 0},
		{
			name: "two and two",
			jobs: []models.JobApplication{
				job("1", models.StatusOffer), job("2", models.StatusOffer),
				job("3", models.StatusRejected), job("4", models.StatusRejected),
			},
			want: 50,
		},
		{
			name: "rounds to nearest",
			jobs: []models.JobApplication{
				job("1", models.StatusOffer), job("2", models.StatusOffer), job("3", models.StatusRejected),
			},
			want: 67,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuccessRate(tt.jobs); got != tt.want {
				t.Errorf("SuccessRate() = %d, expected %d", got, tt.want)
			}
		})
	}
}

func TestStatusBreakdownOrderAndOmission(t *testing.T) {
	jobs := []models.JobApplication{
		job("1", models.StatusWishlist),
		job("2", models.StatusApplied),
		job("3", models.StatusInterviewing),
		job("4", models.StatusApplied),
	}
	got := StatusBreakdown(jobs)
	want := []StatusCount{
		{Status: models.StatusInterviewing, Count: 1},
		{Status: models.StatusApplied, Count: 2},
		{Status: models.StatusWishlist, Count: 1},
	}
	if !slices.Equal(got, want) {
		t.Errorf("StatusBreakdown = %+v, expected %+v", got, want)
	}
}

func TestDaysActive(t *testing.T) {
	now := time.Date(2024, time.January, 31, 15, 0, 0, 0, time.UTC)
	applied := time.Date(2024, time.January, 21, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		job  models.JobApplication
		want int
	}{
		{
			name: "applied date only",
			job:  models.JobApplication{AppliedDate: applied},
			want: 10,
		},
		{
			name: "earlier stage wins",
			job: models.JobApplication{AppliedDate: applied, Stages: []models.InterviewStage{
				st("a", "2024-01-11", models.StageOther, models.StageCompleted),
			}},
			want: 20,
		},
		{
			name: "future stage is ignored",
			job: models.JobApplication{AppliedDate: applied, Stages: []models.InterviewStage{
				st("a", "2024-03-01", models.StageOther, models.StageScheduled),
			}},
			want: 10,
		},
		{
			name: "future applied date floors at zero",
			job:  models.JobApplication{AppliedDate: now.AddDate(0, 0, 5)},
			want: 0,
		},
		{
			name: "malformed stage date is ignored",
			job: models.JobApplication{AppliedDate: applied, Stages: []models.InterviewStage{
				st("a", "last week", models.StageOther, models.StageCompleted),
			}},
			want: 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysActive(tt.job, now)
			if got != tt.want {
				t.Errorf("DaysActive() = %d, expected %d", got, tt.want)
			}
			if got < 0 {
				t.Error("DaysActive must never be negative")
			}
		})
	}
}

func TestVelocityZeroStages(t *testing.T) {
	if v := Velocity(job("1", models.StatusApplied)); v != 0 {
		t.Errorf("Velocity with no stages = %d, expected 0", v)
	}
}

func TestSortComparators(t *testing.T) {
	base := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	jobs := []models.JobApplication{
		{ID: "b", Company: "beta", Status: models.StatusOffer, InterestLevel: 2, AppliedDate: base, LastUpdated: base.Add(time.Hour)},
		{ID: "a", Company: "Alpha", Status: models.StatusApplied, InterestLevel: 5, AppliedDate: base.AddDate(0, 0, -3), LastUpdated: base},
		{ID: "c", Company: "Charlie", Status: models.StatusInterviewing, InterestLevel: 5, AppliedDate: base.AddDate(0, 0, 2), LastUpdated: base.Add(2 * time.Hour)},
	}

	tests := []struct {
		key  SortKey
		want []string
	}{
		{key: SortUpdated, want: []string{"c", "b", "a"}},
		{key: SortAppliedNewest, want: []string{"c", "b", "a"}},
		{key: SortAppliedOldest, want: []string{"a", "b", "c"}},
		{key: SortCompany, want: []string{"a", "b", "c"}},
		{key: SortInterest, want: []string{"a", "c", "b"}},
		{key: SortStatus, want: []string{"a", "c", "b"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := jobIDs(Sort(jobs, tt.key))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Sort(%s) = %v, expected %v", tt.key, got, tt.want)
			}
		})
	}
	if jobs[0].ID != "b" {
		t.Error("Sort mutated its input")
	}
}

func TestParseSortKey(t *testing.T) {
	if k, err := ParseSortKey(""); err != nil || k != SortUpdated {
		t.Errorf("blank key = %q, %v", k, err)
	}
	if k, err := ParseSortKey("Company"); err != nil || k != SortCompany {
		t.Errorf("Company = %q, %v", k, err)
	}
	if _, err := ParseSortKey("salary"); !errors.Is(err, models.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestBuildDashboard(t *testing.T) {
	now := time.Date(2024, time.January, 25, 12, 0, 0, 0, time.UTC)
	applied := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	jobs := []models.JobApplication{
		{
			ID: "1", Company: "Acme", Status: models.StatusInterviewing, AppliedDate: applied, LastUpdated: now,
			Stages: []models.InterviewStage{
				st("s1", "2024-01-10", models.StageRecruiterScreen, models.StageCompleted),
				st("s2", "2024-01-20", models.StageTechnical, models.StageScheduled),
			},
		},
		{ID: "2", Company: "Globex", Status: models.StatusApplied, AppliedDate: applied, LastUpdated: applied},
		{ID: "3", Company: "Initech", Status: models.StatusOffer},
		{ID: "4", Company: "Umbrella", Status: models.StatusRejected},
	}

	d := Build(jobs, now, SortUpdated)

	if d.Summary != (models.DashboardMetrics{TotalApplications: 4, ActiveProcess: 2, OfferRate: 50, InterviewingCount: 1}) {
		t.Errorf("Summary = %+v", d.Summary)
	}
	if len(d.Pipeline) != 2 {
		t.Fatalf("expected 2 pipeline rows, got %d", len(d.Pipeline))
	}
	first := d.Pipeline[0]
	if first.Job.ID != "1" || first.CurrentStage != "Round s2" || first.Velocity != 50 || first.DaysActive != 24 {
		t.Errorf("first row = %+v", first)
	}
	if d.Pipeline[1].CurrentStage != "Application Review" {
		t.Errorf("default stage label = %q", d.Pipeline[1].CurrentStage)
	}
}
