package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khrees2412/pipeliner/internal/database"
	"github.com/khrees2412/pipeliner/internal/tracker"
	"github.com/khrees2412/pipeliner/pkg/models"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeExtractor struct {
	err error
}

func (f fakeExtractor) Extract(ctx context.Context, text string) (*models.Extraction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Extraction{Company: "Initech", Title: "Group PM", SuggestedStages: []string{"Intro call"}}, nil
}

func setupRouter(t *testing.T, opts ...tracker.Option) (*gin.Engine, *tracker.Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	repo := database.NewRepository(db)
	t.Cleanup(func() { repo.Close() })

	opts = append([]tracker.Option{tracker.WithLogger(quiet)}, opts...)
	session := tracker.New(repo, opts...)
	if err := session.Open(context.Background()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return NewRouter(session, quiet), session
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func createJob(t *testing.T, r http.Handler, company string) models.JobApplication {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/v1/jobs", CreateJobRequest{Company: company, Title: "Senior PM", InterestLevel: 4})
	if w.Code != http.StatusCreated {
		t.Fatalf("create job: %d %s", w.Code, w.Body.String())
	}
	return decode[models.JobApplication](t, w)
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter(t)
	w := do(t, r, http.MethodGet, "/api/v1/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestJobLifecycle(t *testing.T) {
	r, _ := setupRouter(t)

	job := createJob(t, r, "Acme")
	if job.Status != models.StatusApplied || job.InterestLevel != 4 {
		t.Errorf("created job = %+v", job)
	}

	w := do(t, r, http.MethodGet, "/api/v1/jobs/"+job.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: %d", w.Code)
	}

	w = do(t, r, http.MethodPatch, "/api/v1/jobs/"+job.ID+"/status", StatusRequest{Status: "interviewing"})
	if w.Code != http.StatusOK || decode[models.JobApplication](t, w).Status != models.StatusInterviewing {
		t.Errorf("set status: %d %s", w.Code, w.Body.String())
	}

	job.Location = "Remote"
	w = do(t, r, http.MethodPut, "/api/v1/jobs/"+job.ID, job)
	if w.Code != http.StatusOK || decode[models.JobApplication](t, w).Location != "Remote" {
		t.Errorf("update: %d %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodDelete, "/api/v1/jobs/"+job.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete: %d", w.Code)
	}
	w = do(t, r, http.MethodGet, "/api/v1/jobs/"+job.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete: %d", w.Code)
	}
}

func TestStageRoutes(t *testing.T) {
	r, _ := setupRouter(t)
	job := createJob(t, r, "Acme")
	base := "/api/v1/jobs/" + job.ID + "/stages"

	w := do(t, r, http.MethodPost, base, AddStageRequest{Name: "Recruiter", Type: "Recruiter Screen", Date: "2024-03-05"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add stage: %d %s", w.Code, w.Body.String())
	}
	stage := decode[models.JobApplication](t, w).Stages[0]

	status, notes := "Completed", "went well"
	w = do(t, r, http.MethodPatch, base+"/"+stage.ID, UpdateStageRequest{Status: &status, Notes: &notes})
	if w.Code != http.StatusOK {
		t.Fatalf("update stage: %d %s", w.Code, w.Body.String())
	}
	got := decode[models.JobApplication](t, w).Stages[0]
	if got.Status != models.StageCompleted || got.Notes != "went well" || got.Name != "Recruiter" {
		t.Errorf("stage = %+v", got)
	}

	bad := "Maybe"
	w = do(t, r, http.MethodPatch, base+"/"+stage.ID, UpdateStageRequest{Status: &bad})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid stage status: %d", w.Code)
	}

	w = do(t, r, http.MethodDelete, base+"/"+stage.ID, nil)
	if w.Code != http.StatusOK || len(decode[models.JobApplication](t, w).Stages) != 0 {
		t.Errorf("remove stage: %d %s", w.Code, w.Body.String())
	}
}

func TestDuplicateStageIDsAreBadRequest(t *testing.T) {
	r, _ := setupRouter(t)
	job := createJob(t, r, "Acme")
	job.Stages = []models.InterviewStage{
		{ID: "s1", Name: "Screen", Status: models.StagePending, Type: models.StageRecruiterScreen},
		{ID: "s1", Name: "Onsite", Status: models.StagePending, Type: models.StageOnsite},
	}

	w := do(t, r, http.MethodPut, "/api/v1/jobs/"+job.ID, job)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if got := decode[ErrorResponse](t, w).Error.Code; got != "invalid_argument" {
		t.Errorf("error code = %q", got)
	}
}

func TestUpdateJobAcceptsDateOnly(t *testing.T) {
	r, _ := setupRouter(t)
	job := createJob(t, r, "Acme")

	body := map[string]any{
		"company": "Acme", "title": "Senior PM", "status": "Applied", "source": "Applied",
		"interestLevel": 4, "stages": []any{}, "appliedDate": "2024-01-01",
	}
	w := do(t, r, http.MethodPut, "/api/v1/jobs/"+job.ID, body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if got := models.DayOf(decode[models.JobApplication](t, w).AppliedDate.UTC()).String(); got != "2024-01-01" {
		t.Errorf("appliedDate day = %s", got)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		opts     []tracker.Option
		method   string
		path     string
		body     any
		expected int
		code     string
	}{
		{name: "unknown job", method: http.MethodGet, path: "/api/v1/jobs/nope", expected: http.StatusNotFound, code: "not_found"},
		{name: "bad sort key", method: http.MethodGet, path: "/api/v1/jobs?sort=salary", expected: http.StatusBadRequest, code: "invalid_argument"},
		{name: "missing fields", method: http.MethodPost, path: "/api/v1/jobs", body: map[string]string{"company": "Acme"}, expected: http.StatusBadRequest, code: "invalid_request"},
		{name: "bad status", method: http.MethodPost, path: "/api/v1/jobs", body: CreateJobRequest{Company: "Acme", Title: "PM", Status: "Ghosted"}, expected: http.StatusBadRequest, code: "invalid_argument"},
		{name: "bad month", method: http.MethodGet, path: "/api/v1/calendar?year=2024&month=13", expected: http.StatusBadRequest, code: "invalid_argument"},
		{name: "no extractor", method: http.MethodPost, path: "/api/v1/jobs/extract", body: ExtractJobRequest{Text: "posting"}, expected: http.StatusServiceUnavailable, code: "not_configured"},
		{name: "no scanner", method: http.MethodPost, path: "/api/v1/inbox/scan", expected: http.StatusServiceUnavailable, code: "not_configured"},
		{
			name:     "extraction failure",
			opts:     []tracker.Option{tracker.WithExtractor(fakeExtractor{err: errors.New("quota exceeded")})},
			method:   http.MethodPost,
			path:     "/api/v1/jobs/extract",
			body:     ExtractJobRequest{Text: "posting"},
			expected: http.StatusBadGateway,
			code:     "upstream_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := setupRouter(t, tt.opts...)
			w := do(t, r, tt.method, tt.path, tt.body)
			if w.Code != tt.expected {
				t.Fatalf("status = %d, expected %d: %s", w.Code, tt.expected, w.Body.String())
			}
			if got := decode[ErrorResponse](t, w).Error.Code; got != tt.code {
				t.Errorf("error code = %q, expected %q", got, tt.code)
			}
		})
	}
}

func TestExtractJob(t *testing.T) {
	r, session := setupRouter(t, tracker.WithExtractor(fakeExtractor{}))
	w := do(t, r, http.MethodPost, "/api/v1/jobs/extract", ExtractJobRequest{Text: "Initech is hiring", URL: "https://initech.example"})
	if w.Code != http.StatusCreated {
		t.Fatalf("extract: %d %s", w.Code, w.Body.String())
	}
	job := decode[models.JobApplication](t, w)
	if job.Company != "Initech" || job.Status != models.StatusWishlist || len(job.Stages) != 1 {
		t.Errorf("job = %+v", job)
	}
	if len(session.Jobs()) != 1 {
		t.Error("job not added to session")
	}
}

func TestDashboardAndSearch(t *testing.T) {
	r, _ := setupRouter(t)
	createJob(t, r, "Acme")
	createJob(t, r, "Globex")

	w := do(t, r, http.MethodGet, "/api/v1/jobs?q=glob&sort=company", nil)
	jobs := decode[[]models.JobApplication](t, w)
	if len(jobs) != 1 || jobs[0].Company != "Globex" {
		t.Errorf("search = %+v", jobs)
	}

	w = do(t, r, http.MethodGet, "/api/v1/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: %d", w.Code)
	}
	var d struct {
		Summary models.DashboardMetrics `json:"summary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	if d.Summary.TotalApplications != 2 || d.Summary.ActiveProcess != 2 {
		t.Errorf("summary = %+v", d.Summary)
	}

	w = do(t, r, http.MethodGet, "/api/v1/calendar?year=2024&month=3", nil)
	var m struct {
		LeadingBlanks int `json:"leadingBlanks"`
		Days          []struct {
			Day int `json:"day"`
		} `json:"days"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if m.LeadingBlanks != 5 || len(m.Days) != 31 {
		t.Errorf("calendar = %+v blanks, %d days", m.LeadingBlanks, len(m.Days))
	}
}

func TestApplySuggestion(t *testing.T) {
	r, _ := setupRouter(t)
	job := createJob(t, r, "Acme Corp")

	w := do(t, r, http.MethodPost, "/api/v1/inbox/apply", models.Suggestion{Company: "acme", NewStatus: models.StatusOffer})
	if w.Code != http.StatusOK {
		t.Fatalf("apply: %d %s", w.Code, w.Body.String())
	}
	resp := decode[ApplyResponse](t, w)
	if resp.Created || resp.Job.ID != job.ID || resp.Job.Status != models.StatusOffer {
		t.Errorf("response = %+v", resp)
	}

	w = do(t, r, http.MethodPost, "/api/v1/inbox/apply", models.Suggestion{Company: "Hooli", NewStatus: models.StatusRejected, Reason: "not moving forward"})
	if w.Code != http.StatusCreated || !decode[ApplyResponse](t, w).Created {
		t.Errorf("apply new: %d %s", w.Code, w.Body.String())
	}
}

func TestServeShutsDown(t *testing.T) {
	r, _ := setupRouter(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", r, quiet) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
