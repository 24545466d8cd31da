// Package tracker holds the session state behind every surface: the loaded
// job collection plus the store, extractor and inbox scanner it talks to.
//
// Writes go to the store first. The in-memory snapshot only changes once the
// store has accepted a write, so a failed boundary call leaves it untouched.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/khrees2412/pipeliner/internal/applicator"
	"github.com/khrees2412/pipeliner/internal/calendar"
	"github.com/khrees2412/pipeliner/internal/matcher"
	"github.com/khrees2412/pipeliner/internal/metrics"
	"github.com/khrees2412/pipeliner/internal/timeline"
	"github.com/khrees2412/pipeliner/pkg/models"
)

var (
	ErrJobNotFound = fmt.Errorf("job: %w", models.ErrNotFound)
	ErrNoExtractor = fmt.Errorf("extraction: %w", models.ErrNotConfigured)
	ErrNoScanner   = fmt.Errorf("inbox scan: %w", models.ErrNotConfigured)
)

// Store persists job records
type Store interface {
	Create(ctx context.Context, job models.JobApplication) error
	Update(ctx context.Context, job models.JobApplication) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.JobApplication, error)
}

// Watcher is implemented by stores that push the full collection on change
type Watcher interface {
	Watch(ctx context.Context) (<-chan []models.JobApplication, error)
}

type Extractor interface {
	Extract(ctx context.Context, text string) (*models.Extraction, error)
}

type Scanner interface {
	Scan(ctx context.Context) ([]models.Suggestion, error)
}

// Session is safe for concurrent use
type Session struct {
	store     Store
	extractor Extractor
	scanner   Scanner
	log       *slog.Logger
	now       func() time.Time

	mu   sync.RWMutex
	jobs []models.JobApplication

	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Session)

func WithExtractor(e Extractor) Option {
	return func(s *Session) { s.extractor = e }
}

func WithScanner(sc Scanner) Option {
	return func(s *Session) { s.scanner = sc }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func New(store Store, opts ...Option) *Session {
	s := &Session{
		store: store,
		log:   slog.Default(),
		now:   time.Now,
		jobs:  []models.JobApplication{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the collection and, when the store supports it, subscribes to
// remote changes until Close is called or ctx ends.
func (s *Session) Open(ctx context.Context) error {
	jobs, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("load jobs: %w", err)
	}
	s.Replace(jobs)

	w, ok := s.store.(Watcher)
	if !ok {
		return nil
	}
	watchCtx, cancel := context.WithCancel(ctx)
	updates, err := w.Watch(watchCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("subscribe: %w", err)
	}
	s.cancel = cancel
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		for jobs := range updates {
			s.log.Debug("remote change received", "jobs", len(jobs))
			s.Replace(jobs)
		}
	}()
	return nil
}

// Close stops the subscription, if any
func (s *Session) Close() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
}

// Replace swaps the whole snapshot, as delivered by a subscription
func (s *Session) Replace(jobs []models.JobApplication) {
	cloned := cloneJobs(jobs)
	s.mu.Lock()
	s.jobs = cloned
	s.mu.Unlock()
}

// Jobs returns a copy of the snapshot
func (s *Session) Jobs() []models.JobApplication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneJobs(s.jobs)
}

func (s *Session) Job(id string) (models.JobApplication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.JobApplication{}, ErrJobNotFound
	}
	return s.jobs[i].Clone(), nil
}

// AddJob validates and stores a new job, filling its ID and timestamps
func (s *Session) AddJob(ctx context.Context, job models.JobApplication) (models.JobApplication, error) {
	now := s.now()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.AppliedDate.IsZero() {
		job.AppliedDate = now
	}
	if job.Stages == nil {
		job.Stages = []models.InterviewStage{}
	}
	job.Stages = timeline.Sort(job.Stages)
	job.Touch(now)
	if err := models.Validate(&job); err != nil {
		return models.JobApplication{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Create(ctx, job); err != nil {
		return models.JobApplication{}, fmt.Errorf("create job: %w", err)
	}
	s.jobs = slices.Insert(s.jobs, 0, job.Clone())
	return job, nil
}

// AddFromText runs extraction over pasted text and adds the result as a
// wishlist job. Nothing changes when extraction fails.
func (s *Session) AddFromText(ctx context.Context, text, url string) (models.JobApplication, error) {
	if s.extractor == nil {
		return models.JobApplication{}, ErrNoExtractor
	}
	ext, err := s.extractor.Extract(ctx, text)
	if err != nil {
		s.log.Error("extraction failed", "error", err)
		return models.JobApplication{}, err
	}
	return s.AddJob(ctx, applicator.FromExtraction(*ext, text, url, s.now()))
}

// UpdateJob replaces a stored job with the given record
func (s *Session) UpdateJob(ctx context.Context, job models.JobApplication) (models.JobApplication, error) {
	return s.mutate(ctx, job.ID, func(cur *models.JobApplication) bool {
		stages := job.Stages
		if stages == nil {
			stages = []models.InterviewStage{}
		}
		if job.AppliedDate.IsZero() {
			job.AppliedDate = cur.AppliedDate
		}
		*cur = job
		cur.Stages = timeline.Sort(stages)
		return true
	})
}

func (s *Session) DeleteJob(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrJobNotFound
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	s.jobs = slices.Delete(s.jobs, i, i+1)
	return nil
}

func (s *Session) SetStatus(ctx context.Context, id string, status models.JobStatus) (models.JobApplication, error) {
	if !status.Valid() {
		return models.JobApplication{}, fmt.Errorf("%w: job status %q", models.ErrInvalid, status)
	}
	return s.mutate(ctx, id, func(job *models.JobApplication) bool {
		job.Status = status
		return true
	})
}

// AddStage appends a round; blank fields take the new-round defaults
func (s *Session) AddStage(ctx context.Context, jobID string, stage models.InterviewStage) (models.JobApplication, error) {
	return s.mutate(ctx, jobID, func(job *models.JobApplication) bool {
		job.Stages = timeline.Add(job.Stages, stage, models.DayOf(s.now()))
		return true
	})
}

func (s *Session) RemoveStage(ctx context.Context, jobID, stageID string) (models.JobApplication, error) {
	return s.mutateStage(ctx, jobID, stageID, func(stages []models.InterviewStage) []models.InterviewStage {
		return timeline.Remove(stages, stageID)
	})
}

func (s *Session) SetStageDate(ctx context.Context, jobID, stageID, date string) (models.JobApplication, error) {
	return s.mutateStage(ctx, jobID, stageID, func(stages []models.InterviewStage) []models.InterviewStage {
		return timeline.SetDate(stages, stageID, date)
	})
}

func (s *Session) SetStageStatus(ctx context.Context, jobID, stageID string, status models.StageStatus) (models.JobApplication, error) {
	if !status.Valid() {
		return models.JobApplication{}, fmt.Errorf("%w: stage status %q", models.ErrInvalid, status)
	}
	return s.mutateStage(ctx, jobID, stageID, func(stages []models.InterviewStage) []models.InterviewStage {
		return timeline.SetStatus(stages, stageID, status)
	})
}

func (s *Session) SetStageNotes(ctx context.Context, jobID, stageID, notes string) (models.JobApplication, error) {
	return s.mutateStage(ctx, jobID, stageID, func(stages []models.InterviewStage) []models.InterviewStage {
		return timeline.SetNotes(stages, stageID, notes)
	})
}

func (s *Session) RenameStage(ctx context.Context, jobID, stageID, name string) (models.JobApplication, error) {
	return s.mutateStage(ctx, jobID, stageID, func(stages []models.InterviewStage) []models.InterviewStage {
		return timeline.Rename(stages, stageID, name)
	})
}

// StageChanges lists the fields of one round to change; nil fields are kept
type StageChanges struct {
	Name   *string
	Status *models.StageStatus
	Date   *string
	Notes  *string
}

// UpdateStage applies every present change to one round and stores the job
// in a single write, so a failed store call leaves all fields untouched.
func (s *Session) UpdateStage(ctx context.Context, jobID, stageID string, c StageChanges) (models.JobApplication, error) {
	if c.Status != nil && !c.Status.Valid() {
		return models.JobApplication{}, fmt.Errorf("%w: stage status %q", models.ErrInvalid, *c.Status)
	}
	return s.mutateStage(ctx, jobID, stageID, func(stages []models.InterviewStage) []models.InterviewStage {
		if c.Name != nil {
			stages = timeline.Rename(stages, stageID, *c.Name)
		}
		if c.Status != nil {
			stages = timeline.SetStatus(stages, stageID, *c.Status)
		}
		if c.Notes != nil {
			stages = timeline.SetNotes(stages, stageID, *c.Notes)
		}
		if c.Date != nil {
			stages = timeline.SetDate(stages, stageID, *c.Date)
		}
		return stages
	})
}

// ScanInbox asks the scanner for status suggestions. The snapshot is not
// changed; suggestions are applied one at a time with ApplySuggestion.
func (s *Session) ScanInbox(ctx context.Context) ([]models.Suggestion, error) {
	if s.scanner == nil {
		return nil, ErrNoScanner
	}
	suggestions, err := s.scanner.Scan(ctx)
	if err != nil {
		s.log.Error("inbox scan failed", "error", err)
		return nil, err
	}
	return suggestions, nil
}

// ApplySuggestion updates the job whose company matches the suggestion, or
// creates one. created reports which happened.
func (s *Session) ApplySuggestion(ctx context.Context, sg models.Suggestion) (job models.JobApplication, created bool, err error) {
	if !sg.NewStatus.Valid() {
		return models.JobApplication{}, false, fmt.Errorf("%w: job status %q", models.ErrInvalid, sg.NewStatus)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	job, created = applicator.ApplySuggestion(s.jobs, sg, s.now())
	if created {
		if err := s.store.Create(ctx, job); err != nil {
			return models.JobApplication{}, false, fmt.Errorf("create job: %w", err)
		}
		s.jobs = slices.Insert(s.jobs, 0, job.Clone())
		return job, true, nil
	}
	if err := s.store.Update(ctx, job); err != nil {
		return models.JobApplication{}, false, fmt.Errorf("update job: %w", err)
	}
	s.jobs[s.indexOf(job.ID)] = job.Clone()
	return job, false, nil
}

// Import stores every job, updating those whose ID is already known
func (s *Session) Import(ctx context.Context, jobs []models.JobApplication) (created, updated int, err error) {
	for i := range jobs {
		if jobs[i].Stages == nil {
			jobs[i].Stages = []models.InterviewStage{}
		}
		if err := models.Validate(&jobs[i]); err != nil {
			return 0, 0, fmt.Errorf("job %d: %w", i, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range jobs {
		job = job.Clone()
		job.Stages = timeline.Sort(job.Stages)
		if i := s.indexOf(job.ID); i >= 0 {
			if err := s.store.Update(ctx, job); err != nil {
				return created, updated, fmt.Errorf("update %s: %w", job.ID, err)
			}
			s.jobs[i] = job
			updated++
			continue
		}
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		if err := s.store.Create(ctx, job); err != nil {
			return created, updated, fmt.Errorf("create %s: %w", job.ID, err)
		}
		s.jobs = append(s.jobs, job)
		created++
	}
	return created, updated, nil
}

// Dashboard recomputes every derived view from the snapshot
func (s *Session) Dashboard(key metrics.SortKey) metrics.Dashboard {
	return metrics.Build(s.Jobs(), s.now(), key)
}

func (s *Session) Calendar(year int, month time.Month) calendar.Month {
	return calendar.Project(s.Jobs(), year, month, s.now())
}

// Search filters by company or title and orders the result
func (s *Session) Search(query string, key metrics.SortKey) []models.JobApplication {
	return metrics.Sort(matcher.Filter(s.Jobs(), query), key)
}

// mutate applies fn to a copy of the job and stores it when fn reports a
// change. The snapshot is updated only after the store accepts the write.
func (s *Session) mutate(ctx context.Context, id string, fn func(*models.JobApplication) bool) (models.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.JobApplication{}, ErrJobNotFound
	}
	job := s.jobs[i].Clone()
	if !fn(&job) {
		return job, nil
	}
	job.Touch(s.now())
	if err := models.Validate(&job); err != nil {
		return models.JobApplication{}, err
	}
	if err := s.store.Update(ctx, job); err != nil {
		return models.JobApplication{}, fmt.Errorf("update job: %w", err)
	}
	s.jobs[i] = job.Clone()
	return job, nil
}

// mutateStage is mutate for operations addressed by stage ID. A stage that
// no longer exists is logged and left alone.
func (s *Session) mutateStage(ctx context.Context, jobID, stageID string, fn func([]models.InterviewStage) []models.InterviewStage) (models.JobApplication, error) {
	return s.mutate(ctx, jobID, func(job *models.JobApplication) bool {
		if _, ok := timeline.Find(job.Stages, stageID); !ok {
			s.log.Warn("stage not found", "job", jobID, "stage", stageID)
			return false
		}
		job.Stages = fn(job.Stages)
		return true
	})
}

func (s *Session) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.jobs, func(j models.JobApplication) bool { return j.ID == id })
}

func cloneJobs(jobs []models.JobApplication) []models.JobApplication {
	out := make([]models.JobApplication, len(jobs))
	for i, j := range jobs {
		out[i] = j.Clone()
	}
	return out
}
