package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khrees2412/pipeliner/internal/applicator"
	"github.com/khrees2412/pipeliner/internal/metrics"
	"github.com/khrees2412/pipeliner/internal/tracker"
	"github.com/khrees2412/pipeliner/pkg/models"
)

type Handler struct {
	session *tracker.Session
	log     *slog.Logger
	now     func() time.Time
}

func NewHandler(session *tracker.Session, log *slog.Logger) *Handler {
	return &Handler{session: session, log: log, now: time.Now}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListJobs is GET /jobs?q=&sort=
func (h *Handler) ListJobs(c *gin.Context) {
	key, err := metrics.ParseSortKey(c.Query("sort"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Search(c.Query("q"), key))
}

// CreateJob is POST /jobs, a manually entered job
func (h *Handler) CreateJob(c *gin.Context) {
	var req CreateJobRequest
	if !h.bind(c, &req) {
		return
	}

	job := applicator.Manual(req.Title, req.Company, req.URL, h.now())
	job.Location = req.Location
	job.Compensation = req.Compensation
	job.Description = req.Description
	if req.ResumeVersion != "" {
		job.ResumeVersion = req.ResumeVersion
	}
	if req.InterestLevel != 0 {
		job.InterestLevel = req.InterestLevel
	}
	if req.Status != "" {
		status, err := models.ParseJobStatus(req.Status)
		if err != nil {
			h.fail(c, err)
			return
		}
		job.Status = status
	}
	if req.Source != "" {
		source, err := models.ParseSource(req.Source)
		if err != nil {
			h.fail(c, err)
			return
		}
		job.Source = source
	}

	created, err := h.session.AddJob(c.Request.Context(), job)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ExtractJob is POST /jobs/extract: pasted posting text becomes a wishlist job
func (h *Handler) ExtractJob(c *gin.Context) {
	var req ExtractJobRequest
	if !h.bind(c, &req) {
		return
	}
	job, err := h.session.AddFromText(c.Request.Context(), req.Text, req.URL)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.session.Job(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// UpdateJob is PUT /jobs/:id with a full record; the path ID wins
func (h *Handler) UpdateJob(c *gin.Context) {
	var job models.JobApplication
	if !h.bind(c, &job) {
		return
	}
	job.ID = c.Param("id")
	updated, err := h.session.UpdateJob(c.Request.Context(), job)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteJob(c *gin.Context) {
	if err := h.session.DeleteJob(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) SetStatus(c *gin.Context) {
	var req StatusRequest
	if !h.bind(c, &req) {
		return
	}
	status, err := models.ParseJobStatus(req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	job, err := h.session.SetStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *Handler) AddStage(c *gin.Context) {
	var req AddStageRequest
	if !h.bind(c, &req) {
		return
	}
	stage := models.InterviewStage{Name: req.Name, Date: req.Date, Notes: req.Notes}
	if req.Type != "" {
		typ, err := models.ParseStageType(req.Type)
		if err != nil {
			h.fail(c, err)
			return
		}
		stage.Type = typ
	}
	if req.Status != "" {
		status, err := models.ParseStageStatus(req.Status)
		if err != nil {
			h.fail(c, err)
			return
		}
		stage.Status = status
	}

	job, err := h.session.AddStage(c.Request.Context(), c.Param("id"), stage)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// UpdateStage is PATCH /jobs/:id/stages/:stageId. Present fields are
// applied together in one write; an unknown stage leaves the job unchanged.
func (h *Handler) UpdateStage(c *gin.Context) {
	var req UpdateStageRequest
	if !h.bind(c, &req) {
		return
	}

	changes := tracker.StageChanges{Name: req.Name, Date: req.Date, Notes: req.Notes}
	if req.Status != nil {
		status, err := models.ParseStageStatus(*req.Status)
		if err != nil {
			h.fail(c, err)
			return
		}
		changes.Status = &status
	}

	job, err := h.session.UpdateStage(c.Request.Context(), c.Param("id"), c.Param("stageId"), changes)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *Handler) RemoveStage(c *gin.Context) {
	job, err := h.session.RemoveStage(c.Request.Context(), c.Param("id"), c.Param("stageId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *Handler) Dashboard(c *gin.Context) {
	key, err := metrics.ParseSortKey(c.Query("sort"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Dashboard(key))
}

// Calendar is GET /calendar?year=&month=, defaulting to the current month
func (h *Handler) Calendar(c *gin.Context) {
	now := h.now()
	year, month := now.Year(), now.Month()
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			h.fail(c, fmt.Errorf("%w: year %q", models.ErrInvalid, v))
			return
		}
		year = y
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			h.fail(c, fmt.Errorf("%w: month %q", models.ErrInvalid, v))
			return
		}
		month = time.Month(m)
	}
	c.JSON(http.StatusOK, h.session.Calendar(year, month))
}

func (h *Handler) ScanInbox(c *gin.Context) {
	suggestions, err := h.session.ScanInbox(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

func (h *Handler) ApplySuggestion(c *gin.Context) {
	var s models.Suggestion
	if !h.bind(c, &s) {
		return
	}
	job, created, err := h.session.ApplySuggestion(c.Request.Context(), s)
	if err != nil {
		h.fail(c, err)
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	c.JSON(code, ApplyResponse{Job: job, Created: created})
}

func (h *Handler) bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "Invalid JSON format: "+err.Error())
		return false
	}
	return true
}

// fail maps sentinel errors onto status codes. Anything unrecognised came
// from a boundary (store, model, mailbox) and is reported as 502.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeError(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, models.ErrInvalid):
		writeError(c, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, models.ErrAlreadyExists):
		writeError(c, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, models.ErrNotConfigured):
		writeError(c, http.StatusServiceUnavailable, "not_configured", err.Error())
	default:
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		writeError(c, http.StatusBadGateway, "upstream_error", err.Error())
	}
}

func writeError(c *gin.Context, code int, kind, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: errorBody{Code: kind, Message: message}})
}
