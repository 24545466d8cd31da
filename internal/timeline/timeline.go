// Package timeline keeps a job's interview stages ordered and answers what
// the next actionable round is. Every function is pure: inputs are never
// mutated and a fresh slice is returned whenever something changed.
//
// Mutations addressed by stage ID are no-ops when the ID is absent; callers
// that want to report stale references can check Find first.
package timeline

import (
	"math"
	"slices"

	"github.com/google/uuid"
	"github.com/khrees2412/pipeliner/pkg/models"
)

const defaultStageName = "New Round"

// Progress summarizes how many rounds are behind the candidate
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// Sort orders stages by date ascending. Stages without a usable date go
// last, and equal dates keep their input order.
func Sort(stages []models.InterviewStage) []models.InterviewStage {
	out := slices.Clone(stages)
	slices.SortStableFunc(out, compareStages)
	return out
}

func compareStages(a, b models.InterviewStage) int {
	da, okA := models.ParseDay(a.Date)
	db, okB := models.ParseDay(b.Date)
	switch {
	case okA && okB:
		return da.Compare(db)
	case okA:
		return -1
	case okB:
		return 1
	}
	return 0
}

// Find returns the index of the stage with the given ID
func Find(stages []models.InterviewStage, stageID string) (int, bool) {
	i := slices.IndexFunc(stages, func(s models.InterviewStage) bool { return s.ID == stageID })
	return i, i >= 0
}

func update(stages []models.InterviewStage, stageID string, fn func(*models.InterviewStage)) ([]models.InterviewStage, bool) {
	i, ok := Find(stages, stageID)
	if !ok {
		return stages, false
	}
	out := slices.Clone(stages)
	fn(&out[i])
	return out, true
}

// SetDate changes one stage's date and re-sorts the list
func SetDate(stages []models.InterviewStage, stageID, date string) []models.InterviewStage {
	out, ok := update(stages, stageID, func(s *models.InterviewStage) { s.Date = date })
	if !ok {
		return stages
	}
	return Sort(out)
}

func SetStatus(stages []models.InterviewStage, stageID string, status models.StageStatus) []models.InterviewStage {
	out, _ := update(stages, stageID, func(s *models.InterviewStage) { s.Status = status })
	return out
}

func SetNotes(stages []models.InterviewStage, stageID, notes string) []models.InterviewStage {
	out, _ := update(stages, stageID, func(s *models.InterviewStage) { s.Notes = notes })
	return out
}

func Rename(stages []models.InterviewStage, stageID, name string) []models.InterviewStage {
	out, _ := update(stages, stageID, func(s *models.InterviewStage) { s.Name = name })
	return out
}

// Add appends a stage and re-sorts. Blank fields get the defaults of a
// freshly created round: pending, dated today, typed Other.
func Add(stages []models.InterviewStage, stage models.InterviewStage, today models.Day) []models.InterviewStage {
	if stage.ID == "" {
		stage.ID = uuid.NewString()
	}
	if stage.Name == "" {
		stage.Name = defaultStageName
	}
	if stage.Status == "" {
		stage.Status = models.StagePending
	}
	if stage.Type == "" {
		stage.Type = models.StageOther
	}
	if stage.Date == "" {
		stage.Date = today.String()
	}
	out := make([]models.InterviewStage, 0, len(stages)+1)
	out = append(out, stages...)
	out = append(out, stage)
	return Sort(out)
}

// Remove drops the stage with the given ID, if present
func Remove(stages []models.InterviewStage, stageID string) []models.InterviewStage {
	if _, ok := Find(stages, stageID); !ok {
		return stages
	}
	return slices.DeleteFunc(slices.Clone(stages), func(s models.InterviewStage) bool {
		return s.ID == stageID
	})
}

// NextActionable returns the earliest pending or scheduled round. With none
// left it falls back to the chronologically last stage so summaries can show
// the last known state.
func NextActionable(stages []models.InterviewStage) (models.InterviewStage, bool) {
	if len(stages) == 0 {
		return models.InterviewStage{}, false
	}
	sorted := Sort(stages)
	for _, s := range sorted {
		if s.Status.Actionable() {
			return s, true
		}
	}
	return sorted[len(sorted)-1], true
}

// Upcoming returns the earliest actionable round without the fallback
func Upcoming(stages []models.InterviewStage) (models.InterviewStage, bool) {
	for _, s := range Sort(stages) {
		if s.Status.Actionable() {
			return s, true
		}
	}
	return models.InterviewStage{}, false
}

func ProgressOf(stages []models.InterviewStage) Progress {
	p := Progress{Total: len(stages)}
	for _, s := range stages {
		if s.Status.Done() {
			p.Completed++
		}
	}
	p.Percent = Percent(p.Completed, p.Total)
	return p
}

// Percent rounds part/whole to the nearest integer percentage, 0 for an empty whole
func Percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
