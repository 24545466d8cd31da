// Package calendar projects dated interview stages onto a month grid.
package calendar

import (
	"time"

	"github.com/khrees2412/pipeliner/pkg/models"
)

// Event is one stage occurring on a given day
type Event struct {
	JobID     string             `json:"jobId"`
	Company   string             `json:"company"`
	JobTitle  string             `json:"jobTitle"`
	StageName string             `json:"stageName"`
	Status    models.StageStatus `json:"status"`
	Date      string             `json:"date"`
}

type Cell struct {
	Day     int     `json:"day"`
	IsToday bool    `json:"isToday"`
	Events  []Event `json:"events"`
}

// Month is the grid model for one calendar month. LeadingBlanks is the
// number of empty cells before day 1 in a Sunday-first week.
type Month struct {
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	LeadingBlanks int        `json:"leadingBlanks"`
	Days          []Cell     `json:"days"`
}

// EventsForMonth buckets every stage dated within year/month by day of
// month. Events keep job order, then stage order within a job.
func EventsForMonth(jobs []models.JobApplication, year int, month time.Month) map[int][]Event {
	events := make(map[int][]Event)
	for _, j := range jobs {
		for _, s := range j.Stages {
			d, ok := models.ParseDay(s.Date)
			if !ok || d.Year != year || d.Month != month {
				continue
			}
			events[d.Day] = append(events[d.Day], Event{
				JobID:     j.ID,
				Company:   j.Company,
				JobTitle:  j.Title,
				StageName: s.Name,
				Status:    s.Status,
				Date:      d.String(),
			})
		}
	}
	return events
}

// LeadingBlanks is the weekday index (0 = Sunday) of the first of the month
func LeadingBlanks(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 12, 0, 0, 0, time.UTC).Weekday())
}

func DaysIn(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

// IsToday compares against the calendar date of now in now's own location
func IsToday(year int, month time.Month, day int, now time.Time) bool {
	return models.DayOf(now) == models.Day{Year: year, Month: month, Day: day}
}

func Project(jobs []models.JobApplication, year int, month time.Month, now time.Time) Month {
	events := EventsForMonth(jobs, year, month)
	n := DaysIn(year, month)
	m := Month{
		Year:          year,
		Month:         month,
		LeadingBlanks: LeadingBlanks(year, month),
		Days:          make([]Cell, 0, n),
	}
	for day := 1; day <= n; day++ {
		m.Days = append(m.Days, Cell{
			Day:     day,
			IsToday: IsToday(year, month, day, now),
			Events:  events[day],
		})
	}
	return m
}

// Shift moves delta months forward (or backward when negative)
func Shift(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month+time.Month(delta), 1, 12, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}
