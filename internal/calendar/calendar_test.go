package calendar

import (
	"testing"
	"time"

	"github.com/khrees2412/pipeliner/pkg/models"
)

func sampleJobs() []models.JobApplication {
	return []models.JobApplication{
		{
			ID: "j1", Company: "Acme", Title: "PM",
			Stages: []models.InterviewStage{
				{ID: "s1", Name: "Screen", Date: "2024-03-05", Status: models.StageScheduled},
				{ID: "s2", Name: "Onsite", Date: "2024-04-02", Status: models.StagePending},
				{ID: "s3", Name: "Undated", Status: models.StagePending},
			},
		},
		{
			ID: "j2", Company: "Globex", Title: "Senior PM",
			Stages: []models.InterviewStage{
				{ID: "s1", Name: "HM", Date: "2024-03-05T23:30:00-08:00", Status: models.StagePending},
				{ID: "s2", Name: "Bad", Date: "2024-03-99", Status: models.StagePending},
			},
		},
	}
}

func TestEventsForMonth(t *testing.T) {
	events := EventsForMonth(sampleJobs(), 2024, time.March)

	if len(events) != 1 {
		t.Fatalf("expected one populated day, got %d", len(events))
	}
	day5 := events[5]
	if len(day5) != 2 {
		t.Fatalf("expected 2 events on the 5th, got %d", len(day5))
	}
	if day5[0].JobID != "j1" || day5[0].StageName != "Screen" || day5[1].Company != "Globex" {
		t.Errorf("unexpected events: %+v", day5)
	}
	if day5[1].Date != "2024-03-05" {
		t.Errorf("event date = %q, expected the written calendar date", day5[1].Date)
	}
}

func TestLeadingBlanksAndDays(t *testing.T) {
	tests := []struct {
		year   int
		month  time.Month
		blanks int
		days   int
	}{
		{2024, time.March, 5, 31},
		{2024, time.February, 4, 29},
		{2023, time.February, 3, 28},
		{2023, time.October, 0, 31},
		{2024, time.September, 0, 30},
	}
	for _, tt := range tests {
		if got := LeadingBlanks(tt.year, tt.month); got != tt.blanks {
			t.Errorf("LeadingBlanks(%d, %s) = %d, expected %d", tt.year, tt.month, got, tt.blanks)
		}
		if got := DaysIn(tt.year, tt.month); got != tt.days {
			t.Errorf("DaysIn(%d, %s) = %d, expected %d", tt.year, tt.month, got, tt.days)
		}
	}
}

func TestIsToday(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*3600)
	now := time.Date(2024, time.March, 5, 22, 0, 0, 0, loc) // already March 6 in UTC
	if !IsToday(2024, time.March, 5, now) {
		t.Error("expected March 5 to be today in the caller's zone")
	}
	if IsToday(2024, time.March, 6, now) {
		t.Error("March 6 should not be today")
	}
}

func TestProject(t *testing.T) {
	now := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)
	m := Project(sampleJobs(), 2024, time.March, now)

	if m.LeadingBlanks != 5 || len(m.Days) != 31 {
		t.Fatalf("grid = %d blanks, %d days", m.LeadingBlanks, len(m.Days))
	}
	cell := m.Days[4]
	if cell.Day != 5 || !cell.IsToday || len(cell.Events) != 2 {
		t.Errorf("day 5 cell = %+v", cell)
	}
	if m.Days[0].IsToday || len(m.Days[0].Events) != 0 {
		t.Errorf("day 1 cell = %+v", m.Days[0])
	}
}

func TestShift(t *testing.T) {
	tests := []struct {
		year      int
		month     time.Month
		delta     int
		wantYear  int
		wantMonth time.Month
	}{
		{2024, time.March, 1, 2024, time.April},
		{2024, time.December, 1, 2025, time.January},
		{2024, time.January, -1, 2023, time.December},
		{2024, time.March, -14, 2023, time.January},
	}
	for _, tt := range tests {
		y, m := Shift(tt.year, tt.month, tt.delta)
		if y != tt.wantYear || m != tt.wantMonth {
			t.Errorf("Shift(%d, %s, %d) = %d %s", tt.year, tt.month, tt.delta, y, m)
		}
	}
}
