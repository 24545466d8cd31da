package cmd

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/khrees2412/pipeliner/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	todayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("12"))

	eventStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("11"))
)

var statusColors = map[models.JobStatus]lipgloss.Color{
	models.StatusWishlist:     lipgloss.Color("8"),
	models.StatusApplied:      lipgloss.Color("12"),
	models.StatusInterviewing: lipgloss.Color("13"),
	models.StatusOffer:        lipgloss.Color("10"),
	models.StatusRejected:     lipgloss.Color("9"),
	models.StatusWithdrawn:    lipgloss.Color("8"),
}

func statusStyle(s models.JobStatus) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(statusColors[s])
}
