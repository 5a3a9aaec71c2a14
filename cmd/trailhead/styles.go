package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/trailgoods/trailhead/internal/model"
)

var (
	successColor = lipgloss.Color("#22C55E")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	accentColor  = lipgloss.Color("#06B6D4")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 2)

	pendingBadge = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	approvedBadge = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	rejectedBadge = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)

func statusBadge(status string) string {
	switch status {
	case model.StatusApproved:
		return approvedBadge.Render("approved")
	case model.StatusRejected:
		return rejectedBadge.Render("rejected")
	default:
		return pendingBadge.Render("pending")
	}
}
