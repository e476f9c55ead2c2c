// Package styles renders run summaries for the terminal.
package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"managerof/internal/application/commands"
)

// ExportSummary renders the outcome of an export run
func ExportSummary(r *commands.ExportResult) string {
	if r.Document == nil {
		return Warn(r.Message)
	}

	s := r.Stats
	rows := []string{
		row("Records found", fmt.Sprint(s.Records)),
		row("Edges written", fmt.Sprint(s.Edges)),
		row("Skipped", skipped(s.Skipped(), s.MissingIdentifier, s.UnresolvableManager, s.Malformed)),
		row("Manager lookups", fmt.Sprint(s.Lookups)),
		row("Output", r.Path),
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		Title.Render("ManagerOf export"),
		strings.Join(rows, "\n"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, Box.Render(body), Success.Render(r.Message))
}

// SeedSummary renders the outcome of a seed run
func SeedSummary(r *commands.SeedResult) string {
	rows := []string{
		row("Users created", fmt.Sprint(r.Created)),
		row("Manager links", fmt.Sprint(r.Linked)),
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		Title.Render("Lab hierarchy"),
		strings.Join(rows, "\n"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, Box.Render(body), Success.Render(r.Message))
}

// Failure renders an error for stderr
func Failure(err error) string {
	return ErrorMsg.Render("Error: ") + err.Error()
}

// Warn renders a non-fatal notice
func Warn(msg string) string {
	return WarningMsg.Render(msg)
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, Label.Render(label), Value.Render(value))
}

func skipped(total, missing, unresolved, malformed int) string {
	if total == 0 {
		return "0"
	}
	return fmt.Sprintf("%d %s", total, MutedText.Render(fmt.Sprintf(
		"(no SID %d, unresolved manager %d, malformed %d)", missing, unresolved, malformed)))
}
