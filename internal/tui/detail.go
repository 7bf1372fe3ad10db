package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/robby/epicreport/internal/domain"
)

// renderDetail renders the selected row's epic and child in a bordered panel.
func renderDetail(row domain.Row, width int) string {
	inner := max(width-4, 20) // Border + padding

	var b strings.Builder
	b.WriteString(detailTitleStyle.Render(wordwrap.String(row.Epic.Key+"  "+row.Epic.Title, inner)))
	b.WriteString("\n")
	writeField(&b, "SVP", domain.Value(row.Epic.SVP))
	b.WriteString("\n")

	b.WriteString(detailTitleStyle.Render(wordwrap.String(row.Type+" "+row.Child.Key+"  "+row.Child.Title, inner)))
	b.WriteString("\n")
	if row.Type == domain.RowTypeSCR {
		writeField(&b, "Reporter", domain.Value(row.Child.Reporter))
	}
	b.WriteString(detailLabelStyle.Render("Status:   "))
	b.WriteString(statusStyle(row.Child.Status).Render(row.Child.Status))
	b.WriteString("\n")
	writeField(&b, "Created", row.Child.Created)
	writeField(&b, "Resolved", domain.Value(row.Child.Resolved))

	return panelBorderStyle.Width(inner + 2).Render(strings.TrimRight(b.String(), "\n"))
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		value = "-"
	}
	b.WriteString(detailLabelStyle.Render(label + ":"))
	b.WriteString(strings.Repeat(" ", max(10-len(label)-1, 1)))
	b.WriteString(detailValueStyle.Render(value))
	b.WriteString("\n")
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case domain.StatusDone:
		return statusDoneStyle
	case domain.StatusRejected:
		return statusRejectedStyle
	default:
		return detailValueStyle
	}
}
