// Package report renders assessments, rankings and recommendations for the terminal
// using lipgloss.
package report

import (
	"github.com/Veraticus/soilsense/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color (loam brown).
	PrimaryColor = lipgloss.Color("#A0522D")
	// SuccessColor marks favorable findings.
	SuccessColor = lipgloss.Color("#4CAF50")
	// WarningColor marks findings that need attention.
	WarningColor = lipgloss.Color("#FFC107")
	// ErrorColor marks harmful findings.
	ErrorColor = lipgloss.Color("#E53935")
	// SubtleColor indicates less prominent text.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	// HeaderStyle is used for sub-section headings.
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	// BoxStyle is used for bordered summary boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 2)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#333"))

	// TableCellStyle pads table cells.
	TableCellStyle = lipgloss.NewStyle().
			PaddingRight(2)
)

// Icons.
const (
	PositiveIcon = "✓"
	NegativeIcon = "✗"
	WarningIcon  = "⚠"
	SoilIcon     = "🌱"
)

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(title), content))
}

// healthStyle colors an overall rating.
func healthStyle(r model.HealthRating) lipgloss.Style {
	switch r {
	case model.HealthExcellent, model.HealthGood:
		return SuccessStyle
	case model.HealthFair:
		return WarningStyle
	default:
		return ErrorStyle
	}
}

func ratingStyle(r model.Rating) lipgloss.Style {
	switch r {
	case model.RatingExcellent, model.RatingGood:
		return SuccessStyle
	case model.RatingNeutral:
		return SubtleStyle
	case model.RatingConcerning:
		return WarningStyle
	default:
		return ErrorStyle
	}
}

func riskStyle(r model.RiskLevel) lipgloss.Style {
	switch r {
	case model.RiskLow:
		return SuccessStyle
	case model.RiskMedium:
		return WarningStyle
	default:
		return ErrorStyle.Bold(true)
	}
}
