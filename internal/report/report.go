package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/soilsense/internal/engine"
	"github.com/Veraticus/soilsense/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Printer writes styled reports to w.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) println(s string) {
	_, _ = fmt.Fprintln(p.w, s)
}

// Assessment prints a full single-fertilizer assessment.
func (p *Printer) Assessment(a model.SoilHealthAssessment) {
	name := a.DisplayName()
	summary := strings.Join([]string{
		fmt.Sprintf("Score:      %s", healthStyle(a.OverallRating).Render(fmt.Sprintf("%.1f (%s)", a.OverallScore, a.OverallRating))),
		fmt.Sprintf("Risk:       %s", riskStyle(a.RiskLevel).Render(string(a.RiskLevel))),
		fmt.Sprintf("Confidence: %.2f", a.Confidence),
		SubtleStyle.Render(fmt.Sprintf("%s, %.0f lbs/acre x%g/yr, %s", a.Fertilizer.Key, a.Application.Rate, a.Application.FrequencyPerYear, a.Fertilizer.Match)),
	}, "\n")
	p.println(RenderBox(SoilIcon+" "+name, summary))

	p.println(HeaderStyle.Render("Outlook"))
	p.println(p.horizonTable(a))

	p.println(HeaderStyle.Render("Key figures"))
	p.println(table([]string{"Measure", "Value"}, [][]string{
		{"OM change (15 yr)", fmt.Sprintf("%+.3f%%", a.OrganicMatter.LongTermChange)},
		{"pH change (5 yr)", fmt.Sprintf("%+.3f", a.PH.CumulativeChange)},
		{"Projected pH (5 yr)", fmt.Sprintf("%.2f", a.PH.ProjectedPH)},
		{"Acidification", string(a.PH.AcidificationPotential)},
		{"Microbial diversity", fmt.Sprintf("%.1f / 10 (%s)", a.Microbial.DiversityScore, a.Microbial.FoodWebHealth)},
		{"Structural stability", string(a.Structure.Stability)},
		{"Trajectory", fmt.Sprintf("%s, %s", a.Temporal.Trajectory, a.Temporal.Sustainability)},
	}))

	p.bullets("Positive impacts", PositiveIcon, SuccessStyle, a.PositiveImpacts)
	p.bullets("Negative impacts", NegativeIcon, ErrorStyle, a.NegativeImpacts)
	p.bullets("Critical concerns", WarningIcon, ErrorStyle.Bold(true), a.CriticalConcerns)

	if len(a.RemediationStrategies) > 0 {
		p.println(HeaderStyle.Render("Remediation"))
		for _, s := range a.RemediationStrategies {
			line := fmt.Sprintf("%d. %s (%s, $%s-$%s/acre)", s.Priority, s.TargetIssue, s.Urgency, s.Cost.Low.StringFixed(2), s.Cost.High.StringFixed(2))
			if s.LimeRateTonsPerAcre > 0 {
				line += fmt.Sprintf(", lime %.2f t/acre", s.LimeRateTonsPerAcre)
			}
			p.println(line)
		}
	}

	plan := a.MonitoringPlan
	p.println(HeaderStyle.Render("Monitoring"))
	p.println(fmt.Sprintf("Every %d months: %s", plan.FrequencyMonths, strings.Join(plan.Parameters, ", ")))

	if len(a.DataQualityNotes) > 0 {
		p.println("")
		for _, n := range a.DataQualityNotes {
			p.println(SubtleStyle.Render("note: " + n))
		}
	}
}

func (p *Printer) horizonTable(a model.SoilHealthAssessment) string {
	ratings := []model.HorizonRatings{a.OrganicMatter.Ratings, a.PH.Ratings, a.Microbial.Ratings, a.Structure.Ratings}
	rows := make([][]string, 0, len(model.Horizons))
	for _, h := range model.Horizons {
		row := []string{h.String()}
		for _, r := range ratings {
			rt := r.At(h)
			row = append(row, ratingStyle(rt).Render(string(rt)))
		}
		c := a.Temporal.CompositeAt(h)
		row = append(row, ratingStyle(c.Rating).Render(fmt.Sprintf("%s (%.2f)", c.Rating, c.Score)))
		rows = append(rows, row)
	}
	return table([]string{"Horizon", "Organic matter", "pH", "Microbial", "Structure", "Composite"}, rows)
}

func (p *Printer) bullets(title, icon string, style lipgloss.Style, items []string) {
	if len(items) == 0 {
		return
	}
	p.println(HeaderStyle.Render(title))
	for _, item := range items {
		p.println(style.Render(icon) + " " + item)
	}
}

// Rankings prints a comparison table.
func (p *Printer) Rankings(ranked []model.RankedAssessment) {
	p.println(TitleStyle.Render(fmt.Sprintf("%s Fertilizer comparison (%d candidates)", SoilIcon, len(ranked))))
	rows := make([][]string, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.Rank),
			r.DisplayName(),
			healthStyle(r.OverallRating).Render(fmt.Sprintf("%.1f", r.OverallScore)),
			string(r.OverallRating),
			riskStyle(r.RiskLevel).Render(string(r.RiskLevel)),
			fmt.Sprintf("%d", len(r.RemediationStrategies)),
		})
	}
	p.println(table([]string{"#", "Fertilizer", "Score", "Rating", "Risk", "Fixes"}, rows))
}

// Recommendation prints an optimization payload.
func (p *Printer) Recommendation(r model.RecommendationPayload) {
	body := []string{
		r.Summary,
		"",
		fmt.Sprintf("Emphasis: %s (weight %.2f), weighted score %.1f", r.PriorityEmphasis, r.PriorityWeight, r.WeightedScore),
	}
	p.println(RenderBox(SoilIcon+" Recommended: "+r.RecommendedFertilizer, strings.Join(body, "\n")))

	p.bullets("Why", PositiveIcon, SuccessStyle, r.Rationale)
	p.bullets("Watch for", WarningIcon, WarningStyle, r.KeyConcerns)
	p.bullets("Remediation", "-", SubtleStyle, r.RemediationSummary)

	l := r.CategoryLeaders
	p.println(HeaderStyle.Render("Category leaders"))
	p.println(table([]string{"Category", "Fertilizer"}, [][]string{
		{"Organic matter", l.BestOrganicMatterBuilder},
		{"pH stability", l.BestPHStability},
		{"Microbial support", l.BestMicrobialSupport},
		{"Structure", l.BestStructure},
	}))

	if len(r.Rankings) > 1 {
		rows := make([][]string, 0, len(r.Rankings))
		for _, s := range r.Rankings {
			rows = append(rows, []string{fmt.Sprintf("%d", s.Rank), s.Name, fmt.Sprintf("%.1f", s.Score), string(s.RiskLevel)})
		}
		p.println(HeaderStyle.Render("All candidates"))
		p.println(table([]string{"#", "Fertilizer", "Score", "Risk"}, rows))
	}
}

// Fertilizers prints the knowledge base profiles, sorted by key.
func (p *Printer) Fertilizers(profiles []model.FertilizerProfile) {
	sorted := append([]model.FertilizerProfile(nil), profiles...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	rows := make([][]string, 0, len(sorted))
	for _, f := range sorted {
		rows = append(rows, []string{
			f.Key,
			f.Name,
			string(f.Type),
			string(f.PrimaryNutrient),
			fmt.Sprintf("%+.2f", f.AcidifyingCoefficient),
			string(f.MicrobialCategory),
		})
	}
	p.println(table([]string{"Key", "Name", "Type", "Nutrient", "Acidifying", "Microbial"}, rows))
}

// History prints stored assessment records.
func (p *Printer) History(records []model.AssessmentRecord) {
	if len(records) == 0 {
		p.println(SubtleStyle.Render("No assessments recorded"))
		return
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.FieldID,
			r.Assessment.DisplayName(),
			fmt.Sprintf("%.1f", r.Assessment.OverallScore),
			string(r.Assessment.RiskLevel),
			r.ID,
		})
	}
	p.println(table([]string{"Date", "Field", "Fertilizer", "Score", "Risk", "ID"}, rows))
}

// Batch prints the best candidate per field and the run summary.
func (p *Printer) Batch(results []engine.BatchResult, summary *engine.BatchSummary) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		label := r.Field.Name
		if label == "" {
			label = r.Field.ID
		}
		if r.Error != nil {
			rows = append(rows, []string{label, ErrorStyle.Render("failed"), "", r.Error.Error()})
			continue
		}
		top := r.Ranked[0]
		rows = append(rows, []string{
			label,
			top.DisplayName(),
			healthStyle(top.OverallRating).Render(fmt.Sprintf("%.1f", top.OverallScore)),
			riskStyle(top.RiskLevel).Render(string(top.RiskLevel)),
		})
	}
	p.println(table([]string{"Field", "Best fertilizer", "Score", "Risk"}, rows))
	p.println(SubtleStyle.Render(fmt.Sprintf("%d fields: %d assessed, %d failed, %d with high-risk top choice (%s)",
		summary.TotalFields, summary.Assessed, summary.Failed, summary.HighRiskTop, summary.ProcessingTime.Round(time.Millisecond))))
}

// table renders rows as aligned columns under a bordered header.
func table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}

	render := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = TableCellStyle.Width(widths[i] + 2).Render(c)
		}
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, render(headers, TableHeaderStyle))
	for _, row := range rows {
		lines = append(lines, render(row, lipgloss.NewStyle()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
