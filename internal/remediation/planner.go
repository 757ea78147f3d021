// Package remediation scores an assessed fertilizer plan, grades its risk and builds
// costed remediation strategies and a monitoring plan.
package remediation

import (
	"fmt"
	"math"
	"sort"

	"github.com/Veraticus/soilsense/internal/model"
	"github.com/shopspring/decimal"
)

// Weights of each component in the overall soil health score.
const (
	organicMatterWeight = 0.30
	phWeight            = 0.25
	microbialWeight     = 0.25
	structureWeight     = 0.20
)

// Issues targeted by remediation strategies.
const (
	IssueAcidification         = "soil_acidification"
	IssueOrganicMatter         = "organic_matter_depletion"
	IssueMicrobialSuppression  = "microbial_suppression"
	IssueStructuralDegradation = "structural_degradation"
)

const (
	urgencyUrgent     = "urgent"
	urgencyPreventive = "preventive"
)

// Config holds the agronomic targets used for remediation.
type Config struct {
	TargetPH           float64
	CriticalPHFloor    float64
	LimeTonsPerPHUnit  float64
	LimeCostPerTonLow  decimal.Decimal
	LimeCostPerTonHigh decimal.Decimal
}

// DefaultConfig returns standard lime targets and prices.
func DefaultConfig() Config {
	return Config{
		TargetPH:           6.5,
		CriticalPHFloor:    6.0,
		LimeTonsPerPHUnit:  2,
		LimeCostPerTonLow:  decimal.NewFromInt(40),
		LimeCostPerTonHigh: decimal.NewFromInt(60),
	}
}

// Result is the planner output folded into a SoilHealthAssessment.
type Result struct {
	MonitoringPlan        model.MonitoringPlan
	OverallRating         model.HealthRating
	RiskLevel             model.RiskLevel
	PositiveImpacts       []string
	NegativeImpacts       []string
	NeutralImpacts        []string
	CriticalConcerns      []string
	RemediationStrategies []model.RemediationStrategy
	OverallScore          float64
}

// Planner derives risk, remediation and monitoring from component projections.
type Planner struct {
	cfg Config
}

// NewPlanner creates a planner.
func NewPlanner(cfg Config) *Planner {
	return &Planner{cfg: cfg}
}

// Plan evaluates a partially built assessment whose component and temporal sections are
// populated.
func (p *Planner) Plan(a model.SoilHealthAssessment) Result {
	score := OverallScore(a)
	concerns := CriticalConcerns(a)
	risk := riskLevel(concerns, a.Temporal.Trajectory)

	r := Result{
		OverallScore:     score,
		OverallRating:    model.HealthRatingFor(score),
		RiskLevel:        risk,
		CriticalConcerns: concerns,
	}
	r.PositiveImpacts, r.NegativeImpacts, r.NeutralImpacts = narratives(a)
	r.RemediationStrategies = p.strategies(a)
	r.MonitoringPlan = monitoringPlan(a, risk, r.RemediationStrategies)
	return r
}

// OverallScore is the weighted 0-100 soil health score.
func OverallScore(a model.SoilHealthAssessment) float64 {
	om := float64(a.OrganicMatter.Ratings.LongTerm.Score()) * 20
	ph := float64(a.PH.Scores.MediumTerm) * 20
	microbial := a.Microbial.DiversityScore * 10
	structure := float64(a.Structure.Ratings.LongTerm.Score()) * 20

	score := om*organicMatterWeight + ph*phWeight + microbial*microbialWeight + structure*structureWeight
	if math.IsNaN(score) {
		return 0
	}
	return math.Round(math.Max(0, math.Min(100, score))*10) / 10
}

// CriticalConcerns lists the findings that escalate risk.
func CriticalConcerns(a model.SoilHealthAssessment) []string {
	concerns := []string{}
	if a.PH.AcidificationPotential == model.PotentialVeryHigh {
		concerns = append(concerns, "Very high acidification potential")
	}
	if a.Microbial.DiversityScore < 4 {
		concerns = append(concerns, fmt.Sprintf("Microbial diversity score %.1f is below 4", a.Microbial.DiversityScore))
	}
	if a.Temporal.Sustainability == model.Unsustainable {
		concerns = append(concerns, "Long-term trajectory is unsustainable")
	}
	if a.Structure.Stability == model.StabilityPoor {
		concerns = append(concerns, "Poor structural stability")
	}
	return concerns
}

func riskLevel(concerns []string, trajectory model.Trajectory) model.RiskLevel {
	switch {
	case len(concerns) >= 2:
		return model.RiskCritical
	case len(concerns) == 1:
		return model.RiskHigh
	case trajectory == model.TrajectoryDeclining:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// LimeRate is the agricultural lime needed to restore the target pH, in tons/acre.
func (p *Planner) LimeRate(current, projected float64) float64 {
	deficit := math.Max(0, p.cfg.TargetPH-math.Min(current, projected))
	return math.Round(deficit*p.cfg.LimeTonsPerPHUnit*100) / 100
}

func (p *Planner) strategies(a model.SoilHealthAssessment) []model.RemediationStrategy {
	var out []model.RemediationStrategy
	if s, ok := p.acidification(a); ok {
		out = append(out, s)
	}
	if a.OrganicMatter.ContributionLbsPerAcre == 0 || a.OrganicMatter.LongTermChange < 0 {
		out = append(out, organicMatterStrategy(a))
	}
	if a.Microbial.RecoveryMonths > 0 {
		out = append(out, microbialStrategy(a))
	}
	if a.Structure.AggregateStabilityChange < 0 {
		out = append(out, structureStrategy(a))
	}

	sort.SliceStable(out, func(i, j int) bool {
		ui, uj := out[i].Urgency == urgencyUrgent, out[j].Urgency == urgencyUrgent
		if ui != uj {
			return ui
		}
		return out[i].ExpectedImprovementPercent > out[j].ExpectedImprovementPercent
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out
}

func (p *Planner) acidification(a model.SoilHealthAssessment) (model.RemediationStrategy, bool) {
	current := a.PH.CurrentPH
	if !a.PH.RequiresPHManagement && current >= p.cfg.CriticalPHFloor {
		return model.RemediationStrategy{}, false
	}
	lime := p.LimeRate(current, a.PH.ProjectedPH)
	if lime <= 0 {
		return model.RemediationStrategy{}, false
	}

	urgency := urgencyPreventive
	if a.PH.ManagementUrgency == urgencyUrgent || current < p.cfg.CriticalPHFloor {
		urgency = urgencyUrgent
	}
	timeline, improvement := "within 12 months", 60.0
	if urgency == urgencyUrgent {
		timeline, improvement = "before the next planting", 80.0
	}

	tons := decimal.NewFromFloat(lime)
	params := []string{"soil pH", "buffer pH", "base saturation"}
	if current < 5.5 {
		params = append(params, "exchangeable aluminum")
	}

	return model.RemediationStrategy{
		TargetIssue: IssueAcidification,
		Urgency:     urgency,
		Timeline:    timeline,
		Steps: []string{
			fmt.Sprintf("Apply %.2f tons/acre of agricultural lime to reach pH %.1f", lime, p.cfg.TargetPH),
			"Incorporate lime into the top 6 inches before planting",
			"Retest soil pH 6-12 months after liming",
			"Shift part of the nitrogen program to less acidifying sources such as calcium nitrate",
		},
		Cost: model.CostEstimate{
			Low:  tons.Mul(p.cfg.LimeCostPerTonLow).Round(2),
			High: tons.Mul(p.cfg.LimeCostPerTonHigh).Round(2),
			Unit: "USD/acre",
		},
		ExpectedImprovementPercent: improvement,
		Confidence:                 0.85,
		MonitoringParameters:       params,
		LimeRateTonsPerAcre:        lime,
	}, true
}

func organicMatterStrategy(a model.SoilHealthAssessment) model.RemediationStrategy {
	urgency := urgencyPreventive
	if a.OrganicMatter.Ratings.LongTerm == model.RatingPoor {
		urgency = urgencyUrgent
	}
	return model.RemediationStrategy{
		TargetIssue: IssueOrganicMatter,
		Urgency:     urgency,
		Timeline:    "3-5 years",
		Steps: []string{
			"Apply compost at 2-4 tons/acre annually",
			"Plant a cover crop after harvest",
			"Retain crop residues and reduce tillage",
		},
		Cost:                       model.NewCostEstimate(30, 80),
		ExpectedImprovementPercent: 50,
		Confidence:                 0.75,
		MonitoringParameters:       []string{"organic matter %", "active carbon (POXC)", "soil respiration"},
	}
}

func microbialStrategy(a model.SoilHealthAssessment) model.RemediationStrategy {
	urgency := urgencyPreventive
	if a.Microbial.DiversityScore < 4 {
		urgency = urgencyUrgent
	}
	return model.RemediationStrategy{
		TargetIssue: IssueMicrobialSuppression,
		Urgency:     urgency,
		Timeline:    fmt.Sprintf("%d months", a.Microbial.RecoveryMonths),
		Steps: []string{
			"Reduce the synthetic rate by 20-30% and split applications",
			"Add carbon-rich amendments to feed soil biology",
			"Inoculate with mycorrhizal fungi at planting",
		},
		Cost:                       model.NewCostEstimate(15, 45),
		ExpectedImprovementPercent: 40,
		Confidence:                 0.7,
		MonitoringParameters:       []string{"soil respiration", "microbial biomass (PLFA)", "fungal to bacterial ratio"},
	}
}

func structureStrategy(a model.SoilHealthAssessment) model.RemediationStrategy {
	urgency := urgencyPreventive
	if a.Structure.Stability == model.StabilityPoor {
		urgency = urgencyUrgent
	}
	return model.RemediationStrategy{
		TargetIssue: IssueStructuralDegradation,
		Urgency:     urgency,
		Timeline:    "2-4 years",
		Steps: []string{
			"Reduce tillage passes and keep traffic on fixed lanes",
			"Plant deep-rooted cover crops",
			"Apply gypsum at 1-2 tons/acre where salts or sodium are elevated",
		},
		Cost:                       model.NewCostEstimate(20, 60),
		ExpectedImprovementPercent: 35,
		Confidence:                 0.7,
		MonitoringParameters:       []string{"aggregate stability (slake test)", "bulk density", "infiltration rate"},
	}
}

func narratives(a model.SoilHealthAssessment) (positive, negative, neutral []string) {
	positive, negative, neutral = []string{}, []string{}, []string{}

	switch a.OrganicMatter.Effect {
	case model.EffectPositive:
		positive = append(positive, fmt.Sprintf("Builds organic matter by %.3f%% over 15 years", a.OrganicMatter.LongTermChange))
	case model.EffectNegative:
		negative = append(negative, fmt.Sprintf("Depletes organic matter by %.3f%% over 15 years", -a.OrganicMatter.LongTermChange))
	default:
		neutral = append(neutral, "Little direct effect on organic matter")
	}

	switch {
	case a.PH.AcidificationPotential.AtLeast(model.PotentialLow):
		negative = append(negative, fmt.Sprintf("%s acidification potential (%.2f pH units over 5 years)",
			a.PH.AcidificationPotential, a.PH.CumulativeChange))
	case a.PH.Scores.MediumTerm >= 4:
		positive = append(positive, "Keeps soil pH stable or moves it toward the optimum")
	default:
		neutral = append(neutral, "Negligible effect on soil pH")
	}

	switch {
	case a.Microbial.DiversityMultiplier >= 1.1:
		positive = append(positive, fmt.Sprintf("Supports a %s soil food web (diversity %.1f)", a.Microbial.FoodWebHealth, a.Microbial.DiversityScore))
	case a.Microbial.RecoveryMonths > 0:
		negative = append(negative, fmt.Sprintf("Suppresses soil biology (diversity %.1f)", a.Microbial.DiversityScore))
	default:
		neutral = append(neutral, "Minimal effect on the microbial community")
	}

	switch s := a.Structure.AggregateStabilityChange; {
	case s > 0:
		positive = append(positive, fmt.Sprintf("Improves aggregate stability by %.0f%%", s))
	case s < 0:
		negative = append(negative, fmt.Sprintf("Degrades aggregate stability by %.0f%%", -s))
	default:
		neutral = append(neutral, "No measurable change in soil structure")
	}

	return positive, negative, neutral
}

var frequencyByRisk = map[model.RiskLevel]int{
	model.RiskLow:      24,
	model.RiskMedium:   12,
	model.RiskHigh:     6,
	model.RiskCritical: 3,
}

var preventivePractices = []string{
	"Keep living roots in the soil as much of the year as possible",
	"Rotate crops to diversify root exudates",
	"Band or split fertilizer applications to match crop demand",
	"Soil test every field at least every two years",
	"Limit tillage and field traffic on wet soil",
}

func monitoringPlan(a model.SoilHealthAssessment, risk model.RiskLevel, strategies []model.RemediationStrategy) model.MonitoringPlan {
	params := []string{"soil pH", "organic matter %"}
	seen := map[string]bool{"soil pH": true, "organic matter %": true}
	for _, s := range strategies {
		for _, param := range s.MonitoringParameters {
			if !seen[param] {
				seen[param] = true
				params = append(params, param)
			}
		}
	}

	practices := make([]string, 2+risk.Index())
	copy(practices, preventivePractices)

	omFloor := math.Max(1.0, a.Soil.OrganicMatterPercent-0.3)
	return model.MonitoringPlan{
		FrequencyMonths:     frequencyByRisk[risk],
		Parameters:          params,
		PreventivePractices: practices,
		AlertThresholds: map[string]float64{
			"ph_min":             math.Round((5.8+0.1*float64(risk.Index()))*10) / 10,
			"ph_max":             7.5,
			"organic_matter_min": math.Round(omFloor*100) / 100,
			"diversity_min":      4,
		},
	}
}
