package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchKind records how a fertilizer identifier was resolved in the knowledge base.
type MatchKind string

// Resolution tiers, most to least specific.
const (
	MatchExact       MatchKind = "exact"
	MatchComposite   MatchKind = "composite"
	MatchPattern     MatchKind = "pattern"
	MatchTypeDefault MatchKind = "type_default"
)

// Fallback reports whether the profile is a generic stand-in.
func (m MatchKind) Fallback() bool {
	return m == MatchTypeDefault
}

// FertilizerSummary identifies the fertilizer an assessment was computed for.
type FertilizerSummary struct {
	RequestedName string         `json:"requested_name"`
	Key           string         `json:"key"`
	Name          string         `json:"name"`
	Type          FertilizerType `json:"type"`
	Match         MatchKind      `json:"match"`
}

// CostEstimate is a per-acre cost range in US dollars.
type CostEstimate struct {
	Low  decimal.Decimal `json:"low"`
	High decimal.Decimal `json:"high"`
	Unit string          `json:"unit"`
}

// NewCostEstimate builds a USD/acre range.
func NewCostEstimate(low, high float64) CostEstimate {
	return CostEstimate{
		Low:  decimal.NewFromFloat(low).Round(2),
		High: decimal.NewFromFloat(high).Round(2),
		Unit: "USD/acre",
	}
}

// Midpoint is the average of the range.
func (c CostEstimate) Midpoint() decimal.Decimal {
	return c.Low.Add(c.High).Div(decimal.NewFromInt(2)).Round(2)
}

// RemediationStrategy is a costed corrective plan for one negative finding.
type RemediationStrategy struct {
	Cost                       CostEstimate `json:"cost_estimate"`
	TargetIssue                string       `json:"target_issue"`
	Urgency                    string       `json:"urgency"`
	Timeline                   string       `json:"timeline"`
	Steps                      []string     `json:"implementation_steps"`
	MonitoringParameters       []string     `json:"monitoring_parameters"`
	Priority                   int          `json:"priority"`
	ExpectedImprovementPercent float64      `json:"expected_improvement_percent"`
	Confidence                 float64      `json:"confidence"`
	LimeRateTonsPerAcre        float64      `json:"lime_rate_tons_per_acre,omitempty"`
}

// MonitoringPlan lists what to watch after applying the plan.
type MonitoringPlan struct {
	AlertThresholds     map[string]float64 `json:"alert_thresholds"`
	Parameters          []string           `json:"parameters"`
	PreventivePractices []string           `json:"preventive_practices"`
	FrequencyMonths     int                `json:"frequency_months"`
}

// SoilHealthAssessment is the terminal result of assessing one fertilizer plan.
type SoilHealthAssessment struct {
	AssessmentDate        time.Time             `json:"assessment_date"`
	Fertilizer            FertilizerSummary     `json:"fertilizer"`
	Soil                  SoilState             `json:"soil"`
	Application           ApplicationPlan       `json:"application"`
	OrganicMatter         OrganicMatterImpact   `json:"organic_matter"`
	PH                    PHEffects             `json:"ph_effects"`
	Microbial             MicrobialAssessment   `json:"microbial"`
	Structure             StructureEvaluation   `json:"structure"`
	Temporal              TemporalAnalysis      `json:"temporal_analysis"`
	MonitoringPlan        MonitoringPlan        `json:"monitoring_plan"`
	OverallRating         HealthRating          `json:"overall_rating"`
	RiskLevel             RiskLevel             `json:"risk_level"`
	PositiveImpacts       []string              `json:"positive_impacts"`
	NegativeImpacts       []string              `json:"negative_impacts"`
	NeutralImpacts        []string              `json:"neutral_impacts"`
	CriticalConcerns      []string              `json:"critical_concerns"`
	RemediationStrategies []RemediationStrategy `json:"remediation_strategies"`
	DataQualityNotes      []string              `json:"data_quality_notes"`
	OverallScore          float64               `json:"overall_soil_health_score"`
	Confidence            float64               `json:"confidence_score"`
}

// DisplayName is the name callers see in rankings.
func (a SoilHealthAssessment) DisplayName() string {
	if a.Fertilizer.RequestedName != "" {
		return a.Fertilizer.RequestedName
	}
	return a.Fertilizer.Name
}
