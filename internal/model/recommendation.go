package model

import (
	"math"

	"github.com/Veraticus/soilsense/internal/common"
)

// FertilizerCandidate is one option in a comparison.
type FertilizerCandidate struct {
	Type             FertilizerType `json:"type" yaml:"type"`
	Name             string         `json:"name" yaml:"name"`
	Texture          Texture        `json:"texture,omitempty" yaml:"texture"`
	Rate             float64        `json:"rate_lbs_per_acre" yaml:"rate"`
	FrequencyPerYear float64        `json:"frequency_per_year" yaml:"frequency"`
}

// Plan converts the candidate into an application plan.
func (c FertilizerCandidate) Plan() ApplicationPlan {
	return ApplicationPlan{Rate: c.Rate, FrequencyPerYear: c.FrequencyPerYear, Texture: c.Texture}
}

// RankedAssessment is an assessment positioned within a comparison.
type RankedAssessment struct {
	SoilHealthAssessment
	BetterAlternatives []string `json:"better_alternatives"`
	Rank               int      `json:"rank"`
}

// PriorityWeights expresses how much a farmer values each outcome.
type PriorityWeights struct {
	SoilHealth float64 `json:"soil_health" yaml:"soil_health"`
}

// Validate checks weights are within [0, 1].
func (w PriorityWeights) Validate() error {
	if math.IsNaN(w.SoilHealth) || w.SoilHealth < 0 || w.SoilHealth > 1 {
		return common.InvalidInputf("soil health priority weight must be within [0, 1], got %v", w.SoilHealth)
	}
	return nil
}

// CategoryLeaders names the best candidate for each soil health dimension.
type CategoryLeaders struct {
	BestOrganicMatterBuilder string `json:"best_organic_matter_builder"`
	BestPHStability          string `json:"best_ph_stability"`
	BestMicrobialSupport     string `json:"best_microbial_support"`
	BestStructure            string `json:"best_structure"`
}

// RecommendationPayload is the priority-weighted recommendation across candidates.
type RecommendationPayload struct {
	RecommendedFertilizer string          `json:"recommended_fertilizer"`
	FertilizerKey         string          `json:"fertilizer_key"`
	OverallRating         HealthRating    `json:"overall_rating"`
	RiskLevel             RiskLevel       `json:"risk_level"`
	PriorityEmphasis      string          `json:"priority_emphasis"`
	Summary               string          `json:"summary"`
	CategoryLeaders       CategoryLeaders `json:"category_leaders"`
	MonitoringPlan        MonitoringPlan  `json:"monitoring_plan"`
	Rationale             []string        `json:"rationale"`
	KeyConcerns           []string        `json:"key_concerns"`
	RemediationSummary    []string        `json:"remediation_summary"`
	Alternatives          []string        `json:"alternatives"`
	Rankings              []RankedSummary `json:"rankings"`
	SoilHealthScore       float64         `json:"soil_health_score"`
	PriorityWeight        float64         `json:"priority_weight"`
	WeightedScore         float64         `json:"weighted_score"`
	Confidence            float64         `json:"confidence_score"`
}

// RankedSummary is a compact row of a comparison.
type RankedSummary struct {
	Name      string       `json:"name"`
	Rating    HealthRating `json:"rating"`
	RiskLevel RiskLevel    `json:"risk_level"`
	Rank      int          `json:"rank"`
	Score     float64      `json:"score"`
}
