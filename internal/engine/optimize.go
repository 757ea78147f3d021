package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/Veraticus/soilsense/internal/model"
)

// Priority emphasis bands for the soil health weight.
const (
	emphasisSoilHealth = "soil_health"
	emphasisBalanced   = "balanced"
	emphasisProduction = "production"
)

// OptimizeRecommendation compares the candidates and blends the best one into a single
// recommendation weighted by the farmer's soil health priority.
func (e *Engine) OptimizeRecommendation(ctx context.Context, candidates []model.FertilizerCandidate, soil model.SoilState, conditions *model.FieldConditions, weights model.PriorityWeights) (model.RecommendationPayload, error) {
	if err := weights.Validate(); err != nil {
		return model.RecommendationPayload{}, err
	}

	ranked, labels, err := e.compare(ctx, candidates, soil, conditions)
	if err != nil {
		return model.RecommendationPayload{}, err
	}
	top := ranked[0]

	p := model.RecommendationPayload{
		RecommendedFertilizer: labels[0],
		FertilizerKey:         top.Fertilizer.Key,
		OverallRating:         top.OverallRating,
		RiskLevel:             top.RiskLevel,
		PriorityEmphasis:      emphasis(weights.SoilHealth),
		CategoryLeaders:       categoryLeaders(ranked, labels),
		MonitoringPlan:        top.MonitoringPlan,
		SoilHealthScore:       top.OverallScore,
		PriorityWeight:        weights.SoilHealth,
		WeightedScore:         math.Round(top.OverallScore*weights.SoilHealth*10) / 10,
		Confidence:            top.Confidence,
		Rationale:             []string{},
		KeyConcerns:           []string{},
		RemediationSummary:    []string{},
		Alternatives:          []string{},
	}
	p.Summary = fmt.Sprintf("%s is recommended: %s soil health (%.1f/100) with %s risk",
		p.RecommendedFertilizer, top.OverallRating, top.OverallScore, top.RiskLevel)

	p.Rationale = append(p.Rationale,
		fmt.Sprintf("Ranked 1 of %d candidates on overall soil health score", len(ranked)))
	if p.PriorityEmphasis == emphasisSoilHealth {
		p.Rationale = append(p.Rationale, "Soil health is the dominant priority; long-term soil building outweighs short-term nutrient cost")
	}
	p.Rationale = append(p.Rationale, top.PositiveImpacts...)

	p.KeyConcerns = append(p.KeyConcerns, top.CriticalConcerns...)
	p.KeyConcerns = append(p.KeyConcerns, top.NegativeImpacts...)

	for _, s := range top.RemediationStrategies {
		p.RemediationSummary = append(p.RemediationSummary,
			fmt.Sprintf("%d. %s (%s, %s)", s.Priority, s.TargetIssue, s.Urgency, s.Timeline))
	}

	p.Rankings = make([]model.RankedSummary, 0, len(ranked))
	for i, r := range ranked {
		p.Rankings = append(p.Rankings, model.RankedSummary{
			Name:      labels[i],
			Rating:    r.OverallRating,
			RiskLevel: r.RiskLevel,
			Rank:      r.Rank,
			Score:     r.OverallScore,
		})
		if r.Rank > 1 {
			p.Alternatives = append(p.Alternatives, labels[i])
		}
	}
	return p, nil
}

func emphasis(weight float64) string {
	switch {
	case weight >= 0.7:
		return emphasisSoilHealth
	case weight >= 0.4:
		return emphasisBalanced
	default:
		return emphasisProduction
	}
}

// categoryLeaders picks the best candidate per dimension; ties go to the higher rank.
// labels name the candidates in ranked order.
func categoryLeaders(ranked []model.RankedAssessment, labels []string) model.CategoryLeaders {
	best := func(metric func(model.RankedAssessment) float64) string {
		idx := 0
		for i := 1; i < len(ranked); i++ {
			if metric(ranked[i]) > metric(ranked[idx]) {
				idx = i
			}
		}
		return labels[idx]
	}

	return model.CategoryLeaders{
		BestOrganicMatterBuilder: best(func(r model.RankedAssessment) float64 { return r.OrganicMatter.LongTermChange }),
		BestPHStability:          best(func(r model.RankedAssessment) float64 { return -math.Abs(r.PH.LongTermChange) }),
		BestMicrobialSupport:     best(func(r model.RankedAssessment) float64 { return r.Microbial.DiversityScore }),
		BestStructure:            best(func(r model.RankedAssessment) float64 { return r.Structure.AggregateStabilityChange }),
	}
}
