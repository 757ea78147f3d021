package impact

import (
	"fmt"
	"math"

	"github.com/Veraticus/soilsense/internal/knowledge"
	"github.com/Veraticus/soilsense/internal/model"
)

const (
	mediumTermYears = 5
	longTermYears   = 15
	// rainfallDecompositionBoost accelerates decay in wet or irrigated fields.
	rainfallDecompositionBoost = 1.1
)

// OrganicMatterAnalyzer projects organic matter change under a fertilizer plan.
type OrganicMatterAnalyzer struct {
	kb *knowledge.Base
}

// NewOrganicMatterAnalyzer creates an analyzer backed by kb.
func NewOrganicMatterAnalyzer(kb *knowledge.Base) *OrganicMatterAnalyzer {
	return &OrganicMatterAnalyzer{kb: kb}
}

// Analyze projects organic matter change over the three horizons.
func (a *OrganicMatterAnalyzer) Analyze(in Input) (model.OrganicMatterImpact, error) {
	p := in.Profile
	annualMass := in.Plan.AnnualMass()

	contribution := p.OMContribution * annualMass
	carbon := p.CarbonInput * annualMass
	addition := contribution / SoilMassLbsPerAcre * 100

	rate := a.kb.DecompositionRate(p.DecompositionCategory)
	if in.Conditions.HighRainfall() {
		rate = math.Min(1, rate*rainfallDecompositionBoost)
	}

	// Readily available nitrogen primes mineralization of existing organic matter.
	loss := p.MineralizationPriming * in.Soil.OrganicMatterPercent

	short := addition*(1-rate/2) - 0.5*loss
	medium := Accumulate(addition, rate, mediumTermYears) - loss*mediumTermYears
	long := Accumulate(addition, rate, longTermYears) - loss*longTermYears

	if err := checkFinite(map[string]float64{
		"annual addition": addition,
		"decomposition":   rate,
		"short-term":      short,
		"medium-term":     medium,
		"long-term":       long,
	}); err != nil {
		return model.OrganicMatterImpact{}, err
	}

	out := model.OrganicMatterImpact{
		ContributionLbsPerAcre: round(contribution, 2),
		CarbonInputLbsPerAcre:  round(carbon, 2),
		AnnualAdditionPercent:  round(addition, 4),
		DecompositionRate:      round(rate, 4),
		ShortTermChange:        round(short, 4),
		MediumTermChange:       round(medium, 4),
		LongTermChange:         round(long, 4),
		Effect:                 omEffect(long),
		MonitoringFrequency:    omMonitoringFrequency(contribution),
	}
	out.Ratings = model.HorizonRatings{
		ShortTerm:  rateOMChange(short),
		MediumTerm: rateOMChange(medium),
		LongTerm:   rateOMChange(long),
	}
	if eq, ok := EquilibriumLevel(in.Soil.OrganicMatterPercent, addition, rate); ok {
		eq = round(eq, 3)
		out.EquilibriumPercent = &eq
	}
	out.Mechanisms = omMechanisms(p, contribution)
	out.Recommendations = omRecommendations(out, in.Soil.OrganicMatterPercent)

	return out, nil
}

// Accumulate applies an annual addition for the given number of years, decaying the
// running total by rate after each addition.
func Accumulate(annualAddition, rate float64, years int) float64 {
	total := 0.0
	for y := 0; y < years; y++ {
		total += annualAddition
		total *= 1 - rate
	}
	return total
}

// EquilibriumLevel is the organic matter level where yearly additions balance decay.
// It is undefined when the decomposition rate is not positive.
func EquilibriumLevel(current, annualAddition, rate float64) (float64, bool) {
	if rate <= 0 {
		return 0, false
	}
	return current + annualAddition/rate, true
}

func rateOMChange(change float64) model.Rating {
	switch {
	case change > 0.5:
		return model.RatingExcellent
	case change > 0:
		return model.RatingGood
	case change > -0.2:
		return model.RatingNeutral
	case change > -0.5:
		return model.RatingConcerning
	default:
		return model.RatingPoor
	}
}

func omEffect(longTerm float64) model.Effect {
	switch {
	case longTerm > 0:
		return model.EffectPositive
	case longTerm < -0.05:
		return model.EffectNegative
	default:
		return model.EffectNeutral
	}
}

func omMonitoringFrequency(contribution float64) string {
	switch {
	case contribution > 1000:
		return "annual organic matter testing"
	case contribution > 0:
		return "organic matter testing every 2 years"
	default:
		return "organic matter testing every 3 years"
	}
}

func omMechanisms(p model.FertilizerProfile, contribution float64) []string {
	var mechanisms []string
	if contribution > 0 {
		mechanisms = append(mechanisms,
			fmt.Sprintf("Direct organic matter contribution of %.0f lbs/acre per year", contribution))
	}
	switch p.MicrobialCategory {
	case model.MicrobialHighlyStimulating, model.MicrobialStimulating:
		mechanisms = append(mechanisms, "Microbial stimulation speeds humification of added residues")
	}
	switch p.StructureCategory {
	case model.StructureMajorImprovement, model.StructureImprovement:
		mechanisms = append(mechanisms, "Aggregate formation physically protects new organic carbon")
	}
	if p.MineralizationPriming > 0 {
		mechanisms = append(mechanisms, "Readily available nitrogen accelerates mineralization of existing organic matter")
	}
	if len(mechanisms) == 0 {
		mechanisms = append(mechanisms, "No direct organic matter input")
	}
	return mechanisms
}

func omRecommendations(o model.OrganicMatterImpact, current float64) []string {
	var recs []string
	if o.LongTermChange <= 0 {
		recs = append(recs, "Pair with cover crops or compost to offset organic matter losses")
	}
	if o.EquilibriumPercent != nil && *o.EquilibriumPercent > current {
		recs = append(recs, fmt.Sprintf("Organic matter trends toward a %.2f%% equilibrium under this plan", *o.EquilibriumPercent))
	}
	if o.Effect == model.EffectPositive {
		recs = append(recs, "Retain crop residues to compound organic matter gains")
	}
	return recs
}
