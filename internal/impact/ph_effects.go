package impact

import (
	"fmt"
	"math"

	"github.com/Veraticus/soilsense/internal/model"
)

const (
	// Fraction of the linear 5-year drift that survives soil buffering.
	mediumTermBuffering = 0.85
	// Deeper buffering discount over 15 years.
	longTermBuffering = 0.75
	// OptimalPH is the center of the agronomic pH band.
	OptimalPH = 6.5
)

// PHConfig holds the management thresholds used by the pH analyzer.
type PHConfig struct {
	TargetPH        float64
	CriticalPHFloor float64
}

// DefaultPHConfig returns the standard management thresholds.
func DefaultPHConfig() PHConfig {
	return PHConfig{TargetPH: 6.5, CriticalPHFloor: 6.0}
}

// PHAnalyzer projects pH drift and nutrient availability shifts.
type PHAnalyzer struct {
	ref PHReference
	cfg PHConfig
}

// NewPHAnalyzer creates a pH analyzer.
func NewPHAnalyzer(ref PHReference, cfg PHConfig) *PHAnalyzer {
	return &PHAnalyzer{ref: ref, cfg: cfg}
}

// Analyze projects pH change over the three horizons.
func (a *PHAnalyzer) Analyze(in Input) (model.PHEffects, error) {
	p := in.Profile
	texture := in.Texture()

	buffering, _ := a.ref.BufferingCapacity(texture)
	if math.IsNaN(buffering) || math.IsInf(buffering, 0) || buffering <= 0 {
		return model.PHEffects{}, fmt.Errorf("invalid buffering capacity %v for texture %s", buffering, texture)
	}

	mass := in.Plan.Rate
	if p.NitrogenBased() {
		mass = in.Plan.Rate * p.NitrogenContent
	}

	immediate := p.AcidifyingCoefficient * (mass / 100) * in.Plan.FrequencyPerYear / buffering
	cumulative := immediate * mediumTermYears * mediumTermBuffering
	long := immediate * longTermYears * longTermBuffering

	if err := checkFinite(map[string]float64{
		"immediate pH change":  immediate,
		"cumulative pH change": cumulative,
		"long-term pH change":  long,
	}); err != nil {
		return model.PHEffects{}, err
	}

	current := in.Soil.PH
	out := model.PHEffects{
		CurrentPH:         current,
		ImmediateChange:   round(immediate, 4),
		CumulativeChange:  round(cumulative, 4),
		LongTermChange:    round(long, 4),
		ProjectedPH:       round(clamp(current+cumulative, 0, 14), 3),
		BufferingCapacity: buffering,
	}
	out.AcidificationPotential = categorizeDrift(-cumulative)
	out.AlkalinizationPotential = categorizeDrift(cumulative)

	changes, err := a.availabilityChanges(current, out.ProjectedPH)
	if err != nil {
		return model.PHEffects{}, err
	}
	out.NutrientAvailabilityChanges = changes

	out.RequiresPHManagement = out.AcidificationPotential.AtLeast(model.PotentialMedium)
	out.ManagementUrgency = "none"
	if out.RequiresPHManagement {
		out.ManagementUrgency = "preventive"
		if out.ProjectedPH < a.cfg.CriticalPHFloor {
			out.ManagementUrgency = "urgent"
		}
	}

	var scores [3]int
	var ratings [3]model.Rating
	for _, h := range model.Horizons {
		scores[h] = ScorePH(current, clamp(out.ProjectedAt(h), 0, 14))
		ratings[h] = model.RatingFromScore(float64(scores[h]))
	}
	out.Scores = model.HorizonScores{ShortTerm: scores[model.ShortTerm], MediumTerm: scores[model.MediumTerm], LongTerm: scores[model.LongTerm]}
	out.Ratings = model.NewHorizonRatings(ratings)

	out.Mechanisms = phMechanisms(p, texture, buffering)
	out.Recommendations = phRecommendations(out, a.cfg)

	return out, nil
}

func (a *PHAnalyzer) availabilityChanges(current, projected float64) (map[string]float64, error) {
	before := a.ref.NutrientAvailability(current)
	after := a.ref.NutrientAvailability(projected)

	changes := make(map[string]float64, len(before))
	for nutrient, was := range before {
		now, ok := after[nutrient]
		if !ok {
			continue
		}
		delta := now - was
		if math.IsNaN(delta) || math.IsInf(delta, 0) {
			return nil, fmt.Errorf("non-finite availability for %s", nutrient)
		}
		changes[nutrient] = round(delta, 3)
	}
	return changes, nil
}

// categorizeDrift grades a pH movement in one direction; negative movement is none.
func categorizeDrift(drift float64) model.Potential {
	switch {
	case drift < 0.05:
		return model.PotentialNone
	case drift < 0.2:
		return model.PotentialLow
	case drift < 0.5:
		return model.PotentialMedium
	case drift < 1.0:
		return model.PotentialHigh
	default:
		return model.PotentialVeryHigh
	}
}

// ScorePH rates a projected pH on 1-5 by whether it moves toward or away from the
// optimum. Projections outside 5.5-8.0 score at most 2.
func ScorePH(current, projected float64) int {
	delta := math.Abs(projected-OptimalPH) - math.Abs(current-OptimalPH)

	var score int
	switch {
	case delta <= -0.1:
		score = 5
	case math.Abs(delta) < 0.1:
		score = 4
	case delta < 0.3:
		score = 3
	case delta < 0.6:
		score = 2
	default:
		score = 1
	}

	if projected < 5.5 || projected > 8.0 {
		score = min(score, 2)
	}
	return score
}

func phMechanisms(p model.FertilizerProfile, texture model.Texture, buffering float64) []string {
	var mechanisms []string
	switch {
	case p.AcidifyingCoefficient < 0 && p.NitrogenBased():
		mechanisms = append(mechanisms, "Nitrification of ammonium releases hydrogen ions")
	case p.AcidifyingCoefficient < 0:
		mechanisms = append(mechanisms, "Acid-forming residues lower soil pH")
	case p.AcidifyingCoefficient > 0:
		mechanisms = append(mechanisms, "Base cations and carbonates in the material raise soil pH")
	default:
		mechanisms = append(mechanisms, "Material is pH-neutral")
	}
	mechanisms = append(mechanisms,
		fmt.Sprintf("%s texture buffering factor %.2f moderates pH swings", texture, buffering))
	return mechanisms
}

func phRecommendations(e model.PHEffects, cfg PHConfig) []string {
	var recs []string
	switch e.ManagementUrgency {
	case "urgent":
		recs = append(recs,
			fmt.Sprintf("Apply agricultural lime before the next season; projected pH %.2f falls below %.1f", e.ProjectedPH, cfg.CriticalPHFloor))
	case "preventive":
		recs = append(recs, "Test pH annually and budget maintenance lime")
	}
	if e.AlkalinizationPotential.AtLeast(model.PotentialMedium) {
		recs = append(recs, "Consider elemental sulfur if pH rises above 7.5")
	}
	if len(recs) == 0 {
		recs = append(recs, "Routine pH testing every 2-3 years is sufficient")
	}
	return recs
}
