// Package impact implements the per-component soil health analyzers: organic matter,
// pH effects, microbial activity and soil structure. Each analyzer is a pure function of
// its Input and the shared knowledge base.
package impact

import (
	"fmt"
	"math"

	"github.com/Veraticus/soilsense/internal/model"
)

// SoilMassLbsPerAcre is the mass of an acre-furrow-slice (top 6 inches).
const SoilMassLbsPerAcre = 2_000_000.0

// Input is everything an analyzer needs for one assessment.
type Input struct {
	Conditions *model.FieldConditions
	Profile    model.FertilizerProfile
	Soil       model.SoilState
	Plan       model.ApplicationPlan
}

// Texture is the texture the plan applies to.
func (in Input) Texture() model.Texture {
	return in.Plan.EffectiveTexture(in.Soil)
}

// PHReference supplies pH-management lookup data.
type PHReference interface {
	BufferingCapacity(texture model.Texture) (float64, bool)
	NutrientAvailability(ph float64) map[string]float64
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// checkFinite returns an error naming the first non-finite value.
func checkFinite(values map[string]float64) error {
	for name, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite %s: %v", name, v)
		}
	}
	return nil
}
