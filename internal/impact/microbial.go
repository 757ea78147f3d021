package impact

import (
	"fmt"

	"github.com/Veraticus/soilsense/internal/knowledge"
	"github.com/Veraticus/soilsense/internal/model"
)

// baselineDiversity is the diversity score of an untreated, healthy soil.
const baselineDiversity = 6.0

// horizonAmplification grows the deviation of the diversity multiplier with time.
var horizonAmplification = [3]float64{1.0, 1.1, 1.25}

// MicrobialAssessor projects shifts in soil biology.
type MicrobialAssessor struct {
	kb *knowledge.Base
}

// NewMicrobialAssessor creates an assessor backed by kb.
func NewMicrobialAssessor(kb *knowledge.Base) *MicrobialAssessor {
	return &MicrobialAssessor{kb: kb}
}

// Assess projects microbial population shifts and diversity.
func (a *MicrobialAssessor) Assess(in Input) (model.MicrobialAssessment, error) {
	factor := a.kb.Microbial(in.Profile.MicrobialCategory)
	m := factor.DiversityMultiplier
	if err := checkFinite(map[string]float64{"diversity multiplier": m}); err != nil {
		return model.MicrobialAssessment{}, err
	}

	d := factor.Descriptors
	scaled := func(descriptor string) float64 {
		return round(clamp(knowledge.DescriptorImpact(descriptor)*m, -1, 1), 3)
	}

	out := model.MicrobialAssessment{
		Descriptors: d,
		Impacts: model.MicrobialImpacts{
			Bacterial:          scaled(d.Bacterial),
			Fungal:             scaled(d.Fungal),
			Mycorrhizal:        scaled(d.Mycorrhizal),
			NitrogenFixers:     scaled(d.NitrogenFixers),
			Decomposers:        scaled(d.Decomposers),
			DiseaseSuppression: scaled(d.DiseaseSuppression),
		},
		DiversityMultiplier: m,
		DiversityScore:      round(clamp(baselineDiversity*m, 0, 10), 2),
	}
	out.FoodWebHealth = foodWebHealth(out.DiversityScore)

	var ratings [3]model.Rating
	for _, h := range model.Horizons {
		ratings[h], _ = microbialBand(1 + (m-1)*horizonAmplification[h])
	}
	out.Ratings = model.NewHorizonRatings(ratings)
	_, out.RecoveryMonths = microbialBand(m)

	out.Mechanisms = microbialMechanisms(in.Profile, out)
	out.Recommendations = microbialRecommendations(out)

	return out, nil
}

// microbialBand maps a diversity multiplier onto a rating and a recovery time in months.
func microbialBand(m float64) (model.Rating, int) {
	switch {
	case m >= 1.3:
		return model.RatingExcellent, 0
	case m >= 1.1:
		return model.RatingGood, 0
	case m >= 0.95:
		return model.RatingNeutral, 0
	case m >= 0.85:
		return model.RatingNeutral, 3
	case m >= 0.7:
		return model.RatingConcerning, 6
	default:
		return model.RatingPoor, 12
	}
}

func foodWebHealth(diversity float64) string {
	switch {
	case diversity >= 8:
		return "thriving"
	case diversity >= 6:
		return "healthy"
	case diversity >= 4:
		return "stressed"
	default:
		return "degraded"
	}
}

func microbialMechanisms(p model.FertilizerProfile, a model.MicrobialAssessment) []string {
	var mechanisms []string
	if p.CarbonInput > 0 {
		mechanisms = append(mechanisms, "Added carbon feeds heterotrophic bacteria and fungi")
	}
	if a.Impacts.Mycorrhizal > 0 {
		mechanisms = append(mechanisms, "Slow nutrient release favors mycorrhizal associations")
	}
	if a.Impacts.NitrogenFixers < 0 {
		mechanisms = append(mechanisms, "Abundant mineral nitrogen down-regulates biological nitrogen fixation")
	}
	if p.SaltIndex > 50 {
		mechanisms = append(mechanisms, fmt.Sprintf("Salt index of %.0f creates osmotic stress near the band", p.SaltIndex))
	}
	if len(mechanisms) == 0 {
		mechanisms = append(mechanisms, "Minimal direct effect on soil biology")
	}
	return mechanisms
}

func microbialRecommendations(a model.MicrobialAssessment) []string {
	switch {
	case a.DiversityMultiplier < 0.85:
		return []string{
			"Split applications to limit salt and ammonia stress",
			"Add a carbon source such as compost or cover crop residue",
		}
	case a.DiversityMultiplier < 1.0:
		return []string{"Monitor soil respiration to catch early biological decline"}
	default:
		return []string{"Maintain living roots year-round to sustain microbial gains"}
	}
}
