// Package synthesis merges the per-component projections into a temporal outlook.
package synthesis

import (
	"fmt"
	"math"

	"github.com/Veraticus/soilsense/internal/model"
)

// trajectoryTolerance is the medium vs short-term OM difference treated as stable.
const trajectoryTolerance = 0.005

// Salt accumulates when a high-salt material is applied repeatedly within a year.
const (
	saltIndexLimit    = 50
	saltFrequencyHigh = 2
)

// Cumulative risk identifiers.
const (
	RiskProgressiveAcidification = "progressive_acidification"
	RiskOrganicMatterDepletion   = "organic_matter_depletion"
	RiskMicrobialSuppression     = "microbial_suppression"
	RiskStructuralDegradation    = "structural_degradation"
	RiskSaltAccumulation         = "salt_accumulation"
)

// Components is the fan-in of the four analyzers for one assessment.
type Components struct {
	OrganicMatter model.OrganicMatterImpact
	PH            model.PHEffects
	Microbial     model.MicrobialAssessment
	Structure     model.StructureEvaluation
	Profile       model.FertilizerProfile
	Plan          model.ApplicationPlan
}

// horizonScores are the 1-5 component scores for one horizon.
type horizonScores [4]float64

func (s horizonScores) mean() float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total / float64(len(s))
}

// Synthesize reduces the component projections into a TemporalAnalysis. pH takes part
// in each horizon composite alongside organic matter, microbial and structure.
func Synthesize(c Components) model.TemporalAnalysis {
	var scores [3]horizonScores
	for _, h := range model.Horizons {
		scores[h] = horizonScores{
			float64(c.OrganicMatter.Ratings.At(h).Score()),
			float64(c.PH.Scores.At(h)),
			float64(c.Microbial.Ratings.At(h).Score()),
			float64(c.Structure.Ratings.At(h).Score()),
		}
	}

	var composites [3]model.HorizonComposite
	total := 0.0
	for _, h := range model.Horizons {
		avg := scores[h].mean()
		total += avg
		composites[h] = model.HorizonComposite{Rating: model.RatingFromScore(avg), Score: round(avg, 2)}
	}
	overall := total / float64(len(model.Horizons))

	out := model.TemporalAnalysis{
		ShortTerm:             composites[model.ShortTerm],
		MediumTerm:            composites[model.MediumTerm],
		LongTerm:              composites[model.LongTerm],
		Trajectory:            trajectory(c.OrganicMatter),
		Sustainability:        sustainability(composites[model.LongTerm].Rating),
		CumulativeImpactScore: round((overall-1)/4*100, 1),
		CumulativeRisks:       cumulativeRisks(c),
	}

	out.Reversibility = model.EasilyReversible
	if len(out.CumulativeRisks) > 0 {
		out.Reversibility = model.PartiallyReversible
	}
	out.RecoveryTimeline = recoveryTimeline(c.Microbial.RecoveryMonths, len(out.CumulativeRisks))

	return out
}

func trajectory(om model.OrganicMatterImpact) model.Trajectory {
	diff := om.MediumTermChange - om.ShortTermChange
	switch {
	case diff > trajectoryTolerance:
		return model.TrajectoryImproving
	case diff < -trajectoryTolerance:
		return model.TrajectoryDeclining
	default:
		return model.TrajectoryStable
	}
}

func sustainability(longTerm model.Rating) model.Sustainability {
	switch longTerm {
	case model.RatingExcellent, model.RatingGood:
		return model.Sustainable
	case model.RatingNeutral:
		return model.Marginal
	default:
		return model.Unsustainable
	}
}

func cumulativeRisks(c Components) []string {
	risks := []string{}
	if c.PH.AcidificationPotential.AtLeast(model.PotentialMedium) {
		risks = append(risks, RiskProgressiveAcidification)
	}
	if c.OrganicMatter.LongTermChange < 0 {
		risks = append(risks, RiskOrganicMatterDepletion)
	}
	if c.Microbial.RecoveryMonths > 0 {
		risks = append(risks, RiskMicrobialSuppression)
	}
	if c.Structure.AggregateStabilityChange < 0 {
		risks = append(risks, RiskStructuralDegradation)
	}
	if c.Profile.SaltIndex > saltIndexLimit && c.Plan.FrequencyPerYear >= saltFrequencyHigh {
		risks = append(risks, RiskSaltAccumulation)
	}
	return risks
}

func recoveryTimeline(months, risks int) string {
	switch {
	case months > 0:
		return fmt.Sprintf("%d months for microbial community recovery after discontinuing", months)
	case risks > 0:
		return "1-2 seasons after discontinuing"
	default:
		return "no recovery period expected"
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
