package synthesis

import (
	"testing"

	"github.com/Veraticus/soilsense/internal/model"
	"github.com/stretchr/testify/assert"
)

func ratings(short, medium, long model.Rating) model.HorizonRatings {
	return model.HorizonRatings{ShortTerm: short, MediumTerm: medium, LongTerm: long}
}

func improvingComponents() Components {
	return Components{
		OrganicMatter: model.OrganicMatterImpact{
			ShortTermChange: 0.2, MediumTermChange: 0.6, LongTermChange: 0.9,
			Ratings: ratings(model.RatingExcellent, model.RatingExcellent, model.RatingExcellent),
		},
		PH:        model.PHEffects{Scores: model.HorizonScores{ShortTerm: 5, MediumTerm: 5, LongTerm: 5}},
		Microbial: model.MicrobialAssessment{Ratings: ratings(model.RatingExcellent, model.RatingExcellent, model.RatingExcellent)},
		Structure: model.StructureEvaluation{
			AggregateStabilityChange: 15,
			Ratings:                  ratings(model.RatingExcellent, model.RatingExcellent, model.RatingExcellent),
		},
		Plan: model.ApplicationPlan{Rate: 1000, FrequencyPerYear: 1},
	}
}

func decliningComponents() Components {
	return Components{
		OrganicMatter: model.OrganicMatterImpact{
			ShortTermChange: -0.003, MediumTermChange: -0.03, LongTermChange: -0.09,
			Ratings: ratings(model.RatingNeutral, model.RatingNeutral, model.RatingNeutral),
		},
		PH: model.PHEffects{
			AcidificationPotential: model.PotentialMedium,
			Scores:                 model.HorizonScores{ShortTerm: 4, MediumTerm: 3, LongTerm: 1},
		},
		Microbial: model.MicrobialAssessment{
			RecoveryMonths: 6,
			Ratings:        ratings(model.RatingConcerning, model.RatingConcerning, model.RatingConcerning),
		},
		Structure: model.StructureEvaluation{
			AggregateStabilityChange: -2,
			Ratings:                  ratings(model.RatingNeutral, model.RatingNeutral, model.RatingConcerning),
		},
		Profile: model.FertilizerProfile{SaltIndex: 75},
		Plan:    model.ApplicationPlan{Rate: 150, FrequencyPerYear: 1},
	}
}

func TestSynthesizeImproving(t *testing.T) {
	got := Synthesize(improvingComponents())

	assert.Equal(t, model.HorizonComposite{Rating: model.RatingExcellent, Score: 5}, got.LongTerm)
	assert.Equal(t, model.TrajectoryImproving, got.Trajectory)
	assert.Equal(t, model.Sustainable, got.Sustainability)
	assert.InDelta(t, 100, got.CumulativeImpactScore, 1e-9)
	assert.Empty(t, got.CumulativeRisks)
	assert.Equal(t, model.EasilyReversible, got.Reversibility)
	assert.Equal(t, "no recovery period expected", got.RecoveryTimeline)
}

func TestSynthesizeDeclining(t *testing.T) {
	got := Synthesize(decliningComponents())

	assert.Equal(t, model.HorizonComposite{Rating: model.RatingNeutral, Score: 3}, got.ShortTerm)
	assert.Equal(t, model.HorizonComposite{Rating: model.RatingNeutral, Score: 2.75}, got.MediumTerm)
	assert.Equal(t, model.HorizonComposite{Rating: model.RatingConcerning, Score: 2}, got.LongTerm)
	assert.Equal(t, model.TrajectoryDeclining, got.Trajectory)
	assert.Equal(t, model.Unsustainable, got.Sustainability)
	assert.InDelta(t, 39.6, got.CumulativeImpactScore, 1e-9)
	assert.Equal(t, []string{
		RiskProgressiveAcidification,
		RiskOrganicMatterDepletion,
		RiskMicrobialSuppression,
		RiskStructuralDegradation,
	}, got.CumulativeRisks)
	assert.Equal(t, model.PartiallyReversible, got.Reversibility)
	assert.Contains(t, got.RecoveryTimeline, "6 months")
}

func TestPHParticipatesInComposite(t *testing.T) {
	c := improvingComponents()
	c.PH.Scores = model.HorizonScores{ShortTerm: 1, MediumTerm: 1, LongTerm: 1}

	got := Synthesize(c)
	assert.Equal(t, model.HorizonComposite{Rating: model.RatingGood, Score: 4}, got.LongTerm)
	assert.InDelta(t, 75, got.CumulativeImpactScore, 1e-9)
}

func TestSaltAccumulationNeedsRepeatedApplications(t *testing.T) {
	c := decliningComponents()
	assert.NotContains(t, Synthesize(c).CumulativeRisks, RiskSaltAccumulation)

	c.Plan.FrequencyPerYear = 2
	assert.Contains(t, Synthesize(c).CumulativeRisks, RiskSaltAccumulation)
}

func TestTrajectory(t *testing.T) {
	tests := []struct {
		name          string
		short, medium float64
		want          model.Trajectory
	}{
		{name: "gaining", short: 0.017, medium: 0.0388, want: model.TrajectoryImproving},
		{name: "flat", short: 0.01, medium: 0.012, want: model.TrajectoryStable},
		{name: "losing", short: -0.003, medium: -0.03, want: model.TrajectoryDeclining},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trajectory(model.OrganicMatterImpact{ShortTermChange: tt.short, MediumTermChange: tt.medium})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCumulativeScoreBounds(t *testing.T) {
	worst := Components{
		OrganicMatter: model.OrganicMatterImpact{Ratings: ratings(model.RatingPoor, model.RatingPoor, model.RatingPoor)},
		PH:            model.PHEffects{Scores: model.HorizonScores{ShortTerm: 1, MediumTerm: 1, LongTerm: 1}},
		Microbial:     model.MicrobialAssessment{Ratings: ratings(model.RatingPoor, model.RatingPoor, model.RatingPoor)},
		Structure:     model.StructureEvaluation{Ratings: ratings(model.RatingPoor, model.RatingPoor, model.RatingPoor)},
	}
	got := Synthesize(worst)
	assert.Zero(t, got.CumulativeImpactScore)
	assert.Equal(t, model.Unsustainable, got.Sustainability)
}
