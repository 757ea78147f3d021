package remediation

import (
	"testing"

	"github.com/Veraticus/soilsense/internal/impact"
	"github.com/Veraticus/soilsense/internal/knowledge"
	"github.com/Veraticus/soilsense/internal/model"
	"github.com/Veraticus/soilsense/internal/phmgmt"
	"github.com/Veraticus/soilsense/internal/synthesis"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assess(t *testing.T, key string, rate, freq float64, soil model.SoilState) model.SoilHealthAssessment {
	t.Helper()
	kb := knowledge.Default()
	p, ok := kb.Profile(key)
	require.True(t, ok, key)

	plan := model.ApplicationPlan{Rate: rate, FrequencyPerYear: freq}
	in := impact.Input{Profile: p, Plan: plan, Soil: soil}

	om, err := impact.NewOrganicMatterAnalyzer(kb).Analyze(in)
	require.NoError(t, err)
	ph, err := impact.NewPHAnalyzer(phmgmt.NewReference(), impact.DefaultPHConfig()).Analyze(in)
	require.NoError(t, err)
	mic, err := impact.NewMicrobialAssessor(kb).Assess(in)
	require.NoError(t, err)
	st, err := impact.NewStructureEvaluator(kb).Evaluate(in)
	require.NoError(t, err)

	a := model.SoilHealthAssessment{
		Soil: soil, Application: plan,
		OrganicMatter: om, PH: ph, Microbial: mic, Structure: st,
	}
	a.Temporal = synthesis.Synthesize(synthesis.Components{
		OrganicMatter: om, PH: ph, Microbial: mic, Structure: st, Profile: p, Plan: plan,
	})
	return a
}

func soil(texture model.Texture, ph, om float64) model.SoilState {
	return model.SoilState{PH: ph, OrganicMatterPercent: om, CEC: 15, Texture: texture}
}

func targets(strategies []model.RemediationStrategy) []string {
	out := make([]string, 0, len(strategies))
	for _, s := range strategies {
		out = append(out, s.TargetIssue)
	}
	return out
}

func TestPlanUrea(t *testing.T) {
	p := NewPlanner(DefaultConfig())
	r := p.Plan(assess(t, "urea", 150, 1, soil(model.TextureLoam, 6.5, 3)))

	assert.InDelta(t, 53, r.OverallScore, 1e-9)
	assert.Equal(t, model.HealthFair, r.OverallRating)
	assert.Equal(t, []string{"Long-term trajectory is unsustainable"}, r.CriticalConcerns)
	assert.Equal(t, model.RiskHigh, r.RiskLevel)

	assert.Equal(t, []string{IssueAcidification, IssueOrganicMatter, IssueMicrobialSuppression, IssueStructuralDegradation},
		targets(r.RemediationStrategies))
	for i, s := range r.RemediationStrategies {
		assert.Equal(t, i+1, s.Priority)
		assert.NotEmpty(t, s.Steps)
		assert.NotEmpty(t, s.MonitoringParameters)
		assert.True(t, s.Cost.Low.LessThanOrEqual(s.Cost.High))
	}

	lime := r.RemediationStrategies[0]
	assert.Equal(t, "preventive", lime.Urgency)
	assert.InDelta(t, 0.59, lime.LimeRateTonsPerAcre, 1e-9)
	assert.True(t, decimal.RequireFromString("23.6").Equal(lime.Cost.Low), lime.Cost.Low.String())
	assert.True(t, decimal.RequireFromString("35.4").Equal(lime.Cost.High), lime.Cost.High.String())

	assert.Equal(t, 6, r.MonitoringPlan.FrequencyMonths)
	assert.Len(t, r.MonitoringPlan.PreventivePractices, 4)
	assert.InDelta(t, 6.0, r.MonitoringPlan.AlertThresholds["ph_min"], 1e-9)
	assert.InDelta(t, 2.7, r.MonitoringPlan.AlertThresholds["organic_matter_min"], 1e-9)
	assert.Contains(t, r.MonitoringPlan.Parameters, "base saturation")
}

func TestPlanCompost(t *testing.T) {
	p := NewPlanner(DefaultConfig())
	r := p.Plan(assess(t, "compost", 1000, 1, soil(model.TextureLoam, 6.5, 3)))

	assert.InDelta(t, 85, r.OverallScore, 1e-9)
	assert.Equal(t, model.HealthExcellent, r.OverallRating)
	assert.Empty(t, r.CriticalConcerns)
	assert.Equal(t, model.RiskLow, r.RiskLevel)
	assert.Empty(t, r.RemediationStrategies)
	assert.Empty(t, r.NegativeImpacts)
	assert.Len(t, r.PositiveImpacts, 4)
	assert.Equal(t, 24, r.MonitoringPlan.FrequencyMonths)
	assert.Len(t, r.MonitoringPlan.PreventivePractices, 2)
	assert.InDelta(t, 5.8, r.MonitoringPlan.AlertThresholds["ph_min"], 1e-9)
}

func TestPlanAcidicSoilNeedsLime(t *testing.T) {
	p := NewPlanner(DefaultConfig())
	a := assess(t, "ammonium_sulfate", 200, 1, soil(model.TextureLoam, 5.5, 2.5))
	require.True(t, a.PH.RequiresPHManagement)

	r := p.Plan(a)
	require.NotEmpty(t, r.RemediationStrategies)

	lime := r.RemediationStrategies[0]
	assert.Equal(t, IssueAcidification, lime.TargetIssue)
	assert.Equal(t, "urgent", lime.Urgency)
	assert.Greater(t, lime.LimeRateTonsPerAcre, 3.0)
	assert.Contains(t, lime.MonitoringParameters, "exchangeable aluminum")
}

func TestPlanCriticalRisk(t *testing.T) {
	p := NewPlanner(DefaultConfig())
	r := p.Plan(assess(t, "anhydrous_ammonia", 200, 1, soil(model.TextureSand, 6.2, 1.5)))

	assert.GreaterOrEqual(t, len(r.CriticalConcerns), 2)
	assert.Equal(t, model.RiskCritical, r.RiskLevel)
	assert.Equal(t, 3, r.MonitoringPlan.FrequencyMonths)
	assert.Len(t, r.MonitoringPlan.PreventivePractices, 5)
	assert.InDelta(t, 1.2, r.MonitoringPlan.AlertThresholds["organic_matter_min"], 1e-9)
}

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		name       string
		concerns   []string
		trajectory model.Trajectory
		want       model.RiskLevel
	}{
		{name: "two concerns", concerns: []string{"a", "b"}, trajectory: model.TrajectoryImproving, want: model.RiskCritical},
		{name: "one concern", concerns: []string{"a"}, trajectory: model.TrajectoryStable, want: model.RiskHigh},
		{name: "declining only", trajectory: model.TrajectoryDeclining, want: model.RiskMedium},
		{name: "nothing", trajectory: model.TrajectoryStable, want: model.RiskLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, riskLevel(tt.concerns, tt.trajectory))
		})
	}
}

func TestLimeRate(t *testing.T) {
	p := NewPlanner(DefaultConfig())
	assert.InDelta(t, 2.0, p.LimeRate(5.5, 5.8), 1e-9)
	assert.InDelta(t, 3.0, p.LimeRate(5.5, 5.0), 1e-9)
	assert.Zero(t, p.LimeRate(7.0, 6.8))
}

func TestOverallScoreWithinBounds(t *testing.T) {
	kb := knowledge.Default()
	soils := []model.SoilState{
		soil(model.TextureSand, 5.0, 0.5),
		soil(model.TextureLoam, 6.5, 3),
		soil(model.TextureClay, 7.8, 6),
	}
	for _, prof := range kb.Profiles() {
		for _, s := range soils {
			for _, rate := range []float64{10, 200, 5000} {
				a := assess(t, prof.Key, rate, 2, s)
				score := OverallScore(a)
				assert.GreaterOrEqual(t, score, 0.0, prof.Key)
				assert.LessOrEqual(t, score, 100.0, prof.Key)
				assert.Equal(t, model.HealthRatingFor(score), NewPlanner(DefaultConfig()).Plan(a).OverallRating)
			}
		}
	}
}
