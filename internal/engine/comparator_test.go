package engine

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/Veraticus/soilsense/internal/common"
	"github.com/Veraticus/soilsense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(t model.FertilizerType, name string, rate float64) model.FertilizerCandidate {
	return model.FertilizerCandidate{Type: t, Name: name, Rate: rate, FrequencyPerYear: 1}
}

func names(ranked []model.RankedAssessment) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.DisplayName()
	}
	return out
}

func TestCompareFertilizers_CompostOutranksSynthetics(t *testing.T) {
	e := newTestEngine()
	ranked, err := e.CompareFertilizers(context.Background(), []model.FertilizerCandidate{
		candidate(model.FertilizerSynthetic, "urea", 150),
		candidate(model.FertilizerSynthetic, "ammonium sulfate", 200),
		candidate(model.FertilizerOrganic, "compost", 1000),
	}, loam(6.5, 3), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"compost", "urea", "ammonium sulfate"}, names(ranked))
	for i, r := range ranked {
		assert.Equal(t, i+1, r.Rank)
		assert.Len(t, r.BetterAlternatives, i)
		if i > 0 {
			assert.GreaterOrEqual(t, ranked[i-1].OverallScore, r.OverallScore)
		}
	}
	assert.Empty(t, ranked[0].BetterAlternatives)
	assert.Equal(t, []string{"compost", "urea"}, ranked[2].BetterAlternatives)
}

func TestCompareFertilizers_TiesKeepInputOrder(t *testing.T) {
	e := newTestEngine(WithConfig(Config{Workers: 3, PH: DefaultConfig().PH, Remediation: DefaultConfig().Remediation}))
	ranked, err := e.CompareFertilizers(context.Background(), []model.FertilizerCandidate{
		candidate(model.FertilizerSynthetic, "urea", 150),
		candidate(model.FertilizerOrganic, "compost", 1000),
		candidate(model.FertilizerSynthetic, "urea", 150),
	}, loam(6.5, 3), nil)
	require.NoError(t, err)

	require.Len(t, ranked, 3)
	assert.Equal(t, "compost", ranked[0].DisplayName())
	assert.Equal(t, ranked[1].OverallScore, ranked[2].OverallScore)
	assert.Equal(t, []string{"compost", "urea (#1)"}, ranked[2].BetterAlternatives)
}

func TestOptimizeRecommendation_DuplicateNamesUseRankingLabels(t *testing.T) {
	e := newTestEngine()
	p, err := e.OptimizeRecommendation(context.Background(), []model.FertilizerCandidate{
		candidate(model.FertilizerSynthetic, "urea", 150),
		candidate(model.FertilizerOrganic, "compost", 1000),
		candidate(model.FertilizerSynthetic, "urea", 150),
	}, loam(6.5, 3), nil, model.PriorityWeights{SoilHealth: 1})
	require.NoError(t, err)

	assert.Equal(t, "compost", p.RecommendedFertilizer)
	assert.Equal(t, []string{"urea (#1)", "urea (#3)"}, p.Alternatives)
	require.Len(t, p.Rankings, 3)
	assert.Equal(t, "urea (#1)", p.Rankings[1].Name)
	assert.Equal(t, "urea (#3)", p.Rankings[2].Name)

	p, err = e.OptimizeRecommendation(context.Background(), []model.FertilizerCandidate{
		candidate(model.FertilizerSynthetic, "urea", 150),
		candidate(model.FertilizerSynthetic, "urea", 150),
	}, loam(6.5, 3), nil, model.PriorityWeights{SoilHealth: 1})
	require.NoError(t, err)

	assert.Equal(t, "urea (#1)", p.RecommendedFertilizer)
	assert.Equal(t, []string{"urea (#2)"}, p.Alternatives)
	assert.Equal(t, model.CategoryLeaders{
		BestOrganicMatterBuilder: "urea (#1)",
		BestPHStability:          "urea (#1)",
		BestMicrobialSupport:     "urea (#1)",
		BestStructure:            "urea (#1)",
	}, p.CategoryLeaders)
}

func TestCompareFertilizers_Errors(t *testing.T) {
	e := newTestEngine()

	_, err := e.CompareFertilizers(context.Background(), nil, loam(6.5, 3), nil)
	assert.ErrorIs(t, err, common.ErrNoCandidates)

	_, err = e.CompareFertilizers(context.Background(), []model.FertilizerCandidate{
		candidate(model.FertilizerOrganic, "compost", 1000),
		candidate(model.FertilizerSynthetic, "urea", 0),
	}, loam(6.5, 3), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Contains(t, err.Error(), "candidate 2")

	_, err = e.CompareFertilizers(context.Background(), []model.FertilizerCandidate{
		candidate(model.FertilizerOrganic, "compost", 1000),
	}, loam(15, 3), nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestOptimizeRecommendation(t *testing.T) {
	e := newTestEngine()
	candidates := []model.FertilizerCandidate{
		candidate(model.FertilizerSynthetic, "urea", 150),
		candidate(model.FertilizerSynthetic, "ammonium sulfate", 200),
		candidate(model.FertilizerSynthetic, "potassium sulfate", 100),
		candidate(model.FertilizerOrganic, "compost", 1000),
	}

	p, err := e.OptimizeRecommendation(context.Background(), candidates, loam(6.5, 3), nil, model.PriorityWeights{SoilHealth: 0.8})
	require.NoError(t, err)

	assert.Equal(t, "compost", p.RecommendedFertilizer)
	assert.Equal(t, "compost", p.FertilizerKey)
	assert.Equal(t, "soil_health", p.PriorityEmphasis)
	assert.InDelta(t, 85, p.SoilHealthScore, 1e-9)
	assert.InDelta(t, 68, p.WeightedScore, 1e-9)
	assert.Equal(t, model.CategoryLeaders{
		BestOrganicMatterBuilder: "compost",
		BestPHStability:          "potassium sulfate",
		BestMicrobialSupport:     "compost",
		BestStructure:            "compost",
	}, p.CategoryLeaders)
	assert.Equal(t, []string{"potassium sulfate", "urea", "ammonium sulfate"}, p.Alternatives)
	require.Len(t, p.Rankings, 4)
	assert.Equal(t, 1, p.Rankings[0].Rank)
	assert.Empty(t, p.KeyConcerns)
	assert.NotEmpty(t, p.Rationale)
	assert.Contains(t, p.Summary, "compost is recommended")
}

func TestOptimizeRecommendation_Emphasis(t *testing.T) {
	tests := []struct {
		want   string
		weight float64
	}{
		{weight: 1, want: "soil_health"},
		{weight: 0.5, want: "balanced"},
		{weight: 0.1, want: "production"},
	}
	e := newTestEngine()
	for _, tt := range tests {
		p, err := e.OptimizeRecommendation(context.Background(),
			[]model.FertilizerCandidate{candidate(model.FertilizerSynthetic, "urea", 150)},
			loam(6.5, 3), nil, model.PriorityWeights{SoilHealth: tt.weight})
		require.NoError(t, err)
		assert.Equal(t, tt.want, p.PriorityEmphasis)
		assert.NotEmpty(t, p.KeyConcerns)
		assert.NotEmpty(t, p.RemediationSummary)
	}
}

func TestOptimizeRecommendation_InvalidWeights(t *testing.T) {
	_, err := newTestEngine().OptimizeRecommendation(context.Background(),
		[]model.FertilizerCandidate{candidate(model.FertilizerOrganic, "compost", 1000)},
		loam(6.5, 3), nil, model.PriorityWeights{SoilHealth: 1.5})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestAssessFields(t *testing.T) {
	e := newTestEngine()
	fields := []Field{
		{ID: "north-40", Soil: loam(6.5, 3), Candidates: []model.FertilizerCandidate{
			candidate(model.FertilizerSynthetic, "urea", 150),
			candidate(model.FertilizerOrganic, "compost", 1000),
		}},
		{ID: "empty", Soil: loam(6.5, 3)},
		{ID: "acidic", Soil: loam(5.5, 2), Candidates: []model.FertilizerCandidate{
			candidate(model.FertilizerSynthetic, "anhydrous ammonia", 200),
		}},
	}

	var done atomic.Int32
	results, summary := e.AssessFields(context.Background(), fields, BatchOptions{
		ParallelWorkers: 2,
		Progress:        func(Field) { done.Add(1) },
	})

	require.Len(t, results, 3)
	assert.EqualValues(t, 3, done.Load())
	assert.Equal(t, "north-40", results[0].Field.ID)
	require.NoError(t, results[0].Error)
	assert.Equal(t, "compost", results[0].Ranked[0].DisplayName())
	assert.ErrorIs(t, results[1].Error, common.ErrNoCandidates)
	require.NoError(t, results[2].Error)

	assert.Equal(t, 3, summary.TotalFields)
	assert.Equal(t, 2, summary.Assessed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.HighRiskTop)
}
