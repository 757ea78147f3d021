package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Veraticus/soilsense/internal/common"
	"github.com/Veraticus/soilsense/internal/model"
	"golang.org/x/sync/errgroup"
)

// CompareFertilizers assesses every candidate against the same soil and ranks them by
// overall soil health score, best first. Ties keep input order.
func (e *Engine) CompareFertilizers(ctx context.Context, candidates []model.FertilizerCandidate, soil model.SoilState, conditions *model.FieldConditions) ([]model.RankedAssessment, error) {
	ranked, _, err := e.compare(ctx, candidates, soil, conditions)
	return ranked, err
}

// compare ranks the candidates and returns, aligned with the ranking, the label each
// candidate is known by in BetterAlternatives.
func (e *Engine) compare(ctx context.Context, candidates []model.FertilizerCandidate, soil model.SoilState, conditions *model.FieldConditions) ([]model.RankedAssessment, []string, error) {
	if len(candidates) == 0 {
		return nil, nil, common.ErrNoCandidates
	}

	requests := make([]Request, len(candidates))
	for i, c := range candidates {
		requests[i] = Request{
			Conditions:       conditions,
			Soil:             soil,
			FertilizerType:   c.Type,
			FertilizerName:   c.Name,
			Texture:          c.Texture,
			Rate:             c.Rate,
			FrequencyPerYear: c.FrequencyPerYear,
		}
		if err := requests[i].Validate(); err != nil {
			return nil, nil, fmt.Errorf("candidate %d (%s): %w", i+1, c.Name, err)
		}
	}

	results := make([]model.SoilHealthAssessment, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i := range requests {
		i := i
		g.Go(func() error {
			a, err := e.AssessSoilHealthImpact(gctx, requests[i])
			if err != nil {
				return fmt.Errorf("candidate %d (%s): %w", i+1, requests[i].FertilizerName, err)
			}
			results[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	ranked, labels := rank(results)
	slog.Info("Compared fertilizers",
		"candidates", len(ranked),
		"top", labels[0],
		"top_score", ranked[0].OverallScore)
	return ranked, labels, nil
}

// rank sorts assessments by descending score and records, for each, the names of the
// candidates ranked above it. The returned labels follow the ranked order.
func rank(results []model.SoilHealthAssessment) ([]model.RankedAssessment, []string) {
	labels := uniqueLabels(results)
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return results[order[a]].OverallScore > results[order[b]].OverallScore
	})

	ranked := make([]model.RankedAssessment, len(order))
	better := make([]string, 0, len(order))
	rankedLabels := make([]string, len(order))
	for pos, idx := range order {
		rankedLabels[pos] = labels[idx]
		ranked[pos] = model.RankedAssessment{
			SoilHealthAssessment: results[idx],
			Rank:                 pos + 1,
			BetterAlternatives:   append([]string{}, better...),
		}
		better = append(better, labels[idx])
	}
	return ranked, rankedLabels
}

// uniqueLabels names each candidate, suffixing its input position when names repeat.
func uniqueLabels(results []model.SoilHealthAssessment) []string {
	counts := make(map[string]int, len(results))
	for _, a := range results {
		counts[a.DisplayName()]++
	}
	labels := make([]string, len(results))
	for i, a := range results {
		name := a.DisplayName()
		if counts[name] > 1 {
			name = fmt.Sprintf("%s (#%d)", name, i+1)
		}
		labels[i] = name
	}
	return labels
}
