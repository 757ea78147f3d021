// Package service defines the interfaces shared between the engine, storage and the
// outer adapters.
package service

import (
	"context"

	"github.com/Veraticus/soilsense/internal/engine"
	"github.com/Veraticus/soilsense/internal/model"
)

// HistoryFilter defines filtering options for assessment history queries.
type HistoryFilter struct {
	FieldID       string
	FertilizerKey string
	Limit         int
	Offset        int
}

// Storage defines the contract for the assessment history store.
type Storage interface {
	SaveAssessment(ctx context.Context, record *model.AssessmentRecord) error
	SaveComparison(ctx context.Context, fieldID string, ranked []model.RankedAssessment) (string, error)
	GetAssessment(ctx context.Context, id string) (*model.AssessmentRecord, error)
	ListAssessments(ctx context.Context, filter HistoryFilter) ([]model.AssessmentRecord, error)
	Close() error
}

// Assessor is the assessment engine as seen by adapters.
type Assessor interface {
	AssessSoilHealthImpact(ctx context.Context, req engine.Request) (model.SoilHealthAssessment, error)
	CompareFertilizers(ctx context.Context, candidates []model.FertilizerCandidate, soil model.SoilState, conditions *model.FieldConditions) ([]model.RankedAssessment, error)
	OptimizeRecommendation(ctx context.Context, candidates []model.FertilizerCandidate, soil model.SoilState, conditions *model.FieldConditions, weights model.PriorityWeights) (model.RecommendationPayload, error)
}

var _ Assessor = (*engine.Engine)(nil)
