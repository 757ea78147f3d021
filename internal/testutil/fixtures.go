package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/soilsense/internal/engine"
	"github.com/Veraticus/soilsense/internal/knowledge"
	"github.com/Veraticus/soilsense/internal/model"
)

// FixedNow is the clock used by Engine.
var FixedNow = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

// SoilName identifies a predefined soil test.
type SoilName string

// Predefined soils.
const (
	SoilNeutralLoam SoilName = "neutral_loam"
	SoilAcidicLoam  SoilName = "acidic_loam"
	SoilSandyLowOM  SoilName = "sandy_low_om"
	SoilHeavyClay   SoilName = "heavy_clay"
)

// Soil returns the named soil test, sampled three months before FixedNow.
func Soil(name SoilName) model.SoilState {
	s := model.SoilState{TestDate: FixedNow.AddDate(0, -3, 0), Drainage: model.DrainageWell}
	switch name {
	case SoilAcidicLoam:
		s.Texture, s.PH, s.OrganicMatterPercent, s.CEC = model.TextureLoam, 5.5, 2.5, 12
	case SoilSandyLowOM:
		s.Texture, s.PH, s.OrganicMatterPercent, s.CEC = model.TextureSand, 6.2, 1.2, 5
	case SoilHeavyClay:
		s.Texture, s.PH, s.OrganicMatterPercent, s.CEC = model.TextureClay, 7.2, 4, 30
	default:
		s.Texture, s.PH, s.OrganicMatterPercent, s.CEC = model.TextureLoam, 6.5, 3, 15
	}
	return s
}

// Engine returns an engine on the built-in knowledge base pinned to FixedNow.
func Engine() *engine.Engine {
	return engine.New(knowledge.Default(), engine.WithClock(func() time.Time { return FixedNow }))
}

// Assess runs one assessment on the named soil or fails the test.
func Assess(t *testing.T, fertilizer string, rate float64, soil SoilName) model.SoilHealthAssessment {
	t.Helper()
	a, err := Engine().AssessSoilHealthImpact(context.Background(), engine.Request{
		FertilizerName:   fertilizer,
		Rate:             rate,
		FrequencyPerYear: 1,
		Soil:             Soil(soil),
	})
	if err != nil {
		t.Fatalf("failed to assess %s: %v", fertilizer, err)
	}
	return a
}

// Record wraps an assessment for seeding a TestDB.
func Record(fieldID string, a model.SoilHealthAssessment) model.AssessmentRecord {
	return model.AssessmentRecord{FieldID: fieldID, Assessment: a}
}
