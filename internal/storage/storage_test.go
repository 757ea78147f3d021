package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/soilsense/internal/common"
	"github.com/Veraticus/soilsense/internal/engine"
	"github.com/Veraticus/soilsense/internal/knowledge"
	"github.com/Veraticus/soilsense/internal/model"
	"github.com/Veraticus/soilsense/internal/service"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 5, 10, 8, 30, 0, 0, time.UTC)

// createTestStorage creates a migrated in-memory store.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testEngine() *engine.Engine {
	return engine.New(knowledge.Default(), engine.WithClock(func() time.Time { return testNow }))
}

func testSoil() model.SoilState {
	return model.SoilState{TestDate: testNow.AddDate(0, -2, 0), Texture: model.TextureLoam, PH: 6.2, OrganicMatterPercent: 2.8, CEC: 14}
}

func assessFor(t *testing.T, name string, rate float64) model.SoilHealthAssessment {
	t.Helper()
	a, err := testEngine().AssessSoilHealthImpact(context.Background(), engine.Request{
		FertilizerName: name, Rate: rate, FrequencyPerYear: 1, Soil: testSoil(),
	})
	require.NoError(t, err)
	return a
}

func TestMigrate(t *testing.T) {
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "nested", "soilsense.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Migrate(ctx), "migrating twice is a no-op")

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)

	var indexCount int
	err = store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='index' AND name='idx_assessments_comparison'
	`).Scan(&indexCount)
	require.NoError(t, err)
	assert.Equal(t, 1, indexCount)
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestSaveAndGetAssessment(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	a := assessFor(t, "urea", 150)
	record := &model.AssessmentRecord{FieldID: "north-40", Assessment: a}
	require.NoError(t, store.SaveAssessment(ctx, record))
	require.NotEmpty(t, record.ID)
	require.False(t, record.CreatedAt.IsZero())

	got, err := store.GetAssessment(ctx, record.ID)
	require.NoError(t, err)

	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, "north-40", got.FieldID)
	assert.Empty(t, got.ComparisonID)
	assert.Equal(t, a.Fertilizer, got.Assessment.Fertilizer)
	assert.Equal(t, a.OverallScore, got.Assessment.OverallScore)
	assert.True(t, a.AssessmentDate.Equal(got.Assessment.AssessmentDate))
	assert.Equal(t, a.PH.NutrientAvailabilityChanges, got.Assessment.PH.NutrientAvailabilityChanges)
	require.Len(t, got.Assessment.RemediationStrategies, len(a.RemediationStrategies))
	for i, s := range a.RemediationStrategies {
		assert.True(t, s.Cost.Low.Equal(got.Assessment.RemediationStrategies[i].Cost.Low))
	}
}

func TestGetAssessment_NotFound(t *testing.T) {
	store := createTestStorage(t)
	_, err := store.GetAssessment(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveAssessment_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.SaveAssessment(ctx, nil), ErrNilParameter)
	assert.ErrorIs(t, store.SaveAssessment(ctx, &model.AssessmentRecord{}), ErrInvalidRecord)

	a := assessFor(t, "compost", 1000)
	a.AssessmentDate = time.Time{}
	assert.ErrorIs(t, store.SaveAssessment(ctx, &model.AssessmentRecord{Assessment: a}), ErrInvalidRecord)
}

func TestSaveAssessment_Duplicate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	record := &model.AssessmentRecord{ID: "fixed-id", Assessment: assessFor(t, "compost", 1000)}
	require.NoError(t, store.SaveAssessment(ctx, record))

	err := store.SaveAssessment(ctx, &model.AssessmentRecord{ID: "fixed-id", Assessment: assessFor(t, "urea", 100)})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestSaveComparison(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	ranked, err := testEngine().CompareFertilizers(ctx, []model.FertilizerCandidate{
		{Type: model.FertilizerSynthetic, Name: "urea", Rate: 150, FrequencyPerYear: 1},
		{Type: model.FertilizerOrganic, Name: "compost", Rate: 1000, FrequencyPerYear: 1},
		{Type: model.FertilizerSynthetic, Name: "ammonium sulfate", Rate: 200, FrequencyPerYear: 1},
	}, testSoil(), nil)
	require.NoError(t, err)

	id, err := store.SaveComparison(ctx, "river-bottom", ranked)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	records, err := store.ListAssessments(ctx, service.HistoryFilter{FieldID: "river-bottom"})
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, r := range records {
		assert.Equal(t, id, r.ComparisonID)
		assert.Equal(t, i+1, r.Rank)
		assert.Equal(t, ranked[i].Fertilizer.Key, r.Assessment.Fertilizer.Key)
	}

	_, err = store.SaveComparison(ctx, "river-bottom", nil)
	assert.ErrorIs(t, err, ErrEmptySlice)
}

func TestListAssessments_Filters(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	base := testNow
	seed := []struct {
		field string
		name  string
		rate  float64
	}{
		{field: "a", name: "urea", rate: 150},
		{field: "a", name: "compost", rate: 1000},
		{field: "b", name: "urea", rate: 120},
		{field: "b", name: "manure", rate: 3000},
	}
	for i, s := range seed {
		record := &model.AssessmentRecord{
			FieldID:    s.field,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			Assessment: assessFor(t, s.name, s.rate),
		}
		require.NoError(t, store.SaveAssessment(ctx, record))
	}

	tests := []struct {
		name    string
		filter  service.HistoryFilter
		wantLen int
		first   string
	}{
		{name: "all newest first", filter: service.HistoryFilter{}, wantLen: 4, first: "manure"},
		{name: "by field", filter: service.HistoryFilter{FieldID: "a"}, wantLen: 2, first: "compost"},
		{name: "by fertilizer", filter: service.HistoryFilter{FertilizerKey: "Urea"}, wantLen: 2, first: "urea"},
		{name: "field and fertilizer", filter: service.HistoryFilter{FieldID: "b", FertilizerKey: "urea"}, wantLen: 1, first: "urea"},
		{name: "limit", filter: service.HistoryFilter{Limit: 1}, wantLen: 1, first: "manure"},
		{name: "offset", filter: service.HistoryFilter{Limit: 2, Offset: 1}, wantLen: 2, first: "urea"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListAssessments(ctx, tt.filter)
			require.NoError(t, err)
			require.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.first, got[0].Assessment.Fertilizer.Key)
		})
	}

	_, err := store.ListAssessments(ctx, service.HistoryFilter{Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestClassifyError(t *testing.T) {
	busy := classifyError(sqlite3.Error{Code: sqlite3.ErrBusy})
	assert.True(t, common.IsRetryable(busy))
	assert.ErrorIs(t, busy, common.ErrDatabaseLocked)

	dup := classifyError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey})
	assert.False(t, common.IsRetryable(dup))
	assert.ErrorIs(t, dup, common.ErrDuplicateEntry)

	assert.NoError(t, classifyError(nil))
}
