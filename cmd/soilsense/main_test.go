package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/soilsense/internal/common"
	"github.com/Veraticus/soilsense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const comparisonYAML = `field_id: north-40
soil:
  ph: 6.5
  organic_matter_percent: 3
  cec: 15
  texture: loam
  drainage: well
  test_date: 2025-03-01
candidates:
  - {type: synthetic, name: urea, rate: 150}
  - {type: organic, name: compost, rate: 1000}
`

const batchYAML = `fields:
  - id: north-40
    name: North
    soil: {ph: 6.5, organic_matter_percent: 3, cec: 15, texture: loam, test_date: 2025-03-01}
    candidates:
      - {name: urea, rate: 150}
      - {name: compost, rate: 1000}
  - id: empty
    soil: {ph: 6.5, organic_matter_percent: 3, cec: 15, texture: loam, test_date: 2025-03-01}
`

// testEnv writes a config pointing at a temporary database.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := "database:\n  path: " + filepath.Join(dir, "history.db") + "\nlogging:\n  level: error\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, testEnv(t), "version")
	require.NoError(t, err)
	assert.Equal(t, "soilsense dev\n", out)
}

func TestAssessFromFlags(t *testing.T) {
	out, err := execute(t, testEnv(t), "assess",
		"--fertilizer", "urea", "--rate", "150", "--ph", "6.5", "--om", "3", "--cec", "15",
		"--texture", "loam", "--test-date", "2025-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "urea")
	assert.Contains(t, out, "Outlook")
}

func TestAssessRequiresFertilizer(t *testing.T) {
	_, err := execute(t, testEnv(t), "assess", "--rate", "150", "--ph", "6.5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--fertilizer")
}

func TestAssessRejectsInvalidSoil(t *testing.T) {
	_, err := execute(t, testEnv(t), "assess", "--fertilizer", "urea", "--rate", "150", "--ph", "15", "--om", "3")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestAssessSaveAndHistory(t *testing.T) {
	cfg := testEnv(t)
	out, err := execute(t, cfg, "-o", "json", "assess",
		"--fertilizer", "compost", "--type", "organic", "--rate", "1000", "--ph", "6.5", "--om", "3",
		"--texture", "loam", "--field", "north-40", "--save")
	require.NoError(t, err)

	var a model.SoilHealthAssessment
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, "compost", a.Fertilizer.Key)

	out, err = execute(t, cfg, "-o", "json", "history", "--field", "north-40")
	require.NoError(t, err)
	var records []model.AssessmentRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "compost", records[0].Assessment.Fertilizer.Key)

	out, err = execute(t, cfg, "history", records[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "compost")

	_, err = execute(t, cfg, "history", "no-such-id")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	cfg := testEnv(t)
	file := writeFile(t, "compare.yaml", comparisonYAML)

	out, err := execute(t, cfg, "-o", "json", "compare", file, "--save")
	require.NoError(t, err)

	var ranked []model.RankedAssessment
	require.NoError(t, json.Unmarshal([]byte(out), &ranked))
	require.Len(t, ranked, 2)
	assert.Equal(t, "compost", ranked[0].Fertilizer.Key)
	assert.Equal(t, 2, ranked[1].Rank)

	out, err = execute(t, cfg, "-o", "json", "history", "--field", "north-40")
	require.NoError(t, err)
	var records []model.AssessmentRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	assert.Len(t, records, 2)
}

func TestOptimize(t *testing.T) {
	file := writeFile(t, "compare.yaml", comparisonYAML)

	out, err := execute(t, testEnv(t), "-o", "json", "optimize", file, "--weight", "0.5")
	require.NoError(t, err)

	var payload model.RecommendationPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "compost", payload.FertilizerKey)
	assert.Equal(t, "balanced", payload.PriorityEmphasis)
	assert.InDelta(t, 0.5, payload.PriorityWeight, 1e-9)
}

func TestOptimizeRejectsBadWeight(t *testing.T) {
	file := writeFile(t, "compare.yaml", comparisonYAML)
	_, err := execute(t, testEnv(t), "optimize", file, "--weight", "1.5")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestBatchReportsFailedFields(t *testing.T) {
	file := writeFile(t, "fields.yaml", batchYAML)

	out, err := execute(t, testEnv(t), "-o", "json", "batch", file, "--no-progress")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 fields failed")

	var results []struct {
		FieldID  string                   `json:"field_id"`
		Error    string                   `json:"error"`
		Rankings []model.RankedAssessment `json:"rankings"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "compost", results[0].Rankings[0].Fertilizer.Key)
	assert.NotEmpty(t, results[1].Error)
}

func TestFertilizers(t *testing.T) {
	out, err := execute(t, testEnv(t), "fertilizers")
	require.NoError(t, err)
	assert.Contains(t, out, "ammonium_sulfate")
	assert.Contains(t, out, "compost")
}

func TestUnknownOutputFormat(t *testing.T) {
	_, err := execute(t, testEnv(t), "-o", "xml", "fertilizers")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestMigrate(t *testing.T) {
	_, err := execute(t, testEnv(t), "migrate")
	assert.NoError(t, err)
}

func TestExplain(t *testing.T) {
	plain := errors.New("disk full")
	tests := []struct {
		err      error
		name     string
		wantHint string
	}{
		{name: "invalid input", err: common.InvalidInputf("soil pH must be within [0, 14], got 15"), wantHint: "Invalid input"},
		{name: "no candidates", err: fmt.Errorf("compare: %w", common.ErrNoCandidates), wantHint: "no fertilizer candidates"},
		{name: "not found", err: common.ErrNotFound, wantHint: "soilsense history"},
		{name: "config", err: fmt.Errorf("%w: engine.workers", common.ErrInvalidConfig), wantHint: "SOILSENSE_"},
		{name: "component fault", err: common.NewAssessmentError("ph_effects", plain), wantHint: "could not be computed"},
		{name: "already explained", err: common.NewUserError("Custom hint", plain), wantHint: "Custom hint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := explain(tt.err)
			var userErr *common.UserError
			require.ErrorAs(t, got, &userErr)
			assert.Contains(t, userErr.UserMessage, tt.wantHint)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.Equal(t, plain, explain(plain))
}

func TestExplainCommandError(t *testing.T) {
	_, err := execute(t, testEnv(t), "history", "no-such-id")
	require.Error(t, err)
	assert.Contains(t, explain(err).Error(), "No saved assessment matches")
}
