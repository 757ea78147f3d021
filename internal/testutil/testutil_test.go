package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/soilsense/internal/model"
	"github.com/Veraticus/soilsense/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestDBSeedsRecords(t *testing.T) {
	urea := Assess(t, "urea", 150, SoilNeutralLoam)
	compost := Assess(t, "compost", 1000, SoilNeutralLoam)

	db := SetupTestDBWithOptions(t, TestDBOptions{
		Records: []model.AssessmentRecord{Record("north-40", urea), Record("south-20", compost)},
	})
	require.Len(t, db.Records, 2)

	got := db.MustGet(db.Records[1].ID)
	assert.Equal(t, "south-20", got.FieldID)
	assert.Equal(t, "compost", got.Assessment.Fertilizer.Key)

	records, err := db.Storage.ListAssessments(context.Background(), service.HistoryFilter{FieldID: "north-40"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, db.Records[0].ID, records[0].ID)
}

func TestSetupTestDBCustomSetup(t *testing.T) {
	var called bool
	SetupTestDBWithOptions(t, TestDBOptions{
		CustomSetup: func(ctx context.Context, s service.Storage) error {
			called = true
			_, err := s.ListAssessments(ctx, service.HistoryFilter{})
			return err
		},
	})
	assert.True(t, called)
}

func TestSoilFixturesAreValid(t *testing.T) {
	for _, name := range []SoilName{SoilNeutralLoam, SoilAcidicLoam, SoilSandyLowOM, SoilHeavyClay} {
		assert.NoError(t, Soil(name).Validate(), name)
	}
	assert.Less(t, Soil(SoilAcidicLoam).PH, Soil(SoilNeutralLoam).PH)
}
