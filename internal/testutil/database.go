// Package testutil provides shared fixtures for tests that need a migrated history
// store or realistic soil tests.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/soilsense/internal/model"
	"github.com/Veraticus/soilsense/internal/service"
	"github.com/Veraticus/soilsense/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
	Records []model.AssessmentRecord
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, service.Storage) error
	Records        []model.AssessmentRecord
	SkipMigrations bool
}

// SetupTestDB creates a migrated in-memory history store that is closed when the
// test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// SetupTestDBWithOptions creates a test database with custom options. Seeded records
// are saved in order and returned with their generated IDs.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	ctx := context.Background()

	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	seeded := make([]model.AssessmentRecord, 0, len(opts.Records))
	for i := range opts.Records {
		record := opts.Records[i]
		if err := store.SaveAssessment(ctx, &record); err != nil {
			t.Fatalf("failed to seed record %d: %v", i, err)
		}
		seeded = append(seeded, record)
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		Records: seeded,
		t:       t,
	}
}

// MustGet returns the stored record with the given ID or fails the test.
func (db *TestDB) MustGet(id string) *model.AssessmentRecord {
	db.t.Helper()
	record, err := db.Storage.GetAssessment(context.Background(), id)
	if err != nil {
		db.t.Fatalf("failed to load record %s: %v", id, err)
	}
	return record
}
