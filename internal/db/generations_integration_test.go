//go:build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	require.NoError(t, db.EnsureSchema(ctx))
	require.NoError(t, db.EnsureSchema(ctx), "schema creation is idempotent")

	return db
}

func cleanupGeneration(t *testing.T, db *DB, id uuid.UUID) {
	t.Helper()
	_, _ = db.pool.Exec(context.Background(), "DELETE FROM cv_generations WHERE id = $1", id)
}

func TestIntegration_Generations_CRUD(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	result := sampleResult()
	result.Source.Hash = "integration-" + uuid.NewString()
	result.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	defer cleanupGeneration(t, db, result.ID)

	t.Run("save and get", func(t *testing.T) {
		require.NoError(t, db.SaveGeneration(ctx, result))

		got, err := db.GetGeneration(ctx, result.ID)
		require.NoError(t, err)
		assert.Equal(t, result.TemplateID, got.TemplateID)
		assert.Equal(t, "JANE DOE", got.Candidate)
		assert.True(t, result.CreatedAt.Equal(got.CreatedAt))

		restored, err := got.Result()
		require.NoError(t, err)
		assert.Equal(t, []string{"Go"}, restored.CV.Skills)
	})

	t.Run("save again updates output paths", func(t *testing.T) {
		result.PDFPath = "output/CV_FINAL_JANE_DOE_1a2b3c4d.pdf"
		require.NoError(t, db.SaveGeneration(ctx, result))

		got, err := db.GetGeneration(ctx, result.ID)
		require.NoError(t, err)
		assert.Equal(t, result.PDFPath, got.PDFPath)
	})

	t.Run("list and find by hash", func(t *testing.T) {
		list, err := db.ListGenerations(ctx, 10)
		require.NoError(t, err)
		assert.NotEmpty(t, list)

		byHash, err := db.FindBySourceHash(ctx, result.Source.Hash)
		require.NoError(t, err)
		require.NotEmpty(t, byHash)
		assert.Equal(t, result.ID, byHash[0].ID)
	})

	t.Run("missing generation", func(t *testing.T) {
		_, err := db.GetGeneration(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
