package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jengzang/meteorites-backend-go/internal/database"
	"github.com/jengzang/meteorites-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeteoriteRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{Path: filepath.Join(t.TempDir(), "meteorites.db")})
	require.NoError(t, err)
	defer db.Close()

	repo, err := NewMeteoriteRepository(db, "meteorites")
	require.NoError(t, err)
	require.NoError(t, repo.EnsureTable(ctx))

	records := []models.RawMeteorite{
		{SourceKey: "meteorite_1", ID: "2", Name: "Abee", RecClass: "EH4", Mass: "107000", Fall: "Fell", Year: "1952", Latitude: "54.21667", Longitude: "-113"},
		{SourceKey: "meteorite_2", ID: "1", Name: "Aachen", RecClass: "L5", Mass: "21", Fall: "Fell", Year: "1880", Latitude: "50.775", Longitude: "6.08333"},
	}
	require.NoError(t, repo.ReplaceAll(ctx, records))
	// Replacing again must not duplicate
	require.NoError(t, repo.ReplaceAll(ctx, records))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	got, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestNewMeteoriteRepositoryRejectsBadTable(t *testing.T) {
	_, err := NewMeteoriteRepository(nil, `meteorites"; DROP TABLE x; --`)
	assert.Error(t, err)
}
