package etl

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BartekS5/uncoupledetl/pkg/database"
	"github.com/BartekS5/uncoupledetl/pkg/etlerrors"
	"github.com/BartekS5/uncoupledetl/pkg/models"
)

func sqliteTarget(t *testing.T) string {
	t.Helper()
	return "sqlite://" + filepath.Join(t.TempDir(), "pokemon.db")
}

func openTarget(t *testing.T, target string) *sql.DB {
	t.Helper()
	parsed, err := database.ParseTarget(target)
	require.NoError(t, err)
	db, err := database.OpenSQL(context.Background(), parsed)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func countRows(t *testing.T, target string) int {
	t.Helper()
	var n int
	require.NoError(t, openTarget(t, target).QueryRow("SELECT COUNT(*) FROM pokemon").Scan(&n))
	return n
}

func sampleRows() []models.PokemonRow {
	return []models.PokemonRow{
		{ID: 1, Name: "bulbasaur", Types: "grass, poison", Weight: 6.9, Height: 0.7, Sprite: "url"},
		{ID: 4, Name: "charmander", Types: "fire", Weight: 8.5, Height: 0.6, Sprite: "url4"},
	}
}

func TestLoadToDatabase(t *testing.T) {
	target := sqliteTarget(t)

	require.NoError(t, LoadToDatabase(context.Background(), sampleRows(), target))

	var got models.PokemonRow
	err := openTarget(t, target).
		QueryRow("SELECT id, name, types, weight, height, sprite FROM pokemon WHERE id = ?", 1).
		Scan(&got.ID, &got.Name, &got.Types, &got.Weight, &got.Height, &got.Sprite)
	require.NoError(t, err)
	assert.Equal(t, sampleRows()[0], got)
	assert.Equal(t, 2, countRows(t, target))
}

func TestLoadToDatabase_EmptyBatchResetsSchema(t *testing.T) {
	target := sqliteTarget(t)

	require.NoError(t, LoadToDatabase(context.Background(), sampleRows(), target))
	require.NoError(t, LoadToDatabase(context.Background(), []models.PokemonRow{}, target))

	assert.Equal(t, 0, countRows(t, target))
}

func TestLoadToDatabase_EmptyBatchOnFreshTarget(t *testing.T) {
	target := sqliteTarget(t)

	require.NoError(t, LoadToDatabase[models.PokemonRow](context.Background(), nil, target))

	var name string
	err := openTarget(t, target).
		QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'pokemon'").
		Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, 0, countRows(t, target))
}

func TestLoadToDatabase_Idempotent(t *testing.T) {
	target := sqliteTarget(t)

	require.NoError(t, LoadToDatabase(context.Background(), sampleRows(), target))
	require.NoError(t, LoadToDatabase(context.Background(), sampleRows(), target))

	assert.Equal(t, len(sampleRows()), countRows(t, target))
}

func TestLoadToDatabase_FailureCommitsNothing(t *testing.T) {
	target := sqliteTarget(t)
	require.NoError(t, LoadToDatabase(context.Background(), sampleRows(), target))

	dup := []models.PokemonRow{
		{ID: 7, Name: "squirtle", Types: "water", Weight: 9, Height: 0.5, Sprite: "u"},
		{ID: 7, Name: "squirtle", Types: "water", Weight: 9, Height: 0.5, Sprite: "u"},
	}
	err := LoadToDatabase(context.Background(), dup, target)
	require.Error(t, err)
	assert.True(t, etlerrors.IsPersistence(err))

	var pe *etlerrors.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "insert", pe.Op)

	// The reset was rolled back with the inserts.
	assert.Equal(t, len(sampleRows()), countRows(t, target))
}

func TestLoadToDatabase_ConnectErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"unknown scheme", "oracle://db"},
		{"missing directory", "sqlite://" + filepath.Join(t.TempDir(), "missing", "pokemon.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := LoadToDatabase(context.Background(), sampleRows(), tt.target)
			require.Error(t, err)

			var pe *etlerrors.PersistenceError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "connect", pe.Op)
		})
	}
}

func TestLoader_LoadStrategy(t *testing.T) {
	var gotRecords []models.PokemonRow
	var gotTarget string
	strategy := func(_ context.Context, records []models.PokemonRow, target string) error {
		gotRecords, gotTarget = records, target
		return nil
	}

	require.NoError(t, NewLoader(sampleRows()).LoadStrategy(context.Background(), strategy, "sqlite://x.db"))
	assert.Equal(t, sampleRows(), gotRecords)
	assert.Equal(t, "sqlite://x.db", gotTarget)
}

func TestDispatch_SQL(t *testing.T) {
	target := sqliteTarget(t)

	require.NoError(t, Dispatch(context.Background(), sampleRows(), target))
	assert.Equal(t, 2, countRows(t, target))

	err := Dispatch(context.Background(), sampleRows(), "ftp://nowhere")
	assert.True(t, etlerrors.IsPersistence(err))
}

func TestToDocument(t *testing.T) {
	row := sampleRows()[0]
	doc := toDocument(row.Columns(), row.Values())

	require.Len(t, doc, 6)
	assert.Equal(t, "_id", doc[0].Key)
	assert.Equal(t, 1, doc[0].Value)
	assert.Equal(t, "types", doc[2].Key)
	assert.Equal(t, "grass, poison", doc[2].Value)
}
