package storage

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djangolens/djangolens/internal/project"
	"github.com/djangolens/djangolens/internal/scanner"
)

// Test Plan for the snapshot store:
// - A saved snapshot reads back with models, fields and their order intact
// - LatestScan returns the most recent scan record
// - LatestScan on an empty store reports sql.ErrNoRows
// - Two snapshots in one store stay isolated by scan ID

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSnapshot(root string) *project.Snapshot {
	return &project.Snapshot{
		Root:        root,
		GeneratedAt: time.Now().UTC(),
		Files: []project.FileResult{
			{
				File: project.File{Path: "blog/models.py", Kind: project.KindModels},
				Models: []scanner.ModelInfo{
					{
						Name: "Post",
						Line: 3,
						Fields: []scanner.FieldInfo{
							{Name: "title", FieldType: "CharField", Line: 4},
							{Name: "summary", FieldType: scanner.PropertyFieldType, Line: 7, IsProperty: true},
						},
					},
					{Name: "Tag", Line: 12},
				},
			},
			{
				File: project.File{Path: "blog/urls.py", Kind: project.KindURLs},
				URLs: []scanner.URLInfo{
					{Pattern: "posts/", ViewName: "views.post_list", Line: 5},
				},
			},
		},
	}
}

func TestSaveSnapshot_RoundTrip(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	scanID, err := store.SaveSnapshot(sampleSnapshot("/proj"))
	require.NoError(t, err)
	require.NotEmpty(t, scanID)

	models, err := store.ModelsForScan(scanID)
	require.NoError(t, err)
	require.Contains(t, models, "blog/models.py")

	stored := models["blog/models.py"]
	require.Len(t, stored, 2)
	assert.Equal(t, "Post", stored[0].Name)
	assert.Equal(t, 3, stored[0].Line)
	assert.Equal(t, "Tag", stored[1].Name)
	assert.Empty(t, stored[1].Fields)

	fields := stored[0].Fields
	require.Len(t, fields, 2)
	assert.Equal(t, "title", fields[0].Name)
	assert.Equal(t, "CharField", fields[0].FieldType)
	assert.False(t, fields[0].IsProperty)
	assert.Equal(t, "summary", fields[1].Name)
	assert.True(t, fields[1].IsProperty)
}

func TestLatestScan(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	first := sampleSnapshot("/old")
	first.GeneratedAt = time.Now().UTC().Add(-time.Hour)
	_, err := store.SaveSnapshot(first)
	require.NoError(t, err)

	second := sampleSnapshot("/new")
	newID, err := store.SaveSnapshot(second)
	require.NoError(t, err)

	rec, err := store.LatestScan()
	require.NoError(t, err)
	assert.Equal(t, newID, rec.ID)
	assert.Equal(t, "/new", rec.Root)
}

func TestLatestScan_Empty(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	_, err := store.LatestScan()
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestModelsForScan_IsolatedByScan(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	firstID, err := store.SaveSnapshot(sampleSnapshot("/a"))
	require.NoError(t, err)

	other := sampleSnapshot("/b")
	other.Files[0].Models = other.Files[0].Models[:1]
	secondID, err := store.SaveSnapshot(other)
	require.NoError(t, err)

	first, err := store.ModelsForScan(firstID)
	require.NoError(t, err)
	second, err := store.ModelsForScan(secondID)
	require.NoError(t, err)

	assert.Len(t, first["blog/models.py"], 2)
	assert.Len(t, second["blog/models.py"], 1)
}
