package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djangolens/djangolens/internal/project"
	"github.com/djangolens/djangolens/internal/scanner"
)

// Test Plan for symbol search:
// - A model name query returns the model with its path and line
// - Queries are case-insensitive (bleve's default analyzer lowercases)
// - Fields, admin classes and settings keys are all searchable
// - A query with no matches returns an empty slice
// - Limit caps the number of hits

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	snap := &project.Snapshot{
		Root: "/proj",
		Files: []project.FileResult{
			{
				File: project.File{Path: "blog/models.py", Kind: project.KindModels},
				Models: []scanner.ModelInfo{
					{Name: "Post", Line: 3, Fields: []scanner.FieldInfo{
						{Name: "headline", FieldType: "CharField", Line: 4},
						{Name: "post", FieldType: "ForeignKey", Line: 5},
					}},
					{Name: "Comment", Line: 10},
				},
			},
			{
				File: project.File{Path: "blog/admin.py", Kind: project.KindAdmin},
				Admins: []scanner.AdminInfo{
					{ClassName: "PostAdmin", Line: 5, ModelName: "Post"},
				},
			},
			{
				File: project.File{Path: "mysite/settings.py", Kind: project.KindSettings},
				Settings: []scanner.SettingInfo{
					{Key: "DEBUG", Value: "True", Line: 2},
				},
			},
		},
	}

	idx, err := NewIndex(snap)
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestQuery_Model(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	hits, err := idx.Query("Comment", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	assert.Equal(t, "Comment", hits[0].Name)
	assert.Equal(t, "model", hits[0].Kind)
	assert.Equal(t, "blog/models.py", hits[0].Path)
	assert.Equal(t, 10, hits[0].Line)
	assert.Greater(t, hits[0].Score, 0.0)
}

func TestQuery_CaseInsensitive(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	hits, err := idx.Query("comment", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Comment", hits[0].Name)
}

func TestQuery_OtherKinds(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)

	hits, err := idx.Query("headline", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "field", hits[0].Kind)

	hits, err = idx.Query("PostAdmin", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "admin", hits[0].Kind)

	hits, err = idx.Query("DEBUG", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "setting", hits[0].Kind)
	assert.Equal(t, "mysite/settings.py", hits[0].Path)
}

func TestQuery_NoMatch(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	hits, err := idx.Query("nonexistent", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestQuery_Limit(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	// "post" matches both the Post model and the post foreign key field.
	hits, err := idx.Query("post", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	hits, err = idx.Query("post", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}
