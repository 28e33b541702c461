package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the model scanner:
// - Concrete scenario: one model, one CharField, exact line numbers
// - Inheritance closure: transitively derived classes are models too,
//   regardless of declaration order
// - Field order matches source order with strictly increasing lines
// - Multi-line field definitions keep their opening line number
// - @property immediately before a method yields one computed field
// - An intervening statement cancels a pending @property flag
// - A stacked decorator between @property and its def keeps the flag
// - class Meta suspends field collection for the rest of the model
// - Blank lines never terminate a model scope
// - Back-to-back models: a new header closes the previous model
// - Loose fallback catches unrecognized constructors at field indentation
// - Files without qualifying classes yield an empty result
// - Idempotence: rescanning unchanged text yields identical results
// - Unreadable files yield an empty result

func TestScanModelSource_Simple(t *testing.T) {
	t.Parallel()

	models := ScanModelSource(SplitLines("class Foo(models.Model):\n    name = models.CharField(max_length=10)\n"))
	require.Len(t, models, 1)

	assert.Equal(t, "Foo", models[0].Name)
	assert.Equal(t, 0, models[0].Line)
	require.Len(t, models[0].Fields, 1)

	field := models[0].Fields[0]
	assert.Equal(t, "name", field.Name)
	assert.Equal(t, "CharField", field.FieldType)
	assert.Equal(t, 1, field.Line)
	assert.False(t, field.IsProperty)
}

func TestScanModelSource_InheritanceClosure(t *testing.T) {
	t.Parallel()

	// Derived is declared before its base and never names models.Model
	// itself; the closure must still pick it up.
	src := `from django.db import models

class Derived(Base):
    extra = models.TextField()

class Base(models.Model):
    name = models.CharField(max_length=50)

class Unrelated(object):
    ignored = models.CharField(max_length=5)
`
	models := ScanModelSource(SplitLines(src))
	require.Len(t, models, 2)

	assert.Equal(t, "Derived", models[0].Name)
	assert.Equal(t, "Base", models[1].Name)
	require.Len(t, models[0].Fields, 1)
	assert.Equal(t, "TextField", models[0].Fields[0].FieldType)
}

func TestScanModelSource_FieldOrder(t *testing.T) {
	t.Parallel()

	src := `class Article(models.Model):
    title = models.CharField(max_length=100)
    body = models.TextField()
    created = models.DateTimeField(auto_now_add=True)
`
	models := ScanModelSource(SplitLines(src))
	require.Len(t, models, 1)
	require.Len(t, models[0].Fields, 3)

	assert.Equal(t, []string{"title", "body", "created"},
		[]string{models[0].Fields[0].Name, models[0].Fields[1].Name, models[0].Fields[2].Name})
	for i := 1; i < len(models[0].Fields); i++ {
		assert.Greater(t, models[0].Fields[i].Line, models[0].Fields[i-1].Line)
	}
}

func TestScanModelSource_MultiLineField(t *testing.T) {
	t.Parallel()

	src := `class Article(models.Model):
    author = models.ForeignKey(
        'auth.User',
        on_delete=models.CASCADE,
        related_name='articles',
    )
    title = models.CharField(max_length=100)
`
	models := ScanModelSource(SplitLines(src))
	require.Len(t, models, 1)
	require.Len(t, models[0].Fields, 2)

	author := models[0].Fields[0]
	assert.Equal(t, "author", author.Name)
	assert.Equal(t, "ForeignKey", author.FieldType)
	assert.Equal(t, 1, author.Line, "multi-line field keeps its opening line")

	assert.Equal(t, "title", models[0].Fields[1].Name)
	assert.Equal(t, 6, models[0].Fields[1].Line)
}

func TestScanModelSource_ComputedProperty(t *testing.T) {
	t.Parallel()

	src := `class Article(models.Model):
    title = models.CharField(max_length=100)

    @property
    def slug(self):
        return self.title.lower()
`
	models := ScanModelSource(SplitLines(src))
	require.Len(t, models, 1)
	require.Len(t, models[0].Fields, 2)

	slug := models[0].Fields[1]
	assert.Equal(t, "slug", slug.Name)
	assert.Equal(t, PropertyFieldType, slug.FieldType)
	assert.Equal(t, 4, slug.Line)
	assert.True(t, slug.IsProperty)
}

func TestScanModelSource_InterveningStatementCancelsProperty(t *testing.T) {
	t.Parallel()

	// Conservative interpretation: any non-blank, non-decorator statement
	// between @property and the next method clears the pending flag.
	src := `class Article(models.Model):
    @property
    x = 1
    def not_a_property(self):
        return 1
`
	models := ScanModelSource(SplitLines(src))
	require.Len(t, models, 1)
	assert.Empty(t, models[0].Fields)
}

func TestScanModelSource_StackedDecoratorKeepsPendingProperty(t *testing.T) {
	t.Parallel()

	src := `class Article(models.Model):
    @property
    @functools.lru_cache
    def slug(self):
        return self.title.lower()
`
	models := ScanModelSource(SplitLines(src))
	require.Len(t, models, 1)
	require.Len(t, models[0].Fields, 1)

	slug := models[0].Fields[0]
	assert.Equal(t, "slug", slug.Name)
	assert.Equal(t, PropertyFieldType, slug.FieldType)
	assert.Equal(t, 3, slug.Line)
	assert.True(t, slug.IsProperty)
}

func TestScanModelSource_MetaSuspendsCollection(t *testing.T) {
	t.Parallel()

	src := `class Article(models.Model):
    title = models.CharField(max_length=100)
    class Meta:
        ordering = ['title']
    body = models.TextField()
`
	models := ScanModelSource(SplitLines(src))
	require.Len(t, models, 1)
	require.Len(t, models[0].Fields, 1)
	assert.Equal(t, "title", models[0].Fields[0].Name)
}

func TestScanModelSource_BlankLinesKeepScope(t *testing.T) {
	t.Parallel()

	src := `class Article(models.Model):
    title = models.CharField(max_length=100)


    body = models.TextField()
`
	models := ScanModelSource(SplitLines(src))
	require.Len(t, models, 1)
	assert.Len(t, models[0].Fields, 2)
}

func TestScanModelSource_BackToBackModels(t *testing.T) {
	t.Parallel()

	src := `class First(models.Model):
    a = models.CharField(max_length=1)
class Second(models.Model):
    b = models.IntegerField()
`
	models := ScanModelSource(SplitLines(src))
	require.Len(t, models, 2)
	assert.Equal(t, "First", models[0].Name)
	assert.Equal(t, "Second", models[1].Name)
	require.Len(t, models[0].Fields, 1)
	require.Len(t, models[1].Fields, 1)
}

func TestScanModelSource_LooseFallback(t *testing.T) {
	t.Parallel()

	src := `class Article(models.Model):
    title = models.CharField(max_length=100)
    tags = taggit.TaggableManager()
`
	models := ScanModelSource(SplitLines(src))
	require.Len(t, models, 1)
	require.Len(t, models[0].Fields, 2)
	assert.Equal(t, "TaggableManager", models[0].Fields[1].FieldType)
}

func TestScanModelSource_LooseFallbackNeedsPriorField(t *testing.T) {
	t.Parallel()

	src := `class Article(models.Model):
    tags = taggit.TaggableManager()
`
	models := ScanModelSource(SplitLines(src))
	require.Len(t, models, 1)
	assert.Empty(t, models[0].Fields,
		"the loose fallback is gated on the indentation of a prior recognized field")
}

func TestScanModelSource_NoQualifyingClasses(t *testing.T) {
	t.Parallel()

	src := `class Plain(object):
    x = 1

def helper():
    pass
`
	assert.Empty(t, ScanModelSource(SplitLines(src)))
	assert.Empty(t, ScanModelSource(SplitLines("")))
}

func TestScanModelSource_TrailingModelFlushedAtEOF(t *testing.T) {
	t.Parallel()

	src := `class Article(models.Model):
    author = models.ForeignKey(
        'auth.User',
        on_delete=models.CASCADE`
	models := ScanModelSource(SplitLines(src))
	require.Len(t, models, 1)
	require.Len(t, models[0].Fields, 1)
	assert.Equal(t, "author", models[0].Fields[0].Name)
	assert.Equal(t, 1, models[0].Fields[0].Line)
}

func TestScanModelSource_Idempotent(t *testing.T) {
	t.Parallel()

	src := `class Article(models.Model):
    title = models.CharField(max_length=100)

    @property
    def slug(self):
        return self.title
`
	lines := SplitLines(src)
	first := ScanModelSource(lines)
	second := ScanModelSource(lines)
	assert.Equal(t, first, second)
}

func TestExtractModels_UnreadableFile(t *testing.T) {
	t.Parallel()

	models := ExtractModels(filepath.Join(t.TempDir(), "missing.py"))
	assert.Empty(t, models)
}

func TestExtractModels_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "models.py")
	src := "from django.db import models\n\nclass Foo(models.Model):\n    name = models.CharField(max_length=10)\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	models := ExtractModels(path)
	require.Len(t, models, 1)
	assert.Equal(t, "Foo", models[0].Name)
	assert.Equal(t, 2, models[0].Line)
}
