package scanner

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the registration extractor:
// - Class-based idiom resolves model via forward "model =" search
// - Forward search never crosses into the next top-level class
// - Register calls with and without an explicit admin class
// - Decorator idiom pairs @admin.register with the following class header
// - Stacked decorators between the register decorator and the class
// - All three idioms are concatenated without deduplication
// - Unresolved associations are reported with an empty model name
// - Unreadable files yield an empty result

func TestScanAdminSource_ClassBased(t *testing.T) {
	t.Parallel()

	src := `from django.contrib import admin

class ArticleAdmin(admin.ModelAdmin):
    list_display = ('title',)
    model = Article

class CommentInline(admin.TabularInline):
    model = Comment
`
	admins := ScanAdminSource(SplitLines(src))
	require.Len(t, admins, 2)

	assert.Equal(t, AdminInfo{ClassName: "ArticleAdmin", Line: 2, ModelName: "Article"}, admins[0])
	assert.Equal(t, AdminInfo{ClassName: "CommentInline", Line: 6, ModelName: "Comment"}, admins[1])
}

func TestScanAdminSource_ForwardSearchStopsAtNextClass(t *testing.T) {
	t.Parallel()

	src := `class ArticleAdmin(admin.ModelAdmin):
    list_display = ('title',)

class CommentInline(admin.TabularInline):
    model = Comment
`
	admins := ScanAdminSource(SplitLines(src))
	require.Len(t, admins, 2)

	assert.Empty(t, admins[0].ModelName,
		"a model assignment in a later class must not leak backwards")
	assert.Equal(t, "Comment", admins[1].ModelName)
}

func TestScanAdminSource_RegisterCalls(t *testing.T) {
	t.Parallel()

	src := `admin.site.register(Article, ArticleAdmin)
admin.site.register(Comment)
`
	admins := ScanAdminSource(SplitLines(src))
	require.Len(t, admins, 2)

	assert.Equal(t, AdminInfo{ClassName: "ArticleAdmin", Line: 0, ModelName: "Article"}, admins[0])
	assert.Equal(t, AdminInfo{ClassName: RegisterCallAdminName, Line: 1, ModelName: "Comment"}, admins[1])
}

func TestScanAdminSource_Decorator(t *testing.T) {
	t.Parallel()

	src := `@admin.register(Article)
class ArticleAdmin(admin.ModelAdmin):
    list_display = ('title',)

@admin.register(Comment)
@some_other_decorator
class CommentAdmin(admin.ModelAdmin):
    pass
`
	admins := ScanAdminSource(SplitLines(src))
	require.Len(t, admins, 4, "class-based and decorator scans both report these classes")

	// The decorator scan pairs each register decorator with its class.
	last := admins[len(admins)-2:]
	assert.Equal(t, AdminInfo{ClassName: "ArticleAdmin", Line: 1, ModelName: "Article"}, last[0])
	assert.Equal(t, AdminInfo{ClassName: "CommentAdmin", Line: 6, ModelName: "Comment"}, last[1])
}

func TestScanAdminSource_NoDeduplication(t *testing.T) {
	t.Parallel()

	// A decorated admin class with an explicit model assignment is found
	// by both the class-based and the decorator scan.
	src := `@admin.register(Article)
class ArticleAdmin(admin.ModelAdmin):
    model = Article
`
	admins := ScanAdminSource(SplitLines(src))
	assert.Len(t, admins, 2)
}

func TestExtractAdmins_UnreadableFile(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ExtractAdmins(filepath.Join(t.TempDir(), "admin.py")))
}
