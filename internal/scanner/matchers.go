package scanner

import (
	"regexp"
	"strings"
)

// Declaration matchers. Each matcher is an independent predicate over a
// single raw line, returning a structured match or nil. Extractors compose
// these; none of them keeps state.

var (
	classHeaderRe = regexp.MustCompile(`^(\s*)class\s+(\w+)\s*(?:\(([^)]*)\))?\s*:`)

	importAliasRe = regexp.MustCompile(`^import\s+([\w.]+)\s+as\s+(\w+)`)
	fromImportRe  = regexp.MustCompile(`^from\s+([\w.]+)\s+import\s+(.+)$`)

	propertyDecoratorRe = regexp.MustCompile(`^\s*@property\s*$`)
	methodDefRe         = regexp.MustCompile(`^\s*def\s+(\w+)\s*\(`)
	metaClassRe         = regexp.MustCompile(`^\s+class\s+Meta\s*:`)

	// Field assignment idioms, most specific first: module-qualified
	// constructor, then bare constructor. The loose fallback accepts any
	// plausible call with at most one dotted qualifier.
	qualifiedFieldRe = regexp.MustCompile(`^(\s*)(\w+)\s*=\s*(\w+)\.(\w+)\s*\(`)
	bareFieldRe      = regexp.MustCompile(`^(\s*)(\w+)\s*=\s*(\w+)\s*\(`)
	looseFieldRe     = regexp.MustCompile(`^(\s*)(\w+)\s*=\s*(\w+(?:\.\w+)?)\s*\(`)

	// Route idioms, tried in order: path(), re_path(), legacy url().
	// \b does not match between "_" and "p", so pathRouteRe cannot fire
	// inside "re_path(".
	pathRouteRe   = regexp.MustCompile(`\bpath\(\s*r?['"]([^'"]*)['"]\s*,\s*([\w.]+)`)
	rePathRouteRe = regexp.MustCompile(`\bre_path\(\s*r?['"]([^'"]*)['"]\s*,\s*([\w.]+)`)
	legacyRouteRe = regexp.MustCompile(`\burl\(\s*r?['"]([^'"]*)['"]\s*,\s*([\w.]+)`)

	includeRe = regexp.MustCompile(`(?:\bpath|\bre_path|\burl)\(\s*r?['"]([^'"]*)['"]\s*,\s*include\(\s*r?['"]([\w.]+)['"]`)

	registerCallRe      = regexp.MustCompile(`admin\.site\.register\(\s*(\w+)(?:\s*,\s*(\w+))?`)
	registerDecoratorRe = regexp.MustCompile(`^@admin\.register\(\s*(\w+)`)
	adminClassRe        = regexp.MustCompile(`^class\s+(\w+)\s*\(\s*([\w.]*(?:Admin|Inline))\s*\)\s*:`)
	modelAssignRe       = regexp.MustCompile(`^\s+model\s*=\s*(\w+)`)

	settingKeyRe = regexp.MustCompile(`^([A-Z][A-Z0-9_]*)\s*=\s*(.+)$`)
)

// MatchClassHeader matches "class Name(bases):" at any indentation.
// Returns nil for lines that are not class declarations. Line is left at
// zero; callers fill it in.
func MatchClassHeader(line string) *ClassHeader {
	m := classHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	header := &ClassHeader{
		Name:   m[2],
		Indent: len(m[1]),
	}
	if m[3] != "" {
		for _, base := range strings.Split(m[3], ",") {
			base = strings.TrimSpace(base)
			if base != "" {
				header.Bases = append(header.Bases, base)
			}
		}
	}
	return header
}

// RouteMatch is the structured result of a direct route declaration.
type RouteMatch struct {
	Pattern string
	Target  string
}

// MatchRoute tries the three direct route idioms in order and returns the
// first match. Lines whose target is an include() call are not direct
// routes and return nil.
func MatchRoute(line string) *RouteMatch {
	for _, re := range []*regexp.Regexp{pathRouteRe, rePathRouteRe, legacyRouteRe} {
		if m := re.FindStringSubmatch(line); m != nil {
			if m[2] == "include" {
				return nil
			}
			return &RouteMatch{Pattern: m[1], Target: m[2]}
		}
	}
	return nil
}

// IncludeMatch is the structured result of a route include declaration.
// Prefix is the literal pattern preceding the include() call.
type IncludeMatch struct {
	Prefix string
	Module string
}

// MatchInclude matches route lines of the form
// path('prefix/', include('app.urls')).
func MatchInclude(line string) *IncludeMatch {
	m := includeRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return &IncludeMatch{Prefix: m[1], Module: m[2]}
}

// FieldMatch is the structured result of a field assignment line.
type FieldMatch struct {
	Name string
	// Module is the qualifier before the constructor, empty for bare calls.
	Module      string
	Constructor string
	Indent      int
}

// MatchQualifiedField matches "name = module.Constructor(".
func MatchQualifiedField(line string) *FieldMatch {
	m := qualifiedFieldRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return &FieldMatch{Name: m[2], Module: m[3], Constructor: m[4], Indent: len(m[1])}
}

// MatchBareField matches "name = Constructor(" with no qualifier.
func MatchBareField(line string) *FieldMatch {
	m := bareFieldRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return &FieldMatch{Name: m[2], Constructor: m[3], Indent: len(m[1])}
}

// MatchLooseField is the fallback for plausible-but-unrecognized field
// declarations: "name = ident(" or "name = ident.ident(". The constructor
// reported is the last dotted segment.
func MatchLooseField(line string) *FieldMatch {
	m := looseFieldRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	callee := m[3]
	ctor := callee
	if idx := strings.LastIndex(callee, "."); idx >= 0 {
		ctor = callee[idx+1:]
	}
	fm := &FieldMatch{Name: m[2], Constructor: ctor, Indent: len(m[1])}
	if idx := strings.LastIndex(callee, "."); idx >= 0 {
		fm.Module = callee[:idx]
	}
	return fm
}

// MatchPropertyDecorator reports whether a line is a lone @property marker.
func MatchPropertyDecorator(line string) bool {
	return propertyDecoratorRe.MatchString(line)
}

// MatchMethodDef matches "def name(" and returns the method name.
func MatchMethodDef(line string) (string, bool) {
	m := methodDefRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MatchMetaClass reports whether a line opens a nested "class Meta:" block.
func MatchMetaClass(line string) bool {
	return metaClassRe.MatchString(line)
}

// RegisterCallMatch is the structured result of an admin.site.register call.
type RegisterCallMatch struct {
	Model string
	Admin string // empty when the call names only the model
}

// MatchRegisterCall matches "admin.site.register(Model[, AdminClass])".
func MatchRegisterCall(line string) *RegisterCallMatch {
	m := registerCallRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return &RegisterCallMatch{Model: m[1], Admin: m[2]}
}

// MatchRegisterDecorator matches "@admin.register(Model)" and returns the
// model name.
func MatchRegisterDecorator(line string) (string, bool) {
	m := registerDecoratorRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// AdminClassMatch is the structured result of a class-based admin
// declaration, a top-level class with a single base ending in Admin or
// Inline.
type AdminClassMatch struct {
	Name string
	Base string
}

// MatchAdminClass matches "class Name(somemodule.SomethingAdmin):".
func MatchAdminClass(line string) *AdminClassMatch {
	m := adminClassRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return &AdminClassMatch{Name: m[1], Base: m[2]}
}

// MatchModelAssign matches an indented "model = Identifier" line inside an
// admin class body.
func MatchModelAssign(line string) (string, bool) {
	m := modelAssignRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// SettingMatch is the structured result of a top-level settings assignment.
type SettingMatch struct {
	Key   string
	Value string
}

// MatchSetting matches "UPPER_KEY = value" starting at column zero.
func MatchSetting(line string) *SettingMatch {
	m := settingKeyRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return &SettingMatch{Key: m[1], Value: m[2]}
}
