package scanner

import "strings"

// importScanLimit bounds how far into a file import idioms are searched.
// Django files declare their imports at the top; 30 lines covers them.
const importScanLimit = 30

// ImportContext holds the import and alias mappings discovered in a file
// prefix. It decides whether a base-class list or field constructor refers
// to the Django ORM.
type ImportContext struct {
	// Aliases maps a module alias to the full module path it names,
	// from "import django.db.models as m".
	Aliases map[string]string
	// Imported maps a directly-imported symbol to its origin module,
	// from "from django.db import models" or
	// "from django.db.models import CharField, TextField".
	Imported map[string]string
}

// ScanImports scans at most the first importScanLimit lines for the two
// import idioms and returns the discovered mappings.
func ScanImports(lines []string) *ImportContext {
	ctx := &ImportContext{
		Aliases:  map[string]string{},
		Imported: map[string]string{},
	}

	limit := len(lines)
	if limit > importScanLimit {
		limit = importScanLimit
	}

	for i := 0; i < limit; i++ {
		line := lines[i]
		if m := importAliasRe.FindStringSubmatch(line); m != nil {
			ctx.Aliases[m[2]] = m[1]
			continue
		}
		if m := fromImportRe.FindStringSubmatch(line); m != nil {
			module := m[1]
			for _, name := range strings.Split(m[2], ",") {
				name = strings.TrimSpace(name)
				// "from x import y as z" binds z, not y.
				if idx := strings.Index(name, " as "); idx >= 0 {
					name = strings.TrimSpace(name[idx+4:])
				}
				if name != "" {
					ctx.Imported[name] = module
				}
			}
		}
	}
	return ctx
}

// modelsModule reports whether a module path names the Django ORM module,
// either exactly or as its trailing segment (django.db.models, models).
func modelsModule(module string) bool {
	return module == "models" || module == "django.db.models" ||
		strings.HasSuffix(module, ".models") || module == "django.db"
}

// IsRootBase reports whether a base-list entry denotes the root record
// base marker (models.Model), via direct qualification, a discovered
// module alias, or a direct symbol import.
func (c *ImportContext) IsRootBase(base string) bool {
	if base == "models.Model" {
		return true
	}
	if idx := strings.LastIndex(base, "."); idx > 0 {
		qualifier, name := base[:idx], base[idx+1:]
		if name != "Model" {
			return false
		}
		if module, ok := c.Aliases[qualifier]; ok && modelsModule(module) {
			return true
		}
		return false
	}
	if base == "Model" {
		module, ok := c.Imported["Model"]
		return ok && modelsModule(module)
	}
	return false
}

// IsFieldConstructor reports whether a field match refers to an ORM field
// constructor: qualified by "models" or a models alias, or a bare name
// imported directly from a models module.
func (c *ImportContext) IsFieldConstructor(m *FieldMatch) bool {
	if m == nil {
		return false
	}
	if m.Module != "" {
		if m.Module == "models" {
			return true
		}
		module, ok := c.Aliases[m.Module]
		return ok && modelsModule(module)
	}
	module, ok := c.Imported[m.Constructor]
	return ok && modelsModule(module)
}
