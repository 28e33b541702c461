package scanner

import "log"

// RegisterCallAdminName is the placeholder admin class name recorded for
// admin.site.register calls that name only the model.
const RegisterCallAdminName = "admin.site.register"

// ExtractAdmins reads a file and returns every admin registration found by
// the three idioms, scanned independently over the same text and
// concatenated without deduplication: class-based declarations, direct
// register calls, then decorator-based registrations.
func ExtractAdmins(path string) []AdminInfo {
	lines, err := ReadLines(path)
	if err != nil {
		log.Printf("admin: skipping unreadable file %s: %v", path, err)
		return []AdminInfo{}
	}
	return ScanAdminSource(lines)
}

// ScanAdminSource runs the three registration scans over pre-split lines.
func ScanAdminSource(lines []string) []AdminInfo {
	out := []AdminInfo{}
	out = append(out, scanAdminClasses(lines)...)
	out = append(out, scanRegisterCalls(lines)...)
	out = append(out, scanRegisterDecorators(lines)...)
	return out
}

// scanAdminClasses finds top-level classes whose single base ends in Admin
// or Inline, then resolves the associated model by a forward search for a
// "model = Identifier" assignment inside the class body.
func scanAdminClasses(lines []string) []AdminInfo {
	var out []AdminInfo
	for i, line := range lines {
		m := MatchAdminClass(line)
		if m == nil {
			continue
		}
		out = append(out, AdminInfo{
			ClassName: m.Name,
			Line:      i,
			ModelName: findModelAssignment(lines, i+1),
		})
	}
	return out
}

// findModelAssignment searches forward from start for a "model = X" line.
// The search is bounded by the next top-level class declaration or end of
// file, so an assignment in a later class is never captured.
func findModelAssignment(lines []string, start int) string {
	for i := start; i < len(lines); i++ {
		line := lines[i]
		if header := MatchClassHeader(line); header != nil && header.Indent == 0 {
			return ""
		}
		if name, ok := MatchModelAssign(line); ok {
			return name
		}
	}
	return ""
}

func scanRegisterCalls(lines []string) []AdminInfo {
	var out []AdminInfo
	for i, line := range lines {
		m := MatchRegisterCall(line)
		if m == nil {
			continue
		}
		admin := m.Admin
		if admin == "" {
			admin = RegisterCallAdminName
		}
		out = append(out, AdminInfo{ClassName: admin, Line: i, ModelName: m.Model})
	}
	return out
}

// scanRegisterDecorators finds "@admin.register(Model)" lines and pairs
// each with the class header that follows, skipping blank lines and any
// stacked decorators in between.
func scanRegisterDecorators(lines []string) []AdminInfo {
	var out []AdminInfo
	for i, line := range lines {
		model, ok := MatchRegisterDecorator(line)
		if !ok {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			next := lines[j]
			if isBlank(next) || isDecoratorLine(next) {
				continue
			}
			if header := MatchClassHeader(next); header != nil {
				out = append(out, AdminInfo{
					ClassName: header.Name,
					Line:      j,
					ModelName: model,
				})
			}
			break
		}
	}
	return out
}

func isDecoratorLine(line string) bool {
	trimmed := line
	for len(trimmed) > 0 && (trimmed[0] == ' ' || trimmed[0] == '\t') {
		trimmed = trimmed[1:]
	}
	return len(trimmed) > 0 && trimmed[0] == '@'
}
