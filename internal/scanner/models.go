package scanner

import "log"

// PropertyFieldType is the sentinel field type recorded for computed
// (decorated) properties.
const PropertyFieldType = "property"

// ExtractModels reads a file and returns every model class declared in it,
// with fields in source order. Read failures yield an empty result; the
// engine never fails a navigation-style caller on a missing file.
func ExtractModels(path string) []ModelInfo {
	lines, err := ReadLines(path)
	if err != nil {
		log.Printf("models: skipping unreadable file %s: %v", path, err)
		return []ModelInfo{}
	}
	return ScanModelSource(lines)
}

// ScanModelSource runs the two-pass model scan over pre-split lines.
// Pass one computes the inheritance closure of model class names; pass
// two walks the file with an indentation-scoped state machine collecting
// each model's fields.
func ScanModelSource(lines []string) []ModelInfo {
	imports := ScanImports(lines)
	names := modelClosure(lines, imports)
	return collectFields(lines, imports, names)
}

// TopLevelClassHeaders returns every zero-indentation class declaration in
// the file, with its base list and line number. The model closure and the
// project-level inheritance graph are both built from these.
func TopLevelClassHeaders(lines []string) []ClassHeader {
	var headers []ClassHeader
	for i, line := range lines {
		header := MatchClassHeader(line)
		if header == nil || header.Indent != 0 {
			continue
		}
		header.Line = i
		headers = append(headers, *header)
	}
	return headers
}

// modelClosure computes the fixed-point set of locally declared class
// names that qualify as models: seeded by classes whose base list names
// the root marker, then expanded over local inheritance until a pass adds
// nothing new.
func modelClosure(lines []string, imports *ImportContext) map[string]bool {
	headers := TopLevelClassHeaders(lines)
	names := map[string]bool{}

	for _, h := range headers {
		for _, base := range h.Bases {
			if imports.IsRootBase(base) {
				names[h.Name] = true
				break
			}
		}
	}

	for {
		added := false
		for _, h := range headers {
			if names[h.Name] {
				continue
			}
			for _, base := range h.Bases {
				if names[base] {
					names[h.Name] = true
					added = true
					break
				}
			}
		}
		if !added {
			break
		}
	}
	return names
}

// fieldScanState is the scanner cursor for the field-collection pass.
// It exists only for the duration of one file scan; extraction calls
// share nothing.
type fieldScanState struct {
	out []ModelInfo

	current       *ModelInfo
	currentIndent int

	inMeta          bool
	pendingProperty bool

	// openField tracks a multi-line field definition until its
	// parentheses balance; the field keeps its opening line number.
	openField  *FieldInfo
	parenDepth int

	// lastFieldIndent gates the loose fallback pattern to lines at the
	// same indentation as the last recognized field start; -1 means no
	// field has been seen in the current model yet.
	lastFieldIndent int
}

func collectFields(lines []string, imports *ImportContext, names map[string]bool) []ModelInfo {
	st := &fieldScanState{out: []ModelInfo{}, lastFieldIndent: -1}

	for i, line := range lines {
		// An open multi-line field consumes every line until its
		// parentheses balance, blank or not.
		if st.openField != nil {
			st.parenDepth += parenDelta(line)
			if st.parenDepth <= 0 {
				st.appendField(*st.openField)
				st.openField = nil
			}
			continue
		}

		// Blank lines never terminate a scope or a pending field.
		if isBlank(line) {
			continue
		}

		indent := indentOf(line)

		// A non-blank line at or above the header indentation closes the
		// current model; the same line may immediately open a new one.
		if st.current != nil && indent <= st.currentIndent {
			st.closeModel()
		}

		if header := MatchClassHeader(line); header != nil && names[header.Name] && header.Indent == 0 {
			st.closeModel()
			st.current = &ModelInfo{Name: header.Name, Line: i, Fields: []FieldInfo{}}
			st.currentIndent = header.Indent
			continue
		}

		if st.current == nil {
			continue
		}

		// A nested "class Meta:" suspends field collection; collection
		// only resumes when the model scope itself closes.
		if st.inMeta {
			continue
		}
		if MatchMetaClass(line) {
			st.inMeta = true
			continue
		}

		if MatchPropertyDecorator(line) {
			st.pendingProperty = true
			continue
		}
		if name, ok := MatchMethodDef(line); ok {
			if st.pendingProperty {
				st.appendField(FieldInfo{
					Name:       name,
					FieldType:  PropertyFieldType,
					Line:       i,
					IsProperty: true,
				})
				st.pendingProperty = false
			}
			continue
		}
		// Stacked decorators between @property and its def keep the flag
		// pending; any other non-blank statement cancels it before falling
		// through to field matching.
		if isDecoratorLine(line) {
			continue
		}
		st.pendingProperty = false

		if m := MatchQualifiedField(line); m != nil && imports.IsFieldConstructor(m) {
			st.startField(line, i, m)
			continue
		}
		if m := MatchBareField(line); m != nil && imports.IsFieldConstructor(m) {
			st.startField(line, i, m)
			continue
		}
		// The loose fallback only fires at the indentation of the last
		// recognized field start in this model.
		if indent == st.lastFieldIndent {
			if m := MatchLooseField(line); m != nil {
				st.startField(line, i, m)
			}
		}
	}

	// End of file flushes any trailing open field and model.
	if st.openField != nil {
		st.appendField(*st.openField)
		st.openField = nil
	}
	st.closeModel()
	return st.out
}

func (st *fieldScanState) startField(line string, lineNo int, m *FieldMatch) {
	field := FieldInfo{Name: m.Name, FieldType: m.Constructor, Line: lineNo}
	st.lastFieldIndent = m.Indent
	if depth := parenDelta(line); depth > 0 {
		st.openField = &field
		st.parenDepth = depth
		return
	}
	st.appendField(field)
}

func (st *fieldScanState) appendField(f FieldInfo) {
	if st.current == nil {
		return
	}
	st.current.Fields = append(st.current.Fields, f)
}

func (st *fieldScanState) closeModel() {
	if st.current == nil {
		return
	}
	st.out = append(st.out, *st.current)
	st.current = nil
	st.inMeta = false
	st.pendingProperty = false
	st.lastFieldIndent = -1
}
