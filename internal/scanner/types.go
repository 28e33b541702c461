package scanner

// ModelInfo represents one structural record (model class) found in a file.
type ModelInfo struct {
	Name   string      `json:"name"`
	Line   int         `json:"line"` // 0-based declaration line
	Fields []FieldInfo `json:"fields"`
}

// FieldInfo represents a single field of a model, in declaration order.
// For computed properties FieldType is the fixed sentinel "property".
type FieldInfo struct {
	Name       string `json:"name"`
	FieldType  string `json:"field_type"`
	Line       int    `json:"line"`
	IsProperty bool   `json:"is_property"`
}

// URLInfo represents one resolved route entry. Pattern carries the full
// accumulated include prefix at resolution time.
type URLInfo struct {
	Pattern  string `json:"pattern"`
	ViewName string `json:"view_name"`
	Line     int    `json:"line"`
}

// AdminInfo represents one admin registration. ModelName is resolved
// best-effort and may be empty when no association was found.
type AdminInfo struct {
	ClassName string `json:"class_name"`
	Line      int    `json:"line"`
	ModelName string `json:"model_name"`
}

// SettingInfo represents one top-level settings assignment. Multi-line
// bracketed values are folded into Value with single-space joins; Line is
// always the starting line.
type SettingInfo struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Line  int    `json:"line"`
}

// ClassHeader describes a class declaration line. Bases holds the
// comma-separated base list entries, trimmed, in source order.
type ClassHeader struct {
	Name  string
	Bases []string
	Line  int
	// Indent is the column width of leading whitespace before "class".
	Indent int
}
