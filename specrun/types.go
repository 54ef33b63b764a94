package specrun

import "fmt"

// Position represents a location in a source file. Lines and columns are
// 1-based; columns count bytes.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// Range represents a span in a source file.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Span is a region of a parsed document, addressed both by byte offsets and
// by line/column.
type Span struct {
	Start uint32 `json:"-"`
	End   uint32 `json:"-"`
	Range Range  `json:"range"`
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Contains reports whether the byte offset lies inside the span, bounds
// included.
func (s Span) Contains(offset uint32) bool {
	return s.Start <= offset && offset <= s.End
}

// ClassDeclaration is a class declared in a PHP file.
type ClassDeclaration struct {
	Namespace string `json:"namespace,omitempty"`
	Class     string `json:"class"`
}

// Location is a symbol found by a workspace symbol index.
type Location struct {
	File     string   `json:"file"`
	Symbol   string   `json:"symbol"`
	Kind     string   `json:"kind,omitempty"` // namespace, class, method, function
	Position Position `json:"position"`
}

// Label is the text shown for a location in a choice list.
func (l Location) Label() string {
	return fmt.Sprintf("%s:%d", l.Symbol, l.Position.Line)
}

// QueryMatch represents a raw tree-sitter query match.
type QueryMatch struct {
	File     string          `json:"file"`
	Pattern  int             `json:"pattern"`
	Captures []CaptureResult `json:"captures"`
}

// CaptureResult represents a single capture within a query match.
type CaptureResult struct {
	Name     string `json:"name"`
	NodeType string `json:"node_type"`
	Text     string `json:"text"`
	Span     Span   `json:"span"`
}

// FileJob represents a file to be processed.
type FileJob struct {
	AbsPath     string
	DisplayPath string
}
