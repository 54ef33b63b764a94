package specrun

import (
	"fmt"
	"os"
	"sort"
)

// Symbol selectors understood by Document.FindSymbols.
const (
	SelectorNamespace  = "namespace"
	SelectorClass      = "class"
	SelectorMethod     = "method"
	SelectorMethodName = "method_name"
	SelectorFunction   = "function_name"
)

// SymbolProvider exposes the declarations of one source file.
type SymbolProvider interface {
	// FindSymbols returns the spans captured by selector, in document order.
	FindSymbols(selector string) []Span

	// Substr returns the text covered by span.
	Substr(span Span) string

	// WordAt returns the identifier around pos, or an empty span.
	WordAt(pos Position) Span
}

// Document is a PHP file parsed with tree-sitter.
type Document struct {
	Path    string
	source  []byte
	lines   []uint32
	matches []QueryMatch
}

// OpenDocument reads and parses a PHP file.
func OpenDocument(path string) (*Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseDocument(path, source)
}

// ParseDocument parses PHP source. Source must include the <?php tag for
// declarations to be recognised.
func ParseDocument(path string, source []byte) (*Document, error) {
	language := Get("php")
	if language == nil {
		return nil, fmt.Errorf("php language not registered")
	}
	q, err := compileQuery(language.SymbolsQuery(), language)
	if err != nil {
		return nil, err
	}

	d := &Document{
		Path:    path,
		source:  source,
		matches: q.matcher().match(source, path),
	}
	d.lines = append(d.lines, 0)
	for i, b := range source {
		if b == '\n' {
			d.lines = append(d.lines, uint32(i+1))
		}
	}
	return d, nil
}

func (d *Document) FindSymbols(selector string) []Span {
	var spans []Span
	for _, m := range d.matches {
		for _, c := range m.Captures {
			if c.Name == selector {
				spans = append(spans, c.Span)
			}
		}
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

func (d *Document) Substr(span Span) string {
	if span.Empty() || int(span.End) > len(d.source) {
		return ""
	}
	return string(d.source[span.Start:span.End])
}

func (d *Document) WordAt(pos Position) Span {
	offset, ok := d.Offset(pos)
	if !ok {
		return Span{}
	}
	start, end := offset, offset
	for start > 0 && isWordByte(d.source[start-1]) {
		start--
	}
	for int(end) < len(d.source) && isWordByte(d.source[end]) {
		end++
	}
	if start == end {
		return Span{}
	}
	return Span{
		Start: start,
		End:   end,
		Range: Range{Start: d.position(start), End: d.position(end)},
	}
}

// Offset converts a 1-based position into a byte offset.
func (d *Document) Offset(pos Position) (uint32, bool) {
	if pos.Line < 1 || pos.Line > len(d.lines) || pos.Column < 1 {
		return 0, false
	}
	offset := d.lines[pos.Line-1] + uint32(pos.Column-1)
	if int(offset) > len(d.source) {
		return 0, false
	}
	return offset, true
}

func (d *Document) position(offset uint32) Position {
	line := sort.Search(len(d.lines), func(i int) bool { return d.lines[i] > offset })
	return Position{Line: line, Column: int(offset-d.lines[line-1]) + 1}
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= 0x80
}

// LineNumberAt returns the line of the method declaration enclosing pos, or 0
// when pos is outside every method.
func LineNumberAt(doc *Document, pos Position) int {
	offset, ok := doc.Offset(pos)
	if !ok {
		return 0
	}
	names := doc.FindSymbols(SelectorMethodName)
	line := 0
	for _, method := range doc.FindSymbols(SelectorMethod) {
		if !method.Contains(offset) {
			continue
		}
		for _, name := range names {
			if method.Contains(name.Start) && ValidIdentifier(doc.Substr(name)) {
				line = name.Range.Start.Line
				break
			}
		}
	}
	return line
}
