package specrun

import (
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
)

// compiledQuery is a tree-sitter query together with the grammar it was
// compiled for. It can be shared between goroutines; parsing goes through a
// matcher, which cannot.
type compiledQuery struct {
	grammar  *sitter.Language
	compiled *sitter.Query
	names    []string
}

func compileQuery(source string, language Language) (*compiledQuery, error) {
	grammar := language.TreeSitterLang()
	compiled, err := sitter.NewQuery([]byte(source), grammar)
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}
	names := make([]string, compiled.CaptureCount())
	for i := range names {
		names[i] = compiled.CaptureNameForId(uint32(i))
	}
	return &compiledQuery{grammar: grammar, compiled: compiled, names: names}, nil
}

// matcher owns a parser for the grammar of its query.
type matcher struct {
	query  *compiledQuery
	parser *sitter.Parser
}

func (q *compiledQuery) matcher() *matcher {
	p := sitter.NewParser()
	p.SetLanguage(q.grammar)
	return &matcher{query: q, parser: p}
}

// matchFile reads the file of job and matches its source. The source is
// returned alongside so callers can slice it by span.
func (m *matcher) matchFile(job FileJob) ([]QueryMatch, []byte, error) {
	source, err := os.ReadFile(job.AbsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}
	return m.match(source, job.DisplayPath), source, nil
}

// match returns the query matches in source, in document order.
func (m *matcher) match(source []byte, file string) []QueryMatch {
	tree := m.parser.Parse(nil, source)
	cursor := sitter.NewQueryCursor()
	cursor.Exec(m.query.compiled, tree.RootNode())

	var matches []QueryMatch
	for qm, ok := cursor.NextMatch(); ok; qm, ok = cursor.NextMatch() {
		captures := make([]CaptureResult, 0, len(qm.Captures))
		for _, c := range qm.Captures {
			captures = append(captures, m.query.capture(c, source))
		}
		matches = append(matches, QueryMatch{
			File:     file,
			Pattern:  int(qm.PatternIndex),
			Captures: captures,
		})
	}
	return matches
}

func (q *compiledQuery) capture(c sitter.QueryCapture, source []byte) CaptureResult {
	name := fmt.Sprintf("capture_%d", c.Index)
	if int(c.Index) < len(q.names) {
		name = q.names[c.Index]
	}
	n := c.Node
	return CaptureResult{
		Name:     name,
		NodeType: n.Type(),
		Text:     n.Content(source),
		Span: Span{
			Start: n.StartByte(),
			End:   n.EndByte(),
			Range: Range{Start: pointPosition(n.StartPoint()), End: pointPosition(n.EndPoint())},
		},
	}
}

// pointPosition converts a zero-based tree-sitter point to a one-based
// position.
func pointPosition(p sitter.Point) Position {
	return Position{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}
