package specrun

import (
	"bytes"
	"io"
	"os"
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// LineClass is the kind of a phpspec output line.
type LineClass int

const (
	LinePlain LineClass = iota
	LinePassed
	LineFailed
	LineBroken
	LinePending
	LineSkipped
	LineLocation
)

var (
	failedLine   = regexp.MustCompile(`✘|\bfailed\b|^\s*\d+\s+x\s|\bexpected\b.*\bbut\b`)
	brokenLine   = regexp.MustCompile(`\bbroken\b|^\s*\d+\s+!\s|\bexception\b`)
	pendingLine  = regexp.MustCompile(`\bpending\b|^\s*\d+\s+-\s|\btodo\b`)
	skippedLine  = regexp.MustCompile(`\bskipped\b|^\s*\d+\s+\?\s`)
	passedLine   = regexp.MustCompile(`✔|\bpassed\b`)
	locationLine = regexp.MustCompile(posixFileRegex + `|` + windowsFileRegex)
)

// ClassifyLine decides how an output line is highlighted. Failures win over
// every other class so mixed summary lines stand out.
func ClassifyLine(line string) LineClass {
	switch {
	case failedLine.MatchString(line):
		return LineFailed
	case brokenLine.MatchString(line):
		return LineBroken
	case pendingLine.MatchString(line):
		return LinePending
	case skippedLine.MatchString(line):
		return LineSkipped
	case passedLine.MatchString(line):
		return LinePassed
	case locationLine.MatchString(line):
		return LineLocation
	}
	return LinePlain
}

// Highlighter is a writer that styles complete output lines.
type Highlighter struct {
	w       io.Writer
	color   bool
	styles  map[LineClass]lipgloss.Style
	pending []byte
}

// NewHighlighter wraps w. Without color, lines pass through unchanged.
func NewHighlighter(w io.Writer, color bool) *Highlighter {
	r := lipgloss.NewRenderer(w)
	return &Highlighter{
		w:     w,
		color: color,
		styles: map[LineClass]lipgloss.Style{
			LinePassed:   r.NewStyle().Foreground(lipgloss.Color("2")),
			LineFailed:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
			LineBroken:   r.NewStyle().Foreground(lipgloss.Color("5")),
			LinePending:  r.NewStyle().Foreground(lipgloss.Color("3")),
			LineSkipped:  r.NewStyle().Foreground(lipgloss.Color("6")),
			LineLocation: r.NewStyle().Underline(true),
		},
	}
}

// ColorEnabled reports whether f is a terminal.
func ColorEnabled(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (h *Highlighter) Write(p []byte) (int, error) {
	h.pending = append(h.pending, p...)
	for {
		i := bytes.IndexByte(h.pending, '\n')
		if i < 0 {
			break
		}
		line := string(h.pending[:i])
		h.pending = h.pending[i+1:]
		if _, err := io.WriteString(h.w, h.render(line)+"\n"); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

// Flush writes a trailing line that has no newline.
func (h *Highlighter) Flush() error {
	if len(h.pending) == 0 {
		return nil
	}
	line := string(h.pending)
	h.pending = nil
	_, err := io.WriteString(h.w, h.render(line))
	return err
}

func (h *Highlighter) render(line string) string {
	if !h.color {
		return line
	}
	style, ok := h.styles[ClassifyLine(line)]
	if !ok {
		return line
	}
	return style.Render(line)
}
