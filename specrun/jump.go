package specrun

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// JumpTarget is where the editor should go after a switch.
type JumpTarget struct {
	File     string   `json:"file"`
	Position Position `json:"position"`
	// HasPosition is false when the editor should keep its scroll position.
	HasPosition bool `json:"has_position"`
}

// Encoded returns "file[:row[:col]]".
func (j JumpTarget) Encoded() string {
	if !j.HasPosition || j.Position.Line == 0 {
		return j.File
	}
	s := j.File + ":" + strconv.Itoa(j.Position.Line)
	if j.Position.Column > 0 {
		s += ":" + strconv.Itoa(j.Position.Column)
	}
	return s
}

// ChooseJumpTarget decides the position to open target at. Files already
// open keep their position. Otherwise the counterpart of the symbol under
// the cursor is preferred when it is declared in the target file.
func ChooseJumpTarget(target Location, openFiles []string, cursorSymbol string, index SymbolIndex) JumpTarget {
	jump := JumpTarget{File: target.File, Position: target.Position, HasPosition: true}

	for _, f := range openFiles {
		if f == target.File {
			jump.HasPosition = false
			return jump
		}
	}

	counterpart := CounterpartSymbol(cursorSymbol)
	if counterpart == "" || index == nil {
		return jump
	}
	for _, l := range index.Lookup(counterpart) {
		if l.File == target.File {
			jump.Position = l.Position
			break
		}
	}
	return jump
}

// CounterpartSymbol maps "testFooBar" to "fooBar" and "fooBar" to
// "testFooBar". Case changes apply to the first rune, using Unicode case
// mapping; runes without case are left alone.
func CounterpartSymbol(word string) string {
	if word == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(word, "test"); ok {
		if rest == "" {
			return ""
		}
		return mapFirstRune(rest, unicode.ToLower)
	}
	return "test" + mapFirstRune(word, unicode.ToUpper)
}

func mapFirstRune(s string, mapping func(rune) rune) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(mapping(r)) + s[size:]
}
