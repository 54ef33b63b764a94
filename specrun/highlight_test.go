package specrun

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want LineClass
	}{
		{"  ✔ is initializable", LinePassed},
		{"3 examples (3 passed)", LinePassed},
		{"  ✘ greets", LineFailed},
		{"3 examples (2 passed, 1 failed)", LineFailed},
		{"  12  ! is broken", LineBroken},
		{"1 example (1 broken)", LineBroken},
		{"  - todo: write it", LinePending},
		{"1 example (1 pending)", LinePending},
		{"1 example (1 skipped)", LineSkipped},
		{"  /p/spec/FooSpec.php:12", LineLocation},
		{"App\\Foo", LinePlain},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			require.Equal(t, tc.want, ClassifyLine(tc.line))
		})
	}
}

func TestHighlighterPassThrough(t *testing.T) {
	var out bytes.Buffer
	h := NewHighlighter(&out, false)

	n, err := h.Write([]byte("  ✔ is init"))
	require.NoError(t, err)
	require.Equal(t, len("  ✔ is init"), n)
	require.Empty(t, out.String(), "partial lines are held back")

	_, err = h.Write([]byte("ializable\n1 example (1 passed)"))
	require.NoError(t, err)
	require.Equal(t, "  ✔ is initializable\n", out.String())

	require.NoError(t, h.Flush())
	require.Equal(t, "  ✔ is initializable\n1 example (1 passed)", out.String())
	require.NoError(t, h.Flush())
}
