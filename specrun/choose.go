package specrun

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PromptChooser lists labels on Out and reads a 1-based choice from In.
// An empty answer, or end of input, declines.
type PromptChooser struct {
	In  io.Reader
	Out io.Writer
}

func (p PromptChooser) Choose(labels []string) (int, error) {
	for i, l := range labels {
		fmt.Fprintf(p.Out, "%d) %s\n", i+1, l)
	}
	fmt.Fprint(p.Out, "> ")

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return -1, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(labels) {
		return -1, fmt.Errorf("invalid choice %q", line)
	}
	return n - 1, nil
}

// FixedChooser always picks the same index. -1 declines.
type FixedChooser int

func (f FixedChooser) Choose([]string) (int, error) {
	return int(f), nil
}
