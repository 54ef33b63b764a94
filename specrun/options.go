package specrun

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// IndexOptions configures BuildIndex.
type IndexOptions struct {
	// Folders are the workspace roots to scan.
	Folders []string

	// Jobs is the number of parallel workers.
	// If 0, defaults to number of CPUs.
	Jobs int

	// MaxBytes skips files larger than this size.
	// If 0, defaults to 2 MiB.
	MaxBytes int64
}

// RunRequest describes one phpspec invocation.
type RunRequest struct {
	// WorkingDir is the project directory. If empty, it is derived from the
	// current file.
	WorkingDir string

	// File is the spec file or directory to run. Empty runs the suite.
	File string

	// Options are call-site options; they win over persisted toggles and
	// settings.
	Options Options

	// LineNumber narrows the run to the example declared on that line.
	LineNumber int

	// Directory runs the directory holding File instead of File.
	Directory bool
}

// Options is an insertion-ordered mapping of phpspec option names to values.
// Values are bool, string or []string. The order decides flag order on the
// command line.
type Options struct {
	keys   []string
	values map[string]any
}

// NewOptions builds Options from alternating key, value arguments.
func NewOptions(kv ...any) Options {
	var o Options
	for i := 0; i+1 < len(kv); i += 2 {
		o.Set(fmt.Sprint(kv[i]), kv[i+1])
	}
	return o
}

// Set stores value under key, keeping the key's original position.
func (o *Options) Set(key string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value for key.
func (o Options) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o Options) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (o Options) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len is the number of keys.
func (o Options) Len() int {
	return len(o.keys)
}

// IsZero lets yaml omitempty drop empty Options.
func (o Options) IsZero() bool {
	return len(o.keys) == 0
}

// Clone returns an independent copy.
func (o Options) Clone() Options {
	var c Options
	for _, k := range o.keys {
		v := o.values[k]
		if list, ok := v.([]string); ok {
			v = append([]string(nil), list...)
		}
		c.Set(k, v)
	}
	return c
}

// Toggle flips a boolean option. A missing option becomes true.
func (o *Options) Toggle(key string) {
	v, ok := o.Get(key)
	o.Set(key, !(ok && truthy(v)))
}

// MarshalYAML keeps key order.
func (o Options) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range o.keys {
		var value yaml.Node
		if err := value.Encode(o.values[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &value)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping, keeping key order.
func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("options: expected a mapping, got %s", node.Tag)
	}
	*o = Options{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		value, err := decodeOptionValue(node.Content[i+1])
		if err != nil {
			return fmt.Errorf("options: %s: %w", node.Content[i].Value, err)
		}
		o.Set(node.Content[i].Value, value)
	}
	return nil
}

func decodeOptionValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
			return nil, nil
		case "!!bool":
			var b bool
			err := node.Decode(&b)
			return b, err
		}
		return node.Value, nil
	case yaml.SequenceNode:
		var list []string
		err := node.Decode(&list)
		return list, err
	}
	return nil, fmt.Errorf("unsupported value at line %d", node.Line)
}

// ParseOption parses a command line option override. "name" means true,
// "name=value" sets a string, and true/false values become booleans.
// Repeating a single-character option collects a list.
func (o *Options) ParseOption(s string) {
	key, value, hasValue := strings.Cut(s, "=")
	if !hasValue {
		o.Set(key, true)
		return
	}
	if b, err := strconv.ParseBool(value); err == nil {
		o.Set(key, b)
		return
	}
	if len(key) == 1 {
		switch prev := o.values[key].(type) {
		case string:
			o.Set(key, []string{prev, value})
			return
		case []string:
			o.Set(key, append(prev, value))
			return
		}
	}
	o.Set(key, value)
}

// MergeOptions layers options: call wins over window, window over view.
func MergeOptions(call, window, view Options) Options {
	merged := call.Clone()
	for _, layer := range []Options{window, view} {
		for _, k := range layer.keys {
			if !merged.Has(k) {
				merged.Set(k, layer.values[k])
			}
		}
	}
	return merged
}

// BuildCommand appends options to cmd as phpspec flags. Single-character
// keys become short flags and repeat for list values; longer keys become
// long flags. Falsy values are skipped.
func BuildCommand(opts Options, cmd []string) []string {
	for _, k := range opts.keys {
		v := opts.values[k]
		if !truthy(v) {
			continue
		}

		flag := "--" + k
		if len(k) == 1 {
			flag = "-" + k
		}

		switch v := v.(type) {
		case []string:
			for _, item := range v {
				cmd = append(cmd, flag, item)
			}
		case bool:
			cmd = append(cmd, flag)
		default:
			cmd = append(cmd, flag, fmt.Sprint(v))
		}
	}
	return cmd
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case []string:
		return len(v) > 0
	case int:
		return v != 0
	}
	return true
}
