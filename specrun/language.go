package specrun

import (
	_ "embed"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"
)

// Language defines the interface for a supported programming language.
type Language interface {
	// Name returns the language identifier (e.g., "php").
	Name() string

	// Extensions returns file extensions for this language (e.g., [".php"]).
	Extensions() []string

	// TreeSitterLang returns the tree-sitter language grammar.
	TreeSitterLang() *sitter.Language

	// SymbolsQuery returns the tree-sitter query for extracting namespace,
	// class, method and function declarations.
	SymbolsQuery() string
}

// registry holds all registered languages.
var registry = make(map[string]Language)

// Register adds a language to the registry.
// This is typically called from init() functions in language implementation files.
func Register(lang Language) {
	registry[lang.Name()] = lang
}

// Get returns a language by name, or nil if not found.
func Get(name string) Language {
	return registry[name]
}

//go:embed queries/php/symbols.scm
var phpSymbolsQuery string

// PHP implements the Language interface for PHP source code.
type PHP struct{}

func init() {
	Register(PHP{})
}

func (PHP) Name() string {
	return "php"
}

func (PHP) Extensions() []string {
	return []string{".php"}
}

func (PHP) TreeSitterLang() *sitter.Language {
	return php.GetLanguage()
}

func (PHP) SymbolsQuery() string {
	return phpSymbolsQuery
}
