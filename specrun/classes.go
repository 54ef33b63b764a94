package specrun

import (
	"regexp"
	"strings"
)

// SpecSuffix marks phpspec spec classes.
const SpecSuffix = "Spec"

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidIdentifier reports whether s is a plain PHP identifier.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// ExtractClasses returns the classes declared by p in document order. Every
// class carries the first namespace of the file.
func ExtractClasses(p SymbolProvider) []ClassDeclaration {
	var namespace string
	if spans := p.FindSymbols(SelectorNamespace); len(spans) > 0 {
		namespace = p.Substr(spans[0])
	}

	var classes []ClassDeclaration
	for _, span := range p.FindSymbols(SelectorClass) {
		name := p.Substr(span)
		if !ValidIdentifier(name) {
			continue
		}
		classes = append(classes, ClassDeclaration{Namespace: namespace, Class: name})
	}
	return classes
}

// HasTestDeclaration reports whether any class is a spec.
func HasTestDeclaration(classes []ClassDeclaration) bool {
	for _, c := range classes {
		if strings.HasSuffix(c.Class, SpecSuffix) {
			return true
		}
	}
	return false
}

// CandidatePairName maps a spec class to the class it describes and any
// other class to its spec.
func CandidatePairName(class string) string {
	if strings.HasSuffix(class, SpecSuffix) {
		return strings.TrimSuffix(class, SpecSuffix)
	}
	return class + SpecSuffix
}
