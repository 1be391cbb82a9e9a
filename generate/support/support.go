// Package support holds the small generators role generators build test
// text from. Each maps a Java type name to a code fragment in three tiers:
// an exact table of well-known types, then a table of parameterized-type
// prefixes, then a generic fallback that works for any type.
package support

import (
	"strings"

	"github.com/dhamidi/testgen/java"
)

// Fragment is a piece of Java code together with the imports it needs.
// Static imports are written "static org.mockito.Mockito.verify".
type Fragment struct {
	Code    string
	Imports []string
}

func (f Fragment) with(imports ...string) Fragment {
	f.Imports = append(append([]string(nil), f.Imports...), imports...)
	return f
}

// Common imports used by several generators.
const (
	ImportAssertThat         = "static org.assertj.core.api.Assertions.assertThat"
	ImportAssertThrows       = "static org.junit.jupiter.api.Assertions.assertThrows"
	ImportAssertDoesNotThrow = "static org.junit.jupiter.api.Assertions.assertDoesNotThrow"
	ImportMock               = "static org.mockito.Mockito.mock"
	ImportWhen               = "static org.mockito.Mockito.when"
	ImportVerify             = "static org.mockito.Mockito.verify"
	ImportTest               = "org.junit.jupiter.api.Test"
)

// rule produces a fragment for a normalized type.
type rule func(typ string) Fragment

type prefixRule struct {
	prefix string
	rule   rule
}

// table is one three-tier lookup.
type table struct {
	exact    map[string]rule
	prefixes []prefixRule
	fallback rule
}

func (t table) lookup(typ string) Fragment {
	typ = Normalize(typ)
	if r, ok := t.exact[typ]; ok {
		return r(typ)
	}
	for _, p := range t.prefixes {
		if strings.HasPrefix(typ, p.prefix) {
			return p.rule(typ)
		}
	}
	return t.fallback(typ)
}

func fixed(code string, imports ...string) rule {
	return func(string) Fragment {
		return Fragment{Code: code, Imports: imports}
	}
}

// Normalize drops package qualifiers from a type so "java.util.List<User>"
// and "List<User>" are looked up alike. Type arguments keep their written
// form. Varargs become arrays.
func Normalize(typ string) string {
	typ = strings.TrimSpace(typ)
	if strings.HasSuffix(typ, "...") {
		typ = strings.TrimSuffix(typ, "...") + "[]"
	}
	base := java.BaseType(typ)
	return java.SimpleName(base) + typ[len(base):]
}

// Elem returns the element type of an array or the first type argument of
// a parameterized type, or "Object" when there is none.
func Elem(typ string) string {
	typ = Normalize(typ)
	if strings.HasSuffix(typ, "[]") {
		return strings.TrimSuffix(typ, "[]")
	}
	args := java.SplitTypeArguments(java.GenericArguments(typ))
	if len(args) == 0 || args[0] == "?" {
		return "Object"
	}
	elem := strings.TrimPrefix(args[0], "? extends ")
	return strings.TrimPrefix(elem, "? super ")
}

// Erasure returns the raw type usable in a class literal: "List<User>"
// becomes "List".
func Erasure(typ string) string {
	typ = Normalize(typ)
	if strings.HasSuffix(typ, "[]") {
		return typ
	}
	return java.BaseType(typ)
}

func isArray(typ string) bool {
	return strings.HasSuffix(Normalize(typ), "[]")
}

var numericTypes = map[string]bool{
	"int": true, "Integer": true, "long": true, "Long": true,
	"short": true, "Short": true, "byte": true, "Byte": true,
	"double": true, "Double": true, "float": true, "Float": true,
	"BigDecimal": true, "BigInteger": true,
}

// IsNumeric reports whether typ is a primitive or boxed number type.
func IsNumeric(typ string) bool {
	return numericTypes[Normalize(typ)]
}

var textTypes = map[string]bool{"String": true, "CharSequence": true}

var collectionPrefixes = []string{"List<", "Set<", "Collection<", "Map<", "Iterable<"}

// IsSequence reports whether typ has a meaningful empty value: text,
// collections, maps and arrays.
func IsSequence(typ string) bool {
	n := Normalize(typ)
	if textTypes[n] || isArray(n) {
		return true
	}
	switch n {
	case "List", "Set", "Collection", "Map":
		return true
	}
	for _, p := range collectionPrefixes {
		if strings.HasPrefix(n, p) {
			return true
		}
	}
	return false
}
