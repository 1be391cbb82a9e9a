package java

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

var typeNodeKinds = []string{
	"type_identifier", "scoped_type_identifier", "generic_type", "array_type",
	"integral_type", "floating_point_type", "boolean_type", "void_type",
}

func isTypeNode(n *tree_sitter.Node) bool {
	for _, k := range typeNodeKinds {
		if n.Kind() == k {
			return true
		}
	}
	return false
}

// typeText renders a type node as written, with whitespace normalized:
// "Map < String,Long >" becomes "Map<String, Long>".
func typeText(u *Unit, n *tree_sitter.Node) string {
	return normalizeType(u.text(n))
}

// normalizeType collapses whitespace runs to one space and drops the
// spaces around type punctuation. Spaces inside wildcards such as
// "? extends Number" are kept.
func normalizeType(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' && (isTypePunct(s[i-1]) || isTypePunct(s[i+1])) {
			continue
		}
		b.WriteByte(c)
		if c == ',' {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func isTypePunct(c byte) bool {
	switch c {
	case '<', '>', ',', '[', ']', '.':
		return true
	}
	return false
}

// GenericArguments returns the text between the outermost angle brackets of
// a type, or "" for a non-generic type.
func GenericArguments(typ string) string {
	start := strings.IndexByte(typ, '<')
	end := strings.LastIndexByte(typ, '>')
	if start < 0 || end <= start {
		return ""
	}
	return typ[start+1 : end]
}

// BaseType strips type arguments and array dimensions: "List<User>[]"
// becomes "List".
func BaseType(typ string) string {
	base, _ := splitTypeSuffix(typ)
	return base
}

// SplitTypeArguments splits "String, Map<K, V>" at top-level commas.
func SplitTypeArguments(args string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(args[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(args[start:]); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

func IsPrimitive(typ string) bool {
	return primitiveTypes[typ]
}

// SimpleName returns the last dotted component of a qualified name.
func SimpleName(qualified string) string {
	return simpleNameOf(qualified)
}
