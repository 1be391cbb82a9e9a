package java

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

type modifierSet struct {
	access    AccessLevel
	explicit  bool
	isStatic  bool
	isFinal   bool
	abstract  bool
	isDefault bool
	markers   []MarkerInfo
}

// modifiersOf collects the keywords and annotations in a declaration's
// modifiers node.
func modifiersOf(u *Unit, decl *tree_sitter.Node, r *typeResolver) modifierSet {
	mods := modifierSet{access: AccessPackage}
	node := firstChildOfKind(decl, "modifiers")
	if node == nil {
		return mods
	}
	for _, c := range childNodes(node) {
		switch c.Kind() {
		case "marker_annotation", "annotation":
			mods.markers = append(mods.markers, markerFromNode(u, c, r))
		case "public":
			mods.access, mods.explicit = AccessPublic, true
		case "protected":
			mods.access, mods.explicit = AccessProtected, true
		case "private":
			mods.access, mods.explicit = AccessPrivate, true
		case "static":
			mods.isStatic = true
		case "final":
			mods.isFinal = true
		case "abstract":
			mods.abstract = true
		case "default":
			mods.isDefault = true
		}
	}
	return mods
}

func markerFromNode(u *Unit, node *tree_sitter.Node, r *typeResolver) MarkerInfo {
	written := compactText(u.text(node.ChildByFieldName("name")))
	m := MarkerInfo{
		Name:          simpleName(written),
		QualifiedName: r.resolveMarker(written),
	}
	if args := node.ChildByFieldName("arguments"); args != nil {
		m.Attributes = attributesFromArguments(u, args)
	}
	return m
}

func attributesFromArguments(u *Unit, args *tree_sitter.Node) map[string]string {
	attrs := make(map[string]string)
	for _, c := range childNodes(args) {
		if !c.IsNamed() || isComment(c) {
			continue
		}
		if c.Kind() == "element_value_pair" {
			key := u.text(c.ChildByFieldName("key"))
			attrs[key] = attributeValue(u, c.ChildByFieldName("value"))
			continue
		}
		attrs["value"] = attributeValue(u, c)
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

func attributeValue(u *Unit, n *tree_sitter.Node) string {
	if n == nil {
		return ""
	}
	text := strings.TrimSpace(u.text(n))
	if n.Kind() == "string_literal" {
		return unquote(text)
	}
	return text
}

func isComment(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "line_comment", "block_comment":
		return true
	}
	return false
}

func hasInjectionMarker(markers []MarkerInfo) bool {
	for _, m := range markers {
		if m.IsInjection() {
			return true
		}
	}
	return false
}
