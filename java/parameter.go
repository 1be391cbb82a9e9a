package java

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

func parametersFromNode(u *Unit, node *tree_sitter.Node, r *typeResolver) []ParameterModel {
	var params []ParameterModel
	for _, c := range childNodes(node) {
		switch c.Kind() {
		case "formal_parameter":
			params = append(params, parameterFromNode(u, c, r))
		case "spread_parameter":
			params = append(params, spreadParameterFromNode(u, c, r))
		}
	}
	return params
}

func parameterFromNode(u *Unit, node *tree_sitter.Node, r *typeResolver) ParameterModel {
	mods := modifiersOf(u, node, r)
	typ := typeText(u, node.ChildByFieldName("type"))
	if dims := node.ChildByFieldName("dimensions"); dims != nil {
		typ += compactText(u.text(dims))
	}
	return newParameter(u.text(node.ChildByFieldName("name")), typ, mods.markers, r)
}

// spreadParameterFromNode handles varargs, "String... names", which the
// grammar shapes differently from a formal parameter.
func spreadParameterFromNode(u *Unit, node *tree_sitter.Node, r *typeResolver) ParameterModel {
	mods := modifiersOf(u, node, r)
	var typ, name string
	for _, c := range childNodes(node) {
		switch {
		case isTypeNode(c):
			typ = typeText(u, c)
		case c.Kind() == "variable_declarator":
			name = u.text(c.ChildByFieldName("name"))
		}
	}
	return newParameter(name, typ+"...", mods.markers, r)
}

func newParameter(name, typ string, markers []MarkerInfo, r *typeResolver) ParameterModel {
	p := ParameterModel{
		Name:         name,
		Type:         typ,
		ResolvedType: r.resolveType(typ),
		Markers:      markers,
		Primitive:    primitiveTypes[typ],
		GenericType:  GenericArguments(typ),
	}
	for _, m := range markers {
		if m.IsRequired() {
			p.Required = true
			break
		}
	}
	return p
}
