package java

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// constructorName is the method name given to constructor models.
const constructorName = "<init>"

// methodModelFromDecl builds a MethodModel from a method_declaration.
// Interface methods without an explicit modifier are public, and abstract
// unless they have a body.
func methodModelFromDecl(u *Unit, decl *tree_sitter.Node, r *typeResolver, scope typeScope, inInterface bool) MethodModel {
	mods := modifiersOf(u, decl, r)
	ret := typeText(u, decl.ChildByFieldName("type"))
	if dims := decl.ChildByFieldName("dimensions"); dims != nil {
		ret += compactText(u.text(dims))
	}

	m := MethodModel{
		Name:               u.text(decl.ChildByFieldName("name")),
		ReturnType:         ret,
		ResolvedReturnType: r.resolveType(ret),
		Parameters:         parametersFromNode(u, decl.ChildByFieldName("parameters"), r),
		Markers:            mods.markers,
		DeclaredExceptions: throwsOf(u, decl, r),
		Access:             mods.access,
		Static:             mods.isStatic,
		Abstract:           mods.abstract,
	}

	body := decl.ChildByFieldName("body")
	if inInterface {
		if !mods.explicit {
			m.Access = AccessPublic
		}
		if body == nil && !mods.isStatic && !mods.isDefault {
			m.Abstract = true
		}
	}
	m.HasValidation = hasValidation(m)
	if body != nil {
		analyzeBody(u, body, r, scope.with(m.Parameters), &m)
	}
	return m
}

func constructorModelFromDecl(u *Unit, decl *tree_sitter.Node, r *typeResolver, scope typeScope) MethodModel {
	mods := modifiersOf(u, decl, r)
	m := MethodModel{
		Name:               constructorName,
		ReturnType:         "void",
		ResolvedReturnType: "void",
		Parameters:         parametersFromNode(u, decl.ChildByFieldName("parameters"), r),
		Markers:            mods.markers,
		DeclaredExceptions: throwsOf(u, decl, r),
		Access:             mods.access,
	}
	m.HasValidation = hasValidation(m)
	if body := decl.ChildByFieldName("body"); body != nil {
		analyzeBody(u, body, r, scope.with(m.Parameters), &m)
	}
	return m
}

// compactConstructorModel models "record Point { Point { ... } }", whose
// parameters are the record components.
func compactConstructorModel(u *Unit, decl *tree_sitter.Node, r *typeResolver, scope typeScope, components []ParameterModel) MethodModel {
	mods := modifiersOf(u, decl, r)
	m := MethodModel{
		Name:               constructorName,
		ReturnType:         "void",
		ResolvedReturnType: "void",
		Parameters:         cloneParameters(components),
		Markers:            mods.markers,
		Access:             mods.access,
	}
	m.HasValidation = hasValidation(m)
	if body := decl.ChildByFieldName("body"); body != nil {
		analyzeBody(u, body, r, scope.with(m.Parameters), &m)
	}
	return m
}

func throwsOf(u *Unit, decl *tree_sitter.Node, r *typeResolver) []string {
	node := firstChildOfKind(decl, "throws")
	if node == nil {
		return nil
	}
	var names []string
	for _, c := range childNodes(node) {
		if isTypeNode(c) {
			names = append(names, r.resolveType(typeText(u, c)))
		}
	}
	return names
}

func hasValidation(m MethodModel) bool {
	for _, mk := range m.Markers {
		if mk.IsValidation() {
			return true
		}
	}
	for _, p := range m.Parameters {
		if p.HasValidation() {
			return true
		}
	}
	return false
}

func cloneParameters(params []ParameterModel) []ParameterModel {
	if params == nil {
		return nil
	}
	result := make([]ParameterModel, len(params))
	for i, p := range params {
		result[i] = p.clone()
	}
	return result
}
