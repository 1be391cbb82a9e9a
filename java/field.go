package java

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// fieldModelsFromDecl returns one FieldModel per declarator of a field
// declaration: "private int a, b;" yields two fields sharing type and
// markers.
func fieldModelsFromDecl(u *Unit, decl *tree_sitter.Node, r *typeResolver, inInterface bool) []FieldModel {
	mods := modifiersOf(u, decl, r)
	typ := typeText(u, decl.ChildByFieldName("type"))

	base := FieldModel{
		Markers:  mods.markers,
		Injected: hasInjectionMarker(mods.markers),
		Access:   mods.access,
		Final:    mods.isFinal,
		Static:   mods.isStatic,
	}
	if inInterface {
		base.Access, base.Final, base.Static = AccessPublic, true, true
	}

	var fields []FieldModel
	for _, d := range childrenOfKind(decl, "variable_declarator") {
		field := base
		field.Markers = cloneMarkers(base.Markers)
		field.Name = u.text(d.ChildByFieldName("name"))
		field.Type = typ
		if dims := d.ChildByFieldName("dimensions"); dims != nil {
			field.Type += compactText(u.text(dims))
		}
		field.ResolvedType = r.resolveType(field.Type)
		fields = append(fields, field)
	}
	return fields
}

// recordComponentFields models the components of a record as private final
// fields.
func recordComponentFields(params []ParameterModel) []FieldModel {
	fields := make([]FieldModel, len(params))
	for i, p := range params {
		fields[i] = FieldModel{
			Name:         p.Name,
			Type:         p.Type,
			ResolvedType: p.ResolvedType,
			Markers:      cloneMarkers(p.Markers),
			Injected:     hasInjectionMarker(p.Markers),
			Access:       AccessPrivate,
			Final:        true,
		}
	}
	return fields
}
