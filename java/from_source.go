package java

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

var log = commonlog.GetLogger("testgen.java")

// Extraction is the result of modeling one compilation unit. Model is nil
// when the unit declares no type or could not be parsed; in the latter case
// Diagnostic describes the syntax error.
type Extraction struct {
	Model      *ClassModel
	Diagnostic *ParseError
}

// Extractor turns Java compilation units into ClassModels. It holds no
// per-call state and is safe for concurrent use.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractFile reads and models the file at path. A missing file is
// reported as ErrNotFound; a malformed one as a diagnostic on the result.
func (e *Extractor) ExtractFile(path string) (Extraction, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Extraction{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Extraction{}, fmt.Errorf("read %s: %w", path, err)
	}
	return e.ExtractSource(source, path)
}

// ExtractSource models in-memory source. path names the origin and
// decides the primary type; it may be empty.
func (e *Extractor) ExtractSource(source []byte, path string) (Extraction, error) {
	unit, err := Parse(source, path)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			log.Warningf("skipping %s", perr)
			return Extraction{Diagnostic: perr}, nil
		}
		return Extraction{}, err
	}
	defer unit.Close()

	model, err := e.ExtractUnit(unit)
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{Model: model}, nil
}

// ExtractUnit models the primary type of a parsed unit. It returns nil
// without error when the unit declares no type.
func (e *Extractor) ExtractUnit(u *Unit) (*ClassModel, error) {
	if u == nil || u.tree == nil {
		return nil, fmt.Errorf("%w: nil unit", ErrInvalidArgument)
	}
	decl := primaryTypeDeclaration(u)
	if decl == nil {
		log.Debugf("%s declares no type", u.Path)
		return nil, nil
	}
	model := classModelFromDecl(u, decl)
	log.Debugf("extracted %s as %s", model.QualifiedName(), model.Role())
	return model, nil
}

func isTypeDeclaration(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "class_declaration", "interface_declaration", "enum_declaration",
		"record_declaration", "annotation_type_declaration":
		return true
	}
	return false
}

// primaryTypeDeclaration returns the top-level type named after the file,
// falling back to the first top-level type declared.
func primaryTypeDeclaration(u *Unit) *tree_sitter.Node {
	var first *tree_sitter.Node
	base := strings.TrimSuffix(filepath.Base(u.Path), filepath.Ext(u.Path))
	for _, c := range childNodes(u.Root()) {
		if !isTypeDeclaration(c) {
			continue
		}
		if first == nil {
			first = c
		}
		if u.Path != "" && u.text(c.ChildByFieldName("name")) == base {
			return c
		}
	}
	return first
}

func classModelFromDecl(u *Unit, decl *tree_sitter.Node) *ClassModel {
	pkg := packageFromUnit(u)
	imports := importsFromUnit(u)
	r := newTypeResolver(pkg, imports)

	name := u.text(decl.ChildByFieldName("name"))
	qualified := qualify(pkg, name)
	body := decl.ChildByFieldName("body")
	registerMemberTypes(u, body, qualified, r)

	mods := modifiersOf(u, decl, r)
	isInterface := decl.Kind() == "interface_declaration" || decl.Kind() == "annotation_type_declaration"

	b := NewClassModelBuilder(name).
		Package(pkg).
		QualifiedName(qualified).
		Markers(mods.markers...).
		Interface(isInterface).
		Abstract(mods.abstract || isInterface).
		SourcePath(u.Path)
	for _, imp := range imports {
		b.Imports(imp.String())
	}

	if sc := decl.ChildByFieldName("superclass"); sc != nil {
		for _, c := range childNodes(sc) {
			if isTypeNode(c) {
				b.SuperClass(r.resolveType(typeText(u, c)))
			}
		}
	}
	b.Interfaces(superInterfaces(u, decl, r)...)

	var components []ParameterModel
	if decl.Kind() == "record_declaration" {
		components = parametersFromNode(u, decl.ChildByFieldName("parameters"), r)
	}
	members := memberNodes(body)

	// Fields first so method bodies can see field types.
	fields := recordComponentFields(components)
	for _, m := range members {
		switch m.Kind() {
		case "field_declaration", "constant_declaration":
			fields = append(fields, fieldModelsFromDecl(u, m, r, isInterface)...)
		}
	}
	b.Fields(fields...)
	scope := scopeFromFields(fields)

	var ctors []MethodModel
	for _, m := range members {
		switch m.Kind() {
		case "method_declaration", "annotation_type_element_declaration":
			b.Methods(methodModelFromDecl(u, m, r, scope, isInterface))
		case "constructor_declaration":
			ctors = append(ctors, constructorModelFromDecl(u, m, r, scope))
		case "compact_constructor_declaration":
			ctors = append(ctors, compactConstructorModel(u, m, r, scope, components))
		}
	}
	if decl.Kind() == "record_declaration" && !hasArity(ctors, len(components)) {
		ctors = append(ctors, MethodModel{
			Name:               constructorName,
			ReturnType:         "void",
			ResolvedReturnType: "void",
			Parameters:         cloneParameters(components),
			Access:             AccessPublic,
		})
	}
	b.Constructors(ctors...)

	return b.Build()
}

func superInterfaces(u *Unit, decl *tree_sitter.Node, r *typeResolver) []string {
	node := decl.ChildByFieldName("interfaces")
	if node == nil {
		node = firstChildOfKind(decl, "super_interfaces", "extends_interfaces")
	}
	var names []string
	for _, list := range childrenOfKind(node, "type_list") {
		for _, c := range childNodes(list) {
			if isTypeNode(c) {
				names = append(names, r.resolveType(typeText(u, c)))
			}
		}
	}
	return names
}

// memberNodes returns the member declarations of a type body, looking
// through the enum_body_declarations wrapper of enums.
func memberNodes(body *tree_sitter.Node) []*tree_sitter.Node {
	var members []*tree_sitter.Node
	for _, c := range childNodes(body) {
		if c.Kind() == "enum_body_declarations" {
			members = append(members, childNodes(c)...)
			continue
		}
		members = append(members, c)
	}
	return members
}

func hasArity(ctors []MethodModel, arity int) bool {
	for _, c := range ctors {
		if len(c.Parameters) == arity {
			return true
		}
	}
	return false
}
