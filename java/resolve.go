package java

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

type importInfo struct {
	qualifiedName string
	isStatic      bool
	isWildcard    bool
}

func (i importInfo) String() string {
	s := i.qualifiedName
	if i.isWildcard {
		s += ".*"
	}
	if i.isStatic {
		s = "static " + s
	}
	return s
}

// typeResolver turns simple names into qualified names using the package
// and import context of one compilation unit.
type typeResolver struct {
	pkg     string
	imports []importInfo
	nested  map[string]string // simple name -> qualified name of member types
}

func newTypeResolver(pkg string, imports []importInfo) *typeResolver {
	return &typeResolver{
		pkg:     pkg,
		imports: imports,
		nested:  make(map[string]string),
	}
}

func (r *typeResolver) registerNested(simpleName, fullName string) {
	r.nested[simpleName] = fullName
}

var javaLangTypes = map[string]bool{
	"Object": true, "String": true, "Class": true, "System": true,
	"Throwable": true, "Exception": true, "RuntimeException": true, "Error": true,
	"Integer": true, "Long": true, "Short": true, "Byte": true,
	"Float": true, "Double": true, "Character": true, "Boolean": true,
	"Number": true, "Comparable": true, "CharSequence": true, "Void": true,
	"Iterable": true, "Cloneable": true, "Runnable": true, "AutoCloseable": true,
	"Thread": true, "StringBuilder": true, "StringBuffer": true,
	"Math": true, "Enum": true, "Record": true,
	"Override": true, "Deprecated": true, "SuppressWarnings": true, "FunctionalInterface": true,
	"SafeVarargs": true,
	"NullPointerException": true, "IllegalArgumentException": true, "IllegalStateException": true,
	"NumberFormatException": true, "IndexOutOfBoundsException": true,
	"ArrayIndexOutOfBoundsException": true, "StringIndexOutOfBoundsException": true,
	"UnsupportedOperationException": true, "ArithmeticException": true, "ClassCastException": true,
}

var primitiveTypes = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

// resolve returns the qualified name for a simple type name. When the name
// cannot be decided (a wildcard import might supply it) the simple name is
// returned unchanged.
func (r *typeResolver) resolve(simpleName string) string {
	if simpleName == "" {
		return ""
	}
	if strings.Contains(simpleName, ".") || primitiveTypes[simpleName] || simpleName == "void" {
		return simpleName
	}
	if fullName, ok := r.nested[simpleName]; ok {
		return fullName
	}
	for _, imp := range r.imports {
		if imp.isWildcard || imp.isStatic {
			continue
		}
		if simpleNameOf(imp.qualifiedName) == simpleName {
			return imp.qualifiedName
		}
	}
	if javaLangTypes[simpleName] {
		return "java.lang." + simpleName
	}
	for _, imp := range r.imports {
		if imp.isWildcard && !imp.isStatic {
			return simpleName
		}
	}
	if r.pkg != "" {
		return r.pkg + "." + simpleName
	}
	return simpleName
}

// resolveType resolves the base of a written type such as List<User> or
// byte[], keeping type arguments and dimensions as written.
func (r *typeResolver) resolveType(written string) string {
	base, rest := splitTypeSuffix(written)
	return r.resolve(base) + rest
}

// resolveMarker infers the qualified name of an annotation. Explicit imports
// win; then wildcard imports of a package that declares a known annotation
// of that name; then the table of well-known annotations; finally a guess in
// the default framework namespace.
func (r *typeResolver) resolveMarker(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	for _, imp := range r.imports {
		if !imp.isWildcard && !imp.isStatic && simpleNameOf(imp.qualifiedName) == name {
			return imp.qualifiedName
		}
	}
	for _, imp := range r.imports {
		if imp.isWildcard && !imp.isStatic {
			if candidate := imp.qualifiedName + "." + name; isKnownMarker(candidate) {
				return candidate
			}
		}
	}
	if javaLangTypes[name] {
		return "java.lang." + name
	}
	if qn, ok := knownMarkers[name]; ok {
		return qn
	}
	return defaultMarkerNamespace + "." + name
}

// splitTypeSuffix splits "Map<K, V>[]" into "Map" and "<K, V>[]".
func splitTypeSuffix(written string) (string, string) {
	if i := strings.IndexAny(written, "<["); i >= 0 {
		return strings.TrimSpace(written[:i]), written[i:]
	}
	return strings.TrimSpace(written), ""
}

func simpleNameOf(qualified string) string {
	base, _ := splitTypeSuffix(qualified)
	return simpleName(base)
}

func packageFromUnit(u *Unit) string {
	decl := firstChildOfKind(u.Root(), "package_declaration")
	if decl == nil {
		return ""
	}
	name := firstChildOfKind(decl, "scoped_identifier", "identifier")
	return compactText(u.text(name))
}

func importsFromUnit(u *Unit) []importInfo {
	var imports []importInfo
	for _, decl := range childrenOfKind(u.Root(), "import_declaration") {
		imp := importInfo{}
		for _, c := range childNodes(decl) {
			switch c.Kind() {
			case "static":
				imp.isStatic = true
			case "asterisk":
				imp.isWildcard = true
			case "scoped_identifier", "identifier":
				imp.qualifiedName = compactText(u.text(c))
			}
		}
		if imp.qualifiedName != "" {
			imports = append(imports, imp)
		}
	}
	return imports
}

// registerMemberTypes records nested type declarations of a class body so
// references to them resolve to Outer.Inner.
func registerMemberTypes(u *Unit, body *tree_sitter.Node, outer string, r *typeResolver) {
	for _, c := range childNodes(body) {
		if !isTypeDeclaration(c) {
			continue
		}
		name := u.text(c.ChildByFieldName("name"))
		if name == "" {
			continue
		}
		full := outer + "." + name
		r.registerNested(name, full)
		registerMemberTypes(u, c.ChildByFieldName("body"), full, r)
	}
}

// compactText removes all whitespace. Use it for dotted names and array
// dimensions only; types go through normalizeType.
func compactText(s string) string {
	return strings.Join(strings.Fields(s), "")
}
