package java

import "slices"

// ClassModelBuilder accumulates the parts of a ClassModel. Build copies
// everything it has collected, so a builder may be reused or discarded
// without affecting models it produced.
type ClassModelBuilder struct {
	m ClassModel
}

func NewClassModelBuilder(simpleName string) *ClassModelBuilder {
	return &ClassModelBuilder{m: ClassModel{simpleName: simpleName, role: RoleOther}}
}

func (b *ClassModelBuilder) Package(pkg string) *ClassModelBuilder {
	b.m.pkg = pkg
	return b
}

func (b *ClassModelBuilder) QualifiedName(name string) *ClassModelBuilder {
	b.m.qualifiedName = name
	return b
}

func (b *ClassModelBuilder) Role(role Role) *ClassModelBuilder {
	b.m.role = role
	return b
}

func (b *ClassModelBuilder) Markers(markers ...MarkerInfo) *ClassModelBuilder {
	b.m.markers = append(b.m.markers, markers...)
	return b
}

func (b *ClassModelBuilder) Fields(fields ...FieldModel) *ClassModelBuilder {
	b.m.fields = append(b.m.fields, fields...)
	return b
}

func (b *ClassModelBuilder) Methods(methods ...MethodModel) *ClassModelBuilder {
	b.m.methods = append(b.m.methods, methods...)
	return b
}

func (b *ClassModelBuilder) Constructors(ctors ...MethodModel) *ClassModelBuilder {
	b.m.constructors = append(b.m.constructors, ctors...)
	return b
}

func (b *ClassModelBuilder) Dependencies(deps ...Dependency) *ClassModelBuilder {
	b.m.dependencies = append(b.m.dependencies, deps...)
	return b
}

func (b *ClassModelBuilder) Interfaces(names ...string) *ClassModelBuilder {
	b.m.interfaces = append(b.m.interfaces, names...)
	return b
}

func (b *ClassModelBuilder) SuperClass(name string) *ClassModelBuilder {
	b.m.superClass = name
	return b
}

func (b *ClassModelBuilder) Interface(isInterface bool) *ClassModelBuilder {
	b.m.isInterface = isInterface
	return b
}

func (b *ClassModelBuilder) Abstract(isAbstract bool) *ClassModelBuilder {
	b.m.isAbstract = isAbstract
	return b
}

func (b *ClassModelBuilder) SourcePath(path string) *ClassModelBuilder {
	b.m.sourcePath = path
	return b
}

func (b *ClassModelBuilder) Imports(imports ...string) *ClassModelBuilder {
	b.m.imports = append(b.m.imports, imports...)
	return b
}

// Build returns the finished model. When no role was set explicitly it is
// classified from the markers; when no dependencies were set they are
// derived from injected fields and the primary constructor.
func (b *ClassModelBuilder) Build() *ClassModel {
	m := b.m
	if m.qualifiedName == "" {
		m.qualifiedName = qualify(m.pkg, m.simpleName)
	}
	if m.role == RoleOther {
		m.role = ClassifyRole(m.markers)
	}
	if m.dependencies == nil {
		m.dependencies = AnalyzeDependencies(m.fields, m.constructors)
	}

	m.markers = cloneMarkers(m.markers)
	m.fields = cloneFields(m.fields)
	m.methods = cloneMethods(m.methods)
	m.constructors = cloneMethods(m.constructors)
	m.dependencies = slices.Clone(m.dependencies)
	m.interfaces = slices.Clone(m.interfaces)
	m.imports = slices.Clone(m.imports)
	return &m
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
