package java

import (
	"encoding/json"
	"slices"
	"strings"
)

// Role is the architectural category assigned to a class from its stereotype markers.
type Role string

const (
	RoleController    Role = "CONTROLLER"
	RoleService       Role = "SERVICE"
	RoleRepository    Role = "REPOSITORY"
	RoleComponent     Role = "COMPONENT"
	RoleConfiguration Role = "CONFIGURATION"
	RoleOther         Role = "OTHER"
)

type AccessLevel string

const (
	AccessPublic    AccessLevel = "public"
	AccessProtected AccessLevel = "protected"
	AccessPrivate   AccessLevel = "private"
	AccessPackage   AccessLevel = "package"
)

type FieldModel struct {
	Name         string       `json:"name" yaml:"name"`
	Type         string       `json:"type" yaml:"type"`
	ResolvedType string       `json:"resolvedType" yaml:"resolvedType"`
	Markers      []MarkerInfo `json:"markers,omitempty" yaml:"markers,omitempty"`
	Injected     bool         `json:"injected" yaml:"injected"`
	Access       AccessLevel  `json:"access" yaml:"access"`
	Final        bool         `json:"final" yaml:"final"`
	Static       bool         `json:"static" yaml:"static"`
}

type ParameterModel struct {
	Name         string       `json:"name" yaml:"name"`
	Type         string       `json:"type" yaml:"type"`
	ResolvedType string       `json:"resolvedType" yaml:"resolvedType"`
	Markers      []MarkerInfo `json:"markers,omitempty" yaml:"markers,omitempty"`
	Required     bool         `json:"required" yaml:"required"`
	Primitive    bool         `json:"primitive" yaml:"primitive"`
	GenericType  string       `json:"genericType,omitempty" yaml:"genericType,omitempty"`
}

// Marker returns the first marker on the parameter with the given simple name.
func (p ParameterModel) Marker(name string) (MarkerInfo, bool) {
	return findMarker(p.Markers, name)
}

func (p ParameterModel) HasValidation() bool {
	return slices.ContainsFunc(p.Markers, MarkerInfo.IsValidation)
}

// CallSite is a method invocation on a field, parameter or local
// variable found in a method body, such as repository.findById(id).
type CallSite struct {
	Receiver  string   `json:"receiver,omitempty" yaml:"receiver,omitempty"`
	Method    string   `json:"method" yaml:"method"`
	Arguments []string `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	// Returned is set when the call is the whole expression of a return
	// statement, so its result type is the method's return type.
	Returned bool `json:"returned,omitempty" yaml:"returned,omitempty"`
}

type MethodModel struct {
	Name               string           `json:"name" yaml:"name"`
	ReturnType         string           `json:"returnType" yaml:"returnType"`
	ResolvedReturnType string           `json:"resolvedReturnType" yaml:"resolvedReturnType"`
	Parameters         []ParameterModel `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Markers            []MarkerInfo     `json:"markers,omitempty" yaml:"markers,omitempty"`
	DeclaredExceptions []string         `json:"declaredExceptions,omitempty" yaml:"declaredExceptions,omitempty"`
	PossibleExceptions []string         `json:"possibleExceptions,omitempty" yaml:"possibleExceptions,omitempty"`
	HasValidation      bool             `json:"hasValidation" yaml:"hasValidation"`
	Access             AccessLevel      `json:"access" yaml:"access"`
	Static             bool             `json:"static" yaml:"static"`
	Abstract           bool             `json:"abstract" yaml:"abstract"`
	Calls              []CallSite       `json:"calls,omitempty" yaml:"calls,omitempty"`
}

func (m MethodModel) IsVoid() bool {
	return m.ReturnType == "" || m.ReturnType == "void"
}

// IsAccessor reports whether the method is shaped like a trivial getter
// (get/is prefix, no parameters) or setter (set prefix, one parameter, void).
func (m MethodModel) IsAccessor() bool {
	switch {
	case hasAccessorPrefix(m.Name, "get") && len(m.Parameters) == 0:
		return true
	case hasAccessorPrefix(m.Name, "is") && len(m.Parameters) == 0:
		return true
	case hasAccessorPrefix(m.Name, "set") && len(m.Parameters) == 1 && m.IsVoid():
		return true
	}
	return false
}

func hasAccessorPrefix(name, prefix string) bool {
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return false
	}
	c := name[len(prefix)]
	return c >= 'A' && c <= 'Z' || c == '_'
}

func (m MethodModel) Marker(name string) (MarkerInfo, bool) {
	return findMarker(m.Markers, name)
}

// EndpointMarker returns the first request-mapping marker of the method.
func (m MethodModel) EndpointMarker() (MarkerInfo, bool) {
	for _, mk := range m.Markers {
		if mk.IsEndpoint() {
			return mk, true
		}
	}
	return MarkerInfo{}, false
}

func (m MethodModel) IsEndpoint() bool {
	_, ok := m.EndpointMarker()
	return ok
}

// AllExceptions returns the declared exceptions followed by the inferred
// ones, deduplicated by simple name.
func (m MethodModel) AllExceptions() []string {
	return mergeExceptions(m.DeclaredExceptions, m.PossibleExceptions)
}

// Dependency is a collaborator supplied by dependency injection, either
// through an injection-marked field or a primary-constructor parameter.
type Dependency struct {
	Name         string `json:"name" yaml:"name"`
	Type         string `json:"type" yaml:"type"`
	ResolvedType string `json:"resolvedType" yaml:"resolvedType"`
}

// ClassModel is the semantic model of one primary type declaration. It is
// built once through ClassModelBuilder and never modified afterwards;
// accessors return copies.
type ClassModel struct {
	simpleName    string
	qualifiedName string
	pkg           string
	role          Role
	markers       []MarkerInfo
	fields        []FieldModel
	methods       []MethodModel
	constructors  []MethodModel
	dependencies  []Dependency
	interfaces    []string
	superClass    string
	isInterface   bool
	isAbstract    bool
	sourcePath    string
	imports       []string
}

func (c *ClassModel) SimpleName() string    { return c.simpleName }
func (c *ClassModel) QualifiedName() string { return c.qualifiedName }
func (c *ClassModel) Package() string       { return c.pkg }
func (c *ClassModel) Role() Role            { return c.role }
func (c *ClassModel) SuperClass() string    { return c.superClass }
func (c *ClassModel) IsInterface() bool     { return c.isInterface }
func (c *ClassModel) IsAbstract() bool      { return c.isAbstract }
func (c *ClassModel) SourcePath() string    { return c.sourcePath }

func (c *ClassModel) Markers() []MarkerInfo       { return cloneMarkers(c.markers) }
func (c *ClassModel) Fields() []FieldModel        { return cloneFields(c.fields) }
func (c *ClassModel) Methods() []MethodModel      { return cloneMethods(c.methods) }
func (c *ClassModel) Constructors() []MethodModel { return cloneMethods(c.constructors) }
func (c *ClassModel) Dependencies() []Dependency  { return slices.Clone(c.dependencies) }
func (c *ClassModel) Interfaces() []string        { return slices.Clone(c.interfaces) }
func (c *ClassModel) Imports() []string           { return slices.Clone(c.imports) }

// DependencyTypes returns the declared type names of all dependencies in
// merge order.
func (c *ClassModel) DependencyTypes() []string {
	types := make([]string, len(c.dependencies))
	for i, d := range c.dependencies {
		types[i] = d.Type
	}
	return types
}

// InjectedFields returns the fields carrying an injection marker, in
// declaration order.
func (c *ClassModel) InjectedFields() []FieldModel {
	var result []FieldModel
	for _, f := range c.fields {
		if f.Injected {
			result = append(result, f.clone())
		}
	}
	return result
}

func (c *ClassModel) Marker(name string) (MarkerInfo, bool) {
	m, ok := findMarker(c.markers, name)
	if ok {
		m.Attributes = cloneAttributes(m.Attributes)
	}
	return m, ok
}

func findMarker(markers []MarkerInfo, name string) (MarkerInfo, bool) {
	for _, m := range markers {
		if m.Name == name || m.QualifiedName == name {
			return m, true
		}
	}
	return MarkerInfo{}, false
}

func (f FieldModel) clone() FieldModel {
	f.Markers = cloneMarkers(f.Markers)
	return f
}

func (p ParameterModel) clone() ParameterModel {
	p.Markers = cloneMarkers(p.Markers)
	return p
}

func (m MethodModel) clone() MethodModel {
	m.Markers = cloneMarkers(m.Markers)
	m.DeclaredExceptions = slices.Clone(m.DeclaredExceptions)
	m.PossibleExceptions = slices.Clone(m.PossibleExceptions)
	if m.Parameters != nil {
		params := make([]ParameterModel, len(m.Parameters))
		for i, p := range m.Parameters {
			params[i] = p.clone()
		}
		m.Parameters = params
	}
	if m.Calls != nil {
		calls := make([]CallSite, len(m.Calls))
		for i, cs := range m.Calls {
			cs.Arguments = slices.Clone(cs.Arguments)
			calls[i] = cs
		}
		m.Calls = calls
	}
	return m
}

func cloneMarkers(markers []MarkerInfo) []MarkerInfo {
	if markers == nil {
		return nil
	}
	result := make([]MarkerInfo, len(markers))
	for i, m := range markers {
		m.Attributes = cloneAttributes(m.Attributes)
		result[i] = m
	}
	return result
}

func cloneAttributes(attrs map[string]string) map[string]string {
	if attrs == nil {
		return nil
	}
	result := make(map[string]string, len(attrs))
	for k, v := range attrs {
		result[k] = v
	}
	return result
}

func cloneFields(fields []FieldModel) []FieldModel {
	if fields == nil {
		return nil
	}
	result := make([]FieldModel, len(fields))
	for i, f := range fields {
		result[i] = f.clone()
	}
	return result
}

func cloneMethods(methods []MethodModel) []MethodModel {
	if methods == nil {
		return nil
	}
	result := make([]MethodModel, len(methods))
	for i, m := range methods {
		result[i] = m.clone()
	}
	return result
}

// HTTPMethod returns the request method of an endpoint method, or "".
func (m MethodModel) HTTPMethod() string {
	if mk, ok := m.EndpointMarker(); ok {
		return mk.HTTPMethod()
	}
	return ""
}

// Path returns the path declared by the endpoint marker, or "".
func (m MethodModel) Path() string {
	if mk, ok := m.EndpointMarker(); ok {
		return mk.Path()
	}
	return ""
}

// classModelView is the serialized shape of a ClassModel.
type classModelView struct {
	SimpleName    string        `json:"simpleName" yaml:"simpleName"`
	QualifiedName string        `json:"qualifiedName" yaml:"qualifiedName"`
	Package       string        `json:"package,omitempty" yaml:"package,omitempty"`
	Role          Role          `json:"role" yaml:"role"`
	Markers       []MarkerInfo  `json:"markers,omitempty" yaml:"markers,omitempty"`
	Fields        []FieldModel  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods       []MethodModel `json:"methods,omitempty" yaml:"methods,omitempty"`
	Constructors  []MethodModel `json:"constructors,omitempty" yaml:"constructors,omitempty"`
	Dependencies  []Dependency  `json:"dependencies" yaml:"dependencies"`
	Interfaces    []string      `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	SuperClass    string        `json:"superClass,omitempty" yaml:"superClass,omitempty"`
	Interface     bool          `json:"interface" yaml:"interface"`
	Abstract      bool          `json:"abstract" yaml:"abstract"`
	SourcePath    string        `json:"sourcePath,omitempty" yaml:"sourcePath,omitempty"`
	Imports       []string      `json:"imports,omitempty" yaml:"imports,omitempty"`
}

func (c *ClassModel) view() classModelView {
	return classModelView{
		SimpleName:    c.simpleName,
		QualifiedName: c.qualifiedName,
		Package:       c.pkg,
		Role:          c.role,
		Markers:       c.Markers(),
		Fields:        c.Fields(),
		Methods:       c.Methods(),
		Constructors:  c.Constructors(),
		Dependencies:  c.Dependencies(),
		Interfaces:    c.Interfaces(),
		SuperClass:    c.superClass,
		Interface:     c.isInterface,
		Abstract:      c.isAbstract,
		SourcePath:    c.sourcePath,
		Imports:       c.Imports(),
	}
}

func (c *ClassModel) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.view())
}

func (c *ClassModel) MarshalYAML() (any, error) {
	return c.view(), nil
}
