package generate

import (
	"fmt"
	"strings"

	"github.com/dhamidi/testgen/generate/naming"
	"github.com/dhamidi/testgen/generate/support"
	"github.com/dhamidi/testgen/java"
	"github.com/iancoleman/strcase"
)

// scaffold holds what every generator derives from a model before it
// starts writing: the subject variable, the dependencies by name and an
// index of the source file's imports.
type scaffold struct {
	model   *java.ClassModel
	names   naming.Strategy
	subject string
	deps    map[string]java.Dependency
	imports map[string]string // simple name -> qualified name
}

func newScaffold(model *java.ClassModel, opts Options) *scaffold {
	s := &scaffold{
		model:   model,
		names:   opts.Naming,
		subject: strcase.ToLowerCamel(model.SimpleName()),
		deps:    make(map[string]java.Dependency),
		imports: make(map[string]string),
	}
	for _, d := range model.Dependencies() {
		s.deps[d.Name] = d
	}
	for _, imp := range model.Imports() {
		if strings.HasPrefix(imp, "static ") || strings.HasSuffix(imp, ".*") {
			continue
		}
		s.imports[java.SimpleName(imp)] = imp
	}
	return s
}

// typeImports returns the imports needed to write typ in the generated
// file: qualified names as written, names the source file imports, and
// the resolved base type.
func (s *scaffold) typeImports(typ, resolved string) []string {
	var result []string
	base := java.BaseType(resolved)
	for _, tok := range strings.FieldsFunc(typ, isTypeSeparator) {
		switch {
		case tok == "extends" || tok == "super" || tok == "void" || java.IsPrimitive(tok):
		case strings.Contains(tok, "."):
			result = append(result, tok)
		case s.imports[tok] != "":
			result = append(result, s.imports[tok])
		case strings.Contains(base, ".") && java.SimpleName(base) == tok:
			result = append(result, base)
		}
	}
	return result
}

func isTypeSeparator(r rune) bool {
	switch r {
	case '<', '>', ',', '[', ']', '?', '&', ' ':
		return true
	}
	return false
}

// methodImports covers the return and parameter types of m.
func (s *scaffold) methodImports(m java.MethodModel) []string {
	result := s.typeImports(m.ReturnType, m.ResolvedReturnType)
	for _, p := range m.Parameters {
		result = append(result, s.typeImports(strings.TrimSuffix(p.Type, "..."), p.ResolvedType)...)
	}
	return result
}

func (s *scaffold) subjectField(f *testFile, style support.MockStyle) {
	f.field(support.Fragment{
		Code:    fmt.Sprintf("%s\nprivate %s %s;", style.Annotation, s.model.SimpleName(), s.subject),
		Imports: []string{style.Import},
	})
}

func (s *scaffold) dependencyFields(f *testFile, style support.MockStyle) {
	for _, d := range s.model.Dependencies() {
		f.field(support.MockDeclaration(style, d.Type, d.Name))
		f.use(s.typeImports(d.Type, d.ResolvedType)...)
	}
}

// qualifyingMethods are the methods that get tests: neither static nor
// private nor trivial accessors.
func qualifyingMethods(model *java.ClassModel) []java.MethodModel {
	var result []java.MethodModel
	for _, m := range model.Methods() {
		if m.Static || m.Access == java.AccessPrivate || m.IsAccessor() {
			continue
		}
		result = append(result, m)
	}
	return result
}

// initTest is the single test emitted for a model with nothing else to
// test: the subject must have been created.
func (s *scaffold) initTest() support.TestMethod {
	return support.TestMethod{
		Name:        s.names.TestName("initialize", naming.Scenario{}),
		Annotations: []string{"@Test"},
		Body:        []string{"// Assert", fmt.Sprintf("assertThat(%s).isNotNull();", s.subject)},
		Imports:     []string{support.ImportTest, support.ImportAssertThat},
	}
}

// collaboration returns the stubs and verifications for the calls m makes
// on dependencies of the subject.
func (s *scaffold) collaboration(m java.MethodModel) (stubs, verifications []support.Fragment) {
	for _, call := range m.Calls {
		if _, ok := s.deps[call.Receiver]; !ok {
			continue
		}
		args := support.CallMatchers(call, m.Parameters)
		resultType := ""
		if call.Returned && !m.IsVoid() {
			resultType = m.ReturnType
		}
		if stub := support.Stub(call, args, resultType); stub.Code != "" {
			stubs = append(stubs, stub)
		}
		verifications = append(verifications, support.Verification(call, args))
	}
	return stubs, verifications
}

// unitTest exercises m once with default arguments in arrange, act and
// assert blocks. Calls on dependencies are stubbed and verified only when
// the dependencies are mocks.
func (s *scaffold) unitTest(m java.MethodModel, mocked bool) support.TestMethod {
	tm := support.TestMethod{
		Name:        s.names.TestName(m.Name, naming.Scenario{}),
		Annotations: []string{"@Test"},
		Throws:      len(m.DeclaredExceptions) > 0,
		Imports:     []string{support.ImportTest},
	}
	add := func(fr support.Fragment) {
		tm.Body = append(tm.Body, fr.Code)
		tm.Imports = append(tm.Imports, fr.Imports...)
	}

	var stubs, verifications []support.Fragment
	tm.Body = append(tm.Body, "// Arrange")
	if mocked {
		stubs, verifications = s.collaboration(m)
	} else {
		tm.Body = append(tm.Body, "// uses the beans of the application context")
	}
	if mocked && len(stubs) == 0 {
		tm.Body = append(tm.Body, "// no collaborator calls to stub")
	}
	for _, stub := range stubs {
		add(stub)
	}

	tm.Body = append(tm.Body, "", "// Act")
	call := support.Invoke(s.subject, m, nil)
	if m.IsVoid() {
		call.Code += ";"
	} else {
		call.Code = fmt.Sprintf("%s result = %s;", support.Normalize(m.ReturnType), call.Code)
	}
	add(call)

	tm.Body = append(tm.Body, "", "// Assert")
	asserted := false
	if a := support.Assertion(m.ReturnType, "result"); a.Code != "" {
		add(a)
		asserted = true
	}
	for _, v := range verifications {
		add(v)
		asserted = true
	}
	if !asserted {
		tm.Body = append(tm.Body, "// add assertions on the expected side effects")
	}
	return tm
}

// exceptionTest asserts the first exception m declares or is inferred to
// throw.
func (s *scaffold) exceptionTest(m java.MethodModel) (support.TestMethod, bool) {
	exceptions := m.AllExceptions()
	if len(exceptions) == 0 {
		return support.TestMethod{}, false
	}
	tm := support.ExceptionTest(s.subject, m, exceptions[0], s.names)
	if imp, ok := s.imports[java.SimpleName(exceptions[0])]; ok {
		tm.Imports = append(tm.Imports, imp)
	}
	return tm, true
}

func (s *scaffold) output(g Generator, f *testFile) Output {
	return Output{
		Kind:      g.Kind(),
		Generator: g.Name(),
		Package:   f.pkg,
		TypeName:  f.name,
		Content:   f.String(),
	}
}
