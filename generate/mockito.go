package generate

import (
	"github.com/dhamidi/testgen/generate/support"
	"github.com/dhamidi/testgen/java"
)

// mockitoGenerator writes plain Mockito unit tests: every dependency is a
// @Mock, the subject is built by @InjectMocks, and each qualifying method
// gets a success test, an exception test when one is known, and edge-case
// tests for its parameters.
type mockitoGenerator struct {
	role java.Role
	name string
	opts Options
}

func (g *mockitoGenerator) Name() string { return g.name }
func (g *mockitoGenerator) Kind() Kind   { return KindUnit }

func (g *mockitoGenerator) Supports(model *java.ClassModel) bool {
	return model != nil && model.Role() == g.role
}

func (g *mockitoGenerator) GenerateTest(model *java.ClassModel) (Output, error) {
	if err := checkModel(g, model); err != nil {
		return Output{}, err
	}
	s := newScaffold(model, g.opts)
	f := newTestFile(model, model.SimpleName()+"Test")
	f.annotate("@ExtendWith(MockitoExtension.class)",
		"org.junit.jupiter.api.extension.ExtendWith",
		"org.mockito.junit.jupiter.MockitoExtension")

	s.dependencyFields(f, support.StyleMock)
	s.subjectField(f, support.MockStyle{Annotation: "@InjectMocks", Import: "org.mockito.InjectMocks"})

	methods := qualifyingMethods(model)
	if len(methods) == 0 {
		f.method(s.initTest())
	}
	for _, m := range methods {
		f.method(s.unitTest(m, true))
		if tm, ok := s.exceptionTest(m); ok {
			f.method(tm)
		}
		for _, tm := range support.EdgeCases(s.subject, m, s.names) {
			f.method(tm)
		}
		f.use(s.methodImports(m)...)
	}
	return s.output(g, f), nil
}

// ServiceGenerator writes unit tests for SERVICE classes.
type ServiceGenerator struct{ mockitoGenerator }

func NewServiceGenerator(opts Options) *ServiceGenerator {
	return &ServiceGenerator{mockitoGenerator{role: java.RoleService, name: "service", opts: opts.withDefaults()}}
}

// ComponentGenerator writes unit tests for COMPONENT classes the same way
// ServiceGenerator does for services.
type ComponentGenerator struct{ mockitoGenerator }

func NewComponentGenerator(opts Options) *ComponentGenerator {
	return &ComponentGenerator{mockitoGenerator{role: java.RoleComponent, name: "component", opts: opts.withDefaults()}}
}
