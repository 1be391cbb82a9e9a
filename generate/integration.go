package generate

import (
	"github.com/dhamidi/testgen/generate/support"
	"github.com/dhamidi/testgen/java"
)

// IntegrationGenerator writes @SpringBootTest tests against the full
// application context for any class with a recognized role. Controller
// endpoints are driven through MockMvc and everything else through direct
// calls on the autowired bean.
type IntegrationGenerator struct {
	opts Options
}

func NewIntegrationGenerator(opts Options) *IntegrationGenerator {
	return &IntegrationGenerator{opts: opts.withDefaults()}
}

func (g *IntegrationGenerator) Name() string { return "integration" }
func (g *IntegrationGenerator) Kind() Kind   { return KindIntegration }

func (g *IntegrationGenerator) Supports(model *java.ClassModel) bool {
	return model != nil && model.Role() != java.RoleOther && model.Role() != ""
}

func (g *IntegrationGenerator) GenerateTest(model *java.ClassModel) (Output, error) {
	if err := checkModel(g, model); err != nil {
		return Output{}, err
	}
	s := newScaffold(model, g.opts)
	f := newTestFile(model, model.SimpleName()+"IntegrationTest")
	f.annotate("@SpringBootTest", "org.springframework.boot.test.context.SpringBootTest")

	var methods []java.MethodModel
	switch model.Role() {
	case java.RoleController:
		f.annotate("@AutoConfigureMockMvc",
			"org.springframework.boot.test.autoconfigure.web.servlet.AutoConfigureMockMvc")
		f.field(autowired("MockMvc", "mockMvc", importMockMvc))
		methods = endpointMethods(model)
	default:
		methods = qualifyingMethods(model)
	}
	s.subjectField(f, support.StyleAutowired)
	s.dependencyFields(f, support.StyleAutowired)

	if len(methods) == 0 {
		f.method(s.initTest())
	}
	entity := entityType(model)
	for _, m := range methods {
		switch model.Role() {
		case java.RoleController:
			f.method(s.requestTest(m, false, false))
		case java.RoleRepository:
			f.method(s.queryTest(m, entity))
		default:
			f.method(s.unitTest(m, false))
		}
		if tm, ok := s.exceptionTest(m); ok {
			f.method(tm)
		}
		f.use(s.methodImports(m)...)
	}
	return s.output(g, f), nil
}
