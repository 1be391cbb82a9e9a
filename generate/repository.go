package generate

import (
	"fmt"
	"strings"

	"github.com/dhamidi/testgen/generate/naming"
	"github.com/dhamidi/testgen/generate/support"
	"github.com/dhamidi/testgen/java"
)

// derivedQueryPrefixes are the method name prefixes Spring Data turns into
// queries.
var derivedQueryPrefixes = []string{
	"findBy", "findAllBy", "findFirstBy", "findTopBy", "readBy", "queryBy",
	"getBy", "streamBy", "searchBy", "existsBy", "countBy", "deleteBy", "removeBy",
}

// RepositoryGenerator writes @DataJpaTest tests for REPOSITORY classes,
// one per qualifying method plus an exception test when one is known.
// Derived and annotated query methods are arranged through the
// TestEntityManager.
type RepositoryGenerator struct {
	opts Options
}

func NewRepositoryGenerator(opts Options) *RepositoryGenerator {
	return &RepositoryGenerator{opts: opts.withDefaults()}
}

func (g *RepositoryGenerator) Name() string { return "repository" }
func (g *RepositoryGenerator) Kind() Kind   { return KindUnit }

func (g *RepositoryGenerator) Supports(model *java.ClassModel) bool {
	return model != nil && model.Role() == java.RoleRepository
}

func (g *RepositoryGenerator) GenerateTest(model *java.ClassModel) (Output, error) {
	if err := checkModel(g, model); err != nil {
		return Output{}, err
	}
	s := newScaffold(model, g.opts)
	f := newTestFile(model, model.SimpleName()+"Test")
	f.annotate("@DataJpaTest", "org.springframework.boot.test.autoconfigure.orm.jpa.DataJpaTest")
	f.field(autowired("TestEntityManager", "entityManager",
		"org.springframework.boot.test.autoconfigure.orm.jpa.TestEntityManager"))
	s.subjectField(f, support.StyleAutowired)
	s.dependencyFields(f, support.StyleAutowired)

	methods := qualifyingMethods(model)
	if len(methods) == 0 {
		f.method(s.initTest())
	}
	entity := entityType(model)
	for _, m := range methods {
		f.method(s.queryTest(m, entity))
		if tm, ok := s.exceptionTest(m); ok {
			f.method(tm)
		}
		f.use(s.methodImports(m)...)
	}
	return s.output(g, f), nil
}

func isQueryMethod(m java.MethodModel) bool {
	if _, ok := m.Marker("Query"); ok {
		return true
	}
	for _, p := range derivedQueryPrefixes {
		if strings.HasPrefix(m.Name, p) && len(m.Name) > len(p) {
			return true
		}
	}
	return false
}

// entityType returns the managed entity of a Spring Data repository, the
// first type argument of the repository interface it extends, or "".
func entityType(model *java.ClassModel) string {
	for _, iface := range model.Interfaces() {
		if !strings.HasSuffix(java.SimpleName(java.BaseType(iface)), "Repository") {
			continue
		}
		if args := java.SplitTypeArguments(java.GenericArguments(iface)); len(args) > 0 {
			return java.SimpleName(args[0])
		}
	}
	return ""
}

// queryTest calls m on the autowired repository. Query methods are
// arranged by persisting matching rows first.
func (s *scaffold) queryTest(m java.MethodModel, entity string) support.TestMethod {
	tm := support.TestMethod{
		Name:        s.names.TestName(m.Name, naming.Scenario{}),
		Annotations: []string{"@Test"},
		Throws:      len(m.DeclaredExceptions) > 0,
		Imports:     []string{support.ImportTest},
	}
	tm.Body = append(tm.Body, "// Arrange")
	if isQueryMethod(m) {
		if entity == "" {
			entity = "entity"
		}
		tm.Body = append(tm.Body, fmt.Sprintf("// persist matching %s rows with entityManager.persistAndFlush(...)", entity))
	} else {
		tm.Body = append(tm.Body, "// uses the beans of the application context")
	}

	tm.Body = append(tm.Body, "", "// Act")
	call := support.Invoke(s.subject, m, nil)
	tm.Imports = append(tm.Imports, call.Imports...)
	if m.IsVoid() {
		tm.Body = append(tm.Body, call.Code+";")
	} else {
		tm.Body = append(tm.Body, fmt.Sprintf("%s result = %s;", support.Normalize(m.ReturnType), call.Code))
	}

	tm.Body = append(tm.Body, "", "// Assert")
	a := support.Assertion(m.ReturnType, "result")
	if a.Code == "" {
		tm.Body = append(tm.Body, "// add assertions on the repository state")
		return tm
	}
	tm.Body = append(tm.Body, a.Code)
	tm.Imports = append(tm.Imports, a.Imports...)
	return tm
}
