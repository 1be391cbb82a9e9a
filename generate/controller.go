package generate

import (
	"fmt"
	"strings"

	"github.com/dhamidi/testgen/generate/naming"
	"github.com/dhamidi/testgen/generate/support"
	"github.com/dhamidi/testgen/java"
)

const (
	importMockMvc        = "org.springframework.test.web.servlet.MockMvc"
	importMediaType      = "org.springframework.http.MediaType"
	importStatus         = "static org.springframework.test.web.servlet.result.MockMvcResultMatchers.status"
	importRequestBuilder = "static org.springframework.test.web.servlet.request.MockMvcRequestBuilders."
)

var requestBuilders = map[string]string{
	"GET": "get", "POST": "post", "PUT": "put", "PATCH": "patch",
	"DELETE": "delete", "HEAD": "head", "OPTIONS": "options",
}

// ControllerGenerator writes @WebMvcTest slice tests for CONTROLLER
// classes: a success and a failure-path request per endpoint method.
type ControllerGenerator struct {
	opts Options
}

func NewControllerGenerator(opts Options) *ControllerGenerator {
	return &ControllerGenerator{opts: opts.withDefaults()}
}

func (g *ControllerGenerator) Name() string { return "controller" }
func (g *ControllerGenerator) Kind() Kind   { return KindUnit }

func (g *ControllerGenerator) Supports(model *java.ClassModel) bool {
	return model != nil && model.Role() == java.RoleController
}

func (g *ControllerGenerator) GenerateTest(model *java.ClassModel) (Output, error) {
	if err := checkModel(g, model); err != nil {
		return Output{}, err
	}
	s := newScaffold(model, g.opts)
	f := newTestFile(model, model.SimpleName()+"Test")
	f.annotate(fmt.Sprintf("@WebMvcTest(%s.class)", model.SimpleName()),
		"org.springframework.boot.test.autoconfigure.web.servlet.WebMvcTest")
	f.field(autowired("MockMvc", "mockMvc", importMockMvc))
	s.dependencyFields(f, support.StyleMockBean)

	endpoints := endpointMethods(model)
	if len(endpoints) == 0 {
		s.subjectField(f, support.StyleAutowired)
		f.method(s.initTest())
	}
	for _, m := range endpoints {
		f.method(s.requestTest(m, false, true))
		f.method(s.requestTest(m, true, true))
		f.use(s.methodImports(m)...)
	}
	return s.output(g, f), nil
}

func autowired(typ, name string, imports ...string) support.Fragment {
	return support.Fragment{
		Code:    fmt.Sprintf("@Autowired\nprivate %s %s;", typ, name),
		Imports: append([]string{support.StyleAutowired.Import}, imports...),
	}
}

func endpointMethods(model *java.ClassModel) []java.MethodModel {
	var result []java.MethodModel
	for _, m := range qualifyingMethods(model) {
		if m.IsEndpoint() {
			result = append(result, m)
		}
	}
	return result
}

// requestTest performs the endpoint's request through MockMvc. The
// success test expects 200; the failure test sends a malformed request
// and expects a 4xx status.
func (s *scaffold) requestTest(m java.MethodModel, failure, stub bool) support.TestMethod {
	scenario := naming.Scenario{}
	expectation := "isOk()"
	if failure {
		scenario.Condition = "invalid request"
		expectation = "is4xxClientError()"
	}
	req := s.request(m, failure)
	tm := support.TestMethod{
		Name:        s.names.TestName(m.Name, scenario),
		Annotations: []string{"@Test"},
		Throws:      true,
		Imports:     append([]string{support.ImportTest, importStatus}, req.Imports...),
	}
	if stub && !failure {
		stubs, _ := s.collaboration(m)
		if len(stubs) > 0 {
			tm.Body = append(tm.Body, "// Arrange")
			for _, st := range stubs {
				tm.Body = append(tm.Body, st.Code)
				tm.Imports = append(tm.Imports, st.Imports...)
			}
			tm.Body = append(tm.Body, "")
		}
	}
	tm.Body = append(tm.Body,
		"// Act & Assert",
		fmt.Sprintf("mockMvc.perform(%s)\n        .andExpect(status().%s);", req.Code, expectation),
	)
	return tm
}

// request builds the MockMvc request for an endpoint from its mapping and
// its @PathVariable, @RequestParam and @RequestBody parameters.
func (s *scaffold) request(m java.MethodModel, failure bool) support.Fragment {
	verb := requestBuilders[m.HTTPMethod()]
	if verb == "" {
		verb = "get"
	}
	uri := s.endpointPath(m)

	var uriVars, params []string
	var imports []string
	body := false
	for _, p := range m.Parameters {
		switch {
		case hasParamMarker(p, "PathVariable"):
			v := support.DefaultValue(p.Type)
			if failure {
				v = support.Fragment{Code: `"invalid"`}
			}
			uriVars = append(uriVars, v.Code)
			imports = append(imports, v.Imports...)
		case hasParamMarker(p, "RequestParam"):
			params = append(params, fmt.Sprintf(".param(%q, %q)", markerName(p, "RequestParam"), paramValue(p.Type)))
		case hasParamMarker(p, "RequestBody"):
			body = true
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(%q", verb, uri)
	for _, v := range uriVars {
		sb.WriteString(", " + v)
	}
	sb.WriteString(")")
	switch {
	case body && failure:
		sb.WriteString(".contentType(MediaType.APPLICATION_JSON).content(\"{invalid\")")
		imports = append(imports, importMediaType)
	case body:
		sb.WriteString(".contentType(MediaType.APPLICATION_JSON).content(\"{}\")")
		imports = append(imports, importMediaType)
	}
	if !failure || body || len(uriVars) > 0 {
		for _, p := range params {
			sb.WriteString(p)
		}
	}
	code := sb.String()
	if failure && !body && len(uriVars) == 0 && len(params) == 0 {
		code = fmt.Sprintf("%s(%q)", verb, strings.TrimSuffix(uri, "/")+"/not-found")
	}
	return support.Fragment{Code: code, Imports: append(imports, importRequestBuilder+verb)}
}

// endpointPath joins the class-level @RequestMapping path with the
// method's own mapping path.
func (s *scaffold) endpointPath(m java.MethodModel) string {
	prefix := ""
	if mk, ok := s.model.Marker("RequestMapping"); ok {
		prefix = mk.Path()
	}
	return joinPaths(prefix, m.Path())
}

func joinPaths(parts ...string) string {
	var segments []string
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			segments = append(segments, p)
		}
	}
	return "/" + strings.Join(segments, "/")
}

func hasParamMarker(p java.ParameterModel, name string) bool {
	_, ok := p.Marker(name)
	return ok
}

// markerName is the request parameter name: the marker's value or name
// attribute, else the Java parameter name.
func markerName(p java.ParameterModel, marker string) string {
	mk, _ := p.Marker(marker)
	for _, attr := range []string{"value", "name"} {
		if v, ok := mk.StringAttribute(attr); ok && v != "" {
			return v
		}
	}
	return p.Name
}

func paramValue(typ string) string {
	switch n := support.Normalize(typ); {
	case support.IsNumeric(n):
		return "1"
	case n == "boolean" || n == "Boolean":
		return "true"
	}
	return "test"
}
