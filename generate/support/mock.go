package support

import (
	"fmt"
	"strings"

	"github.com/dhamidi/testgen/java"
)

// MockStyle is the annotation a dependency field is declared with.
type MockStyle struct {
	Annotation string
	Import     string
}

var (
	StyleMock      = MockStyle{"@Mock", "org.mockito.Mock"}
	StyleMockBean  = MockStyle{"@MockBean", "org.springframework.boot.test.mock.mockito.MockBean"}
	StyleAutowired = MockStyle{"@Autowired", "org.springframework.beans.factory.annotation.Autowired"}
)

var mockDeclarations, stubs table

// initMockTables derives from defaultValues and runs after it is built.
func initMockTables() {
	valueField := func(typ string) Fragment {
		v := DefaultValue(typ)
		return Fragment{Code: fmt.Sprintf("private %s %%s = %s;", typ, v.Code), Imports: v.Imports}
	}
	exact := make(map[string]rule)
	for typ := range defaultValues.exact {
		if typ != "Object" {
			exact[typ] = valueField
		}
	}
	var prefixes []prefixRule
	for _, p := range defaultValues.prefixes {
		prefixes = append(prefixes, prefixRule{p.prefix, valueField})
	}
	mockDeclarations = table{
		exact:    exact,
		prefixes: prefixes,
		fallback: func(typ string) Fragment {
			return Fragment{Code: "%[1]s\nprivate " + typ + " %[2]s;"}
		},
	}

	stubs = table{
		exact: map[string]rule{
			"void": fixed(""),
		},
		prefixes: []prefixRule{
			{"Optional<", func(typ string) Fragment {
				inner := DefaultValue(Elem(typ))
				return Fragment{
					Code:    "Optional.of(" + inner.Code + ")",
					Imports: append([]string{"java.util.Optional"}, inner.Imports...),
				}
			}},
		},
		fallback: DefaultValue,
	}
}

// MockDeclaration declares the field for a dependency of the class under
// test. Value-like types (text, numbers, collections) become plain fields
// initialized with a default value; everything else is a mock in the
// given style. The code may span several lines.
func MockDeclaration(style MockStyle, typ, name string) Fragment {
	typ = Normalize(typ)
	f := mockDeclarations.lookup(typ)
	if strings.Contains(f.Code, "%[1]s") {
		f.Code = fmt.Sprintf(f.Code, style.Annotation, name)
		return f.with(style.Import)
	}
	f.Code = fmt.Sprintf(f.Code, name)
	return f
}

// CallMatchers returns one argument matcher per call argument. Arguments
// naming a parameter of the calling method match by that parameter's type;
// anything else matches any value.
func CallMatchers(call java.CallSite, params []java.ParameterModel) []Fragment {
	types := make(map[string]string, len(params))
	for _, p := range params {
		types[p.Name] = p.Type
	}
	result := make([]Fragment, len(call.Arguments))
	for i, arg := range call.Arguments {
		if typ, ok := types[arg]; ok {
			result[i] = Matcher(typ)
			continue
		}
		result[i] = Fragment{Code: "any()", Imports: []string{matcherImport("any")}}
	}
	return result
}

func joinCall(receiver, method string, args []Fragment) Fragment {
	var codes, imports []string
	for _, a := range args {
		codes = append(codes, a.Code)
		imports = append(imports, a.Imports...)
	}
	return Fragment{
		Code:    fmt.Sprintf("%s.%s(%s)", receiver, method, strings.Join(codes, ", ")),
		Imports: imports,
	}
}

// Stub returns a when(...).thenReturn(...) statement for a dependency call.
// resultType is the type the call returns when it is known; without it the
// stub is left as a comment for the author to complete. Known void calls
// need no stub.
func Stub(call java.CallSite, args []Fragment, resultType string) Fragment {
	invocation := joinCall(call.Receiver, call.Method, args)
	if resultType == "" {
		return Fragment{Code: fmt.Sprintf("// when(%s).thenReturn(...);", invocation.Code)}
	}
	value := stubs.lookup(resultType)
	if value.Code == "" {
		return Fragment{}
	}
	return Fragment{
		Code:    fmt.Sprintf("when(%s).thenReturn(%s);", invocation.Code, value.Code),
		Imports: append(append([]string{ImportWhen}, invocation.Imports...), value.Imports...),
	}
}

// Verification returns a verify(...) statement for a dependency call.
func Verification(call java.CallSite, args []Fragment) Fragment {
	invocation := joinCall("verify("+call.Receiver+")", call.Method, args)
	invocation.Code += ";"
	return invocation.with(ImportVerify)
}
