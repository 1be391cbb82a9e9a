package support

import (
	"fmt"
	"strings"

	"github.com/dhamidi/testgen/generate/naming"
	"github.com/dhamidi/testgen/java"
)

// TestMethod is one generated test. Body lines are unindented; the
// assembler indents them.
type TestMethod struct {
	Name        string
	Annotations []string
	Throws      bool
	Body        []string
	Imports     []string
}

// Invoke renders subject.method(args) using default values for every
// parameter, except indices present in overrides.
func Invoke(subject string, m java.MethodModel, overrides map[int]Fragment) Fragment {
	var args, imports []string
	for i, p := range m.Parameters {
		v, ok := overrides[i]
		if !ok {
			v = DefaultValue(p.Type)
		}
		args = append(args, v.Code)
		imports = append(imports, v.Imports...)
	}
	return Fragment{
		Code:    fmt.Sprintf("%s.%s(%s)", subject, m.Name, strings.Join(args, ", ")),
		Imports: imports,
	}
}

// ExceptionTest asserts that invoking m throws exception, given as a
// qualified or simple name.
func ExceptionTest(subject string, m java.MethodModel, exception string, names naming.Strategy) TestMethod {
	simple := java.SimpleName(exception)
	call := Invoke(subject, m, nil)
	imports := append([]string{ImportTest, ImportAssertThrows}, call.Imports...)
	if imp := importFor(exception); imp != "" {
		imports = append(imports, imp)
	}
	return TestMethod{
		Name:        names.TestName(m.Name, naming.Scenario{Exception: simple}),
		Annotations: []string{"@Test"},
		Body: []string{
			fmt.Sprintf("// Arrange: set up the conditions under which %s throws %s", m.Name, simple),
			"",
			"// Act & Assert",
			fmt.Sprintf("assertThrows(%s.class, () -> %s);", simple, call.Code),
		},
		Imports: imports,
	}
}

// importFor returns the import needed to name a qualified type, or "" for
// java.lang and unqualified names.
func importFor(qualified string) string {
	base := java.BaseType(qualified)
	if !strings.Contains(base, ".") || strings.HasPrefix(base, "java.lang.") && strings.Count(base, ".") == 2 {
		return ""
	}
	return base
}

// EdgeCases returns the extra tests for each parameter of m: a null
// argument (reference types only), an empty argument (text, collections,
// arrays), boundary values (numbers) and a malformed value (validated
// text).
func EdgeCases(subject string, m java.MethodModel, names naming.Strategy) []TestMethod {
	var tests []TestMethod
	for i, p := range m.Parameters {
		typ := Normalize(p.Type)
		if !p.Primitive {
			tests = append(tests, edgeCase(subject, m, i, "null "+p.Name, Fragment{Code: "(" + typ + ") null"},
				p.Required || m.HasValidation, names))
		}
		if empty, ok := emptyValue(typ); ok {
			tests = append(tests, edgeCase(subject, m, i, "empty "+p.Name, empty,
				hasMarker(p, "NotEmpty", "NotBlank", "Size"), names))
		}
		for _, b := range boundaryValues(typ) {
			rejects := b.negative && hasMarker(p, "Positive", "PositiveOrZero", "Min") ||
				b.zero && hasMarker(p, "Positive", "Negative")
			tests = append(tests, edgeCase(subject, m, i, b.label+" "+p.Name, b.value, rejects, names))
		}
		if textTypes[typ] && p.HasValidation() {
			tests = append(tests, edgeCase(subject, m, i, "invalid format "+p.Name, Fragment{Code: `"not-a-valid-value"`},
				hasMarker(p, "Email", "Pattern", "Size", "Digits"), names))
		}
	}
	return tests
}

func edgeCase(subject string, m java.MethodModel, index int, condition string, value Fragment, rejects bool, names naming.Strategy) TestMethod {
	call := Invoke(subject, m, map[int]Fragment{index: value})
	imports := append([]string{ImportTest}, call.Imports...)
	scenario := naming.Scenario{Condition: condition}

	var assertion string
	if rejects {
		scenario.Exception = "IllegalArgumentException"
		assertion = fmt.Sprintf("assertThrows(IllegalArgumentException.class, () -> %s);", call.Code)
		imports = append(imports, ImportAssertThrows)
	} else {
		assertion = fmt.Sprintf("assertDoesNotThrow(() -> %s);", call.Code)
		imports = append(imports, ImportAssertDoesNotThrow)
	}
	return TestMethod{
		Name:        names.TestName(m.Name, scenario),
		Annotations: []string{"@Test"},
		Body:        []string{"// Act & Assert", assertion},
		Imports:     imports,
	}
}

func hasMarker(p java.ParameterModel, names ...string) bool {
	for _, n := range names {
		if _, ok := p.Marker(n); ok {
			return true
		}
	}
	return false
}

func emptyValue(typ string) (Fragment, bool) {
	if !IsSequence(typ) {
		return Fragment{}, false
	}
	switch {
	case textTypes[typ]:
		return Fragment{Code: `""`}, true
	case isArray(typ):
		return Fragment{Code: fmt.Sprintf("new %s[0]", Erasure(Elem(typ)))}, true
	case typ == "Set" || strings.HasPrefix(typ, "Set<"):
		return Fragment{Code: "Set.of()", Imports: []string{"java.util.Set"}}, true
	case typ == "Map" || strings.HasPrefix(typ, "Map<"):
		return Fragment{Code: "Map.of()", Imports: []string{"java.util.Map"}}, true
	}
	return Fragment{Code: "List.of()", Imports: []string{"java.util.List"}}, true
}

type boundary struct {
	label    string
	value    Fragment
	zero     bool
	negative bool
}

var boundaryLiterals = map[string][4]string{
	"int":        {"0", "-1", "Integer.MAX_VALUE", "Integer.MIN_VALUE"},
	"Integer":    {"0", "-1", "Integer.MAX_VALUE", "Integer.MIN_VALUE"},
	"long":       {"0L", "-1L", "Long.MAX_VALUE", "Long.MIN_VALUE"},
	"Long":       {"0L", "-1L", "Long.MAX_VALUE", "Long.MIN_VALUE"},
	"short":      {"(short) 0", "(short) -1", "Short.MAX_VALUE", "Short.MIN_VALUE"},
	"Short":      {"(short) 0", "(short) -1", "Short.MAX_VALUE", "Short.MIN_VALUE"},
	"byte":       {"(byte) 0", "(byte) -1", "Byte.MAX_VALUE", "Byte.MIN_VALUE"},
	"Byte":       {"(byte) 0", "(byte) -1", "Byte.MAX_VALUE", "Byte.MIN_VALUE"},
	"double":     {"0.0", "-1.0", "Double.MAX_VALUE", "-Double.MAX_VALUE"},
	"Double":     {"0.0", "-1.0", "Double.MAX_VALUE", "-Double.MAX_VALUE"},
	"float":      {"0.0f", "-1.0f", "Float.MAX_VALUE", "-Float.MAX_VALUE"},
	"Float":      {"0.0f", "-1.0f", "Float.MAX_VALUE", "-Float.MAX_VALUE"},
	"BigDecimal": {"BigDecimal.ZERO", "BigDecimal.ONE.negate()"},
	"BigInteger": {"BigInteger.ZERO", "BigInteger.ONE.negate()"},
}

func boundaryValues(typ string) []boundary {
	lits, ok := boundaryLiterals[typ]
	if !ok {
		return nil
	}
	var imports []string
	if strings.HasPrefix(lits[0], "Big") {
		imports = []string{"java.math." + typ}
	}
	all := []boundary{
		{label: "zero", value: Fragment{lits[0], imports}, zero: true},
		{label: "negative", value: Fragment{lits[1], imports}, negative: true},
		{label: "max value", value: Fragment{lits[2], imports}},
		{label: "min value", value: Fragment{lits[3], imports}, negative: true},
	}
	var result []boundary
	for _, b := range all {
		if b.value.Code != "" {
			result = append(result, b)
		}
	}
	return result
}
