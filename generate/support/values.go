package support

import (
	"fmt"
	"strings"
)

var defaultValues, matchers, assertions table

func init() {
	defaultValues = table{
		exact: map[string]rule{
			"String":        fixed(`"test"`),
			"CharSequence":  fixed(`"test"`),
			"int":           fixed("1"),
			"Integer":       fixed("1"),
			"long":          fixed("1L"),
			"Long":          fixed("1L"),
			"short":         fixed("(short) 1"),
			"Short":         fixed("(short) 1"),
			"byte":          fixed("(byte) 1"),
			"Byte":          fixed("(byte) 1"),
			"double":        fixed("1.0"),
			"Double":        fixed("1.0"),
			"float":         fixed("1.0f"),
			"Float":         fixed("1.0f"),
			"boolean":       fixed("true"),
			"Boolean":       fixed("true"),
			"char":          fixed("'a'"),
			"Character":     fixed("'a'"),
			"BigDecimal":    fixed("BigDecimal.ONE", "java.math.BigDecimal"),
			"BigInteger":    fixed("BigInteger.ONE", "java.math.BigInteger"),
			"LocalDate":     fixed("LocalDate.now()", "java.time.LocalDate"),
			"LocalDateTime": fixed("LocalDateTime.now()", "java.time.LocalDateTime"),
			"Instant":       fixed("Instant.now()", "java.time.Instant"),
			"UUID":          fixed("UUID.randomUUID()", "java.util.UUID"),
			"Object":        fixed("new Object()"),
			"List":          fixed("List.of()", "java.util.List"),
			"Set":           fixed("Set.of()", "java.util.Set"),
			"Map":           fixed("Map.of()", "java.util.Map"),
		},
		prefixes: []prefixRule{
			{"List<", fixed("List.of()", "java.util.List")},
			{"Set<", fixed("Set.of()", "java.util.Set")},
			{"Map<", fixed("Map.of()", "java.util.Map")},
			{"Optional<", fixed("Optional.empty()", "java.util.Optional")},
			{"Collection<", fixed("List.of()", "java.util.List")},
			{"Stream<", fixed("Stream.empty()", "java.util.stream.Stream")},
			{"CompletableFuture<", fixed("CompletableFuture.completedFuture(null)", "java.util.concurrent.CompletableFuture")},
			{"ResponseEntity<", fixed("ResponseEntity.ok().build()", "org.springframework.http.ResponseEntity")},
			{"Page<", fixed("Page.empty()", "org.springframework.data.domain.Page")},
		},
		fallback: func(typ string) Fragment {
			if isArray(typ) {
				return Fragment{Code: fmt.Sprintf("new %s[0]", Erasure(Elem(typ)))}
			}
			return Fragment{Code: fmt.Sprintf("mock(%s.class)", Erasure(typ)), Imports: []string{ImportMock}}
		},
	}

	matchers = table{
		exact: map[string]rule{
			"String":    matcher("anyString()"),
			"int":       matcher("anyInt()"),
			"Integer":   matcher("anyInt()"),
			"long":      matcher("anyLong()"),
			"Long":      matcher("anyLong()"),
			"short":     matcher("anyShort()"),
			"Short":     matcher("anyShort()"),
			"byte":      matcher("anyByte()"),
			"Byte":      matcher("anyByte()"),
			"double":    matcher("anyDouble()"),
			"Double":    matcher("anyDouble()"),
			"float":     matcher("anyFloat()"),
			"Float":     matcher("anyFloat()"),
			"boolean":   matcher("anyBoolean()"),
			"Boolean":   matcher("anyBoolean()"),
			"char":      matcher("anyChar()"),
			"Character": matcher("anyChar()"),
		},
		prefixes: []prefixRule{
			{"List<", matcher("anyList()")},
			{"Set<", matcher("anySet()")},
			{"Map<", matcher("anyMap()")},
			{"Collection<", matcher("anyCollection()")},
			{"Iterable<", matcher("anyIterable()")},
			{"Optional<", matcher("any()")},
		},
		fallback: func(typ string) Fragment {
			if strings.ContainsAny(Normalize(typ), "<[") {
				return Fragment{Code: "any()", Imports: []string{matcherImport("any")}}
			}
			return Fragment{Code: fmt.Sprintf("any(%s.class)", Erasure(typ)), Imports: []string{matcherImport("any")}}
		},
	}

	assertions = table{
		exact: map[string]rule{
			"boolean":    assertion("assertThat(%s).isTrue();"),
			"Boolean":    assertion("assertThat(%s).isTrue();"),
			"String":     assertion("assertThat(%s).isNotBlank();"),
			"int":        assertion("assertThat(%s).isNotNegative();"),
			"Integer":    assertion("assertThat(%s).isNotNull();"),
			"long":       assertion("assertThat(%s).isNotNegative();"),
			"Long":       assertion("assertThat(%s).isNotNull();"),
			"double":     assertion("assertThat(%s).isNotNegative();"),
			"Double":     assertion("assertThat(%s).isNotNull();"),
			"float":      assertion("assertThat(%s).isNotNegative();"),
			"short":      assertion("assertThat(%s).isNotNegative();"),
			"byte":       assertion("assertThat(%s).isNotNegative();"),
			"BigDecimal": assertion("assertThat(%s).isNotNull();"),
			"List":       assertion("assertThat(%s).isNotEmpty();"),
			"Set":        assertion("assertThat(%s).isNotEmpty();"),
			"Map":        assertion("assertThat(%s).isNotEmpty();"),
		},
		prefixes: []prefixRule{
			{"List<", assertion("assertThat(%s).isNotEmpty();")},
			{"Set<", assertion("assertThat(%s).isNotEmpty();")},
			{"Collection<", assertion("assertThat(%s).isNotEmpty();")},
			{"Map<", assertion("assertThat(%s).isNotEmpty();")},
			{"Optional<", assertion("assertThat(%s).isPresent();")},
			{"Stream<", assertion("assertThat(%s).isNotNull();")},
			{"CompletableFuture<", assertion("assertThat(%s).isCompleted();")},
			{"ResponseEntity<", assertion("assertThat(%s.getStatusCode().is2xxSuccessful()).isTrue();")},
			{"Page<", assertion("assertThat(%s.getContent()).isNotEmpty();")},
		},
		fallback: func(typ string) Fragment {
			if isArray(typ) {
				return assertion("assertThat(%s).isNotEmpty();")(typ)
			}
			return assertion("assertThat(%s).isNotNull();")(typ)
		},
	}
	initMockTables()
}

func matcherImport(name string) string {
	return "static org.mockito.ArgumentMatchers." + name
}

func matcher(code string) rule {
	return fixed(code, matcherImport(strings.TrimSuffix(code, "()")))
}

// assertion rules carry a %s for the actual value; Assertion fills it in.
func assertion(format string) rule {
	return fixed(format, ImportAssertThat)
}

// DefaultValue returns a placeholder expression of type typ.
func DefaultValue(typ string) Fragment {
	return defaultValues.lookup(typ)
}

// Matcher returns a Mockito argument matcher accepting any value of typ.
func Matcher(typ string) Fragment {
	return matchers.lookup(typ)
}

// Assertion returns a statement asserting on actual, chosen by its type.
// Void methods get no assertion.
func Assertion(typ, actual string) Fragment {
	if typ == "" || typ == "void" {
		return Fragment{}
	}
	f := assertions.lookup(typ)
	f.Code = fmt.Sprintf(f.Code, actual)
	return f
}
