package generate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dhamidi/testgen/generate/support"
	"github.com/dhamidi/testgen/java"
)

const indent = "    "

// testFile accumulates the parts of one generated test class and renders
// them in a fixed order: package, imports, header, fields, methods.
type testFile struct {
	pkg         string
	name        string
	annotations []string
	imports     map[string]bool
	fields      []string
	methods     []support.TestMethod
	methodNames map[string]int
}

func newTestFile(model *java.ClassModel, name string) *testFile {
	return &testFile{
		pkg:         model.Package(),
		name:        name,
		imports:     make(map[string]bool),
		methodNames: make(map[string]int),
	}
}

// use records imports, dropping java.lang and the file's own package.
func (f *testFile) use(imports ...string) {
	for _, imp := range imports {
		if imp == "" || isImplicitImport(imp, f.pkg) {
			continue
		}
		f.imports[imp] = true
	}
}

func isImplicitImport(imp, pkg string) bool {
	if strings.HasPrefix(imp, "static ") {
		return false
	}
	owner := ""
	if i := strings.LastIndex(imp, "."); i >= 0 {
		owner = imp[:i]
	}
	return owner == "" || owner == "java.lang" || owner == pkg
}

func (f *testFile) annotate(annotation string, imports ...string) {
	f.annotations = append(f.annotations, annotation)
	f.use(imports...)
}

func (f *testFile) field(fr support.Fragment) {
	f.fields = append(f.fields, fr.Code)
	f.use(fr.Imports...)
}

// method adds a test method, suffixing its name with a counter when a
// method of the same name was already added.
func (f *testFile) method(tm support.TestMethod) {
	base := tm.Name
	for f.methodNames[tm.Name] > 0 {
		f.methodNames[base]++
		tm.Name = fmt.Sprintf("%s%d", base, f.methodNames[base])
	}
	f.methodNames[tm.Name]++
	f.methods = append(f.methods, tm)
	f.use(tm.Imports...)
}

func (f *testFile) sortedImports() (regular, static []string) {
	for imp := range f.imports {
		if name, ok := strings.CutPrefix(imp, "static "); ok {
			static = append(static, name)
		} else {
			regular = append(regular, imp)
		}
	}
	slices.Sort(regular)
	slices.Sort(static)
	return regular, static
}

func (f *testFile) String() string {
	var sb strings.Builder
	if f.pkg != "" {
		fmt.Fprintf(&sb, "package %s;\n\n", f.pkg)
	}

	regular, static := f.sortedImports()
	for _, imp := range regular {
		fmt.Fprintf(&sb, "import %s;\n", imp)
	}
	if len(regular) > 0 && len(static) > 0 {
		sb.WriteString("\n")
	}
	for _, imp := range static {
		fmt.Fprintf(&sb, "import static %s;\n", imp)
	}
	if len(regular)+len(static) > 0 {
		sb.WriteString("\n")
	}

	for _, a := range f.annotations {
		sb.WriteString(a + "\n")
	}
	fmt.Fprintf(&sb, "class %s {\n", f.name)

	for _, field := range f.fields {
		sb.WriteString("\n")
		writeIndented(&sb, field, 1)
	}
	for _, m := range f.methods {
		sb.WriteString("\n")
		writeMethod(&sb, m)
	}
	sb.WriteString("}\n")
	return sb.String()
}

func writeMethod(sb *strings.Builder, m support.TestMethod) {
	for _, a := range m.Annotations {
		writeIndented(sb, a, 1)
	}
	throws := ""
	if m.Throws {
		throws = " throws Exception"
	}
	writeIndented(sb, fmt.Sprintf("void %s()%s {", m.Name, throws), 1)
	for _, line := range m.Body {
		writeIndented(sb, line, 2)
	}
	writeIndented(sb, "}", 1)
}

// writeIndented writes text at the given depth. Continuation lines of a
// multi-line statement are written as they are, relative to the first.
func writeIndented(sb *strings.Builder, text string, depth int) {
	prefix := strings.Repeat(indent, depth)
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(prefix + line + "\n")
	}
}
