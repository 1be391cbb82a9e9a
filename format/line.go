package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/testgen/java"
)

// LineEncoder writes one tab-separated record per class, field, method,
// constructor and dependency, for grep and cut.
type LineEncoder struct {
	w     io.Writer
	model *java.ClassModel
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(model *java.ClassModel) error {
	e.model = model
	return write(e.w, e)
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	m := e.model

	fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n", e.classKind(), m.QualifiedName(), m.Role(), markersStr(m.Markers()))

	for _, f := range m.Fields() {
		fmt.Fprintf(&sb, "field\t%s\t%s\t%s\t%s\n",
			f.Name,
			f.ResolvedType,
			f.Access,
			fieldModifiersStr(f),
		)
	}

	for _, method := range m.Methods() {
		fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\t%s\n",
			method.Name,
			method.ResolvedReturnType,
			parametersStr(method.Parameters),
			method.Access,
			orDash(method.AllExceptions()),
		)
	}

	for _, ctor := range m.Constructors() {
		fmt.Fprintf(&sb, "constructor\t%s\t%s\t%s\n",
			parametersStr(ctor.Parameters),
			ctor.Access,
			markersStr(ctor.Markers),
		)
	}

	for _, d := range m.Dependencies() {
		fmt.Fprintf(&sb, "dependency\t%s\t%s\n", d.Name, d.ResolvedType)
	}

	return []byte(sb.String()), nil
}

func (e *LineEncoder) classKind() string {
	switch m := e.model; {
	case m.IsInterface():
		return "interface"
	case m.IsAbstract():
		return "abstract"
	}
	return "class"
}

func markersStr(markers []java.MarkerInfo) string {
	var names []string
	for _, mk := range markers {
		names = append(names, "@"+mk.Name)
	}
	return orDash(names)
}

func fieldModifiersStr(f java.FieldModel) string {
	var mods []string
	if f.Static {
		mods = append(mods, "static")
	}
	if f.Final {
		mods = append(mods, "final")
	}
	if f.Injected {
		mods = append(mods, "injected")
	}
	return orDash(mods)
}

func parametersStr(params []java.ParameterModel) string {
	var parts []string
	for _, p := range params {
		parts = append(parts, p.Type)
	}
	return orDash(parts)
}

func orDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ",")
}
