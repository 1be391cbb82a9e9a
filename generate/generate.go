// Package generate turns class models into JUnit 5 test scaffolding. A
// Dispatcher holds one generator per role plus an integration generator
// and runs every generator that supports a model.
package generate

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/dhamidi/testgen/generate/naming"
	"github.com/dhamidi/testgen/java"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("testgen.generate")

// ErrUnsupportedRole is returned when a generator is asked to handle a
// model whose role it does not support.
var ErrUnsupportedRole = errors.New("unsupported role")

type Kind string

const (
	KindUnit        Kind = "unit"
	KindIntegration Kind = "integration"
)

// TestType selects which kinds of output a dispatcher produces.
type TestType string

const (
	TestUnit        TestType = "unit"
	TestIntegration TestType = "integration"
	TestBoth        TestType = "both"
)

func ParseTestType(s string) (TestType, error) {
	switch t := TestType(strings.ToLower(s)); t {
	case "":
		return TestBoth, nil
	case TestUnit, TestIntegration, TestBoth:
		return t, nil
	}
	return "", fmt.Errorf("%w: test type %q (valid: unit, integration, both)", java.ErrInvalidArgument, s)
}

// Includes reports whether output of kind k is wanted.
func (t TestType) Includes(k Kind) bool {
	switch t {
	case TestUnit:
		return k == KindUnit
	case TestIntegration:
		return k == KindIntegration
	}
	return true
}

// Options configure every generator of a dispatcher. They are fixed once
// the dispatcher is built.
type Options struct {
	Naming   naming.Strategy
	TestType TestType
}

func (o Options) withDefaults() Options {
	if o.Naming == nil {
		o.Naming = naming.Standard{}
	}
	if o.TestType == "" {
		o.TestType = TestBoth
	}
	return o
}

// Output is one generated compilation unit.
type Output struct {
	Kind      Kind   `json:"kind" yaml:"kind"`
	Generator string `json:"generator" yaml:"generator"`
	Package   string `json:"package" yaml:"package"`
	TypeName  string `json:"typeName" yaml:"typeName"`
	Content   string `json:"content" yaml:"content"`
}

// Path returns the slash-separated location of the unit relative to a
// source root, e.g. com/acme/UserServiceTest.java.
func (o Output) Path() string {
	dir := strings.ReplaceAll(o.Package, ".", "/")
	return path.Join(dir, o.TypeName+".java")
}

// Generator produces one test unit for the models it supports. Supports
// is the only routing authority: GenerateTest fails with
// ErrUnsupportedRole for any model Supports rejects.
type Generator interface {
	Name() string
	Kind() Kind
	Supports(model *java.ClassModel) bool
	GenerateTest(model *java.ClassModel) (Output, error)
}

// checkModel is the common guard at the top of every GenerateTest.
func checkModel(g Generator, model *java.ClassModel) error {
	if model == nil {
		return fmt.Errorf("%s generator: %w: nil model", g.Name(), java.ErrInvalidArgument)
	}
	if !g.Supports(model) {
		return fmt.Errorf("%w: %s generator cannot handle %s with role %s",
			ErrUnsupportedRole, g.Name(), model.QualifiedName(), model.Role())
	}
	return nil
}
