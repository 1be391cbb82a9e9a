package generate

import (
	"errors"
	"fmt"

	"github.com/dhamidi/testgen/java"
)

// Dispatcher runs a fixed set of generators over class models. Every
// generator that supports a model and whose kind the test type wants is
// invoked, so one model can yield both a unit and an integration test.
type Dispatcher struct {
	opts       Options
	generators []Generator
}

func NewDispatcher(opts Options) *Dispatcher {
	opts = opts.withDefaults()
	return &Dispatcher{
		opts: opts,
		generators: []Generator{
			NewControllerGenerator(opts),
			NewServiceGenerator(opts),
			NewRepositoryGenerator(opts),
			NewComponentGenerator(opts),
			NewIntegrationGenerator(opts),
		},
	}
}

func (d *Dispatcher) Options() Options { return d.opts }

func (d *Dispatcher) Generators() []Generator {
	return append([]Generator(nil), d.generators...)
}

// Select returns the generators that will run for model.
func (d *Dispatcher) Select(model *java.ClassModel) []Generator {
	var result []Generator
	for _, g := range d.generators {
		if d.opts.TestType.Includes(g.Kind()) && g.Supports(model) {
			result = append(result, g)
		}
	}
	return result
}

// Generate runs the selected generators for one model. A failing
// generator contributes an error but does not stop the others; the
// outputs that were produced are returned together with the joined
// errors.
func (d *Dispatcher) Generate(model *java.ClassModel) ([]Output, error) {
	if model == nil {
		return nil, fmt.Errorf("generate: %w: nil model", java.ErrInvalidArgument)
	}
	var outputs []Output
	var errs []error
	for _, g := range d.Select(model) {
		out, err := g.GenerateTest(model)
		if err != nil {
			log.Warningf("%s generator failed for %s: %s", g.Name(), model.QualifiedName(), err)
			errs = append(errs, err)
			continue
		}
		log.Debugf("generated %s with %s generator", out.TypeName, g.Name())
		outputs = append(outputs, out)
	}
	return outputs, errors.Join(errs...)
}

// GenerateAll generates tests for each model in turn. Errors for one model
// never suppress the outputs of another.
func (d *Dispatcher) GenerateAll(models []*java.ClassModel) ([]Output, error) {
	var outputs []Output
	var errs []error
	for _, m := range models {
		out, err := d.Generate(m)
		outputs = append(outputs, out...)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return outputs, errors.Join(errs...)
}
