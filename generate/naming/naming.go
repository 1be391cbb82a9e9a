// Package naming turns a method under test and a scenario into a test
// method name. The strategies differ only in naming; they never change
// what a test does.
package naming

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/iancoleman/strcase"
)

var ErrUnknownStrategy = errors.New("unknown naming strategy")

// Scenario describes the situation a test exercises. The zero value is
// the plain success case with valid input.
type Scenario struct {
	// Condition is a short lower-case phrase such as "null email".
	Condition string
	// Exception is the simple name of the exception the test expects.
	Exception string
}

type Strategy interface {
	Name() string
	TestName(method string, s Scenario) string
}

const defaultCondition = "valid input"

// Standard produces testFindUser, testFindUserNullEmail and
// testFindUserThrowsIOException.
type Standard struct{}

func (Standard) Name() string { return "standard" }

func (Standard) TestName(method string, s Scenario) string {
	name := "test" + pascal(method) + pascal(s.Condition)
	if s.Exception != "" {
		name += "Throws" + identifier(s.Exception)
	}
	return name
}

// BDD produces shouldFindUser_whenValidInput and
// shouldThrowIOException_whenFindUser.
type BDD struct{}

func (BDD) Name() string { return "bdd" }

func (BDD) TestName(method string, s Scenario) string {
	if s.Exception != "" {
		name := "shouldThrow" + identifier(s.Exception) + "_when" + pascal(method)
		if s.Condition != "" {
			name += "With" + pascal(s.Condition)
		}
		return name
	}
	return "should" + pascal(method) + "_when" + pascal(orDefault(s.Condition))
}

// GivenWhenThen produces givenValidInput_whenFindUser_thenSucceeds.
type GivenWhenThen struct{}

func (GivenWhenThen) Name() string { return "given-when-then" }

func (GivenWhenThen) TestName(method string, s Scenario) string {
	outcome := "Succeeds"
	if s.Exception != "" {
		outcome = "Throws" + identifier(s.Exception)
	}
	return "given" + pascal(orDefault(s.Condition)) + "_when" + pascal(method) + "_then" + outcome
}

// Snake produces find_user_valid_input.
type Snake struct{}

func (Snake) Name() string { return "snake" }

func (Snake) TestName(method string, s Scenario) string {
	name := strcase.ToSnake(method) + "_" + strcase.ToSnake(clean(orDefault(s.Condition)))
	if s.Exception != "" {
		name += "_throws_" + strcase.ToSnake(identifier(s.Exception))
	}
	return name
}

var strategies = map[string]Strategy{
	"standard":        Standard{},
	"bdd":             BDD{},
	"given-when-then": GivenWhenThen{},
	"gwt":             GivenWhenThen{},
	"snake":           Snake{},
}

// Names lists the accepted strategy names, aliases included.
func Names() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the strategy registered under name. An empty name selects
// the standard strategy.
func Lookup(name string) (Strategy, error) {
	if name == "" {
		return Standard{}, nil
	}
	if s, ok := strategies[strings.ToLower(name)]; ok {
		return s, nil
	}
	if suggestion := closest(name); suggestion != "" {
		return nil, fmt.Errorf("%w %q, did you mean %q?", ErrUnknownStrategy, name, suggestion)
	}
	return nil, fmt.Errorf("%w %q (valid: %s)", ErrUnknownStrategy, name, strings.Join(Names(), ", "))
}

func closest(name string) string {
	var best string
	var bestScore float32
	for _, candidate := range Names() {
		score, err := edlib.StringsSimilarity(strings.ToLower(name), candidate, edlib.Levenshtein)
		if err != nil {
			continue
		}
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	if bestScore < 0.5 {
		return ""
	}
	return best
}

func orDefault(condition string) string {
	if condition == "" {
		return defaultCondition
	}
	return condition
}

func pascal(s string) string {
	return strcase.ToCamel(clean(s))
}

// clean replaces everything that cannot appear in a Java identifier with
// spaces so case conversion treats it as a word break.
func clean(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 128 && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, s)
}

// identifier keeps an exception name as written, minus any package.
func identifier(s string) string {
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	return strings.ReplaceAll(clean(s), " ", "")
}
