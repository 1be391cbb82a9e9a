package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dhamidi/testgen/generate/naming"
	"github.com/go-playground/validator/v10"
)

var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("naming", validateNaming); err != nil {
		panic(err)
	}
	return v
})

func validateNaming(fl validator.FieldLevel) bool {
	_, err := naming.Lookup(fl.Field().String())
	return err == nil
}

// FieldError describes one invalid setting.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid setting of a configuration.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// Validate checks cfg against its field constraints.
func Validate(cfg *Config) error {
	err := validate().Struct(cfg)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	result := &ValidationError{}
	for _, fe := range errs {
		result.Errors = append(result.Errors, FieldError{
			Field:   keyOf(fe.Namespace()),
			Message: message(fe, cfg),
		})
	}
	return result
}

// keyOf turns "Config.Log.Verbosity" into "log.verbosity".
func keyOf(namespace string) string {
	_, key, _ := strings.Cut(namespace, ".")
	return strings.ToLower(key)
}

func message(fe validator.FieldError, cfg *Config) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of %s, got %q", strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "naming":
		_, err := naming.Lookup(cfg.Naming)
		return err.Error()
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
