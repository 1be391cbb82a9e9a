// Package format renders class models for the inspect command.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/testgen/java"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(model *java.ClassModel) error
}

// Names lists the formats NewEncoder accepts.
func Names() []string { return []string{"yaml", "json", "line"} }

func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "", "yaml":
		return NewYAMLEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("%w: unknown format %q", java.ErrInvalidArgument, name)
}

// write marshals with e and copies the result to w.
func write(w io.Writer, e encoding.TextMarshaler) error {
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
