package format

import (
	"bytes"
	"io"

	"github.com/dhamidi/testgen/java"
	"gopkg.in/yaml.v3"
)

type YAMLEncoder struct {
	w     io.Writer
	model *java.ClassModel
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	return &YAMLEncoder{w: w}
}

func (e *YAMLEncoder) Encode(model *java.ClassModel) error {
	e.model = model
	return write(e.w, e)
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(e.model); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
