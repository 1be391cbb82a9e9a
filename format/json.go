package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/testgen/java"
)

type JSONEncoder struct {
	w     io.Writer
	model *java.ClassModel
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(model *java.ClassModel) error {
	e.model = model
	return write(e.w, e)
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data, err := json.MarshalIndent(e.model, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
