// Package output places generated test units under an output root.
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/dhamidi/testgen/generate"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("testgen.output")

// ErrExists is returned for a file that differs from the generated content
// when overwriting is disabled.
var ErrExists = errors.New("file exists")

type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
	ActionSkipped   Action = "skipped"
)

// Result reports what happened to one unit.
type Result struct {
	Path   string
	Action Action
	Err    error
}

type Writer struct {
	root      string
	overwrite bool
	dryRun    bool
}

type Option func(*Writer)

// WithOverwrite allows replacing existing files whose content differs.
func WithOverwrite(overwrite bool) Option {
	return func(w *Writer) { w.overwrite = overwrite }
}

// WithDryRun reports what would be written without touching the disk.
func WithDryRun(dryRun bool) Option {
	return func(w *Writer) { w.dryRun = dryRun }
}

func NewWriter(root string, opts ...Option) *Writer {
	w := &Writer{root: root}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write places out at <root>/<package path>/<TypeName>.java. Files whose
// content hashes equal the generated content are left alone.
func (w *Writer) Write(out generate.Output) Result {
	path := filepath.Join(w.root, filepath.FromSlash(out.Path()))
	res := Result{Path: path}

	existing, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		res.Action = ActionCreated
	case err != nil:
		res.Action, res.Err = ActionSkipped, fmt.Errorf("failed to read %s: %w", path, err)
		return res
	case xxhash.Sum64(existing) == xxhash.Sum64String(out.Content):
		res.Action = ActionUnchanged
		return res
	case !w.overwrite:
		res.Action, res.Err = ActionSkipped, fmt.Errorf("%s: %w", path, ErrExists)
		return res
	default:
		res.Action = ActionUpdated
	}

	if w.dryRun {
		return res
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		res.Action, res.Err = ActionSkipped, fmt.Errorf("failed to create directory for %s: %w", path, err)
		return res
	}
	if err := os.WriteFile(path, []byte(out.Content), 0o644); err != nil {
		res.Action, res.Err = ActionSkipped, fmt.Errorf("failed to write %s: %w", path, err)
		return res
	}
	log.Debugf("%s %s", res.Action, path)
	return res
}

// WriteAll writes every unit and returns one result per unit plus the
// joined errors.
func (w *Writer) WriteAll(outputs []generate.Output) ([]Result, error) {
	results := make([]Result, len(outputs))
	var errs []error
	for i, out := range outputs {
		results[i] = w.Write(out)
		if results[i].Err != nil {
			errs = append(errs, results[i].Err)
		}
	}
	return results, errors.Join(errs...)
}
