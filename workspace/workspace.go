// Package workspace keeps the extracted model of every Java source below a
// root directory and refreshes entries as files change.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/dhamidi/testgen/java"
	"github.com/dhamidi/testgen/java/scanner"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("testgen.workspace")

// File is the cached extraction of one source file.
type File struct {
	Path       string
	Hash       uint64
	Extraction java.Extraction
}

type Workspace struct {
	mu        sync.RWMutex
	root      string
	include   []string
	exclude   []string
	files     map[string]*File
	extractor *java.Extractor
}

type Option func(*Workspace)

// WithInclude sets the doublestar patterns a relative path must match.
func WithInclude(patterns ...string) Option {
	return func(w *Workspace) { w.include = patterns }
}

func WithExclude(patterns ...string) Option {
	return func(w *Workspace) { w.exclude = patterns }
}

func New(root string, opts ...Option) *Workspace {
	w := &Workspace{
		root:      filepath.Clean(root),
		files:     make(map[string]*File),
		extractor: java.NewExtractor(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workspace) Root() string {
	return w.root
}

// Selected reports whether path lies below the root and passes the
// include and exclude patterns.
func (w *Workspace) Selected(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return scanner.Selected(filepath.ToSlash(rel), w.include, w.exclude)
}

// ScanAll extracts every selected file below the root. Hidden directories
// are skipped. Files that cannot be read are reported together; the rest
// are still cached.
func (w *Workspace) ScanAll() error {
	var errs []error
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if d.IsDir() {
			if path != w.root && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.Selected(path) {
			return nil
		}
		if _, _, err := w.ScanFile(path); err != nil {
			errs = append(errs, err)
		}
		return nil
	})
	if err != nil {
		errs = append(errs, err)
	}
	log.Infof("scanned %s: %d files", w.root, w.Len())
	return errors.Join(errs...)
}

// ScanFile reads path from disk and updates its entry.
func (w *Workspace) ScanFile(path string) (*File, bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, fmt.Errorf("%w: %s", java.ErrNotFound, path)
		}
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	return w.UpdateFile(path, content)
}

// UpdateFile replaces the entry for path with the extraction of content.
// The boolean is false when content is identical to what is cached, in
// which case nothing is re-extracted.
func (w *Workspace) UpdateFile(path string, content []byte) (*File, bool, error) {
	hash := xxhash.Sum64(content)

	w.mu.RLock()
	cached, ok := w.files[path]
	w.mu.RUnlock()
	if ok && cached.Hash == hash {
		return cached, false, nil
	}

	extraction, err := w.extractor.ExtractSource(content, path)
	if err != nil {
		return nil, false, err
	}
	f := &File{Path: path, Hash: hash, Extraction: extraction}

	w.mu.Lock()
	w.files[path] = f
	w.mu.Unlock()
	log.Debugf("updated %s", path)
	return f, true, nil
}

// RemoveFile drops the entry for path and reports whether one existed.
func (w *Workspace) RemoveFile(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[path]; !ok {
		return false
	}
	delete(w.files, path)
	return true
}

func (w *Workspace) File(path string) (*File, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	f, ok := w.files[path]
	return f, ok
}

// Model returns the class model cached for path, or nil.
func (w *Workspace) Model(path string) *java.ClassModel {
	f, ok := w.File(path)
	if !ok {
		return nil
	}
	return f.Extraction.Model
}

func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.files)
}

// Models returns every cached model sorted by qualified name.
func (w *Workspace) Models() []*java.ClassModel {
	w.mu.RLock()
	var models []*java.ClassModel
	for _, f := range w.files {
		if f.Extraction.Model != nil {
			models = append(models, f.Extraction.Model)
		}
	}
	w.mu.RUnlock()
	sort.Slice(models, func(i, j int) bool {
		return models[i].QualifiedName() < models[j].QualifiedName()
	})
	return models
}

func (w *Workspace) FindModel(qualifiedName string) *java.ClassModel {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, f := range w.files {
		if m := f.Extraction.Model; m != nil && m.QualifiedName() == qualifiedName {
			return m
		}
	}
	return nil
}

// Diagnostics returns the syntax errors of every cached file, by path.
func (w *Workspace) Diagnostics() []*java.ParseError {
	w.mu.RLock()
	var diags []*java.ParseError
	for _, f := range w.files {
		if f.Extraction.Diagnostic != nil {
			diags = append(diags, f.Extraction.Diagnostic)
		}
	}
	w.mu.RUnlock()
	sort.Slice(diags, func(i, j int) bool { return diags[i].Path < diags[j].Path })
	return diags
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
