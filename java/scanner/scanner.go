package scanner

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dhamidi/testgen/java"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

var log = commonlog.GetLogger("testgen.scanner")

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// DefaultInclude matches every Java source below the scanned root.
const DefaultInclude = "**/*.java"

// Request names what to scan: a source directory, an explicit list of
// files, or a zip/jar archive of sources. Include and Exclude are
// doublestar patterns matched against slash-separated paths relative to
// the root (or archive entry names).
type Request struct {
	ID        string
	Path      string
	Files     []string
	ZipFile   string
	Include   []string
	Exclude   []string
	CreatedAt time.Time
}

// Warning is a per-file problem that did not abort the batch.
type Warning struct {
	Path    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Path, w.Message)
}

type Result struct {
	ID        string
	Status    Status
	Request   Request
	Models    []*java.ClassModel
	Warnings  []Warning
	Error     string
	StartedAt time.Time
	EndedAt   time.Time
	Progress  int
	Total     int

	done chan struct{}
}

func (s *Result) ProgressPercent() int {
	if s.Total == 0 {
		return 0
	}
	return (s.Progress * 100) / s.Total
}

type Option func(*Scanner)

// WithWorkers bounds the number of files extracted concurrently.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// Scanner extracts class models from many files at once. Scan runs a
// request synchronously; Submit queues it for the background loop.
type Scanner struct {
	mu        sync.RWMutex
	scans     map[string]*Result
	requests  chan Request
	nextID    int
	workers   int
	extractor *java.Extractor
	stopped   chan struct{}
	closeOnce sync.Once
}

func New(opts ...Option) *Scanner {
	s := &Scanner{
		scans:     make(map[string]*Result),
		requests:  make(chan Request, 100),
		workers:   runtime.GOMAXPROCS(0),
		extractor: java.NewExtractor(),
		stopped:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

// Close stops the background loop after queued requests are processed.
func (s *Scanner) Close() {
	s.closeOnce.Do(func() { close(s.requests) })
	<-s.stopped
}

func (s *Scanner) run() {
	defer close(s.stopped)
	for req := range s.requests {
		s.mu.RLock()
		result := s.scans[req.ID]
		s.mu.RUnlock()
		s.process(context.Background(), req, result)
	}
}

// Scan runs req to completion and returns its result. A cancelled context
// aborts the batch and is returned as the error.
func (s *Scanner) Scan(ctx context.Context, req Request) (*Result, error) {
	result := &Result{Status: StatusPending, Request: req, done: make(chan struct{})}
	if err := s.process(ctx, req, result); err != nil {
		return nil, err
	}
	return result, nil
}

// source is one compilation unit awaiting extraction.
type source struct {
	path string
	read func() ([]byte, error)
}

// fileResult is the outcome for one source, written only by the worker
// that handled it.
type fileResult struct {
	model    *java.ClassModel
	warnings []Warning
}

func (s *Scanner) process(ctx context.Context, req Request, result *Result) error {
	s.mu.Lock()
	result.Status = StatusInProgress
	result.StartedAt = time.Now()
	s.mu.Unlock()
	defer close(result.done)

	var sources []source
	var warnings []Warning
	var closeArchive func() error

	switch {
	case req.Path != "":
		sources, warnings = collectDirectory(req)
	case len(req.Files) > 0:
		sources = collectFiles(req.Files)
	case req.ZipFile != "":
		var err error
		sources, closeArchive, err = collectZip(req)
		if err != nil {
			warnings = append(warnings, Warning{Path: req.ZipFile, Message: err.Error()})
		}
	default:
		warnings = append(warnings, Warning{Message: "no path, files, or zip file provided"})
	}
	if closeArchive != nil {
		defer closeArchive()
	}

	s.mu.Lock()
	result.Total = len(sources)
	s.mu.Unlock()

	slots := make([]fileResult, len(sources))
	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slots[i] = s.extract(src)
			s.mu.Lock()
			result.Progress++
			s.mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.mu.Lock()
		result.Status = StatusFailed
		result.Error = err.Error()
		result.EndedAt = time.Now()
		s.mu.Unlock()
		return err
	}

	var models []*java.ClassModel
	for _, slot := range slots {
		if slot.model != nil {
			models = append(models, slot.model)
		}
		warnings = append(warnings, slot.warnings...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	result.EndedAt = time.Now()
	result.Models = models
	result.Warnings = warnings
	if len(warnings) > 0 && len(models) == 0 {
		result.Status = StatusFailed
		result.Error = warnings[0].String()
	} else {
		result.Status = StatusCompleted
	}
	log.Infof("scanned %d files: %d models, %d warnings", len(sources), len(models), len(warnings))
	return nil
}

func (s *Scanner) extract(src source) fileResult {
	data, err := src.read()
	if err != nil {
		if os.IsNotExist(err) {
			err = fmt.Errorf("%w: %s", java.ErrNotFound, src.path)
		}
		return fileResult{warnings: []Warning{{Path: src.path, Message: err.Error()}}}
	}
	if len(data) == 0 {
		return fileResult{warnings: []Warning{{Path: src.path, Message: "empty file"}}}
	}

	extraction, err := s.extractor.ExtractSource(data, src.path)
	if err != nil {
		return fileResult{warnings: []Warning{{Path: src.path, Message: err.Error()}}}
	}
	if extraction.Diagnostic != nil {
		return fileResult{warnings: []Warning{{Path: src.path, Message: extraction.Diagnostic.Error()}}}
	}
	return fileResult{model: extraction.Model}
}

func collectDirectory(req Request) ([]source, []Warning) {
	var sources []source
	var warnings []Warning
	if _, err := os.Stat(req.Path); err != nil {
		if os.IsNotExist(err) {
			err = fmt.Errorf("%w: %s", java.ErrNotFound, req.Path)
		}
		return nil, []Warning{{Path: req.Path, Message: err.Error()}}
	}
	err := filepath.WalkDir(req.Path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			warnings = append(warnings, Warning{Path: p, Message: fmt.Sprintf("walk: %v", err)})
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(req.Path, p)
		if err != nil {
			rel = p
		}
		if !Selected(filepath.ToSlash(rel), req.Include, req.Exclude) {
			return nil
		}
		sources = append(sources, fileSource(p))
		return nil
	})
	if err != nil {
		warnings = append(warnings, Warning{Path: req.Path, Message: fmt.Sprintf("walk: %v", err)})
	}
	return sources, warnings
}

func collectFiles(files []string) []source {
	sources := make([]source, len(files))
	for i, f := range files {
		sources[i] = fileSource(f)
	}
	return sources
}

func fileSource(path string) source {
	return source{path: path, read: func() ([]byte, error) { return os.ReadFile(path) }}
}

func collectZip(req Request) ([]source, func() error, error) {
	r, err := zip.OpenReader(req.ZipFile)
	if err != nil {
		return nil, nil, fmt.Errorf("open zip: %w", err)
	}
	var sources []source
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !Selected(f.Name, req.Include, req.Exclude) {
			continue
		}
		sources = append(sources, source{path: f.Name, read: func() ([]byte, error) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}})
	}
	return sources, r.Close, nil
}

// Selected reports whether a slash-separated relative path passes the
// include and exclude patterns. No include patterns means DefaultInclude.
func Selected(rel string, include, exclude []string) bool {
	if len(include) == 0 {
		include = []string{DefaultInclude}
	}
	matched := false
	for _, pattern := range include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	return true
}

func (s *Scanner) Submit(req Request) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	req.ID = fmt.Sprintf("%d", s.nextID)
	req.CreatedAt = time.Now()

	s.scans[req.ID] = &Result{
		ID:      req.ID,
		Status:  StatusPending,
		Request: req,
		done:    make(chan struct{}),
	}

	s.requests <- req
	return req.ID
}

func (s *Scanner) Get(id string) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.scans[id]
	return result, ok
}

// Wait blocks until the submitted scan id finishes or ctx is done.
func (s *Scanner) Wait(ctx context.Context, id string) (*Result, error) {
	result, ok := s.Get(id)
	if !ok {
		return nil, fmt.Errorf("scan %s: %w", id, java.ErrNotFound)
	}
	select {
	case <-result.done:
		return result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Scanner) List() []*Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]*Result, 0, len(s.scans))
	for _, r := range s.scans {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Request.CreatedAt.Before(results[j].Request.CreatedAt)
	})
	return results
}

// AllModels returns the models of every completed scan, sorted by
// qualified name.
func (s *Scanner) AllModels() []*java.ClassModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []*java.ClassModel
	for _, scan := range s.scans {
		if scan.Status == StatusCompleted {
			all = append(all, scan.Models...)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].QualifiedName() < all[j].QualifiedName()
	})
	return all
}

func (s *Scanner) FindModel(qualifiedName string) *java.ClassModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, scan := range s.scans {
		if scan.Status == StatusCompleted {
			for _, m := range scan.Models {
				if m.QualifiedName() == qualifiedName {
					return m
				}
			}
		}
	}
	return nil
}
