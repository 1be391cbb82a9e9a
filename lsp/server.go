// Package lsp exposes test generation to editors over the Language Server
// Protocol.
package lsp

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhamidi/testgen/generate"
	"github.com/dhamidi/testgen/java"
	"github.com/dhamidi/testgen/output"
	"github.com/dhamidi/testgen/workspace"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const (
	lsName = "testgen"

	// CommandGenerate takes a document URI and returns its generated units.
	CommandGenerate = "testgen.generate"
)

var log = commonlog.GetLogger("testgen.lsp")

type Options struct {
	Version  string
	Generate generate.Options
	Include  []string
	Exclude  []string
	// Output is the directory generated units are written to, relative to
	// the workspace root. When empty, units are returned but not written.
	Output    string
	Overwrite bool
}

type Server struct {
	opts       Options
	dispatcher *generate.Dispatcher
	handler    protocol.Handler
	server     *server.Server

	mu sync.RWMutex
	ws *workspace.Workspace
}

// Unit is one generated test returned by CommandGenerate.
type Unit struct {
	Path      string        `json:"path"`
	Kind      generate.Kind `json:"kind"`
	Generator string        `json:"generator"`
	Content   string        `json:"content"`
	Action    output.Action `json:"action,omitempty"`
}

func NewServer(opts Options) *Server {
	s := &Server{
		opts:       opts,
		dispatcher: generate.NewDispatcher(opts.Generate),
	}

	s.handler = protocol.Handler{
		Initialize:              s.initialize,
		Initialized:             s.initialized,
		Shutdown:                s.shutdown,
		SetTrace:                s.setTrace,
		TextDocumentDidOpen:     s.textDocumentDidOpen,
		TextDocumentDidChange:   s.textDocumentDidChange,
		TextDocumentDidClose:    s.textDocumentDidClose,
		TextDocumentDidSave:     s.textDocumentDidSave,
		TextDocumentCodeAction:  s.textDocumentCodeAction,
		WorkspaceExecuteCommand: s.workspaceExecuteCommand,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) current() *workspace.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ws
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := getRootDir()
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	s.mu.Lock()
	s.ws = workspace.New(rootDir,
		workspace.WithInclude(s.opts.Include...),
		workspace.WithExclude(s.opts.Exclude...))
	s.mu.Unlock()

	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.CodeActionProvider = &protocol.CodeActionOptions{
		CodeActionKinds: []protocol.CodeActionKind{protocol.CodeActionKindSource},
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{CommandGenerate},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.opts.Version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ws := s.current()
	if ws == nil {
		return nil
	}
	if err := ws.ScanAll(); err != nil {
		log.Warningf("scan %s: %s", ws.Root(), err)
	}
	for _, diag := range ws.Diagnostics() {
		publishDiagnostics(ctx, diag.Path, diag)
	}
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	s.update(ctx, path, []byte(params.TextDocument.Text))
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.update(ctx, path, []byte(textChange.Text))
		}
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		s.update(ctx, path, []byte(*params.Text))
		return nil
	}
	ws := s.current()
	if ws == nil {
		return nil
	}
	if f, changed, err := ws.ScanFile(path); err == nil && changed {
		publishDiagnostics(ctx, path, f.Extraction.Diagnostic)
	}
	return nil
}

// update re-extracts an open document and refreshes its diagnostics.
func (s *Server) update(ctx *glsp.Context, path string, content []byte) {
	ws := s.current()
	if ws == nil || !isJava(path) {
		return
	}
	f, changed, err := ws.UpdateFile(path, content)
	if err != nil {
		log.Warningf("update %s: %s", path, err)
		return
	}
	if changed {
		publishDiagnostics(ctx, path, f.Extraction.Diagnostic)
	}
}

func (s *Server) textDocumentCodeAction(ctx *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	if !wantsKind(params.Context.Only, protocol.CodeActionKindSource) {
		return nil, nil
	}
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil || !isJava(path) {
		return nil, nil
	}
	ws := s.current()
	if ws == nil {
		return nil, nil
	}
	model := ws.Model(path)
	if model == nil || len(s.dispatcher.Select(model)) == 0 {
		return nil, nil
	}

	kind := protocol.CodeActionKindSource
	return []protocol.CodeAction{{
		Title: "Generate tests",
		Kind:  &kind,
		Command: &protocol.Command{
			Title:     "Generate tests",
			Command:   CommandGenerate,
			Arguments: []any{params.TextDocument.URI},
		},
	}}, nil
}

func (s *Server) workspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	if params.Command != CommandGenerate {
		return nil, fmt.Errorf("%w: unknown command %q", java.ErrInvalidArgument, params.Command)
	}
	if len(params.Arguments) != 1 {
		return nil, fmt.Errorf("%w: %s takes one document URI", java.ErrInvalidArgument, CommandGenerate)
	}
	uri, ok := params.Arguments[0].(string)
	if !ok || uri == "" {
		return nil, fmt.Errorf("%w: %s takes one document URI", java.ErrInvalidArgument, CommandGenerate)
	}
	path, err := uriToPath(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", java.ErrInvalidArgument, err)
	}

	units, err := s.generate(path)
	if err != nil {
		ctx.Notify(protocol.ServerWindowShowMessage, protocol.ShowMessageParams{
			Type:    protocol.MessageTypeError,
			Message: err.Error(),
		})
		return nil, err
	}
	return units, nil
}

// generate runs the dispatcher for the document at path, writing the
// units when an output directory is configured.
func (s *Server) generate(path string) ([]Unit, error) {
	ws := s.current()
	if ws == nil {
		return nil, errors.New("server is not initialized")
	}
	f, ok := ws.File(path)
	if !ok {
		var err error
		if f, _, err = ws.ScanFile(path); err != nil {
			return nil, err
		}
	}
	if f.Extraction.Diagnostic != nil {
		return nil, f.Extraction.Diagnostic
	}
	if f.Extraction.Model == nil {
		return nil, fmt.Errorf("%w: %s declares no type", java.ErrInvalidArgument, path)
	}

	outputs, genErr := s.dispatcher.Generate(f.Extraction.Model)
	units := make([]Unit, len(outputs))
	for i, out := range outputs {
		units[i] = Unit{
			Path:      out.Path(),
			Kind:      out.Kind,
			Generator: out.Generator,
			Content:   out.Content,
		}
	}
	if s.opts.Output == "" {
		return units, genErr
	}

	dir := s.opts.Output
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(ws.Root(), dir)
	}
	results, writeErr := output.NewWriter(dir, output.WithOverwrite(s.opts.Overwrite)).WriteAll(outputs)
	for i, res := range results {
		units[i].Path = res.Path
		units[i].Action = res.Action
	}
	return units, errors.Join(genErr, writeErr)
}

func publishDiagnostics(ctx *glsp.Context, path string, perr *java.ParseError) {
	diagnostics := []protocol.Diagnostic{}
	if perr != nil {
		line := protocol.UInteger(max(perr.Line-1, 0))
		col := protocol.UInteger(max(perr.Column-1, 0))
		severity := protocol.DiagnosticSeverityError
		source := lsName
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: col},
				End:   protocol.Position{Line: line, Character: col + 1},
			},
			Severity: &severity,
			Source:   &source,
			Message:  perr.Message,
		})
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: diagnostics,
	})
}

func wantsKind(only []protocol.CodeActionKind, kind protocol.CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	for _, k := range only {
		if k == kind || strings.HasPrefix(kind, k+".") {
			return true
		}
	}
	return false
}

func isJava(path string) bool {
	return filepath.Ext(path) == ".java"
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}

func getRootDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}
