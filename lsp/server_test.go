package lsp

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dhamidi/testgen/generate"
	"github.com/dhamidi/testgen/java"
	"github.com/dhamidi/testgen/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const accountService = `package com.acme.accounts;

import org.springframework.stereotype.Service;

@Service
public class AccountService {
    private final AccountRepository accounts;

    public AccountService(AccountRepository accounts) {
        this.accounts = accounts;
    }

    public Account open(String owner) {
        return accounts.save(new Account(owner));
    }
}
`

const plainHelper = `package com.acme.accounts;

public class Helper {}
`

type recorder struct {
	mu    sync.Mutex
	calls []notification
}

type notification struct {
	method string
	params any
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{Notify: func(method string, params any) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, notification{method, params})
	}}
}

func (r *recorder) diagnostics() []protocol.PublishDiagnosticsParams {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []protocol.PublishDiagnosticsParams
	for _, c := range r.calls {
		if c.method == protocol.ServerTextDocumentPublishDiagnostics {
			out = append(out, c.params.(protocol.PublishDiagnosticsParams))
		}
	}
	return out
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// started returns a server initialized on root.
func started(t *testing.T, root string, opts Options) (*Server, *recorder) {
	t.Helper()
	s := NewServer(opts)
	rec := &recorder{}
	uri := pathToURI(root)
	_, err := s.initialize(rec.context(), &protocol.InitializeParams{RootURI: &uri})
	require.NoError(t, err)
	require.NoError(t, s.initialized(rec.context(), &protocol.InitializedParams{}))
	return s, rec
}

func TestInitializeCapabilities(t *testing.T) {
	s := NewServer(Options{Version: "1.2.3"})
	root := t.TempDir()
	result, err := s.initialize((&recorder{}).context(), &protocol.InitializeParams{RootPath: &root})
	require.NoError(t, err)

	init := result.(protocol.InitializeResult)
	assert.Equal(t, "testgen", init.ServerInfo.Name)
	assert.Equal(t, "1.2.3", *init.ServerInfo.Version)
	require.NotNil(t, init.Capabilities.ExecuteCommandProvider)
	assert.Equal(t, []string{CommandGenerate}, init.Capabilities.ExecuteCommandProvider.Commands)
	assert.IsType(t, &protocol.CodeActionOptions{}, init.Capabilities.CodeActionProvider)
	assert.Equal(t, root, s.current().Root())
}

func TestInitializedPublishesSyntaxErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "com/acme/accounts/AccountService.java", accountService)
	broken := writeFile(t, root, "com/acme/accounts/Broken.java", "public class Broken { void m( { }")

	s, rec := started(t, root, Options{})
	assert.NotNil(t, s.current().FindModel("com.acme.accounts.AccountService"))

	diags := rec.diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, pathToURI(broken), diags[0].URI)
	require.Len(t, diags[0].Diagnostics, 1)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Diagnostics[0].Severity)
}

func TestDidChangeClearsDiagnostics(t *testing.T) {
	root := t.TempDir()
	s, rec := started(t, root, Options{})
	path := filepath.Join(root, "AccountService.java")
	uri := pathToURI(path)

	require.NoError(t, s.textDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "java", Text: "public class Broken { void m( { }"},
	}))
	require.NoError(t, s.textDocumentDidChange(rec.context(), &protocol.DidChangeTextDocumentParams{
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: accountService}},
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
		},
	}))

	diags := rec.diagnostics()
	require.Len(t, diags, 2)
	assert.Len(t, diags[0].Diagnostics, 1)
	assert.Empty(t, diags[1].Diagnostics)
	assert.Equal(t, "com.acme.accounts.AccountService", s.current().Model(path).QualifiedName())
}

func TestCodeActionOffersGeneration(t *testing.T) {
	root := t.TempDir()
	service := writeFile(t, root, "AccountService.java", accountService)
	helper := writeFile(t, root, "Helper.java", plainHelper)
	s, rec := started(t, root, Options{})

	action := func(path string, only ...protocol.CodeActionKind) any {
		result, err := s.textDocumentCodeAction(rec.context(), &protocol.CodeActionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: pathToURI(path)},
			Context:      protocol.CodeActionContext{Only: only},
		})
		require.NoError(t, err)
		return result
	}

	actions, ok := action(service).([]protocol.CodeAction)
	require.True(t, ok)
	require.Len(t, actions, 1)
	assert.Equal(t, "Generate tests", actions[0].Title)
	assert.Equal(t, CommandGenerate, actions[0].Command.Command)
	assert.Equal(t, []any{pathToURI(service)}, actions[0].Command.Arguments)

	assert.Nil(t, action(helper))
	assert.Nil(t, action(service, protocol.CodeActionKindQuickFix))
	assert.NotNil(t, action(service, protocol.CodeActionKindSource))
}

func TestExecuteGenerateReturnsUnits(t *testing.T) {
	root := t.TempDir()
	service := writeFile(t, root, "AccountService.java", accountService)
	s, rec := started(t, root, Options{Generate: generate.Options{TestType: generate.TestUnit}})

	result, err := s.workspaceExecuteCommand(rec.context(), &protocol.ExecuteCommandParams{
		Command:   CommandGenerate,
		Arguments: []any{pathToURI(service)},
	})
	require.NoError(t, err)

	units := result.([]Unit)
	require.Len(t, units, 1)
	assert.Equal(t, "com/acme/accounts/AccountServiceTest.java", units[0].Path)
	assert.Equal(t, generate.KindUnit, units[0].Kind)
	assert.Equal(t, "service", units[0].Generator)
	assert.Contains(t, units[0].Content, "@InjectMocks")
	assert.Empty(t, units[0].Action)
}

func TestExecuteGenerateWritesUnits(t *testing.T) {
	root := t.TempDir()
	service := writeFile(t, root, "AccountService.java", accountService)
	s, rec := started(t, root, Options{Output: "src/test/java"})

	result, err := s.workspaceExecuteCommand(rec.context(), &protocol.ExecuteCommandParams{
		Command:   CommandGenerate,
		Arguments: []any{pathToURI(service)},
	})
	require.NoError(t, err)

	units := result.([]Unit)
	require.Len(t, units, 2)
	for _, u := range units {
		assert.Equal(t, output.ActionCreated, u.Action)
		assert.FileExists(t, u.Path)
	}
	assert.Equal(t, filepath.Join(root, "src", "test", "java", "com", "acme", "accounts", "AccountServiceTest.java"), units[0].Path)
}

func TestExecuteGenerateRejectsBadArguments(t *testing.T) {
	root := t.TempDir()
	s, rec := started(t, root, Options{})

	_, err := s.workspaceExecuteCommand(rec.context(), &protocol.ExecuteCommandParams{Command: "testgen.other"})
	assert.ErrorIs(t, err, java.ErrInvalidArgument)

	_, err = s.workspaceExecuteCommand(rec.context(), &protocol.ExecuteCommandParams{Command: CommandGenerate})
	assert.ErrorIs(t, err, java.ErrInvalidArgument)

	_, err = s.workspaceExecuteCommand(rec.context(), &protocol.ExecuteCommandParams{
		Command:   CommandGenerate,
		Arguments: []any{pathToURI(filepath.Join(root, "Missing.java"))},
	})
	assert.ErrorIs(t, err, java.ErrNotFound)
}

func TestURIRoundTrip(t *testing.T) {
	path := filepath.Join(string(filepath.Separator), "src", "My App", "Account.java")
	got, err := uriToPath(pathToURI(path))
	require.NoError(t, err)
	assert.Equal(t, path, got)

	got, err = uriToPath("relative/Account.java")
	require.NoError(t, err)
	assert.Equal(t, "relative/Account.java", got)
}
