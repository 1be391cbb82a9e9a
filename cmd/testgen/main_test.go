package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/testgen/java"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paymentService = `package com.acme.payments;

@Service
public class PaymentService {
    private final LedgerClient ledger;

    public PaymentService(LedgerClient ledger) {
        this.ledger = ledger;
    }

    public Receipt charge(String account, long cents) {
        return ledger.debit(account, cents);
    }
}
`

// project creates a source tree in a fresh working directory.
func project(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "src", "main", "java", "com", "acme", "payments", "PaymentService.java")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(paymentService), 0o644))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateWritesTests(t *testing.T) {
	dir := project(t)

	out, err := run(t, "generate", "src/main/java", "-o", "out", "--type", "unit")
	require.NoError(t, err)
	assert.Contains(t, out, "1 classes, 1 test files")

	data, err := os.ReadFile(filepath.Join(dir, "out", "com", "acme", "payments", "PaymentServiceTest.java"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "class PaymentServiceTest")
	assert.Contains(t, string(data), "@InjectMocks")

	out, err = run(t, "generate", "src/main/java", "-o", "out", "--type", "unit")
	require.NoError(t, err)
	assert.Contains(t, out, "unchanged")
}

func TestGenerateDryRun(t *testing.T) {
	dir := project(t)

	out, err := run(t, "generate", "src/main/java", "-o", "out", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "PaymentServiceTest.java")
	assert.Contains(t, out, "PaymentServiceIntegrationTest.java")
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestGenerateRejectsUnknownNaming(t *testing.T) {
	project(t)
	_, err := run(t, "generate", "src/main/java", "--naming", "bbd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "bdd"`)
}

func TestGenerateMissingSource(t *testing.T) {
	project(t)
	_, err := run(t, "generate", "src/main/kotlin")
	require.Error(t, err)
	assert.True(t, errors.Is(err, java.ErrNotFound), err.Error())
}

func TestInspectJSON(t *testing.T) {
	project(t)
	out, err := run(t, "inspect", "src/main/java/com/acme/payments/PaymentService.java", "--format", "json")
	require.NoError(t, err)

	var model map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &model))
	assert.Equal(t, "com.acme.payments.PaymentService", model["qualifiedName"])
	assert.Equal(t, "SERVICE", model["role"])
}

func TestInspectUnknownFormat(t *testing.T) {
	project(t)
	_, err := run(t, "inspect", "src/main/java/com/acme/payments/PaymentService.java", "--format", "xml")
	assert.Error(t, err)
}

func TestConfigInitAndShow(t *testing.T) {
	dir := project(t)

	out, err := run(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote testgen.yaml")
	assert.FileExists(t, filepath.Join(dir, "testgen.yaml"))

	_, err = run(t, "config", "init")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "testgen.yaml"), []byte("naming: snake\n"), 0o644))
	out, err = run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "naming: snake")
	assert.Contains(t, out, "output: src/test/java")
}
