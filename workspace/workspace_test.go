package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/testgen/java"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const billingService = `package com.acme.billing;

@Service
public class BillingService {
    private final InvoiceRepository invoices;

    public BillingService(InvoiceRepository invoices) {
        this.invoices = invoices;
    }
}
`

const invoiceController = `package com.acme.billing;

@RestController
public class InvoiceController {}
`

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScanAll(t *testing.T) {
	root := t.TempDir()
	service := writeFile(t, root, "com/acme/billing/BillingService.java", billingService)
	writeFile(t, root, "com/acme/billing/InvoiceController.java", invoiceController)
	writeFile(t, root, "com/acme/billing/Broken.java", "public class Broken { void m( { }")
	writeFile(t, root, "com/acme/generated/Stub.java", "package com.acme.generated;\n\npublic class Stub {}\n")
	writeFile(t, root, ".git/Hidden.java", "public class Hidden {}\n")
	writeFile(t, root, "notes.txt", "not java")

	ws := New(root, WithExclude("**/generated/**"))
	require.NoError(t, ws.ScanAll())
	assert.Equal(t, 3, ws.Len())

	models := ws.Models()
	require.Len(t, models, 2)
	assert.Equal(t, "com.acme.billing.BillingService", models[0].QualifiedName())
	assert.Equal(t, "com.acme.billing.InvoiceController", models[1].QualifiedName())

	m := ws.Model(service)
	require.NotNil(t, m)
	assert.Equal(t, java.RoleService, m.Role())
	assert.Same(t, m, ws.FindModel("com.acme.billing.BillingService"))
	assert.Nil(t, ws.FindModel("com.acme.billing.Missing"))

	diags := ws.Diagnostics()
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Path, "Broken.java")
}

func TestUpdateFileSkipsIdenticalContent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "BillingService.java")
	ws := New(root)

	first, changed, err := ws.UpdateFile(path, []byte(billingService))
	require.NoError(t, err)
	assert.True(t, changed)

	again, changed, err := ws.UpdateFile(path, []byte(billingService))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Same(t, first, again)

	_, changed, err = ws.UpdateFile(path, []byte(invoiceController))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "com.acme.billing.InvoiceController", ws.Model(path).QualifiedName())
}

func TestScanFileMissing(t *testing.T) {
	ws := New(t.TempDir())
	_, _, err := ws.ScanFile(filepath.Join(ws.Root(), "Nope.java"))
	assert.ErrorIs(t, err, java.ErrNotFound)
}

func TestRemoveFile(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "BillingService.java", billingService)
	ws := New(root)
	require.NoError(t, ws.ScanAll())

	assert.True(t, ws.RemoveFile(path))
	assert.False(t, ws.RemoveFile(path))
	assert.Nil(t, ws.Model(path))
	assert.Empty(t, ws.Models())
}

func TestSelected(t *testing.T) {
	root := t.TempDir()
	ws := New(root, WithInclude("**/*Service.java"))
	assert.True(t, ws.Selected(filepath.Join(root, "com", "BillingService.java")))
	assert.False(t, ws.Selected(filepath.Join(root, "com", "InvoiceController.java")))
	assert.False(t, ws.Selected(filepath.Join(filepath.Dir(root), "BillingService.java")))
}
