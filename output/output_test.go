package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/testgen/generate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unit(content string) generate.Output {
	return generate.Output{Package: "com.acme", TypeName: "CartTest", Content: content}
}

func TestWriterLifecycle(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "com", "acme", "CartTest.java")

	w := NewWriter(root)
	res := w.Write(unit("class CartTest {}\n"))
	require.NoError(t, res.Err)
	assert.Equal(t, ActionCreated, res.Action)
	assert.Equal(t, path, res.Path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "class CartTest {}\n", string(data))

	res = w.Write(unit("class CartTest {}\n"))
	require.NoError(t, res.Err)
	assert.Equal(t, ActionUnchanged, res.Action)

	res = w.Write(unit("class CartTest { }\n"))
	assert.ErrorIs(t, res.Err, ErrExists)
	assert.Equal(t, ActionSkipped, res.Action)

	res = NewWriter(root, WithOverwrite(true)).Write(unit("class CartTest { }\n"))
	require.NoError(t, res.Err)
	assert.Equal(t, ActionUpdated, res.Action)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "class CartTest { }\n", string(data))
}

func TestWriterDryRun(t *testing.T) {
	root := t.TempDir()
	res := NewWriter(root, WithDryRun(true)).Write(unit("class CartTest {}\n"))
	require.NoError(t, res.Err)
	assert.Equal(t, ActionCreated, res.Action)
	assert.NoFileExists(t, res.Path)
}

func TestWriteAll(t *testing.T) {
	root := t.TempDir()
	outputs := []generate.Output{
		unit("a"),
		{Package: "com.acme", TypeName: "CartIntegrationTest", Content: "b"},
		unit("c"),
	}
	results, err := NewWriter(root).WriteAll(outputs)
	assert.ErrorIs(t, err, ErrExists)
	require.Len(t, results, 3)
	assert.Equal(t, ActionCreated, results[0].Action)
	assert.Equal(t, ActionCreated, results[1].Action)
	assert.Equal(t, ActionSkipped, results[2].Action)
}
