package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestManagerLastRootWins(t *testing.T) {
	base, override := t.TempDir(), t.TempDir()
	writeFile(t, base, "glb/a.glb", "base")
	writeFile(t, base, "only-base.txt", "base")
	writeFile(t, override, "glb/a.glb", "override")

	m := NewManager(base, override)

	data, err := m.Load("glb/a.glb")
	require.NoError(t, err)
	assert.Equal(t, "override", string(data))

	data, err = m.Load("only-base.txt")
	require.NoError(t, err)
	assert.Equal(t, "base", string(data))
}

func TestManagerNotFound(t *testing.T) {
	m := NewManager(t.TempDir())

	_, err := m.Load("missing.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Resolve(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerResolveAbsolute(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "env.png", "x")
	abs := filepath.Join(dir, "env.png")

	p, err := NewManager().Resolve(abs)
	require.NoError(t, err)
	assert.Equal(t, abs, p)
}

func TestManagerCachesReads(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "first")
	m := NewManager(dir)

	_, err := m.Load("a.txt")
	require.NoError(t, err)
	writeFile(t, dir, "a.txt", "second")

	data, err := m.Load("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	hits, misses := m.cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	m.Close()
	hits, misses = m.cache.Stats()
	assert.Zero(t, hits+misses)
}
