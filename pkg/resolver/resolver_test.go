package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct{ known map[string]bool }

func (p *fakeProber) Exists(url string) bool { return p.known[url] }

func TestResolveAppliesAlias(t *testing.T) {
	r := New(AliasMap{"logical-name": "https://example.com/real.yaml"}, "", &fakeProber{known: map[string]bool{}})
	got, err := r.Resolve("logical-name", "", 30)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/real.yaml", got)
}

func TestResolveKnownSchemePassesThrough(t *testing.T) {
	r := New(nil, "", &fakeProber{known: map[string]bool{}})
	got, err := r.Resolve("https://example.com/plugin.yaml", "", 30)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/plugin.yaml", got)
}

func TestResolveLocalFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "types.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	r := New(nil, "", &fakeProber{known: map[string]bool{}})
	got, err := r.Resolve(path, "", 30)
	require.NoError(t, err)
	assert.Contains(t, got, "file://")
	assert.Contains(t, got, "types.yaml")
}

func TestResolveRelativeToCurrentContext(t *testing.T) {
	prober := &fakeProber{known: map[string]bool{"https://example.com/blueprints/types.yaml": true}}
	r := New(nil, "", prober)
	got, err := r.Resolve("types.yaml", "https://example.com/blueprints/main.yaml", 30)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/blueprints/types.yaml", got)
}

func TestResolveFallsBackToResourcesBase(t *testing.T) {
	r := New(nil, "https://resources.example.com/", &fakeProber{known: map[string]bool{}})
	got, err := r.Resolve("scripts/install.sh", "", 30)
	require.NoError(t, err)
	assert.Equal(t, "https://resources.example.com/scripts/install.sh", got)
}

func TestResolveFailsWithNoCandidate(t *testing.T) {
	r := New(nil, "", &fakeProber{known: map[string]bool{}})
	_, err := r.Resolve("nowhere.yaml", "", 30)
	assert.Error(t, err)
}

func TestHTTPProberExistsChecksLocalFileURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))

	p := NewHTTPProber()
	assert.True(t, p.Exists("file://"+path))
	assert.False(t, p.Exists("file:///nonexistent/script.sh"))
}
