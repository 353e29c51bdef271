package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAbsolutePathRejectsRelative(t *testing.T) {
	_, err := ValidateAbsolutePath("relative/path.yaml")
	assert.Error(t, err)
}

func TestValidateAbsolutePathRejectsEmpty(t *testing.T) {
	_, err := ValidateAbsolutePath("")
	assert.Error(t, err)
}

func TestValidateAbsolutePathCleansAndAccepts(t *testing.T) {
	got, err := ValidateAbsolutePath("/a/b/../c/blueprint.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/a/c/blueprint.yaml", got)
}

func TestFileExistsTrueForRegularFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blueprint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tosca_definitions_version: cloudify_dsl_1_0\n"), 0o644))
	assert.True(t, FileExists(path))
}

func TestFileExistsFalseForDirectory(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, FileExists(dir))
}

func TestFileExistsFalseForMissingPath(t *testing.T) {
	assert.False(t, FileExists("/nonexistent/path/blueprint.yaml"))
}
