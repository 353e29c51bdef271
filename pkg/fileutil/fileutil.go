// Package fileutil provides the path-handling helpers the Resource
// Resolver (spec §4.1) and the ParseFromPath entry point (spec §6) need:
// validating a caller-supplied path is absolute and safe to use, and
// probing local filesystem existence.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// ValidateAbsolutePath validates that a file path is absolute and safe to
// use: it cleans the path with filepath.Clean to normalize "." and ".."
// components, then rejects anything that isn't absolute. ParseFromPath uses
// this before turning a caller-supplied path into a file:// dsl_location.
func ValidateAbsolutePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("path must be absolute, got: %s", path)
	}

	return cleanPath, nil
}

// FileExists checks if a file exists and is not a directory. The Resource
// Resolver's default Prober uses this for file:// script-plugin existence
// probes (spec §4.8 step 3).
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
