package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// GoldenHelper compares generated output with files under a golden directory.
// Setting UPDATE_GOLDEN=true rewrites the golden files instead of comparing.
type GoldenHelper struct {
	t          *testing.T
	goldenDir  string
	updateMode bool
}

// NewGoldenHelper creates a new golden file helper.
// goldenDir is the base directory where golden files are stored.
func NewGoldenHelper(t *testing.T, goldenDir string) *GoldenHelper {
	t.Helper()

	return &GoldenHelper{
		t:          t,
		goldenDir:  goldenDir,
		updateMode: os.Getenv("UPDATE_GOLDEN") == "true",
	}
}

// GoldenPath returns the full path to a golden file.
func (g *GoldenHelper) GoldenPath(name string) string {
	return filepath.Join(g.goldenDir, name)
}

// AssertGolden compares the actual content byte for byte with the golden file.
func (g *GoldenHelper) AssertGolden(name string, actual []byte) {
	g.t.Helper()

	if g.update(name, actual) {
		return
	}
	assert.Equal(g.t, string(g.readGolden(name)), string(actual),
		"content does not match golden file %s", name)
}

// AssertGoldenJSON compares JSON content, ignoring formatting differences.
func (g *GoldenHelper) AssertGoldenJSON(name string, actual []byte) {
	g.t.Helper()

	if g.update(name, actual) {
		return
	}
	assert.JSONEq(g.t, string(g.readGolden(name)), string(actual),
		"JSON content does not match golden file %s", name)
}

// readGolden reads a golden file, failing the test if it cannot be read.
func (g *GoldenHelper) readGolden(name string) []byte {
	g.t.Helper()

	goldenPath := g.GoldenPath(name)
	content, err := os.ReadFile(goldenPath)
	require.NoError(g.t, err, "failed to read golden file %s", goldenPath)

	return content
}

// update writes actual to the golden file in update mode and reports whether it did.
func (g *GoldenHelper) update(name string, actual []byte) bool {
	g.t.Helper()

	if !g.updateMode {
		return false
	}

	goldenPath := g.GoldenPath(name)
	require.NoError(g.t, os.MkdirAll(filepath.Dir(goldenPath), 0o755), "failed to create golden file directory")
	require.NoError(g.t, os.WriteFile(goldenPath, actual, 0o644), "failed to update golden file")

	g.t.Logf("Updated golden file: %s", goldenPath)
	return true
}
