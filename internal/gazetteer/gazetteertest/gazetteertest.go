// Package gazetteertest provides a small Melbourne gazetteer shared by tests
// across the matcher packages.
package gazetteertest

import (
	_ "embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/al-ius/aus-address-matcher/internal/gazetteer"
)

//go:embed testdata/gazetteer.yaml
var fixtureYAML []byte

// YAML returns the raw fixture document.
func YAML() []byte {
	return append([]byte(nil), fixtureYAML...)
}

// Fixture parses the shared fixture.
func Fixture(t testing.TB) *gazetteer.Fixture {
	t.Helper()
	f, err := gazetteer.ParseFixture(fixtureYAML)
	require.NoError(t, err)
	return f
}

// Store returns an in-memory store over the shared fixture with default
// search options.
func Store(t testing.TB) *gazetteer.MemoryStore {
	t.Helper()
	return gazetteer.NewMemoryStore(Fixture(t), gazetteer.DefaultSearchOptions())
}

// WriteYAML writes the fixture into dir and returns its path.
func WriteYAML(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "gazetteer.yaml")
	require.NoError(t, os.WriteFile(path, fixtureYAML, 0o644))
	return path
}
