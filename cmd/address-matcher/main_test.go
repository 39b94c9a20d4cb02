package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/al-ius/aus-address-matcher/internal/gazetteer/gazetteertest"
)

// setup isolates a run in a temp dir with a quiet logger and returns the
// fixture path.
func setup(t *testing.T, driver string) (dir, fixture string) {
	t.Helper()
	dir = t.TempDir()
	t.Chdir(dir)
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	fixture = gazetteertest.WriteYAML(t, dir)
	t.Setenv("GNAF_LOG_LEVEL", "error")
	t.Setenv("GNAF_STORE_DRIVER", driver)
	t.Setenv("GNAF_STORE_FIXTURE", fixture)
	t.Setenv("GNAF_STORE_PATH", filepath.Join(dir, "gnaf.db"))
	return dir, fixture
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := createRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMatchSingleAddress(t *testing.T) {
	setup(t, "fixture")

	out, err := run(t, "match", "12", "smith", "st", "richmond", "vic", "3121")
	require.NoError(t, err)
	assert.Contains(t, out, "12 SMITH ST RICHMOND VIC 3121 (GNAF001)")
	assert.Contains(t, out, "Matched: 1")
	assert.Contains(t, out, "Workers: 1")
}

func TestMatchListAsJSON(t *testing.T) {
	dir, _ := setup(t, "fixture")
	list := filepath.Join(dir, "addresses.txt")
	require.NoError(t, os.WriteFile(list, []byte(strings.Join([]string{
		"-- sample",
		"45 high st kew vic 3101",
		"1 nonexistent rd nowhere vic 9999 -- not in the gazetteer",
		"8 bridge road richmond 3121",
	}, "\n")), 0o644))

	out, err := run(t, "match", "--file", list, "--json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)

	var got []map[string]any
	for _, l := range lines {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m))
		got = append(got, m)
	}
	assert.Equal(t, "45 HIGH ST KEW VIC 3101", got[0]["input"])
	assert.Equal(t, "GNAF020", got[0]["record"].(map[string]any)["address_id"])
	assert.Equal(t, "no_candidate_streets", got[1]["reason"])
	assert.Equal(t, "GNAF040", got[2]["record"].(map[string]any)["address_id"])
}

func TestMatchMissingList(t *testing.T) {
	setup(t, "fixture")
	_, err := run(t, "match")
	assert.Error(t, err, "default sample file does not exist in the temp dir")
}

func TestInitDBThenPing(t *testing.T) {
	dir, fixture := setup(t, "sqlite")

	out, err := run(t, "init-db", "--fixture", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "18 addresses")
	assert.FileExists(t, filepath.Join(dir, "gnaf.db"))

	_, err = run(t, "init-db", "--fixture", fixture)
	assert.Error(t, err, "existing gazetteer is not overwritten")

	out, err = run(t, "ping")
	require.NoError(t, err)
	assert.Contains(t, out, "Gazetteer connection successful (sqlite)")
	assert.Contains(t, out, "australian_full_addresses")

	out, err = run(t, "match", "3/12 SMITH ST RICHMOND VIC 3121")
	require.NoError(t, err)
	assert.Contains(t, out, "(GNAF003)")
}

func TestInitDBRequiresFixture(t *testing.T) {
	setup(t, "sqlite")
	_, err := run(t, "init-db")
	assert.Error(t, err)
}

func TestEval(t *testing.T) {
	dir, _ := setup(t, "fixture")
	csv := filepath.Join(dir, "validation.csv")
	require.NoError(t, os.WriteFile(csv, []byte(
		"12 smth street richmond vic 3121,12 SMITH ST RICHMOND VIC 3121,GNAF001\n"+
			"45 high st kew vic 3101,45 HIGH ST KEW VIC 3101,GNAF020\n"+
			"1 nonexistent rd nowhere,1 NONEXISTENT RD NOWHERE VIC 9999,\n"), 0o644))

	out, err := run(t, "eval", csv)
	require.NoError(t, err)
	assert.Contains(t, out, "Cases: 3")
	assert.Contains(t, out, "Correct: 2")
	assert.Contains(t, out, "Accuracy: 66.67%")
	assert.Contains(t, out, "<no match>")
}

func TestShippedValidationSet(t *testing.T) {
	csv, err := filepath.Abs("../../data/validation.csv")
	require.NoError(t, err)
	fixture, err := filepath.Abs("../../data/gazetteer.yaml")
	require.NoError(t, err)

	setup(t, "fixture")
	t.Setenv("GNAF_STORE_FIXTURE", fixture)

	out, err := run(t, "eval", csv)
	require.NoError(t, err)
	assert.Contains(t, out, "Cases: 6")
	assert.Contains(t, out, "Accuracy: 100.00%")
}

func TestUnknownDriver(t *testing.T) {
	setup(t, "mysql")
	_, err := run(t, "ping")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store.driver")
}
