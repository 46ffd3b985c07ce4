package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/storefront/repository"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORE_BACKEND", "filesystem")
	t.Setenv("STORE_DIR", filepath.Join(dir, "snapshots"))
	t.Setenv("MIRROR_ENABLED", "false")
	t.Setenv("ADMIN_PASSWORD", "geheim")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	seedForce, jsonOutput, exportOutput, backendFlag = false, false, "", ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSeedExportPrune(t *testing.T) {
	dir := setupEnv(t)

	out, err := run(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "stored site-data/data-")

	_, err = run(t, "seed")
	require.Error(t, err)

	_, err = run(t, "seed", "--force")
	require.NoError(t, err)

	out, err = run(t, "snapshots", "--json")
	require.NoError(t, err)
	var locs []repository.Location
	require.NoError(t, json.Unmarshal([]byte(out), &locs))
	require.Len(t, locs, 2)

	target := filepath.Join(dir, "export.json")
	_, err = run(t, "export", "-o", target)
	require.NoError(t, err)
	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"password": "geheim"`)

	out, err = run(t, "prune")
	require.NoError(t, err)
	assert.Equal(t, "deleted 1 snapshot(s)\n", out)

	out, err = run(t, "import", target, "--if-match", locs[1].Name)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "stored site-data/data-"), out)

	_, err = run(t, "import", target, "--if-match", locs[1].Name)
	require.Error(t, err)
}
