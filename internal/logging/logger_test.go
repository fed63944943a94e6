package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T) {
	t.Helper()
	CloseAll()
	t.Cleanup(func() {
		CloseAll()
		_ = Initialize("", Settings{})
	})
}

func TestDisabledIsNoop(t *testing.T) {
	reset(t)
	dir := t.TempDir()
	require.NoError(t, Initialize(filepath.Join(dir, "logs"), Settings{DebugMode: false}))

	API("should not be written %d", 1)

	_, err := os.Stat(filepath.Join(dir, "logs"))
	assert.True(t, os.IsNotExist(err), "logs dir must not be created in production mode")
	assert.False(t, IsDebugMode())
}

func TestCategoryFilesAreWritten(t *testing.T) {
	reset(t)
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Initialize(dir, Settings{
		DebugMode:  true,
		Level:      "debug",
		Categories: map[string]bool{"geo": false},
	}))

	API("GET %s -> %d", "/restaurants/partner-approved", 200)
	GeoDebug("never written")
	CloseAll()

	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(dir, date+"_api.log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "/restaurants/partner-approved"))

	_, err = os.Stat(filepath.Join(dir, date+"_geo.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestJSONFormatAndLevel(t *testing.T) {
	reset(t)
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Initialize(dir, Settings{DebugMode: true, Level: "warn", JSONFormat: true}))

	Get(CategoryResults).With("lane", "near-you").Warn("lane failed: %s", "status 500")
	ResultsDebug("filtered by level")
	CloseAll()

	data, err := os.ReadFile(filepath.Join(dir, time.Now().Format("2006-01-02")+"_results.log"))
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"lane":"near-you"`)
	assert.Contains(t, out, "lane failed: status 500")
	assert.NotContains(t, out, "filtered by level")
}

func TestIsCategoryEnabled(t *testing.T) {
	reset(t)
	require.NoError(t, Initialize(t.TempDir(), Settings{DebugMode: true, Categories: map[string]bool{"ui": false}}))
	assert.False(t, IsCategoryEnabled(CategoryUI))
	assert.True(t, IsCategoryEnabled(CategoryNav))
}
