package logging

import (
	"bufio"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRecords(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r), "line: %s", sc.Text())
		records = append(records, r)
	}
	return records
}

func TestInitWritesJSONLines(t *testing.T) {
	Shutdown()
	dir := t.TempDir()
	Init(Config{Dir: dir, Level: "debug"})
	defer Shutdown()

	Logger().Info("test_message", "key", "value")

	records := readRecords(t, filepath.Join(dir, LogFileName))
	require.Len(t, records, 1)
	assert.Equal(t, "test_message", records[0]["msg"])
	assert.Equal(t, "value", records[0]["key"])
}

func TestForComponentCreatedBeforeInit(t *testing.T) {
	Shutdown()
	early := ForComponent(CompSearch)

	dir := t.TempDir()
	Init(Config{Dir: dir})
	defer Shutdown()

	early.Info("scan_started", "root", "/tmp")

	records := readRecords(t, filepath.Join(dir, LogFileName))
	require.Len(t, records, 1)
	assert.Equal(t, CompSearch, records[0]["component"])
	assert.Equal(t, "/tmp", records[0]["root"])
}

func TestLevelFiltering(t *testing.T) {
	Shutdown()
	dir := t.TempDir()
	Init(Config{Dir: dir, Level: "warn"})
	defer Shutdown()

	l := ForComponent(CompPool)
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")

	records := readRecords(t, filepath.Join(dir, LogFileName))
	require.Len(t, records, 1)
	assert.Equal(t, "shown", records[0]["msg"])
}

func TestStdlibLogIsBridged(t *testing.T) {
	Shutdown()
	dir := t.TempDir()
	Init(Config{Dir: dir})
	defer Shutdown()

	log.Printf("legacy line %d", 7)

	records := readRecords(t, filepath.Join(dir, LogFileName))
	require.Len(t, records, 1)
	assert.Equal(t, "legacy line 7", records[0]["msg"])
	assert.Equal(t, "legacy", records[0]["component"])
}

func TestDiscardWithoutDir(t *testing.T) {
	Shutdown()
	Init(Config{})
	defer Shutdown()

	assert.NotPanics(t, func() {
		ForComponent(CompUI).Error("nowhere")
	})
}
