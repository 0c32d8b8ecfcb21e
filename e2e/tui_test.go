//go:build e2e && unix

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startIn(t *testing.T, files ...string) (*TUITestFramework, string) {
	t.Helper()
	tf := NewTUITest(t)
	workspace, err := tf.CreateTestWorkspace()
	require.NoError(t, err)
	// stop the app before the workspace is removed
	t.Cleanup(tf.Cleanup)
	require.NoError(t, tf.CreateFiles(files...))
	require.NoError(t, tf.StartApp("-d", workspace))
	require.True(t, tf.Ready(), "Should show the title")
	return tf, workspace
}

func TestListsStartDirectory(t *testing.T) {
	t.Parallel()
	tf, workspace := startIn(t, "notes.md", "src/", "src/main.go")

	require.True(t, tf.SeePlain(workspace), "Should show the current path")
	require.True(t, tf.SeePlain("src/"), "Directories carry a trailing slash")
	require.True(t, tf.SeePlain("notes.md"))
	require.True(t, tf.SeePlain("Press ? for help"))
}

func TestEnterOpensDirectory(t *testing.T) {
	t.Parallel()
	tf, _ := startIn(t, "src/", "src/main.go")

	require.True(t, tf.SeePlain("src/"))
	tf.Clear()
	require.NoError(t, tf.SendEnter())
	require.True(t, tf.SeePlain("main.go"), "Should list the opened directory")

	tf.Clear()
	require.NoError(t, tf.Back())
	require.True(t, tf.SeePlain("src/"), "Backspace returns to the parent")
}

func TestSearchShowsResults(t *testing.T) {
	t.Parallel()
	tf, _ := startIn(t, "a/report.txt", "b/c/Report.TXT", "b/other.md")

	require.NoError(t, tf.Search("report"))
	err := tf.WaitForE(func(s string) bool {
		plain := ansiRe.ReplaceAllString(s, "")
		return strings.Contains(plain, "2 found") && strings.Contains(plain, "done")
	}, 5*time.Second, "search should complete with two matches")
	require.NoError(t, err)
	require.True(t, tf.SeePlain("report.txt"))
	require.True(t, tf.SeePlain("Report.TXT"))

	// esc closes the finished results and shows the listing again
	tf.Clear()
	require.NoError(t, tf.Escape())
	require.True(t, tf.SeePlain("live"), "Should return to the listing")
}

func TestHelpOverlay(t *testing.T) {
	t.Parallel()
	tf, _ := startIn(t, "x.txt")

	require.NoError(t, tf.SendKeys(KeyHelp))
	require.True(t, tf.SeePlain("fastexplorer Help"))
	require.True(t, tf.SeePlain("Navigation"))

	tf.Clear()
	require.NoError(t, tf.Escape())
	require.True(t, tf.SeePlain("x.txt"))
}

func TestFilterNarrowsListing(t *testing.T) {
	t.Parallel()
	tf, _ := startIn(t, "alpha.txt", "beta.txt")

	require.True(t, tf.SeePlain("beta.txt"))
	require.NoError(t, tf.SendKeys(KeyFilter))
	require.NoError(t, tf.Type("alp"))
	require.True(t, tf.SeePlain("[filter: alp]"))
}
