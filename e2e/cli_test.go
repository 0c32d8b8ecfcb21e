//go:build e2e && unix

package main

import (
	"bytes"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "config.toml")
	cmd := exec.Command(cliPath, append([]string{"-config", cfg}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else {
		require.NoError(t, err)
	}
	return stdout.String(), stderr.String(), code
}

func TestCLIPrintsMatches(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	workspace, err := tf.CreateTestWorkspace()
	require.NoError(t, err)
	require.NoError(t, tf.CreateFiles("b.txt", "x/ab.go", "x/y/c.md"))

	stdout, stderr, code := runCLI(t, "-root", workspace, "-term", "b")
	require.Equal(t, 0, code, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.ElementsMatch(t, []string{
		filepath.Join(workspace, "b.txt"),
		filepath.Join(workspace, "x", "ab.go"),
	}, lines)
	assert.Contains(t, stderr, "2 matches")
}

func TestCLIRejectsEmptyTerm(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	workspace, err := tf.CreateTestWorkspace()
	require.NoError(t, err)

	stdout, stderr, code := runCLI(t, "-root", workspace, "-term", "")
	assert.Equal(t, 2, code)
	assert.Empty(t, stdout)
	assert.NotEmpty(t, stderr)
}
