//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplicationExit(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	workspace, err := tf.CreateTestWorkspace()
	require.NoError(t, err, "Failed to create test workspace")
	require.NoError(t, tf.CreateFiles("exit.txt"))

	err = tf.StartApp("-d", workspace)
	require.NoError(t, err, "Failed to start app")
	require.True(t, tf.Ready(), "Should show the title")
	require.True(t, tf.SeePlain("exit.txt"), "Should list the workspace")

	done := make(chan error, 1)
	go func() {
		done <- tf.cmd.Wait()
	}()

	t.Logf("Sending 'q' to quit application...")
	tf.Quit()

	select {
	case exitErr := <-done:
		if exitErr == nil {
			t.Logf("Process exited cleanly with 'q' command")
		} else {
			t.Logf("Process exited with 'q' command (exit code: %v)", exitErr)
		}
		return
	case <-time.After(1500 * time.Millisecond):
		t.Logf("'q' didn't work within 1.5 seconds, using Ctrl+C")
		tf.SendCtrlC()
	}

	select {
	case exitErr := <-done:
		t.Logf("Process exited with Ctrl+C (exit code: %v)", exitErr)
	case <-time.After(750 * time.Millisecond):
		t.Error("Application did not exit within total timeout")
		tf.DumpTailOnFail(t, "exit-failure", 4096)
		tf.SendCtrlC()
	}
}

func TestApplicationExitDuringSearch(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	workspace, err := tf.CreateTestWorkspace()
	require.NoError(t, err)
	require.NoError(t, tf.CreateFiles("a/one.txt", "b/two.txt"))

	require.NoError(t, tf.StartApp("-d", workspace))
	require.True(t, tf.Ready())

	require.NoError(t, tf.Search("txt"))
	require.True(t, tf.SeePlain("Results for"), "Should switch to the results view")

	done := make(chan error, 1)
	go func() {
		done <- tf.cmd.Wait()
	}()
	tf.SendCtrlC()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		tf.DumpTailOnFail(t, "exit-search-failure", 4096)
		t.Fatal("Application did not exit while searching")
	}
}
