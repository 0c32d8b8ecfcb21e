//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestMain(m *testing.M) {
	e2eDir, err := os.Getwd()
	if err != nil {
		fmt.Printf("Failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	binPath = filepath.Join(e2eDir, "fastexplorer_e2e")
	cliPath = filepath.Join(e2eDir, "fxsearch_e2e")

	// Build both front-ends from the main module
	for out, pkg := range map[string]string{binPath: ".", cliPath: "./cmd/fxsearch"} {
		fmt.Printf("Building %s...\n", pkg)
		cmd := exec.Command("go", "build", "-o", out, pkg)
		cmd.Dir = ".."
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			fmt.Printf("Failed to build %s: %v\n", pkg, err)
			os.Exit(1)
		}
	}

	code := m.Run()

	os.Remove(binPath)
	os.Remove(cliPath)
	os.Exit(code)
}
