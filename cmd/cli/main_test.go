package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/fieldrover/internal/cli"
	"github.com/specialistvlad/fieldrover/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestRun_StartupError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A controller file with a syntax error must fail startup cleanly.
	configPath := filepath.Join(t.TempDir(), "rover.hcl")
	require.NoError(t, os.WriteFile(configPath, []byte("step_delay = \n"), 0600))
	out, logs := &bytes.Buffer{}, &testutil.SafeBuffer{}

	// --- Act ---
	err := run(context.Background(), strings.NewReader(""), out, logs, []string{"-c", configPath})

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "startup failed")
	require.Contains(t, err.Error(), "failed to parse config file")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), strings.NewReader(""), out, &bytes.Buffer{}, []string{"-h"})

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Act ---
	err := run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	// --- Assert ---
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_Session(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	worldPath := filepath.Join(dir, "world.json")
	require.NoError(t, os.WriteFile(worldPath, []byte(testutil.SampleWorld), 0600))
	configPath := filepath.Join(dir, "rover.hcl")
	require.NoError(t, os.WriteFile(configPath, []byte("step_delay = \"1ms\"\nreport_interval = \"1ms\"\n"), 0600))
	out := &testutil.SafeBuffer{}
	input := "help\ngoto field A row 2\nstatus\n"

	// --- Act ---
	err := run(context.Background(), strings.NewReader(input), out, &testutil.SafeBuffer{}, []string{"-c", configPath, "-w", worldPath, "-log-level", "error"})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "Available commands:")
	require.Contains(t, out.String(), "queued goto field-a row-02")
	require.Contains(t, out.String(), "(10, 100) [field-a-row-02]")
}
