// Package testutil contains helpers shared by the controller's tests.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/fieldrover/internal/ctxlog"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements io.Writer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements fmt.Stringer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Context returns a cancellable context carrying a debug logger that writes
// into a SafeBuffer. The buffer is dumped through t.Logf when
// FIELDROVER_TEST_LOGS=true.
func Context(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()

	logs := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx, cancel := context.WithCancel(ctxlog.WithLogger(context.Background(), logger))

	t.Cleanup(func() {
		cancel()
		if os.Getenv("FIELDROVER_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return ctx, logs
}

// WriteFile writes content under a fresh temporary directory and returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// SampleWorld is a small world document: a two-waypoint path joining the
// charger to field A, and field A with three rows.
const SampleWorld = `{
    "customer": {
        "name": "Acme Farms",
        "id": 42
    },
    "world": {
        "charger": {
            "location": [0, 0]
        },
        "paths": {
            "path-main": {
                "wp-1": [0, 0],
                "wp-2": [0, 100]
            }
        },
        "fields": {
            "field-a": {
                "rows": {
                    "row-01": {"location": [0, 100], "crop": ""},
                    "row-02": {"location": [10, 100], "crop": "CORN"},
                    "row-03": {"location": [20, 100], "crop": ""}
                }
            }
        }
    }
}
`
