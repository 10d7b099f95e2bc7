package dashboard

import (
	"bytes"
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestRun_MirrorsChildExitCode(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	// --- Arrange ---
	var out bytes.Buffer
	l := New([]string{"sh", "-c", "echo serving; exit 4"}, "", WithOutput(&out, &out))

	// --- Act ---
	code, err := l.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, 4, code)
	require.Equal(t, "serving\n", out.String())
}

func TestRun_CleanExit(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	code, err := New([]string{"true"}, "", WithOutput(&bytes.Buffer{}, &bytes.Buffer{})).Run(context.Background())

	require.NoError(t, err)
	require.Zero(t, code)
}

func TestRun_CancelForwardsInterrupt(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	l := New([]string{"sleep", "30"}, "", WithOutput(&bytes.Buffer{}, &bytes.Buffer{}))
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	code, err := l.Run(ctx)

	require.NoError(t, err)
	require.Equal(t, InterruptedCode, code)
	require.Less(t, time.Since(start), ShutdownGrace)
}

func TestRun_MissingCommand(t *testing.T) {
	t.Parallel()

	code, err := New([]string{"definitely-not-a-real-dashboard-xyz"}, "").Run(context.Background())
	require.Error(t, err)
	require.Equal(t, 1, code)

	_, err = New(nil, "").Run(context.Background())
	require.Error(t, err)
}
