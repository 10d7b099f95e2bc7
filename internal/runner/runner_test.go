package runner

import (
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

// script builds a runner whose command is an inline shell script; the target
// and verbose flag arrive as $1 and $2.
func script(body string) *Runner {
	return New([]string{"sh", "-c", body, "sh"}, "")
}

func TestRun_PassingSuite(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	res, err := script(`echo "running $1 $2"`).Run(context.Background(), "./suite/...", 5*time.Second)

	require.NoError(t, err)
	require.True(t, res.Passed())
	require.Equal(t, "./suite/...", res.Target)
	require.Equal(t, "running ./suite/... -v\n", res.Output)
	require.Positive(t, res.Duration)
}

func TestRun_FailingSuiteIsNotAnError(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	res, err := script(`echo out; echo err >&2; exit 3`).Run(context.Background(), "x", 5*time.Second)

	require.NoError(t, err)
	require.False(t, res.Passed())
	require.Equal(t, 3, res.ExitCode)
	require.Contains(t, res.Output, "out")
	require.Contains(t, res.Output, "err")
}

func TestRun_Timeout(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	start := time.Now()
	res, err := script(`echo started; exec sleep 10`).Run(context.Background(), "slow", 200*time.Millisecond)

	require.ErrorIs(t, err, ErrTimeout)
	require.False(t, res.Passed())
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_MissingBinary(t *testing.T) {
	t.Parallel()

	_, err := New([]string{"definitely-not-a-real-binary-xyz"}, "").Run(context.Background(), "x", time.Second)

	require.Error(t, err)
	require.NotErrorIs(t, err, ErrTimeout)
}

func TestRun_NoCommand(t *testing.T) {
	t.Parallel()

	_, err := New(nil, "").Run(context.Background(), "x", time.Second)
	require.Error(t, err)
}
