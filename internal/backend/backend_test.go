package backend

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records invocations and plays back a canned result. When
// block is set it waits for ctx expiry, simulating an installer that
// never exits.
type fakeRunner struct {
	calls [][]string
	out   []byte
	err   error
	block bool
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.out, f.err
}

type fakeProber map[string]bool

func (f fakeProber) IsAvailable(name string) bool { return f[name] }

// realExitError produces a genuine *exec.ExitError with the given code.
func realExitError(t *testing.T, code int) error {
	t.Helper()
	err := exec.Command("sh", "-c", fmt.Sprintf("exit %d", code)).Run()
	require.Error(t, err)
	return err
}

func TestClassifyExitCode(t *testing.T) {
	ctx := context.Background()
	instErr := classifyRunError(ctx, realExitError(t, 3), []byte("boom"))

	assert.Equal(t, BackendFailure, instErr.Kind)
	assert.Equal(t, 3, instErr.ExitCode)
	assert.Contains(t, instErr.Error(), "3")
}

func TestClassifyTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	instErr := classifyRunError(ctx, ctx.Err(), nil)
	assert.Equal(t, Timeout, instErr.Kind)
	assert.Contains(t, instErr.Error(), "timed out")
}

func TestClassifyMissingExecutable(t *testing.T) {
	err := &exec.Error{Name: "winget", Err: exec.ErrNotFound}
	instErr := classifyRunError(context.Background(), err, nil)

	assert.Equal(t, Unavailable, instErr.Kind)
	assert.Contains(t, instErr.Error(), "unavailable")
}

func TestTailTruncatesLongOutput(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, tail(long), 400)
	assert.Equal(t, "short", tail([]byte("short")))
}
