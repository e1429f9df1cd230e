package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provision-machine/internal/config"
)

func TestCustomCommandInvocation(t *testing.T) {
	runner := &fakeRunner{}
	c := &CustomCommand{Runner: runner, Shell: []string{"sh", "-c"}}

	err := c.Install(context.Background(), config.AppDescriptor{
		Name:    "Scoop",
		Command: "iwr get.scoop.sh | iex",
	})
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"sh", "-c", "iwr get.scoop.sh | iex"}, runner.calls[0])
}

func TestCustomCommandFailure(t *testing.T) {
	runner := &fakeRunner{err: realExitError(t, 2)}
	c := &CustomCommand{Runner: runner, Shell: []string{"sh", "-c"}}

	err := c.Install(context.Background(), config.AppDescriptor{Name: "x", Command: "false"})

	var instErr *InstallError
	require.ErrorAs(t, err, &instErr)
	assert.Equal(t, BackendFailure, instErr.Kind)
	assert.Equal(t, 2, instErr.ExitCode)
}

func TestCustomCommandTimeout(t *testing.T) {
	runner := &fakeRunner{block: true}
	c := &CustomCommand{Runner: runner, Shell: []string{"sh", "-c"}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Install(ctx, config.AppDescriptor{Name: "x", Command: "sleep forever"})

	var instErr *InstallError
	require.ErrorAs(t, err, &instErr)
	assert.Equal(t, Timeout, instErr.Kind)
}

func TestDefaultShellIsPlatformSpecific(t *testing.T) {
	c := &CustomCommand{Runner: &fakeRunner{}}
	sh := c.shell()
	assert.NotEmpty(t, sh)
}
