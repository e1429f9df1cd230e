package backend

import (
	"context"
	"os/exec"
	"strings"

	"provision-machine/internal/logger"
)

// ExecRunner runs commands through os/exec, honoring ctx cancellation and
// deadlines. Output is combined stdout+stderr, matching how package
// managers interleave progress and errors.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	logger.Debugf("exec", "running command: %s", strings.Join(cmd.Args, " "))
	out, err := cmd.CombinedOutput()
	if err != nil {
		logger.Debugf("exec", "%s failed: %v", name, err)
	}
	return out, err
}
