package backend

import (
	"context"
	"runtime"

	"provision-machine/internal/config"
	"provision-machine/internal/logger"
)

// CustomCommand runs an arbitrary shell command line from the descriptor.
// Escape hatch for one-off bootstrap steps that fit neither the package
// manager nor the download shape, e.g. installing the package manager
// itself.
type CustomCommand struct {
	Runner Runner
	// Shell overrides the platform default shell invocation; tests set
	// this. First element is the executable, the rest are its flags.
	Shell []string
}

func (c *CustomCommand) shell() []string {
	if len(c.Shell) > 0 {
		return c.Shell
	}
	if runtime.GOOS == "windows" {
		return []string{"powershell", "-NoProfile", "-Command"}
	}
	return []string{"sh", "-c"}
}

// Install runs the descriptor's command through the platform shell and
// maps its exit code like every other adapter.
func (c *CustomCommand) Install(ctx context.Context, app config.AppDescriptor) error {
	sh := c.shell()
	args := append(append([]string{}, sh[1:]...), app.Command)
	logger.Infof("custom", "running custom command for %s", app.Name)

	out, err := c.Runner.Run(ctx, sh[0], args...)
	if err != nil {
		return classifyRunError(ctx, err, out)
	}
	return nil
}
