package backend

import (
	"context"
	"fmt"

	"provision-machine/internal/config"
	"provision-machine/internal/logger"
)

// PackageManager installs packages through an external package manager
// executable (scoop, winget). It treats the tool as an opaque subprocess:
// exit code zero means the install was accepted, anything else is a
// BackendFailure. Whether the package is actually present afterwards is
// the detector's business, not this adapter's.
//
// It also exposes the manager's installed-package listing for the
// detector's substring-match strategy.
type PackageManager struct {
	// Tool is the manager executable name.
	Tool string
	// InstallArgs precede the package ref on the install invocation.
	InstallArgs []string
	// InstallFlags follow the package ref, e.g. non-interactive
	// license/source acceptance flags.
	InstallFlags []string
	// ListArgs produce the installed-package listing.
	ListArgs []string

	Runner Runner
	Probe  Prober
}

// NewScoop returns the adapter for the scoop package manager.
func NewScoop(r Runner, p Prober) *PackageManager {
	return &PackageManager{
		Tool:        "scoop",
		InstallArgs: []string{"install"},
		ListArgs:    []string{"list"},
		Runner:      r,
		Probe:       p,
	}
}

// NewWinget returns the adapter for winget, with the flags that suppress
// its interactive license and source prompts.
func NewWinget(r Runner, p Prober) *PackageManager {
	return &PackageManager{
		Tool:        "winget",
		InstallArgs: []string{"install", "--id"},
		InstallFlags: []string{
			"--silent",
			"--accept-package-agreements",
			"--accept-source-agreements",
		},
		ListArgs: []string{"list"},
		Runner:   r,
		Probe:    p,
	}
}

// Install runs the manager's install command for the descriptor's package
// ref. Requesting an install while the manager itself is absent (never
// bootstrapped) is reported as Unavailable without spawning anything.
func (m *PackageManager) Install(ctx context.Context, app config.AppDescriptor) error {
	if m.Probe != nil && !m.Probe.IsAvailable(m.Tool) {
		return &InstallError{Kind: Unavailable, Err: fmt.Errorf("%s is not installed", m.Tool)}
	}

	args := append(append([]string{}, m.InstallArgs...), app.PackageRef)
	args = append(args, m.InstallFlags...)
	logger.Infof(m.Tool, "installing %s (%s)", app.Name, app.PackageRef)

	out, err := m.Runner.Run(ctx, m.Tool, args...)
	if err != nil {
		return classifyRunError(ctx, err, out)
	}
	return nil
}

// InstalledList returns the manager's installed-package listing as plain
// text. Implements detect.Lister.
func (m *PackageManager) InstalledList(ctx context.Context) (string, error) {
	if m.Probe != nil && !m.Probe.IsAvailable(m.Tool) {
		return "", fmt.Errorf("%s is not installed", m.Tool)
	}
	out, err := m.Runner.Run(ctx, m.Tool, m.ListArgs...)
	if err != nil {
		return "", fmt.Errorf("%s list failed: %w", m.Tool, err)
	}
	return string(out), nil
}
