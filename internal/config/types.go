package config

import "time"

// InstallMethod selects which backend adapter installs a descriptor.
type InstallMethod string

const (
	// MethodScoop installs through the scoop package manager.
	MethodScoop InstallMethod = "scoop"
	// MethodWinget installs through the winget package manager.
	MethodWinget InstallMethod = "winget"
	// MethodDownload downloads an installer or archive from a URL and runs
	// or extracts it.
	MethodDownload InstallMethod = "download"
	// MethodCustom runs an arbitrary shell command. Escape hatch for
	// bootstrap steps that fit neither shape, e.g. installing the package
	// manager itself.
	MethodCustom InstallMethod = "custom"
)

// AppDescriptor is the declarative, immutable description of one
// installable application: how to detect it and how to install it.
// Descriptors are pure values; they own no resources and are never
// mutated after loading.
//   - Name: log/report identifier.
//   - InstallMethod: which adapter to dispatch to.
//   - PackageRef: backend package id (scoop/winget methods).
//   - DownloadURL/InstallerArgs: download method only.
//   - Command: custom method only.
//   - DetectionPaths: ordered glob-capable paths whose existence means
//     "already installed"; a leading ~ is expanded to the home directory.
//   - DetectionCommand: executable whose presence on PATH means installed.
//   - ListQuery: optional substring searched in the package manager's
//     installed listing as a last detection resort.
//   - Timeout: optional per-item override of the engine's install timeout,
//     as a duration string like "10m".
type AppDescriptor struct {
	Name             string        `yaml:"name"`
	InstallMethod    InstallMethod `yaml:"install_method"`
	PackageRef       string        `yaml:"package_ref"`
	DownloadURL      string        `yaml:"download_url"`
	InstallerArgs    []string      `yaml:"installer_args"`
	Command          string        `yaml:"command"`
	DetectionPaths   []string      `yaml:"detection_paths"`
	DetectionCommand string        `yaml:"detection_command"`
	ListQuery        string        `yaml:"list_query"`
	Timeout          string        `yaml:"timeout"`
}

// InstallTimeout returns the per-item timeout override, or zero when none
// is set. Parse errors are caught at load time by Validate, so they are
// ignored here.
func (d AppDescriptor) InstallTimeout() time.Duration {
	if d.Timeout == "" {
		return 0
	}
	t, err := time.ParseDuration(d.Timeout)
	if err != nil {
		return 0
	}
	return t
}

// CleanupRule describes one cache/temp location purged by the clean
// subcommand: entries under Path matching Pattern that are older than
// MaxAge are removed.
type CleanupRule struct {
	Path    string `yaml:"path"`
	Pattern string `yaml:"pattern"`
	MaxAge  string `yaml:"max_age"`
}

// Age returns the parsed MaxAge, defaulting to zero (everything matched
// is stale) when unset.
func (r CleanupRule) Age() time.Duration {
	if r.MaxAge == "" {
		return 0
	}
	t, err := time.ParseDuration(r.MaxAge)
	if err != nil {
		return 0
	}
	return t
}

// Link describes one symlink ensured after a successful provisioning run.
type Link struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// Config is the top-level structure returned after loading all YAML
// configuration files.
type Config struct {
	Apps []AppDescriptor
	// Cleanup rules for the clean subcommand.
	Cleanup []CleanupRule
	// Links created after a successful run.
	Links []Link
	// VersionControlApp names the descriptor whose success gates the
	// post-run SSH/symlink setup. Defaults to "Git".
	VersionControlApp string
}
