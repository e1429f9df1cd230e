package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"provision-machine/internal/backend"
	"provision-machine/internal/config"
	"provision-machine/internal/detect"
	"provision-machine/internal/engine"
	"provision-machine/internal/logger"
	"provision-machine/internal/probe"
	"provision-machine/internal/report"
	"provision-machine/internal/sshsetup"
)

// email, when set, triggers the post-run SSH key and symlink setup.
var email string

// provisionCmd runs the full detect/install/verify pass over the app
// catalog and prints the run report.
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Install and verify the configured applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			logger.Errorf("cli", "failed to load configuration: %v", err)
			return err
		}

		eng := buildEngine()
		rep := eng.Run(cmd.Context(), cfg.Apps)
		fmt.Print(report.Render(rep))

		// SSH keys and dotfile links only make sense once the version
		// control tool is in place.
		if email != "" {
			if out, ok := rep.Outcome(cfg.VersionControlApp); ok && out.Succeeded() {
				setup := sshsetup.Setup{Fs: afero.NewOsFs(), Runner: backend.ExecRunner{}}
				setup.Ensure(cmd.Context(), email, cfg.Links)
			} else {
				logger.Warnf("cli", "%s is not installed; skipping SSH/link setup", cfg.VersionControlApp)
			}
		}

		// Partial per-item failures are reported, not fatal.
		return nil
	},
}

// buildEngine wires the production detector, adapters, and probe. The
// extra probe directories cover the locations scoop and winget put
// executables in before a new PATH is picked up by the current session.
func buildEngine() *engine.Engine {
	home, err := homedir.Dir()
	if err != nil {
		logger.Debugf("cli", "cannot resolve home directory: %v", err)
	}

	pr := probeWithWellKnownDirs(home)
	runner := backend.ExecRunner{}
	fs := afero.NewOsFs()

	scoop := backend.NewScoop(runner, pr)
	winget := backend.NewWinget(runner, pr)
	download := &backend.Download{
		Fs:         fs,
		Client:     http.DefaultClient,
		Runner:     runner,
		ScratchDir: os.TempDir(),
		InstallDir: filepath.Join(home, "apps"),
	}
	custom := &backend.CustomCommand{Runner: runner}

	return &engine.Engine{
		Detector: detect.Detector{
			Fs:    fs,
			Probe: pr,
			Listers: map[config.InstallMethod]detect.Lister{
				config.MethodScoop:  scoop,
				config.MethodWinget: winget,
			},
		},
		Adapters: map[config.InstallMethod]backend.Adapter{
			config.MethodScoop:    scoop,
			config.MethodWinget:   winget,
			config.MethodDownload: download,
			config.MethodCustom:   custom,
		},
	}
}

// probeWithWellKnownDirs lists the install locations as explicit probe
// configuration rather than mutating the process PATH.
func probeWithWellKnownDirs(home string) probe.Probe {
	return probe.Probe{ExtraDirs: []string{
		filepath.Join(home, "scoop", "shims"),
		filepath.Join(home, "AppData", "Local", "Microsoft", "WindowsApps"),
	}}
}

func init() {
	provisionCmd.Flags().StringVar(&email, "email", "", "Email for the generated SSH key; enables SSH/link setup")
	rootCmd.AddCommand(provisionCmd)
}
