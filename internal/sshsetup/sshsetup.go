package sshsetup

import (
	"context"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"provision-machine/internal/backend"
	"provision-machine/internal/config"
	"provision-machine/internal/logger"
)

// Setup performs the post-provisioning developer conveniences: an SSH
// key for the freshly installed version control tool and a handful of
// dotfile symlinks. It runs only after the version-control descriptor
// succeeded, and every step is best-effort: failures are logged, never
// propagated, since the provisioning run itself already completed.
type Setup struct {
	Fs     afero.Fs
	Runner backend.Runner
	// KeyPath is the private key location; defaults to ~/.ssh/id_ed25519.
	KeyPath string
}

func (s Setup) keyPath() string {
	if s.KeyPath != "" {
		return s.KeyPath
	}
	path, err := homedir.Expand("~/.ssh/id_ed25519")
	if err != nil {
		return ""
	}
	return path
}

// Ensure generates the SSH key when absent and creates the configured
// symlinks.
func (s Setup) Ensure(ctx context.Context, email string, links []config.Link) {
	s.ensureKey(ctx, email)
	s.ensureLinks(links)
}

func (s Setup) ensureKey(ctx context.Context, email string) {
	path := s.keyPath()
	if path == "" {
		logger.Warnf("ssh", "cannot resolve key path, skipping key generation")
		return
	}
	if ok, _ := afero.Exists(s.Fs, path); ok {
		logger.Debugf("ssh", "key %s already exists, skipping", path)
		return
	}
	if err := s.Fs.MkdirAll(filepath.Dir(path), 0700); err != nil {
		logger.Errorf("ssh", "failed to create %s: %v", filepath.Dir(path), err)
		return
	}

	logger.Infof("ssh", "generating ed25519 key for %s", email)
	out, err := s.Runner.Run(ctx, "ssh-keygen", "-t", "ed25519", "-C", email, "-f", path, "-N", "")
	if err != nil {
		logger.Errorf("ssh", "ssh-keygen failed: %v\n%s", err, out)
		return
	}
	logger.Infof("ssh", "key written to %s", path)
}

func (s Setup) ensureLinks(links []config.Link) {
	linker, canLink := s.Fs.(afero.Linker)
	if !canLink && len(links) > 0 {
		logger.Warnf("ssh", "filesystem does not support symlinks, skipping %d links", len(links))
		return
	}

	for _, l := range links {
		source, err := homedir.Expand(l.Source)
		if err != nil {
			source = l.Source
		}
		target, err := homedir.Expand(l.Target)
		if err != nil {
			target = l.Target
		}

		if exists, _ := afero.Exists(s.Fs, target); exists {
			logger.Debugf("ssh", "link target %s already exists, leaving it alone", target)
			continue
		}
		if err := s.Fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			logger.Warnf("ssh", "failed to create %s: %v", filepath.Dir(target), err)
			continue
		}
		if err := linker.SymlinkIfPossible(source, target); err != nil {
			logger.Warnf("ssh", "failed to link %s -> %s: %v", target, source, err)
			continue
		}
		logger.Infof("ssh", "linked %s -> %s", target, source)
	}
}
