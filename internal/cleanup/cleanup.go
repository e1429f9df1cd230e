package cleanup

import (
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"provision-machine/internal/config"
	"provision-machine/internal/logger"
)

// Clean applies the configured cache/temp purge rules: for each rule,
// entries under its path matching its pattern whose modification time is
// older than its max age are removed, directories recursively. Per-entry
// failures are logged and skipped; a cleanup pass never fails wholesale.
// Returns the number of entries removed.
func Clean(fs afero.Fs, rules []config.CleanupRule, now time.Time) int {
	removed := 0
	for _, rule := range rules {
		base, err := homedir.Expand(rule.Path)
		if err != nil {
			base = rule.Path
		}
		pattern := rule.Pattern
		if pattern == "" {
			pattern = "*"
		}

		matches, err := afero.Glob(fs, filepath.Join(base, pattern))
		if err != nil {
			logger.Warnf("cleanup", "bad pattern %s under %s: %v", pattern, base, err)
			continue
		}
		logger.Debugf("cleanup", "%s: %d candidates", base, len(matches))

		maxAge := rule.Age()
		for _, match := range matches {
			info, err := fs.Stat(match)
			if err != nil {
				logger.Debugf("cleanup", "cannot stat %s: %v", match, err)
				continue
			}
			if now.Sub(info.ModTime()) < maxAge {
				continue
			}
			if err := fs.RemoveAll(match); err != nil {
				logger.Warnf("cleanup", "failed to remove %s: %v", match, err)
				continue
			}
			logger.Infof("cleanup", "removed %s", match)
			removed++
		}
	}
	return removed
}
