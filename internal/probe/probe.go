package probe

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"provision-machine/internal/logger"
)

// Probe answers whether an executable is resolvable on this system. It is
// a read-only query: resolution failures of any kind mean "not available",
// never an error, since detection is best-effort.
//
// ExtraDirs lists well-known install locations searched in addition to
// PATH. Freshly installed package managers often land outside the PATH the
// process inherited; listing those directories here keeps the lookup
// explicit instead of mutating the process environment.
type Probe struct {
	ExtraDirs []string
}

// windowsExts are the executable suffixes tried when a bare name is probed
// in an extra directory on Windows.
var windowsExts = []string{".exe", ".cmd", ".bat", ".ps1"}

// IsAvailable reports whether name resolves to an executable, first via
// the standard PATH lookup, then under each extra directory.
func (p Probe) IsAvailable(name string) bool {
	if name == "" {
		return false
	}
	if path, err := exec.LookPath(name); err == nil {
		logger.Debugf("probe", "%s resolved on PATH at %s", name, path)
		return true
	}

	candidates := []string{name}
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		for _, ext := range windowsExts {
			candidates = append(candidates, name+ext)
		}
	}
	for _, dir := range p.ExtraDirs {
		for _, cand := range candidates {
			full := filepath.Join(dir, cand)
			info, err := os.Stat(full)
			if err != nil || info.IsDir() {
				continue
			}
			logger.Debugf("probe", "%s found at well-known location %s", name, full)
			return true
		}
	}
	return false
}
