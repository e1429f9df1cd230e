package detect

import (
	"context"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"provision-machine/internal/config"
	"provision-machine/internal/logger"
)

// Detection method names recorded in results and reports.
const (
	MethodFilesystemPath = "filesystem path"
	MethodCommandProbe   = "command probe"
	MethodPackageListing = "package listing"
)

// CommandProber answers whether an executable is resolvable on the system.
type CommandProber interface {
	IsAvailable(name string) bool
}

// Lister exposes a package manager's installed-package listing as plain
// text. Package manager adapters implement this alongside installation.
type Lister interface {
	InstalledList(ctx context.Context) (string, error)
}

// Result is the outcome of one detection pass.
type Result struct {
	Found bool
	// Method names the strategy that matched, one of the Method*
	// constants. Empty when not found.
	Method string
	// Detail carries the matched path or query for log readability.
	Detail string
}

// Detector determines whether a described application is already present.
// Strategies run in a fixed order and the first match wins: filesystem
// paths, then command resolution, then the package manager's installed
// listing. Every strategy is best-effort; an error in one just moves on
// to the next, so Detect can never fail, only report "not found".
type Detector struct {
	// Fs is the filesystem consulted for detection paths. Production code
	// passes afero.NewOsFs(); tests pass a memory filesystem.
	Fs afero.Fs
	// Probe resolves detection commands.
	Probe CommandProber
	// Listers maps a package-manager install method to its listing
	// source. Optional; when absent the listing strategy is skipped.
	Listers map[config.InstallMethod]Lister
}

// Detect runs the ordered detection strategies for one descriptor.
func (d Detector) Detect(ctx context.Context, app config.AppDescriptor) Result {
	// 1. Filesystem paths, in descriptor order. Wildcards are expanded;
	// any match at all counts, multiplicity is not an error.
	for _, raw := range app.DetectionPaths {
		pattern, err := homedir.Expand(raw)
		if err != nil {
			logger.Debugf("detect", "%s: cannot expand %s: %v", app.Name, raw, err)
			pattern = raw
		}
		matches, err := afero.Glob(d.Fs, pattern)
		if err != nil {
			logger.Debugf("detect", "%s: bad detection pattern %s: %v", app.Name, pattern, err)
			continue
		}
		if len(matches) > 0 {
			logger.Debugf("detect", "%s: found via path %s", app.Name, matches[0])
			return Result{Found: true, Method: MethodFilesystemPath, Detail: matches[0]}
		}
	}

	// 2. Command resolution.
	if app.DetectionCommand != "" && d.Probe != nil && d.Probe.IsAvailable(app.DetectionCommand) {
		logger.Debugf("detect", "%s: found via command %s", app.Name, app.DetectionCommand)
		return Result{Found: true, Method: MethodCommandProbe, Detail: app.DetectionCommand}
	}

	// 3. Package-manager listing, substring match, case-insensitive.
	if app.ListQuery != "" {
		if lister, ok := d.Listers[app.InstallMethod]; ok && lister != nil {
			listing, err := lister.InstalledList(ctx)
			if err != nil {
				logger.Debugf("detect", "%s: listing unavailable: %v", app.Name, err)
			} else if strings.Contains(strings.ToLower(listing), strings.ToLower(app.ListQuery)) {
				logger.Debugf("detect", "%s: found via listing query %q", app.Name, app.ListQuery)
				return Result{Found: true, Method: MethodPackageListing, Detail: app.ListQuery}
			}
		}
	}

	return Result{}
}
