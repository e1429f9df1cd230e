package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/spf13/afero"

	"provision-machine/internal/config"
	"provision-machine/internal/logger"
)

// archiveSuffixes are the artifact types extracted into InstallDir rather
// than executed.
var archiveSuffixes = []string{".zip", ".7z", ".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".tar"}

// Download fetches an installer or archive from a URL into a private
// scratch directory, runs or extracts it, and removes the scratch
// artifact on every exit path. Each invocation uses a uniquely named
// scratch file, so sequential calls never collide.
type Download struct {
	// Fs receives the scratch artifact. Must be the OS filesystem when
	// the catalog contains archive URLs, since extraction reads real
	// paths; tests of the execute path may use a memory filesystem.
	Fs     afero.Fs
	Client *http.Client
	Runner Runner
	// ScratchDir holds in-flight downloads.
	ScratchDir string
	// InstallDir is the extraction target for archive artifacts.
	InstallDir string
}

// Install downloads the descriptor's URL and either executes the artifact
// with the descriptor's installer args or, for archives, extracts it into
// InstallDir.
func (d *Download) Install(ctx context.Context, app config.AppDescriptor) (err error) {
	artifact, err := d.fetch(ctx, app)
	if artifact != "" {
		// Cleanup is guaranteed regardless of what happened after the
		// file was created.
		defer func() {
			if rmErr := d.Fs.Remove(artifact); rmErr != nil {
				logger.Warnf("download", "failed to remove scratch artifact %s: %v", artifact, rmErr)
			} else {
				logger.Debugf("download", "removed scratch artifact %s", artifact)
			}
		}()
	}
	if err != nil {
		return err
	}

	if isArchive(artifact) {
		logger.Infof("download", "extracting %s into %s", app.Name, d.InstallDir)
		if _, err := ExtractArchive(artifact, d.InstallDir); err != nil {
			return &InstallError{Kind: BackendFailure, Err: fmt.Errorf("extract %s: %w", artifact, err)}
		}
		return nil
	}

	logger.Infof("download", "running installer for %s", app.Name)
	out, err := d.Runner.Run(ctx, artifact, app.InstallerArgs...)
	if err != nil {
		return classifyRunError(ctx, err, out)
	}
	return nil
}

// fetch downloads the artifact to a uniquely named scratch file and
// returns its path. The path is returned even on error so the caller can
// clean up a partial download.
func (d *Download) fetch(ctx context.Context, app config.AppDescriptor) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, app.DownloadURL, nil)
	if err != nil {
		return "", &InstallError{Kind: DownloadFailure, Err: err}
	}
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", &InstallError{Kind: DownloadFailure, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warnf("download", "failed to close response body: %v", cerr)
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &InstallError{Kind: DownloadFailure, Err: fmt.Errorf("GET %s: HTTP status %d", app.DownloadURL, resp.StatusCode)}
	}

	// Keep the remote filename's extension so the artifact type stays
	// recognizable after the unique rename.
	out, err := afero.TempFile(d.Fs, d.ScratchDir, "provision-*-"+remoteBase(app.DownloadURL))
	if err != nil {
		return "", &InstallError{Kind: DownloadFailure, Err: fmt.Errorf("create scratch file: %w", err)}
	}
	name := out.Name()

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		return name, &InstallError{Kind: DownloadFailure, Err: fmt.Errorf("write scratch file: %w", err)}
	}
	if err := out.Close(); err != nil {
		return name, &InstallError{Kind: DownloadFailure, Err: fmt.Errorf("close scratch file: %w", err)}
	}
	if err := d.Fs.Chmod(name, 0755); err != nil {
		logger.Debugf("download", "chmod %s: %v", name, err)
	}
	logger.Debugf("download", "downloaded %s to %s", app.DownloadURL, name)
	return name, nil
}

// remoteBase extracts a safe filename from the download URL.
func remoteBase(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "artifact"
	}
	base := path.Base(u.Path)
	if base == "" || base == "." || base == "/" {
		return "artifact"
	}
	return base
}

func isArchive(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
