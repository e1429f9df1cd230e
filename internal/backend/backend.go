package backend

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"provision-machine/internal/config"
)

// ErrorKind classifies an installation failure.
type ErrorKind int

const (
	// BackendFailure: the invoked tool ran and exited nonzero.
	BackendFailure ErrorKind = iota
	// DownloadFailure: the artifact could not be fetched.
	DownloadFailure
	// Timeout: the invocation outlived its deadline.
	Timeout
	// Unavailable: the backend tool itself is not present on the system.
	Unavailable
)

// InstallError is the typed failure returned by every adapter. It is
// always handled by the engine and converted to a failed outcome; it
// never aborts the batch.
type InstallError struct {
	Kind     ErrorKind
	ExitCode int // meaningful for BackendFailure only
	Err      error
	Output   string // trailing subprocess output, for the log line
}

func (e *InstallError) Error() string {
	switch e.Kind {
	case BackendFailure:
		if e.Err != nil && e.ExitCode == 0 {
			return fmt.Sprintf("backend failure: %v", e.Err)
		}
		return fmt.Sprintf("backend exited with code %d", e.ExitCode)
	case DownloadFailure:
		return fmt.Sprintf("download failed: %v", e.Err)
	case Timeout:
		return "timed out waiting for installer"
	case Unavailable:
		if e.Err != nil {
			return fmt.Sprintf("backend tool unavailable: %v", e.Err)
		}
		return "backend tool unavailable"
	}
	return "install error"
}

func (e *InstallError) Unwrap() error { return e.Err }

// Adapter performs one installation technique. Install blocks until the
// work finishes or ctx expires; all failure modes come back as an
// *InstallError.
type Adapter interface {
	Install(ctx context.Context, app config.AppDescriptor) error
}

// Runner executes an external command and returns its combined output.
// The single seam between adapters and the operating system; tests
// substitute a fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Prober answers whether an executable is resolvable, used by adapters to
// check their own tool before spawning anything.
type Prober interface {
	IsAvailable(name string) bool
}

// tail keeps the last part of subprocess output for error messages.
func tail(out []byte) string {
	const max = 400
	s := string(out)
	if len(s) > max {
		s = s[len(s)-max:]
	}
	return s
}

// classifyRunError converts a Runner error into an *InstallError:
// deadline expiry becomes Timeout, a nonzero exit becomes BackendFailure
// with the code, a missing executable becomes Unavailable, anything else
// a generic BackendFailure.
func classifyRunError(ctx context.Context, err error, out []byte) *InstallError {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &InstallError{Kind: Timeout, Err: err, Output: tail(out)}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &InstallError{Kind: BackendFailure, ExitCode: exitErr.ExitCode(), Err: err, Output: tail(out)}
	}
	if errors.Is(err, exec.ErrNotFound) {
		return &InstallError{Kind: Unavailable, Err: err}
	}
	return &InstallError{Kind: BackendFailure, Err: err, Output: tail(out)}
}
