package engine

import (
	"context"
	"fmt"
	"time"

	"provision-machine/internal/backend"
	"provision-machine/internal/config"
	"provision-machine/internal/detect"
	"provision-machine/internal/logger"
	"provision-machine/internal/report"
)

// DefaultTimeout bounds one adapter call. Interactive installer prompts
// otherwise hang the whole run.
const DefaultTimeout = 5 * time.Minute

// Detector is the detection seam the engine depends on. Satisfied by
// detect.Detector; tests substitute fakes.
type Detector interface {
	Detect(ctx context.Context, app config.AppDescriptor) detect.Result
}

// Engine processes a descriptor list sequentially, in caller order:
// detect, install through the method-matched adapter, re-detect to
// verify. Ordering is deliberate: a descriptor may be a prerequisite of a
// later one (the package manager bootstrap entry precedes entries that
// install through it), and that ordering is the caller's contract.
//
// The engine is fail-soft. No per-descriptor failure, including a panic,
// aborts the batch; each becomes a failed outcome and processing moves
// on.
type Engine struct {
	Detector Detector
	Adapters map[config.InstallMethod]backend.Adapter
	// Timeout bounds each adapter call; DefaultTimeout when zero. A
	// descriptor's own timeout field overrides it per item.
	Timeout time.Duration
}

// Run processes every descriptor and returns the aggregated report.
func (e *Engine) Run(ctx context.Context, apps []config.AppDescriptor) *report.Report {
	rep := report.New()
	logger.Infof("engine", "provisioning %d applications", len(apps))

	for _, app := range apps {
		rep.Add(e.process(ctx, app))
	}

	logger.Infof("engine", "run complete: %d/%d succeeded", rep.Successes(), rep.Total())
	return rep
}

// process takes one descriptor from pending to a terminal state.
func (e *Engine) process(ctx context.Context, app config.AppDescriptor) (out report.Outcome) {
	out = report.Outcome{Name: app.Name}

	// A panic anywhere in detection or installation becomes a failed
	// outcome for this item only.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("engine", "%s: unexpected panic: %v", app.Name, r)
			out.Status = report.StatusFailed
			out.ErrorDetail = fmt.Sprintf("unexpected panic: %v", r)
		}
	}()

	logger.Debugf("engine", "%s: detecting", app.Name)
	if res := e.Detector.Detect(ctx, app); res.Found {
		logger.Infof("engine", "%s already installed (%s: %s), skipping", app.Name, res.Method, res.Detail)
		out.Status = report.StatusAlreadyPresent
		out.DetectionMethod = res.Method
		return out
	}

	adapter, ok := e.Adapters[app.InstallMethod]
	if !ok {
		logger.Errorf("engine", "%s: no adapter for install method %q", app.Name, app.InstallMethod)
		out.Status = report.StatusFailed
		out.ErrorDetail = fmt.Sprintf("no adapter for install method %q", app.InstallMethod)
		return out
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if t := app.InstallTimeout(); t > 0 {
		timeout = t
	}
	installCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.Debugf("engine", "%s: installing via %s (timeout %s)", app.Name, app.InstallMethod, timeout)
	if err := adapter.Install(installCtx, app); err != nil {
		logger.Errorf("engine", "%s: install failed: %v", app.Name, err)
		out.Status = report.StatusFailed
		out.ErrorDetail = err.Error()
		return out
	}

	// The adapter claimed success; confirm with a second detection pass.
	// A miss here is only a warning: post-install registration can lag
	// behind the installer's exit, so the item still counts as installed.
	if res := e.Detector.Detect(ctx, app); res.Found {
		logger.Infof("engine", "%s installed and verified (%s)", app.Name, res.Method)
		out.Status = report.StatusVerified
		out.DetectionMethod = res.Method
	} else {
		logger.Warnf("engine", "%s: installer reported success but re-detection found nothing", app.Name)
		out.Status = report.StatusVerifiedUnconfirmed
	}
	return out
}
