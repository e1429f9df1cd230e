package report

import (
	"fmt"
	"strings"
)

// Status is the terminal state of one processed descriptor.
type Status string

const (
	// StatusAlreadyPresent: detection found the app before any install.
	StatusAlreadyPresent Status = "already-present"
	// StatusVerified: the adapter succeeded and re-detection confirmed it.
	StatusVerified Status = "verified"
	// StatusVerifiedUnconfirmed: the adapter reported success but
	// re-detection could not find the app. Counted as a success; package
	// managers sometimes lag on post-install registration.
	StatusVerifiedUnconfirmed Status = "verified-unconfirmed"
	// StatusFailed: the install failed; ErrorDetail says why.
	StatusFailed Status = "failed"
)

// Outcome records the result of processing one descriptor. Created once
// per descriptor per run and owned by the Report.
type Outcome struct {
	Name            string
	Status          Status
	DetectionMethod string
	ErrorDetail     string
}

// Succeeded reports whether the outcome counts as a success.
func (o Outcome) Succeeded() bool { return o.Status != StatusFailed }

// Report aggregates the outcomes of one provisioning run, in processing
// order.
type Report struct {
	Outcomes []Outcome
}

// New returns an empty report for a starting run.
func New() *Report { return &Report{} }

// Add appends one outcome.
func (r *Report) Add(o Outcome) { r.Outcomes = append(r.Outcomes, o) }

// Total is the number of descriptors processed.
func (r *Report) Total() int { return len(r.Outcomes) }

// Successes counts outcomes that succeeded, including already-present
// and unconfirmed ones.
func (r *Report) Successes() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			n++
		}
	}
	return n
}

// Failures returns the failed outcomes in processing order.
func (r *Report) Failures() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Outcome returns the recorded outcome for a descriptor name.
func (r *Report) Outcome(name string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Name == name {
			return o, true
		}
	}
	return Outcome{}, false
}

// Render produces the operator-facing run summary: the success tally,
// one line per failure, and either follow-up guidance (clean run) or a
// warning banner pointing back at the per-item log lines.
func Render(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Provisioning finished: %d/%d succeeded\n", r.Successes(), r.Total())

	failures := r.Failures()
	if len(failures) > 0 {
		b.WriteString("\nFailed items:\n")
		for _, o := range failures {
			fmt.Fprintf(&b, "  - %s: %s\n", o.Name, o.ErrorDetail)
		}
		b.WriteString("\nWARNING: some items failed to install. Review the log lines above,\n")
		b.WriteString("fix the cause, and re-run; already installed items are skipped.\n")
		return b.String()
	}

	b.WriteString("\nNext steps:\n")
	b.WriteString("  - restart your terminal so new PATH entries take effect\n")
	b.WriteString("  - re-run at any time; the run is idempotent\n")
	return b.String()
}
