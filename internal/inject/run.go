package inject

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Report collects the outcomes of a run in target order.
type Report struct {
	Outcomes []Outcome
	Warnings []string
}

// Count returns how many outcomes have the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Runner applies a rule to a list of files, one at a time, printing a status
// line per file to Out.
type Runner struct {
	Fs   afero.Fs
	Rule Rule
	Out  io.Writer
	Log  *zap.Logger
}

// NewRunner returns a Runner. A nil logger is replaced with a no-op one.
func NewRunner(fsys afero.Fs, rule Rule, out io.Writer, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Runner{Fs: fsys, Rule: rule, Out: out, Log: log}
}

// Inject runs Apply over targets. It stops at the first error and returns the
// partial report alongside it; files processed before the failure keep their
// changes. Targets that do not exist are reported and skipped.
func (r *Runner) Inject(targets []string) (*Report, error) {
	if err := r.Rule.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule: %w", err)
	}

	report := &Report{}
	for _, path := range targets {
		if ok, err := afero.Exists(r.Fs, path); err != nil {
			return report, fmt.Errorf("checking %s: %w", path, err)
		} else if !ok {
			fmt.Fprintf(r.Out, "  [MISS] %s not found, skipping\n", path)
			report.Outcomes = append(report.Outcomes, Outcome{Path: path, Status: StatusNotFound})
			continue
		}

		out, err := Apply(r.Fs, path, r.Rule)
		if err != nil {
			fmt.Fprintf(r.Out, "  [FAIL] %s: %v\n", path, err)
			return report, err
		}
		report.Outcomes = append(report.Outcomes, out)
		r.Log.Debug("applied rule", zap.String("path", path), zap.String("status", string(out.Status)), zap.Bool("anchor", out.AnchorFound))

		switch {
		case out.Status == StatusAlreadyPresent:
			fmt.Fprintf(r.Out, "  [SKIP] %s already has the snippet\n", path)
		case !out.AnchorFound:
			msg := fmt.Sprintf("anchor %q not found in %s; file left unchanged", r.Rule.Anchor, path)
			report.Warnings = append(report.Warnings, msg)
			r.Log.Warn("anchor missing", zap.String("path", path), zap.String("anchor", r.Rule.Anchor))
			fmt.Fprintf(r.Out, "  [WARN] %s\n", msg)
		default:
			fmt.Fprintf(r.Out, "  [ OK ] Added snippet to %s\n", path)
		}
	}

	return report, nil
}

// Remove runs Remove over targets with the same stop-on-error behaviour as
// Inject.
func (r *Runner) Remove(targets []string) (*Report, error) {
	if err := r.Rule.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule: %w", err)
	}

	report := &Report{}
	for _, path := range targets {
		if ok, err := afero.Exists(r.Fs, path); err != nil {
			return report, fmt.Errorf("checking %s: %w", path, err)
		} else if !ok {
			fmt.Fprintf(r.Out, "  [MISS] %s not found, skipping\n", path)
			report.Outcomes = append(report.Outcomes, Outcome{Path: path, Status: StatusNotFound})
			continue
		}

		out, err := Remove(r.Fs, path, r.Rule)
		if err != nil {
			fmt.Fprintf(r.Out, "  [FAIL] %s: %v\n", path, err)
			return report, err
		}
		report.Outcomes = append(report.Outcomes, out)
		r.Log.Debug("removed snippet", zap.String("path", path), zap.String("status", string(out.Status)))

		if out.Status == StatusRemoved {
			fmt.Fprintf(r.Out, "  [ OK ] Removed snippet from %s\n", path)
		} else {
			fmt.Fprintf(r.Out, "  [SKIP] %s has no snippet\n", path)
		}
	}

	return report, nil
}
