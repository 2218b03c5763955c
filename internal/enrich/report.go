package enrich

import (
	"errors"
	"fmt"
	"strings"
)

// Stage names the step of an enrichment that failed.
type Stage string

const (
	StageProfile    Stage = "profile"
	StageProjects   Stage = "projects"
	StageLanguage   Stage = "language"
	StageCompletion Stage = "completion"
)

// Failure is one entity that could not be fully processed.
type Failure struct {
	Login string
	Stage Stage
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s (%s): %v", f.Login, f.Stage, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Report accumulates the failures of a run. The zero value is ready to use.
type Report struct {
	Failures []Failure
}

func (r *Report) Add(failures ...Failure) {
	r.Failures = append(r.Failures, failures...)
}

func (r *Report) Len() int {
	return len(r.Failures)
}

// Err joins every failure, or returns nil when there were none.
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Logins returns the distinct logins that failed, in order of first failure.
func (r *Report) Logins() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range r.Failures {
		if !seen[f.Login] {
			seen[f.Login] = true
			out = append(out, f.Login)
		}
	}
	return out
}

func (r *Report) String() string {
	if len(r.Failures) == 0 {
		return "no failures"
	}
	lines := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		lines[i] = f.Error()
	}
	return strings.Join(lines, "\n")
}
