package scenario

import "time"

type StepResult struct {
	Name     string
	Duration time.Duration
	Err      error
}

// Report is the outcome of one SignUpFlow run.
type Report struct {
	Email      string
	Steps      []StepResult
	ProfileIDs []string
	Err        error
}

func (r *Report) Failed() bool {
	return r.Err != nil
}

// FailedStep returns the name of the first failed step, or "" when every step passed.
func (r *Report) FailedStep() string {
	for _, s := range r.Steps {
		if s.Err != nil {
			return s.Name
		}
	}
	return ""
}

func (r *Report) Duration() time.Duration {
	var d time.Duration
	for _, s := range r.Steps {
		d += s.Duration
	}
	return d
}
