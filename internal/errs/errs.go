package errs

import "errors"

// Stage identifies which pipeline stage an error came from.
type Stage string

const (
	StageLogin         Stage = "login"
	StageNavigate      Stage = "navigate"
	StageCreateProcess Stage = "create_process"
	StageRunInstance   Stage = "run_instance"
	StageVerify        Stage = "verify_completion"
)

// Labels are the fixed human-readable prefixes reported per stage.
// They are part of the output contract and must not drift.
var labels = map[Stage]string{
	StageLogin:         "Login failed",
	StageNavigate:      "Navigation to Web Modeler failed",
	StageCreateProcess: "Process creation failed",
	StageRunInstance:   "Running process instance failed",
	StageVerify:        "Verification of process completion failed",
}

// Error is a stage-tagged pipeline error. The stage travels structurally;
// the rendered message keeps the "<label>: <cause>" form.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	label := Label(e.Stage)
	if e.Err == nil {
		return label
	}
	return label + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Wrap tags cause with the given stage. A nil cause returns nil.
func Wrap(stage Stage, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{
		Stage: stage,
		Err:   cause,
	}
}

// StageOf returns the stage of a tagged error, or "" for untagged errors.
func StageOf(err error) Stage {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Stage
	}
	return ""
}

// Label returns the human-readable prefix for a stage.
func Label(stage Stage) string {
	if label, ok := labels[stage]; ok {
		return label
	}
	return string(stage)
}
