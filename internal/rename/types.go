// pattern: Functional Core

package rename

import (
	"errors"
	"fmt"
	"strings"
)

// Intent is one rename reported by the host: absolute old and new paths.
type Intent struct {
	OldPath string `json:"oldPath"`
	NewPath string `json:"newPath"`
}

// Status is the terminal state of one intent.
type Status int

const (
	StatusSkipped Status = iota // no git operation was needed
	StatusRenamed               // relay completed
	StatusFailed                // unexpected failure, reported to the user
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusRenamed:
		return "renamed"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// SkipReason explains an expected no-op.
type SkipReason string

const (
	ReasonUnchanged     SkipReason = "paths are identical"
	ReasonNotCaseOnly   SkipReason = "changed file extension or parent folder"
	ReasonNotRepository SkipReason = "not a git repository"
	ReasonUntracked     SkipReason = "file is not tracked by git yet"
)

// Result records how an intent was handled.
type Result struct {
	Intent   Intent
	Status   Status
	Reason   SkipReason // set when Status is StatusSkipped
	GitRoot  string
	TempName string // relay path used, root-relative
	Err      error  // set when Status is StatusFailed
}

// Classify decides whether an intent is a case-only rename. It returns
// false with a reason for anything else.
func Classify(in Intent) (SkipReason, bool) {
	if in.OldPath == in.NewPath {
		return ReasonUnchanged, false
	}
	if strings.ToLower(in.OldPath) != strings.ToLower(in.NewPath) {
		return ReasonNotCaseOnly, false
	}
	return "", true
}

// Summary counts results by status.
type Summary struct {
	Renamed int
	Skipped int
	Failed  int
}

// Summarize counts results by status.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusRenamed:
			s.Renamed++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}

// ErrNoTempName is returned when no unused relay name could be found.
var ErrNoTempName = errors.New("no unused temporary file name available")

// RelayError reports a failed git mv during a relay. In phase 2 the file
// is left at Temp and must be moved to To by hand.
type RelayError struct {
	Phase int    // 1: From -> Temp, 2: Temp -> To
	Root  string // git working tree root
	From  string // root-relative
	Temp  string // root-relative
	To    string // root-relative
	Err   error
}

func (e *RelayError) Error() string {
	if e.Phase == 2 {
		return fmt.Sprintf("rename stopped halfway: file is at %q in %s, move it to %q with git mv: %v",
			e.Temp, e.Root, e.To, e.Err)
	}
	return fmt.Sprintf("moving %q to temporary name %q: %v", e.From, e.Temp, e.Err)
}

func (e *RelayError) Unwrap() error {
	return e.Err
}
