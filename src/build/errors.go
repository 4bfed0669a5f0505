package build

import (
	"fmt"
	"strings"

	"github.com/sofmeright/playerforge/src/profile"
	"github.com/sofmeright/playerforge/src/unity"
)

// FailedError reports a player build the pipeline ran but did not complete.
type FailedError struct {
	Target profile.Target
	Result unity.ResultCode
	Errors int    // error count from the build report, 0 when unknown
	Detail string // process failure when the editor wrote no report
}

func (e *FailedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "build %s failed: result %s", e.Target, e.Result)
	if e.Errors > 0 {
		fmt.Fprintf(&b, ", %d error(s)", e.Errors)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	return b.String()
}

// PanicError is a panic recovered at the orchestrator boundary.
type PanicError struct {
	Stage Stage
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic during %s: %v", e.Stage, e.Value)
}

// StageError attributes an error to the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
