package cmd

import (
	"errors"
	"fmt"
)

// exitError is returned by commands to signal a specific exit code.
// grep convention: 0=found, 1=not found, 2=error.
type exitError struct{ code int }

func (e exitError) Error() string {
	switch e.code {
	case 0:
		return ""
	case 1:
		return "no match"
	default:
		return fmt.Sprintf("exit %d", e.code)
	}
}

// IsExitError reports whether err carries an exit code and has already been
// reported to the user.
func IsExitError(err error) bool {
	var ee exitError
	return errors.As(err, &ee)
}

// ExitCode maps a command error to a process exit code. nil is 0, an
// exitError carries its own code, anything else is 2.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 2
}
