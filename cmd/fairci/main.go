package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Run completed, no metric check failed
	ExitMetricCheck = 1 // A requested metric check failed
	ExitError       = 2 // Configuration or runtime error
)

// MetricCheckError indicates that the run completed, but a metric check
// requested on the command line (e.g. --fail-on-significant) failed.
type MetricCheckError struct {
	Message string
}

func (e *MetricCheckError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var checkErr *MetricCheckError
		if errors.As(err, &checkErr) {
			os.Exit(ExitMetricCheck)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
