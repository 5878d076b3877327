package logger

import (
	"fmt"
	"io"
	"os"
)

// DebugEnabled is flipped by the --debug flag
var DebugEnabled bool

var (
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

// Debugf prints messages only if DebugEnabled is true
func Debugf(format string, args ...interface{}) {
	if DebugEnabled {
		fmt.Fprintf(Err, "[DEBUG] "+format+"\n", args...)
	}
}

// Infof prints messages always (standard output)
func Infof(format string, args ...interface{}) {
	fmt.Fprintf(Out, format+"\n", args...)
}

// Warnf prints to standard error with a warning prefix
func Warnf(format string, args ...interface{}) {
	fmt.Fprintf(Err, "[WARN] "+format+"\n", args...)
}
