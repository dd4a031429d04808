package logging

import (
	"fmt"
	"os"
	"strings"
)

// DebugEnabled returns true if debug mode is enabled via TS_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("TS_DEBUG") != ""
}

// Debugf logs a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if !DebugEnabled() {
		return
	}
	logger := Get()
	logger.Debug().Msg(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}
