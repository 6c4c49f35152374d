// Package logging sets up the process logger and the adapters the
// simulation components log through.
package logging

import (
	"fmt"
	"path/filepath"
	"time"
)

// LogFilePath names the log file of one run: <dir>/<name>.<start>.log.
func LogFilePath(logsDir, name string, runStart time.Time) string {
	return filepath.Join(logsDir, fmt.Sprintf("%s.%s.log", name, runStart.UTC().Format("20060102_150405")))
}
