// Package log is the logging front end used across frameart. It writes through the
// standard library logger so every message keeps the same prefix and flags.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	debugEnabled atomic.Bool

	outputsMu sync.Mutex
	outputs   = []io.Writer{os.Stderr}
)

// SetDebug turns Debug and Debugf output on or off.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

// DebugEnabled reports whether Debug output is currently emitted.
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// AddFile tees all log output into a size rotated file at path.
// The returned closer releases the file handle.
func AddFile(path string) io.Closer {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 2,
		MaxAge:     28, // days
		Compress:   true,
	}

	outputsMu.Lock()
	defer outputsMu.Unlock()
	outputs = append(outputs, lj)
	log.SetOutput(io.MultiWriter(outputs...))
	return lj
}

// Print calls the standard log.Print()
func Print(v ...interface{}) {
	log.Output(2, fmt.Sprint(v...))
}

// Printf calls the standard log.Printf()
func Printf(format string, v ...interface{}) {
	log.Output(2, fmt.Sprintf(format, v...))
}

// Println calls the standard log.Println()
func Println(v ...interface{}) {
	log.Output(2, fmt.Sprintln(v...))
}

// Fatal calls the standard log.Fatal()
func Fatal(v ...interface{}) {
	log.Output(2, fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf calls the standard log.Fatalf()
func Fatalf(format string, v ...interface{}) {
	log.Output(2, fmt.Sprintf(format, v...))
	os.Exit(1)
}

// Debug calls the standard log.Print() with a [DEBUG] prefix when debug output is on.
func Debug(v ...interface{}) {
	if !debugEnabled.Load() {
		return
	}
	log.Output(2, "[DEBUG] "+fmt.Sprint(v...))
}

// Debugf calls the standard log.Printf() with a [DEBUG] prefix when debug output is on.
func Debugf(format string, v ...interface{}) {
	if !debugEnabled.Load() {
		return
	}
	log.Output(2, "[DEBUG] "+fmt.Sprintf(format, v...))
}
