// Process-wide leveled logging.
//
// Only strings are put into the designated writers; there is no Panic() or
// Fatal() on purpose. Errors and warnings go to the error writer, everything
// else to the log writer. The level defaults to LevelWarning.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

func init() {
	Initialize(LevelWarning, nil, nil)
}

type LogLevel int

const (
	LevelNone LogLevel = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{
	LevelNone:    "none",
	LevelError:   "error",
	LevelWarning: "warning",
	LevelInfo:    "info",
	LevelDebug:   "debug",
}

func (l LogLevel) String() string {
	if l < LevelNone || l > LevelDebug {
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel is the inverse of [LogLevel.String], ignoring case.
func ParseLevel(s string) (LogLevel, error) {
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return LogLevel(l), nil
		}
	}
	return LevelNone, fmt.Errorf("logging: unknown level '%s'", s)
}

type discard struct{}

func (discard) Write(p []byte) (n int, err error) {
	return len(p), nil
}

var discardLogger = log.New(discard{}, "", 0)

// one logger per level; disabled levels point at discardLogger
var loggers [LevelDebug + 1]*log.Logger

var currentLevel LogLevel

// Initialize sets the level and the writers of the process-wide logger.
// It should ideally be called once at program start. errWriter receives
// ERROR and WARNING lines, logWriter the rest; nil means stderr and stdout.
func Initialize(l LogLevel, logWriter io.Writer, errWriter io.Writer) {
	if logWriter == nil {
		logWriter = os.Stdout
	}
	if errWriter == nil {
		errWriter = os.Stderr
	}

	writers := [LevelDebug + 1]io.Writer{
		LevelError:   errWriter,
		LevelWarning: errWriter,
		LevelInfo:    logWriter,
		LevelDebug:   logWriter,
	}

	for lvl := LevelError; lvl <= LevelDebug; lvl++ {
		loggers[lvl] = discardLogger
		if l >= lvl {
			prefix := strings.ToUpper(levelNames[lvl]) + ": "
			loggers[lvl] = log.New(writers[lvl], prefix, log.LstdFlags)
		}
	}
	currentLevel = l
}

// Level returns the level passed to the last [Initialize].
func Level() LogLevel {
	return currentLevel
}

func Error(s string) {
	loggers[LevelError].Print(s)
}

func Errorf(format string, v ...any) {
	loggers[LevelError].Printf(format, v...)
}

func Warning(s string) {
	loggers[LevelWarning].Print(s)
}

func Warningf(format string, v ...any) {
	loggers[LevelWarning].Printf(format, v...)
}

func Info(s string) {
	loggers[LevelInfo].Print(s)
}

func Infof(format string, v ...any) {
	loggers[LevelInfo].Printf(format, v...)
}

func Debug(s string) {
	loggers[LevelDebug].Print(s)
}

func Debugf(format string, v ...any) {
	loggers[LevelDebug].Printf(format, v...)
}
