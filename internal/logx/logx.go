// Package logx is the leveled console logger shared by the CLI and the dashboard server.
package logx

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/pterm/pterm"
)

// Level represents severity.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var currentLevel int32 = int32(LevelInfo)

// SetLevel parses and sets the global log level. Unknown names are ignored.
func SetLevel(s string) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return
	}
	atomic.StoreInt32(&currentLevel, int32(l))
	if l == LevelDebug {
		pterm.EnableDebugMessages()
	} else {
		pterm.DisableDebugMessages()
	}
}

// GetLevel returns the current global log level.
func GetLevel() Level { return Level(atomic.LoadInt32(&currentLevel)) }

func enabled(l Level) bool { return GetLevel() <= l }

func render(format string, args []any) string {
	// Only format when there are args so literal % in preformatted messages survives.
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func Debugf(format string, a ...any) {
	if enabled(LevelDebug) {
		pterm.Debug.Println(render(format, a))
	}
}

func Infof(format string, a ...any) {
	if enabled(LevelInfo) {
		pterm.Info.Println(render(format, a))
	}
}

// Successf reports a completed step; it shares the info level.
func Successf(format string, a ...any) {
	if enabled(LevelInfo) {
		pterm.Success.Println(render(format, a))
	}
}

func Warnf(format string, a ...any) {
	if enabled(LevelWarn) {
		pterm.Warning.Println(render(format, a))
	}
}

func Errorf(format string, a ...any) {
	if enabled(LevelError) {
		pterm.Error.Println(render(format, a))
	}
}
