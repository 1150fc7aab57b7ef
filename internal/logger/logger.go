// Package logger builds the zerolog logger shared by all components.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const permission = 0o664

type LogBuild struct {
	writer  io.Writer
	path    string
	level   zerolog.Level
	console bool
}

// LogData is a built logger and the file it writes to, if any.
type LogData struct {
	LogFile *os.File
	Logger  zerolog.Logger
}

func New() *LogBuild {
	return &LogBuild{level: zerolog.InfoLevel}
}

// FromPath appends the log to a file. It takes precedence over the writer.
func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

func (build *LogBuild) FromWriter(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

func (build *LogBuild) WithLevel(l zerolog.Level) *LogBuild {
	build.level = l
	return build
}

// Console formats entries for humans instead of as JSON lines. It does not
// apply to file output.
func (build *LogBuild) Console(on bool) *LogBuild {
	build.console = on
	return build
}

func (build *LogBuild) Make() (*LogData, error) {
	logData := new(LogData)
	w := build.writer
	if w == nil {
		w = os.Stderr
	}
	if build.path != "" {
		f, err := os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		logData.LogFile = f
		w = zerolog.SyncWriter(f)
	} else if build.console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	logData.Logger = zerolog.New(w).Level(build.level).With().Timestamp().Logger()
	return logData, nil
}

// Close closes the log file, if any.
func (d *LogData) Close() error {
	if d.LogFile == nil {
		return nil
	}
	return d.LogFile.Close()
}
