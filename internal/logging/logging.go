// ABOUTME: Logger setup for the fit CLI.
// ABOUTME: Writes logrus output to stderr, a rotating log file, or both.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Params configures Setup.
type Params struct {
	Level string
	// File is the log file path. Empty means stderr only.
	File string
	// AlsoStderr copies file output to stderr.
	AlsoStderr bool
	JSON       bool
}

// Setup applies params to logger and returns a closer for the log file.
func Setup(logger *logrus.Logger, params Params) (io.Closer, error) {
	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(params.Level)))
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	if params.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: params.File == ""})
	}

	if params.File == "" {
		logger.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	if !strings.HasSuffix(params.File, ".log") {
		params.File += ".log"
	}
	if err := os.MkdirAll(filepath.Dir(params.File), 0750); err != nil {
		return nil, err
	}

	file := &lumberjack.Logger{
		Filename:   params.File,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		Compress:   true,
	}

	if params.AlsoStderr {
		logger.SetOutput(NewCombinedWriter(os.Stderr, file))
	} else {
		logger.SetOutput(file)
	}
	return file, nil
}

// CombinedWriter writes to every writer, collecting their errors.
type CombinedWriter struct {
	Writers []io.Writer
}

// NewCombinedWriter returns a writer that fans out to writers.
func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{Writers: writers}
}

func (cw *CombinedWriter) Write(p []byte) (n int, err error) {
	for _, w := range cw.Writers {
		if _, werr := w.Write(p); werr != nil {
			err = multierr.Append(err, werr)
		}
	}
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
