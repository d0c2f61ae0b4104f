// Package logging builds the zerolog logger of the vth tool.
//
// Every record is written as a JSON line to the log file. Warnings and errors
// are also shown on the console in a human readable form.
package logging

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Rotation defaults.
const (
	DefaultMaxSize    = 10 << 20
	DefaultMaxBackups = 5
)

// Options configure New.
type Options struct {
	Level string
	// File is the JSON log file, empty disables it.
	File string
	// Console receives warnings and errors, nil disables it.
	Console io.Writer
	// Fs holds File, the OS filesystem if nil.
	Fs afero.Fs
	// A log file bigger than MaxSize is rotated when opened, keeping MaxBackups old files.
	MaxSize    int64
	MaxBackups int
}

// New returns the logger, and a closer for the log file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	lvl := ParseLevel(opts.Level)
	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		fs := opts.Fs
		if fs == nil {
			fs = afero.NewOsFs()
		}
		f, err := openFile(fs, opts)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		writers = append(writers, f)
		closer = f
	}
	if opts.Console != nil {
		writers = append(writers, minLevelWriter{
			Writer: zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: time.TimeOnly, NoColor: true},
			min:    zerolog.WarnLevel,
		})
	}
	if len(writers) == 0 {
		return zerolog.Nop(), closer, nil
	}
	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Logger()
	return log, closer, nil
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger { return zerolog.Nop() }

// ParseLevel reads debug, info, warn or error, case insensitive. Anything else is info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func openFile(fs afero.Fs, opts Options) (afero.File, error) {
	if err := fs.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if fi, err := fs.Stat(opts.File); err == nil && fi.Size() > maxSize {
		backups := opts.MaxBackups
		if backups <= 0 {
			backups = DefaultMaxBackups
		}
		if err := rotate(fs, opts.File, backups); err != nil {
			return nil, fmt.Errorf("cannot rotate log file: %w", err)
		}
	}
	f, err := fs.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return f, nil
}

// rotate shifts file.1 .. file.n-1 up by one and moves file to file.1.
// Missing backups are skipped; the first other error is returned.
func rotate(fs afero.Fs, file string, n int) error {
	var first error
	keep := func(err error) {
		if err != nil && !errors.Is(err, iofs.ErrNotExist) && first == nil {
			first = err
		}
	}
	keep(fs.Remove(fmt.Sprintf("%s.%d", file, n)))
	for i := n - 1; i >= 1; i-- {
		keep(fs.Rename(fmt.Sprintf("%s.%d", file, i), fmt.Sprintf("%s.%d", file, i+1)))
	}
	keep(fs.Rename(file, file+".1"))
	return first
}

// minLevelWriter drops records below min.
type minLevelWriter struct {
	io.Writer
	min zerolog.Level
}

func (w minLevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < w.min {
		return len(p), nil
	}
	return w.Write(p)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
