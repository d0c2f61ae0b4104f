package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		" error ": zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_FileAndConsole(t *testing.T) {
	fs := afero.NewMemMapFs()
	var console bytes.Buffer
	log, closer, err := New(Options{Level: "info", File: "/logs/vth.log", Console: &console, Fs: fs})
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Str("action", "buy").Msg("action done")
	log.Warn().Msg("trade not priced")
	require.NoError(t, closer.Close())

	data, err := afero.ReadFile(fs, "/logs/vth.log")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "buy", rec["action"])
	assert.Contains(t, rec, "time")

	assert.NotContains(t, console.String(), "action done")
	assert.Contains(t, console.String(), "trade not priced")
}

func TestNew_Rotates(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/logs/vth.log", bytes.Repeat([]byte("x"), 100), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/logs/vth.log.1", []byte("older"), 0o644))

	_, closer, err := New(Options{File: "/logs/vth.log", Fs: fs, MaxSize: 10, MaxBackups: 2})
	require.NoError(t, err)
	require.NoError(t, closer.Close())

	old, err := afero.ReadFile(fs, "/logs/vth.log.1")
	require.NoError(t, err)
	assert.Len(t, old, 100)
	older, err := afero.ReadFile(fs, "/logs/vth.log.2")
	require.NoError(t, err)
	assert.Equal(t, "older", string(older))
	fi, err := fs.Stat("/logs/vth.log")
	require.NoError(t, err)
	assert.Zero(t, fi.Size())
}

// readOnlyRename is a filesystem whose renames fail.
type readOnlyRename struct{ afero.Fs }

func (readOnlyRename) Rename(oldname, newname string) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: os.ErrPermission}
}

func TestNew_RotateFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/logs/vth.log", bytes.Repeat([]byte("x"), 100), 0o644))

	_, _, err := New(Options{File: "/logs/vth.log", Fs: readOnlyRename{fs}, MaxSize: 10, MaxBackups: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "cannot rotate log file")
}

func TestNew_Disabled(t *testing.T) {
	log, closer, err := New(Options{})
	require.NoError(t, err)
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
	assert.NoError(t, closer.Close())
}
