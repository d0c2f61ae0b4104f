// Package store persists valutatrade documents as JSON files in a data directory.
//
// Every document is written whole: the new content goes to a temporary file in
// the same directory, which is then renamed over the target. A reader never
// observes a half written document, even if the process dies in between.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/etnz/valutatrade"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Document names in the data directory.
const (
	UsersFile      = "users.json"
	PortfoliosFile = "portfolios.json"
	RatesFile      = "rates.json"
	SessionFile    = ".session.json"
)

// DefaultBackupKeep is how many backups are kept per document.
const DefaultBackupKeep = 10

// DB is a folder of JSON documents.
type DB struct {
	fs         afero.Fs
	dir        string
	backupDir  string
	BackupKeep int
	log        zerolog.Logger
	now        func() time.Time
}

// Open prepares the data directory, and the backup directory if not empty.
func Open(fsys afero.Fs, dir, backupDir string, log zerolog.Logger) (*DB, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, &valutatrade.StorageError{Path: dir, Err: err}
	}
	if backupDir != "" {
		if err := fsys.MkdirAll(backupDir, 0o755); err != nil {
			return nil, &valutatrade.StorageError{Path: backupDir, Err: err}
		}
	}
	return &DB{fs: fsys, dir: dir, backupDir: backupDir, BackupKeep: DefaultBackupKeep, log: log, now: time.Now}, nil
}

// Dir returns the data directory.
func (db *DB) Dir() string { return db.dir }

// Path returns the path of a document.
func (db *DB) Path(name string) string { return filepath.Join(db.dir, name) }

// read decodes the document name into v. It returns found=false if the document
// does not exist or is empty.
func (db *DB) read(name string, v any) (found bool, err error) {
	path := db.Path(name)
	data, err := afero.ReadFile(db.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &valutatrade.StorageError{Path: path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, &valutatrade.StorageError{Path: path, Corrupt: true, Err: err}
	}
	return true, nil
}

// write atomically replaces the document name with v.
func (db *DB) write(name string, v any) error {
	path := db.Path(name)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &valutatrade.StorageError{Path: path, Err: err}
	}
	data = append(data, '\n')

	db.backup(name)

	tmp, err := afero.TempFile(db.fs, db.dir, name+".*.tmp")
	if err != nil {
		return &valutatrade.StorageError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = db.fs.Rename(tmpName, path)
	}
	if err != nil {
		if rerr := db.fs.Remove(tmpName); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			db.log.Warn().Err(rerr).Str("file", tmpName).Msg("cannot remove temporary file")
		}
		return &valutatrade.StorageError{Path: path, Err: err}
	}
	db.log.Debug().Str("file", path).Int("bytes", len(data)).Msg("document written")
	return nil
}

// remove deletes the document name, if it exists.
func (db *DB) remove(name string) error {
	path := db.Path(name)
	if err := db.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &valutatrade.StorageError{Path: path, Err: err}
	}
	return nil
}

// backup copies the current document into the backup directory.
// Failures are logged and never stop the write.
func (db *DB) backup(name string) {
	if db.backupDir == "" || strings.HasPrefix(name, ".") {
		return
	}
	src := db.Path(name)
	data, err := afero.ReadFile(db.fs, src)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		db.log.Warn().Err(err).Str("file", src).Msg("backup failed")
		return
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	dst := db.backupPath(stem)
	if err := afero.WriteFile(db.fs, dst, data, 0o644); err != nil {
		db.log.Warn().Err(err).Str("file", dst).Msg("backup failed")
		return
	}
	db.prune(stem)
}

// backupPath names a new backup of stem. Names sort by time; a sequence
// number separates backups taken at the same instant.
func (db *DB) backupPath(stem string) string {
	now := db.now()
	ts := fmt.Sprintf("%s_%09d", now.Format("20060102_150405"), now.Nanosecond())
	dst := filepath.Join(db.backupDir, fmt.Sprintf("%s_%s.json", stem, ts))
	for seq := 1; ; seq++ {
		if ok, err := afero.Exists(db.fs, dst); err != nil || !ok {
			return dst
		}
		dst = filepath.Join(db.backupDir, fmt.Sprintf("%s_%s_%d.json", stem, ts, seq))
	}
}

// prune removes the oldest backups of stem beyond BackupKeep.
func (db *DB) prune(stem string) {
	if db.BackupKeep <= 0 {
		return
	}
	matches, err := afero.Glob(db.fs, filepath.Join(db.backupDir, stem+"_*.json"))
	if err != nil || len(matches) <= db.BackupKeep {
		return
	}
	// names embed a sortable timestamp
	slices.Sort(matches)
	for _, old := range matches[:len(matches)-db.BackupKeep] {
		if err := db.fs.Remove(old); err != nil {
			db.log.Warn().Err(err).Str("file", old).Msg("cannot prune backup")
		}
	}
}

// Backups returns the backup files of a document, oldest first.
func (db *DB) Backups(name string) ([]string, error) {
	if db.backupDir == "" {
		return nil, nil
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	matches, err := afero.Glob(db.fs, filepath.Join(db.backupDir, stem+"_*.json"))
	if err != nil {
		return nil, err
	}
	slices.Sort(matches)
	return matches, nil
}
