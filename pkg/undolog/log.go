package undolog

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/types"
)

// Separator splits the two paths of a record. Paths containing it cannot
// be logged.
const Separator = "-->"

// Log is the undo log of one profile
type Log struct {
	fs   types.FS
	path string
	mu   sync.Mutex
}

// New returns the log stored at path. Nothing is created until the first
// Append.
func New(fsys types.FS, path string) *Log {
	return &Log{fs: fsys, path: path}
}

// Path returns the log file location
func (l *Log) Path() string {
	return l.path
}

// Append writes rec and syncs it to disk before returning
func (l *Log) Append(rec types.RelocationRecord) error {
	if err := Validate(rec); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := l.fs.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrLogWrite, "cannot open undo log %s", l.path)
	}
	if _, err := f.Write([]byte(rec.String() + "\n")); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, errors.ErrLogWrite, "cannot write undo log %s", l.path)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, errors.ErrLogWrite, "cannot sync undo log %s", l.path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrLogWrite, "cannot close undo log %s", l.path)
	}
	return nil
}

// Records returns the logged records in insertion order. Blank lines and
// lines without a separator are ignored.
func (l *Log) Records() ([]types.RelocationRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrNothingToUndo, "no undo log at %s", l.path)
		}
		return nil, errors.Wrapf(err, errors.ErrLogRead, "cannot read undo log %s", l.path)
	}
	return Parse(data), nil
}

// Exists reports whether the log file is present
func (l *Log) Exists() bool {
	_, err := l.fs.Stat(l.path)
	return err == nil
}

// Remove deletes the log file. A missing file is not an error.
func (l *Log) Remove() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.fs.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrLogWrite, "cannot remove undo log %s", l.path)
	}
	return nil
}

// Replace rewrites the log to hold exactly records. The new content is
// written to a temporary file and renamed over the log.
func (l *Log) Replace(records []types.RelocationRecord) error {
	var buf bytes.Buffer
	for _, rec := range records {
		if err := Validate(rec); err != nil {
			return err
		}
		buf.WriteString(rec.String())
		buf.WriteByte('\n')
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tmp := filepath.Join(filepath.Dir(l.path), "."+filepath.Base(l.path)+".tmp")
	if err := l.fs.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrLogWrite, "cannot write %s", tmp)
	}
	if err := l.fs.Rename(tmp, l.path); err != nil {
		_ = l.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrLogWrite, "cannot replace undo log %s", l.path)
	}
	return nil
}

// Parse reads log content. It never fails; malformed lines are dropped.
func Parse(data []byte) []types.RelocationRecord {
	var records []types.RelocationRecord
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		orig, reloc, ok := strings.Cut(line, Separator)
		if !ok {
			continue
		}
		orig, reloc = strings.TrimSpace(orig), strings.TrimSpace(reloc)
		if orig == "" || reloc == "" {
			continue
		}
		records = append(records, types.RelocationRecord{OriginalPath: orig, RelocatedPath: reloc})
	}
	return records
}

// Validate reports whether rec can be written and read back unchanged.
func Validate(rec types.RelocationRecord) error {
	for _, p := range []string{rec.OriginalPath, rec.RelocatedPath} {
		if p == "" {
			return errors.New(errors.ErrInvalidInput, "undo log record has an empty path")
		}
		// Parse trims each side, so surrounding blanks would not survive a reload
		if strings.Contains(p, Separator) || strings.ContainsAny(p, "\r\n") || strings.TrimSpace(p) != p {
			return errors.New(errors.ErrInvalidInput,
				fmt.Sprintf("path %q cannot be recorded in the undo log", p)).WithDetail("path", p)
		}
	}
	return nil
}
