// Package profilelock keeps mutating operations on one profile from
// overlapping. Relocate, undo and flatten hold an exclusive lock; scans
// hold a shared one so they can run together but never alongside a move.
package profilelock

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/logging"
	"github.com/arthur-debert/slim/pkg/paths"
	"github.com/gofrs/flock"
)

// Mode selects shared or exclusive locking
type Mode int

const (
	Shared Mode = iota
	Exclusive
)

func (m Mode) String() string {
	if m == Exclusive {
		return "exclusive"
	}
	return "shared"
}

// Lock is a held profile lock
type Lock struct {
	flock   *flock.Flock
	profile string
	mode    Mode
}

// Acquire takes the lock for profileRoot without waiting. A lock held
// elsewhere yields PROFILE_BUSY.
func Acquire(profileRoot string, mode Mode) (*Lock, error) {
	logger := logging.GetLogger("profilelock")

	path := paths.LockFilePath(profileRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "cannot create lock directory %s", filepath.Dir(path))
	}

	fileLock := flock.New(path)
	var (
		locked bool
		err    error
	)
	if mode == Exclusive {
		locked, err = fileLock.TryLock()
	} else {
		locked, err = fileLock.TryRLock()
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to acquire %s lock", mode)
	}
	if !locked {
		return nil, errors.Newf(errors.ErrProfileBusy, "another slim operation is running on %s", profileRoot).
			WithDetail("profile", profileRoot).
			WithDetail("lock", path)
	}

	logger.Debug().Str("profile", profileRoot).Str("mode", mode.String()).Str("lock", path).Msg("Lock acquired")
	return &Lock{flock: fileLock, profile: profileRoot, mode: mode}, nil
}

// Release drops the lock. Calling it on a nil Lock is a no-op.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to release lock on %s", l.profile)
	}
	logger := logging.GetLogger("profilelock")
	logger.Debug().Str("profile", l.profile).Msg("Lock released")
	return nil
}

// Path returns the lock file location
func (l *Lock) Path() string {
	return l.flock.Path()
}
