package slim

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/slim/pkg/config"
	"github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/filesystem"
	"github.com/arthur-debert/slim/pkg/paths"
	"github.com/arthur-debert/slim/pkg/profilelock"
	"github.com/arthur-debert/slim/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// session bundles what every profile command needs
type session struct {
	fs          types.FS
	profileRoot string
	relocRoot   string
	cfg         *config.Config
}

func openSession(opts *rootOptions, args []string, overrides map[string]interface{}) (*session, error) {
	profile, err := resolveProfile(args)
	if err != nil {
		return nil, fmt.Errorf(MsgErrResolveProfile, err)
	}

	cfg, err := config.Load(config.LoadOptions{
		UserConfigPath: opts.configPath,
		ProfileRoot:    profile,
		Overrides:      overrides,
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	s := &session{
		fs:          filesystem.NewOS(),
		profileRoot: profile,
		relocRoot:   cfg.RelocationRoot(profile),
		cfg:         cfg,
	}
	log.Debug().
		Str("profile", s.profileRoot).
		Str("relocationRoot", s.relocRoot).
		Msg("Session opened")
	return s, nil
}

func (s *session) logPath() string {
	return paths.UndoLogPath(s.profileRoot, s.cfg.Relocation.LogFile)
}

// resolveProfile returns the profile named on the command line, or the
// current user's home directory
func resolveProfile(args []string) (string, error) {
	if len(args) > 0 {
		return paths.NormalizePath(args[0])
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrNotFound, "cannot determine home directory")
	}
	return paths.NormalizePath(home)
}

// withLock runs fn while holding the profile lock in the given mode
func withLock(profileRoot string, mode profilelock.Mode, fn func() error) error {
	lock, err := profilelock.Acquire(profileRoot, mode)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			log.Warn().Err(err).Str("lock", lock.Path()).Msg("Failed to release profile lock")
		}
	}()
	return fn()
}

// thresholdOverride turns --threshold-mb into a config override when set
func thresholdOverride(cmd *cobra.Command, thresholdMB int64) map[string]interface{} {
	if !cmd.Flags().Changed("threshold-mb") {
		return nil
	}
	return map[string]interface{}{"scan.threshold_mb": thresholdMB}
}

// selectEntries picks the entries to relocate. With no names every
// suggested entry is used; withSuggested adds them in front of the named
// ones. A name is a path relative to the profile ("Videos",
// "Documents/Projects") or an absolute source path.
func selectEntries(res *types.ScanResult, names []string, withSuggested bool) ([]types.FolderEntry, error) {
	if len(names) == 0 {
		return res.Suggested(), nil
	}

	var selected []types.FolderEntry
	seen := make(map[string]bool)
	if withSuggested {
		for _, entry := range res.Suggested() {
			seen[entry.SourcePath] = true
			selected = append(selected, entry)
		}
	}
	for _, name := range names {
		entry, ok := findEntry(res, name)
		if !ok {
			return nil, errors.Newf(errors.ErrInvalidInput, MsgErrUnknownSelection, name)
		}
		if seen[entry.SourcePath] {
			continue
		}
		seen[entry.SourcePath] = true
		selected = append(selected, entry)
	}
	return selected, nil
}

func findEntry(res *types.ScanResult, name string) (types.FolderEntry, bool) {
	want := filepath.Clean(filepath.FromSlash(name))
	for _, e := range res.Entries {
		if e.SourcePath == want {
			return e, true
		}
		if rel, err := filepath.Rel(res.ProfileRoot, e.SourcePath); err == nil && rel == want {
			return e, true
		}
	}
	return types.FolderEntry{}, false
}
