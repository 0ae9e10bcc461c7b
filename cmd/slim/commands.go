package slim

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/slim/internal/version"
	"github.com/arthur-debert/slim/pkg/config"
	"github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/flatten"
	"github.com/arthur-debert/slim/pkg/logging"
	"github.com/arthur-debert/slim/pkg/paths"
	"github.com/arthur-debert/slim/pkg/profilelock"
	"github.com/arthur-debert/slim/pkg/relocate"
	"github.com/arthur-debert/slim/pkg/scan"
	"github.com/arthur-debert/slim/pkg/types"
	"github.com/arthur-debert/slim/pkg/ui/confirmations"
	"github.com/arthur-debert/slim/pkg/undolog"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	verbosity  int
	configPath string
	output     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "slim",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Setup logging based on verbosity
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")

			if isTerminal(cmd.OutOrStdout()) {
				pterm.EnableStyling()
			} else {
				pterm.DisableStyling()
			}
			return validateOutput(opts.output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: show help but report incorrect usage
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputText, MsgFlagOutput)

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Set custom help template
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Add all commands
	rootCmd.AddCommand(newScanCmd(opts))
	rootCmd.AddCommand(newRelocateCmd(opts))
	rootCmd.AddCommand(newUndoCmd(opts))
	rootCmd.AddCommand(newFlattenCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd(opts))
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func runScan(ctx context.Context, cmd *cobra.Command, opts *rootOptions, s *session) (*types.ScanResult, error) {
	progress := startProgress(cmd, opts, MsgProgressScan)
	defer progress.Stop()

	return scan.Scan(ctx, scan.Options{
		FS:             s.fs,
		ProfileRoot:    s.profileRoot,
		RelocationRoot: s.relocRoot,
		Threshold:      s.cfg.ThresholdBytes(),
		Excluded:       s.cfg.Scan.Excluded,
		DocumentsName:  s.cfg.Scan.DocumentsName,
		Workers:        s.cfg.Workers(),
		Progress:       progress.Report,
	})
}

func newScanCmd(opts *rootOptions) *cobra.Command {
	var thresholdMB int64

	cmd := &cobra.Command{
		Use:     "scan [profile]",
		Short:   MsgScanShort,
		Long:    MsgScanLong,
		Example: MsgScanExample,
		Args:    cobra.MaximumNArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, args, thresholdOverride(cmd, thresholdMB))
			if err != nil {
				return err
			}

			var result *types.ScanResult
			err = withLock(s.profileRoot, profilelock.Shared, func() error {
				var scanErr error
				result, scanErr = runScan(cmd.Context(), cmd, opts, s)
				return scanErr
			})
			if err != nil {
				return fmt.Errorf(MsgErrScan, err)
			}

			return render(cmd.OutOrStdout(), opts.output, result, func(w io.Writer) error {
				return renderScanText(w, result)
			})
		},
	}

	cmd.Flags().Int64Var(&thresholdMB, "threshold-mb", 0, MsgFlagThreshold)
	return cmd
}

// mergeDecider picks how conflicts are resolved: --yes accepts, a
// non-terminal stdin declines, otherwise the user is asked
func mergeDecider(cmd *cobra.Command, yes bool) types.MergeDecider {
	if yes {
		return confirmations.Always(true)
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && !isTerminal(f) {
		return nil
	}
	return confirmations.NewConsoleDialog(in, cmd.ErrOrStderr()).ConfirmMerge
}

func newRelocateCmd(opts *rootOptions) *cobra.Command {
	var (
		thresholdMB  int64
		selectNames  []string
		allSuggested bool
		yes          bool
	)

	cmd := &cobra.Command{
		Use:     "relocate [profile]",
		Short:   MsgRelocateShort,
		Long:    MsgRelocateLong,
		Example: MsgRelocateExample,
		Args:    cobra.MaximumNArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, args, thresholdOverride(cmd, thresholdMB))
			if err != nil {
				return err
			}

			var (
				result   *types.RelocationResult
				runErr   error
				selected int
			)
			err = withLock(s.profileRoot, profilelock.Exclusive, func() error {
				scanned, err := runScan(cmd.Context(), cmd, opts, s)
				if err != nil {
					return fmt.Errorf(MsgErrScan, err)
				}

				entries, err := selectEntries(scanned, selectNames, allSuggested)
				if err != nil {
					return err
				}
				selected = len(entries)
				if selected == 0 {
					result = &types.RelocationResult{}
					return nil
				}

				progress := startProgress(cmd, opts, MsgProgressRelocate)
				defer progress.Stop()

				result, runErr = relocate.Relocate(cmd.Context(), relocate.Options{
					FS:             s.fs,
					ProfileRoot:    s.profileRoot,
					RelocationRoot: s.relocRoot,
					Entries:        entries,
					Log:            undolog.New(s.fs, s.logPath()),
					ConfirmMerge:   mergeDecider(cmd, yes),
					RecomputeSize:  s.cfg.Relocation.RecomputeSize,
					Progress:       progress.Report,
				})
				return nil
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if selected == 0 && opts.output == outputText {
				_, _ = fmt.Fprintln(out, MsgNothingSelected)
				return nil
			}
			if result != nil {
				if err := render(out, opts.output, result, func(w io.Writer) error {
					return renderRelocationText(w, result, s.relocRoot)
				}); err != nil {
					return err
				}
			}
			if runErr != nil {
				return fmt.Errorf(MsgErrRelocate, runErr)
			}
			if result.HasDangling() {
				n := len(types.FilterFailures(result.Failures, types.DanglingSourceFailure))
				return errors.Newf(errors.ErrSymlinkCreate, MsgErrDangling, n)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&thresholdMB, "threshold-mb", 0, MsgFlagThreshold)
	cmd.Flags().StringArrayVar(&selectNames, "select", nil, MsgFlagSelect)
	cmd.Flags().BoolVar(&allSuggested, "all-suggested", false, MsgFlagAllSuggested)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)
	return cmd
}

func newUndoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "undo [profile]",
		Short:   MsgUndoShort,
		Long:    MsgUndoLong,
		Args:    cobra.MaximumNArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, args, nil)
			if err != nil {
				return err
			}

			var (
				result *types.UndoResult
				runErr error
			)
			err = withLock(s.profileRoot, profilelock.Exclusive, func() error {
				progress := startProgress(cmd, opts, MsgProgressUndo)
				defer progress.Stop()

				result, runErr = undolog.Restore(cmd.Context(), undolog.RestoreOptions{
					FS:       s.fs,
					Log:      undolog.New(s.fs, s.logPath()),
					Progress: progress.Report,
				})
				return nil
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if errors.IsErrorCode(runErr, errors.ErrNothingToUndo) {
				if opts.output == outputText {
					_, _ = fmt.Fprintln(out, MsgNothingToUndo)
					return nil
				}
				return render(out, opts.output, &types.UndoResult{}, nil)
			}
			if result != nil {
				if err := render(out, opts.output, result, func(w io.Writer) error {
					return renderUndoText(w, result)
				}); err != nil {
					return err
				}
			}
			if runErr != nil {
				return fmt.Errorf(MsgErrUndo, runErr)
			}
			return nil
		},
	}
}

func newFlattenCmd(opts *rootOptions) *cobra.Command {
	var source, destination string

	cmd := &cobra.Command{
		Use:     "flatten [profile]",
		Short:   MsgFlattenShort,
		Long:    MsgFlattenLong,
		Args:    cobra.MaximumNArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, args, nil)
			if err != nil {
				return err
			}

			from := filepath.Join(s.profileRoot, s.cfg.Downloads.Name)
			if source != "" {
				if from, err = paths.NormalizePath(source); err != nil {
					return err
				}
			}
			to := filepath.Join(s.relocRoot, s.cfg.Downloads.Name)
			if destination != "" {
				if to, err = paths.NormalizePath(destination); err != nil {
					return err
				}
			}

			var (
				result *types.FlattenResult
				runErr error
			)
			err = withLock(s.profileRoot, profilelock.Exclusive, func() error {
				progress := startProgress(cmd, opts, MsgProgressFlatten)
				defer progress.Stop()

				result, runErr = flatten.Flatten(cmd.Context(), flatten.Options{
					FS:          s.fs,
					Source:      from,
					Destination: to,
					Progress:    progress.Report,
				})
				return nil
			})
			if err != nil {
				return err
			}

			if result != nil {
				if err := render(cmd.OutOrStdout(), opts.output, result, func(w io.Writer) error {
					return renderFlattenText(w, result, to)
				}); err != nil {
					return err
				}
			}
			if runErr != nil {
				return fmt.Errorf(MsgErrFlatten, runErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", MsgFlagSource)
	cmd.Flags().StringVar(&destination, "destination", "", MsgFlagDestination)
	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:     "config [profile]",
		Short:   MsgConfigShort,
		Args:    cobra.MaximumNArgs(1),
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			// built-in values only, no config files or environment
			cfg := config.Default()
			if !defaults {
				s, err := openSession(opts, args, nil)
				if err != nil {
					return err
				}
				cfg = s.cfg
			}

			return render(cmd.OutOrStdout(), opts.output, cfg, func(w io.Writer) error {
				data, err := config.Dump(cfg)
				if err != nil {
					return fmt.Errorf(MsgErrDumpConfig, err)
				}
				_, err = w.Write(data)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := map[string]string{
				"version": version.Version,
				"commit":  version.Commit,
				"date":    version.Date,
			}
			return render(cmd.OutOrStdout(), opts.output, info, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, MsgVersionFormat, version.Version, version.Commit, version.Date)
				return err
			})
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
