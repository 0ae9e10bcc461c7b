package slim

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Relocate large profile folders and leave symlinks behind"
	MsgScanShort       = "Rank profile folders by size"
	MsgRelocateShort   = "Move large folders to the relocation root"
	MsgUndoShort       = "Move relocated folders back"
	MsgFlattenShort    = "Move everything out of Downloads"
	MsgConfigShort     = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgScanHeader        = "Profile %s (threshold %s)\n"
	MsgScanTotal         = "\nTotal: %s in %d folder(s), %d suggested\n"
	MsgNoCandidates      = "No folders to scan."
	MsgNothingSelected   = "No folders selected for relocation."
	MsgRelocateSummary   = "\nMoved %d folder(s), %s relocated to %s\n"
	MsgRelocatedItem     = "  ✓ %s -> %s\n"
	MsgSkippedItem       = "  - %s (%s)\n"
	MsgFailureItem       = "  ✗ %s: %s\n"
	MsgDanglingItem      = "  DANGLING %s: %s\n"
	MsgDanglingHint      = "\nThe folders marked DANGLING were moved but have no link at their old path.\nTheir content is intact at the relocation root."
	MsgUnloggedItem      = "  ! not in undo log: %s\n"
	MsgNothingToUndo     = "Nothing to undo."
	MsgUndoSummary       = "Restored %d folder(s)\n"
	MsgResidualNotice    = "Records that could not be restored were kept in %s\n"
	MsgFlattenSummary    = "Moved %d item(s), %s, to %s\n"
	MsgFlattenItem       = "  ✓ %s -> %s\n"
	MsgWarningsHeader    = "\nWarnings:"
	MsgVersionFormat     = "slim %s (commit %s, built %s)\n"
	MsgProgressScan      = "Scanning"
	MsgProgressRelocate  = "Relocating"
	MsgProgressUndo      = "Restoring"
	MsgProgressFlatten   = "Flattening"
	MsgColumnSize        = "SIZE"
	MsgColumnMove        = "MOVE"
	MsgColumnSource      = "SOURCE"
	MsgColumnTarget      = "TARGET"
	MsgMoveYes           = "yes"
	MsgMoveNo            = "no"
	MsgSectionFailures   = "\nFailures:"
	MsgSectionSkipped    = "\nSkipped:"
	MsgSectionRelocated  = "Relocated:"
	MsgSectionFlattened  = "Flattened:"
	MsgSectionUndoFailed = "\nNot restored:"

	// Error messages
	MsgErrNoCommand        = "no command specified"
	MsgErrResolveProfile   = "failed to resolve profile: %w"
	MsgErrLoadConfig       = "failed to load configuration: %w"
	MsgErrScan             = "failed to scan profile: %w"
	MsgErrRelocate         = "failed to relocate: %w"
	MsgErrUndo             = "failed to undo: %w"
	MsgErrFlatten          = "failed to flatten downloads: %w"
	MsgErrDumpConfig       = "failed to print configuration: %w"
	MsgErrOutputFormat     = "unknown output format %q (want text, json or yaml)"
	MsgErrUnknownSelection = "no scanned folder matches %q"
	MsgErrDangling         = "%d folder(s) were moved but left without a link"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig       = "Read configuration from this file instead of the default"
	MsgFlagOutput       = "Output format: text, json or yaml"
	MsgFlagThreshold    = "Suggest folders at or above this size in MiB"
	MsgFlagSelect       = "Relocate only this folder (name or Documents/<name>, repeatable)"
	MsgFlagAllSuggested = "Relocate every suggested folder, plus any --select folders"
	MsgFlagYes          = "Merge into existing targets without asking"
	MsgFlagSource       = "Folder to flatten instead of <profile>/Downloads"
	MsgFlagDestination  = "Where flattened items go instead of <relocation root>/Downloads"
	MsgFlagDefaults     = "Print the built-in defaults, ignoring config files and environment"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/scan-long.txt
	msgScanLongRaw string
	MsgScanLong    = strings.TrimSpace(msgScanLongRaw)

	//go:embed msgs/scan-example.txt
	msgScanExampleRaw string
	MsgScanExample    = strings.TrimRight(msgScanExampleRaw, "\n")

	//go:embed msgs/relocate-long.txt
	msgRelocateLongRaw string
	MsgRelocateLong    = strings.TrimSpace(msgRelocateLongRaw)

	//go:embed msgs/relocate-example.txt
	msgRelocateExampleRaw string
	MsgRelocateExample    = strings.TrimRight(msgRelocateExampleRaw, "\n")

	//go:embed msgs/undo-long.txt
	msgUndoLongRaw string
	MsgUndoLong    = strings.TrimSpace(msgUndoLongRaw)

	//go:embed msgs/flatten-long.txt
	msgFlattenLongRaw string
	MsgFlattenLong    = strings.TrimSpace(msgFlattenLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
