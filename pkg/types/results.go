package types

import "time"

// ScanResult holds the ranked candidates of one profile scan.
type ScanResult struct {
	ProfileRoot    string        `json:"profileRoot" yaml:"profileRoot"`
	RelocationRoot string        `json:"relocationRoot" yaml:"relocationRoot"`
	Threshold      int64         `json:"threshold" yaml:"threshold"`
	Entries        []FolderEntry `json:"entries" yaml:"entries"`
	Warnings       []Failure     `json:"warnings" yaml:"warnings"`
	// TotalBytes is the summed size of every candidate that could be sized.
	TotalBytes int64         `json:"totalBytes" yaml:"totalBytes"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// Suggested returns the entries at or above the threshold.
func (r *ScanResult) Suggested() []FolderEntry {
	var out []FolderEntry
	for _, e := range r.Entries {
		if e.ShouldMove {
			out = append(out, e)
		}
	}
	return out
}

// SkippedEntry is an entry the relocation did not act on, with the reason.
type SkippedEntry struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// RelocationResult summarizes a relocation batch.
type RelocationResult struct {
	Moved      int                `json:"moved" yaml:"moved"`
	BytesSaved int64              `json:"bytesSaved" yaml:"bytesSaved"`
	Records    []RelocationRecord `json:"records" yaml:"records"`
	// Unlogged holds relocations that completed on disk but could not be
	// appended to the undo log.
	Unlogged []RelocationRecord `json:"unlogged,omitempty" yaml:"unlogged,omitempty"`
	Skipped  []SkippedEntry     `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Failures []Failure          `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// HasDangling reports whether any entry was left without a link.
func (r *RelocationResult) HasDangling() bool {
	return len(FilterFailures(r.Failures, DanglingSourceFailure)) > 0
}

// UndoResult summarizes an undo pass.
type UndoResult struct {
	Restored int       `json:"restored" yaml:"restored"`
	Failures []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
	// ResidualPath is where records that could not be restored were kept.
	ResidualPath string `json:"residualPath,omitempty" yaml:"residualPath,omitempty"`
}

// FlattenedItem is one child moved out of a Downloads-like folder.
type FlattenedItem struct {
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
	Bytes int64  `json:"bytes" yaml:"bytes"`
	IsDir bool   `json:"isDir" yaml:"isDir"`
}

// FlattenResult summarizes a Downloads flatten.
type FlattenResult struct {
	Moved      int             `json:"moved" yaml:"moved"`
	BytesMoved int64           `json:"bytesMoved" yaml:"bytesMoved"`
	Items      []FlattenedItem `json:"items" yaml:"items"`
	Failures   []Failure       `json:"failures,omitempty" yaml:"failures,omitempty"`
}
