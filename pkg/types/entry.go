package types

import "fmt"

// Candidate is a directory eligible for relocation, paired with where it
// would go under the relocation root.
type Candidate struct {
	SourcePath string
	TargetPath string
	// Index is the position in enumeration order, used to break size ties.
	Index int
}

// FolderEntry is one scan result.
type FolderEntry struct {
	SourcePath string `json:"sourcePath" yaml:"sourcePath"`
	TargetPath string `json:"targetPath" yaml:"targetPath"`
	SizeBytes  int64  `json:"sizeBytes" yaml:"sizeBytes"`
	ShouldMove bool   `json:"shouldMove" yaml:"shouldMove"`
}

// NewFolderEntry builds an entry and classifies it against threshold.
func NewFolderEntry(c Candidate, size, threshold int64) FolderEntry {
	return FolderEntry{
		SourcePath: c.SourcePath,
		TargetPath: c.TargetPath,
		SizeBytes:  size,
		ShouldMove: size >= threshold,
	}
}

// RelocationRecord is one line of the undo log. At the time it is written
// OriginalPath is a symlink to RelocatedPath, which holds the content.
type RelocationRecord struct {
	OriginalPath  string `json:"originalPath" yaml:"originalPath"`
	RelocatedPath string `json:"relocatedPath" yaml:"relocatedPath"`
}

func (r RelocationRecord) String() string {
	return fmt.Sprintf("%s --> %s", r.OriginalPath, r.RelocatedPath)
}
