package scan

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/paths"
	"github.com/arthur-debert/slim/pkg/types"
)

// Rules control which profile children become candidates.
type Rules struct {
	// Excluded names are never emitted. Matching is case-sensitive.
	Excluded map[string]bool
	// DocumentsName is the folder whose children are emitted instead of
	// the folder itself.
	DocumentsName string
}

// Enumerator yields candidates lazily in lexical order. It reads the
// Documents folder only when it reaches it and cannot be restarted.
//
//	e := scan.NewEnumerator(fsys, root, relocRoot, rules)
//	for e.Next() {
//		c := e.Candidate()
//	}
//	if err := e.Err(); err != nil { ... }
type Enumerator struct {
	fs          types.FS
	profileRoot string
	relocRoot   string
	rules       Rules

	started  bool
	top      []fs.DirEntry
	topIdx   int
	docs     []fs.DirEntry
	docsIdx  int
	docsRoot string

	current  types.Candidate
	emitted  int
	err      error
	warnings []types.Failure
}

// NewEnumerator creates an enumerator over profileRoot
func NewEnumerator(fsys types.FS, profileRoot, relocRoot string, rules Rules) *Enumerator {
	return &Enumerator{
		fs:          fsys,
		profileRoot: profileRoot,
		relocRoot:   relocRoot,
		rules:       rules,
	}
}

// Next advances to the next candidate and reports whether there is one
func (e *Enumerator) Next() bool {
	if e.err != nil {
		return false
	}
	if !e.started {
		e.started = true
		entries, err := readSorted(e.fs, e.profileRoot)
		if err != nil {
			e.err = errors.Wrapf(err, errors.ErrFileAccess, "cannot list profile %s", e.profileRoot)
			return false
		}
		e.top = entries
	}

	for {
		if e.docsIdx < len(e.docs) {
			entry := e.docs[e.docsIdx]
			e.docsIdx++
			source := filepath.Join(e.docsRoot, entry.Name())
			if !e.isCandidateDir(source) {
				continue
			}
			e.emit(source, filepath.Join(e.relocRoot, e.rules.DocumentsName, entry.Name()))
			return true
		}

		if e.topIdx >= len(e.top) {
			return false
		}
		entry := e.top[e.topIdx]
		e.topIdx++

		name := entry.Name()
		source := filepath.Join(e.profileRoot, name)
		if !e.isCandidateDir(source) {
			continue
		}

		if e.rules.DocumentsName != "" && name == e.rules.DocumentsName {
			docs, err := readSorted(e.fs, source)
			if err != nil {
				e.warnings = append(e.warnings, types.Failure{Kind: types.TraversalWarning, Path: source, Err: err})
				continue
			}
			e.docs, e.docsIdx, e.docsRoot = docs, 0, source
			continue
		}

		if e.rules.Excluded[name] {
			continue
		}
		e.emit(source, filepath.Join(e.relocRoot, name))
		return true
	}
}

// Candidate returns the candidate found by the last call to Next
func (e *Enumerator) Candidate() types.Candidate {
	return e.current
}

// Err returns the error that stopped enumeration, if any
func (e *Enumerator) Err() error {
	return e.err
}

// Warnings returns problems that did not stop enumeration
func (e *Enumerator) Warnings() []types.Failure {
	return e.warnings
}

func (e *Enumerator) emit(source, target string) {
	e.current = types.Candidate{SourcePath: source, TargetPath: target, Index: e.emitted}
	e.emitted++
}

// isCandidateDir accepts real directories only. A folder that holds the
// relocation root is skipped too, it cannot be moved into itself.
func (e *Enumerator) isCandidateDir(path string) bool {
	info, err := e.fs.Lstat(path)
	if err != nil {
		e.warnings = append(e.warnings, types.Failure{Kind: types.TraversalWarning, Path: path, Err: err})
		return false
	}
	if info.Mode()&fs.ModeSymlink != 0 || !info.IsDir() {
		return false
	}
	return e.relocRoot == "" || !paths.IsWithin(path, e.relocRoot)
}

func readSorted(fsys types.FS, dir string) ([]fs.DirEntry, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// Enumerate drains an enumerator into a slice
func Enumerate(fsys types.FS, profileRoot, relocRoot string, rules Rules) ([]types.Candidate, []types.Failure, error) {
	e := NewEnumerator(fsys, profileRoot, relocRoot, rules)
	var out []types.Candidate
	for e.Next() {
		out = append(out, e.Candidate())
	}
	return out, e.Warnings(), e.Err()
}
