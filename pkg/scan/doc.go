// Package scan finds relocation candidates in a profile and measures them.
//
// The Enumerator walks the immediate children of a profile root, applying
// the exclusion set and descending one level into Documents. DirSize sums
// regular file sizes without following links. Scan ties the two together,
// sizing candidates on a bounded worker pool and ranking them by size.
package scan
