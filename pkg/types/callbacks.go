package types

// ProgressFunc receives completion as a fraction in [0,1]. Calls are
// serialized and the fraction never decreases within one operation.
type ProgressFunc func(fraction float64)

// MergeDecider is asked whether an entry may be merged into a target that
// already exists. Returning false skips the entry.
type MergeDecider func(entry FolderEntry) (bool, error)

// Report calls fn if it is set.
func (fn ProgressFunc) Report(fraction float64) {
	if fn != nil {
		fn(fraction)
	}
}
