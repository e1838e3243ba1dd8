package variant

// PatchEntry is one non-fallback variant's delta against the fallback,
// the build-time (pre-embedding) shape of a FatBinImage entry (spec §3).
type PatchEntry struct {
	Features FeatureSet
	Patch    []byte
}

// FatBinImage is the Patch/Pack Builder's in-memory output before it is
// rendered to a generated Go source literal by internal/pack: the
// compressed fallback plus an ordered sequence of (FeatureSet, delta)
// entries, one per non-fallback variant.
//
// Invariant 5: entries are sorted by declared feature count, largest first,
// so the dispatcher scans highest-specificity first.
type FatBinImage struct {
	CompressedFallback []byte
	Patches            []PatchEntry
}

func (f FatBinImage) Empty() bool {
	return len(f.CompressedFallback) == 0 && len(f.Patches) == 0
}
