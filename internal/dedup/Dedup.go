// Package dedup implements the Deduplicator: it sorts built variants by
// (digest, feature count) and keeps only the first occurrence of each
// distinct digest, exactly per spec §4.3/§8.
package dedup

import (
	"bytes"
	"sort"

	"github.com/poppolopoppo/multiarch/internal/base"
	"github.com/poppolopoppo/multiarch/internal/variant"
)

var LogDedup = base.NewLogCategory("Dedup")

// Deduplicate keeps the first BuiltVariant per distinct content digest once
// the inputs are sorted by (digest, feature count ascending) -- the
// smallest-feature-count variant wins a tie, preserving the widest
// compatibility for a given piece of machine code the way compile_dedup.rs
// prefers the more generic binary when two variants happen to be byte-for-
// byte identical.
func Deduplicate(built []variant.BuiltVariant) []variant.BuiltVariant {
	sorted := make([]variant.BuiltVariant, len(built))
	copy(sorted, built)
	sort.SliceStable(sorted, func(i, j int) bool {
		if cmp := bytes.Compare(sorted[i].Digest[:], sorted[j].Digest[:]); cmp != 0 {
			return cmp < 0
		}
		return sorted[i].FeatureCount() < sorted[j].FeatureCount()
	})

	out := make([]variant.BuiltVariant, 0, len(sorted))
	var lastDigest [32]byte
	haveLast := false
	for _, b := range sorted {
		if haveLast && b.Digest == lastDigest {
			base.LogVerbose(LogDedup, "dropping %v, identical content to an already-kept variant", b.Spec.Features)
			continue
		}
		out = append(out, b)
		lastDigest = b.Digest
		haveLast = true
	}
	return out
}

// BuildManifest runs Deduplicate and wraps the survivors in an
// ArtifactManifest ready for WriteManifestFile, the step compile_dedup.rs
// performs right before handing the manifest off to the pack stage.
func BuildManifest(built []variant.BuiltVariant) variant.ArtifactManifest {
	return variant.ArtifactManifest{Bins: Deduplicate(built)}
}
