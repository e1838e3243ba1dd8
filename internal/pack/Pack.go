// Package pack implements the Patch/Pack Builder: it turns a deduplicated
// ArtifactManifest into a FatBinImage by picking a fallback, bsdiff-ing
// every other variant against it, and zstd-compressing the fallback, the
// way gen_fatbin_pkg.rs assembles the embedded patch table before code
// generation.
package pack

import (
	"fmt"
	"os"
	"sort"

	"github.com/gabstv/go-bsdiff/pkg/bsdiff"
	"github.com/poppolopoppo/multiarch/internal/base"
	"github.com/poppolopoppo/multiarch/internal/variant"
)

var LogPack = base.NewLogCategory("Pack")

// ErrNoFallback is returned when the manifest has no empty-FeatureSet entry
// to serve as the patch base, the open question spec §9 leaves to the
// driver: here it is a hard error, since every dispatcher reconstruction
// path assumes a fallback exists (invariant 4).
var ErrNoFallback = fmt.Errorf("pack: manifest has no fallback variant (empty FeatureSet); cannot build a fat binary")

// BuildFatBinImage pops the manifest's fallback (lowest feature count,
// expected to be the empty FeatureSet per invariant 3/4) and bsdiff-diffs
// every remaining variant against it, compressing the fallback at zstd
// level 3 exactly per spec §4.4.
func BuildFatBinImage(manifest variant.ArtifactManifest) (variant.FatBinImage, error) {
	if len(manifest.Bins) == 0 {
		return variant.FatBinImage{}, fmt.Errorf("pack: manifest has no entries")
	}

	sorted := make([]variant.BuiltVariant, len(manifest.Bins))
	copy(sorted, manifest.Bins)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].FeatureCount() < sorted[j].FeatureCount()
	})

	fallback := sorted[0]
	if !fallback.Spec.Features.Empty() {
		return variant.FatBinImage{}, ErrNoFallback
	}
	others := sorted[1:]

	fallbackBytes, err := os.ReadFile(fallback.Path)
	if err != nil {
		return variant.FatBinImage{}, fmt.Errorf("pack: reading fallback %s: %w", fallback.Path, err)
	}
	compressedFallback, err := base.CompressZstd(fallbackBytes, 3)
	if err != nil {
		return variant.FatBinImage{}, fmt.Errorf("pack: compressing fallback: %w", err)
	}

	// Invariant 5: entries sorted by feature count descending, so the
	// dispatcher scans highest-specificity first.
	sort.Slice(others, func(i, j int) bool {
		return others[i].FeatureCount() > others[j].FeatureCount()
	})

	patches := make([]variant.PatchEntry, 0, len(others))
	for _, o := range others {
		variantBytes, err := os.ReadFile(o.Path)
		if err != nil {
			return variant.FatBinImage{}, fmt.Errorf("pack: reading variant %s: %w", o.Path, err)
		}
		patch, err := bsdiff.Bytes(fallbackBytes, variantBytes)
		if err != nil {
			return variant.FatBinImage{}, fmt.Errorf("pack: diffing variant %v against fallback: %w", o.Spec.Features, err)
		}
		base.LogDebug(LogPack, "diffed %v: %d bytes variant -> %d bytes patch", o.Spec.Features, len(variantBytes), len(patch))
		patches = append(patches, variant.PatchEntry{Features: o.Spec.Features, Patch: patch})
	}

	base.LogClaim(LogPack, "packed %d variants + fallback (%d -> %d bytes compressed)", len(patches), len(fallbackBytes), len(compressedFallback))

	return variant.FatBinImage{
		CompressedFallback: compressedFallback,
		Patches:            patches,
	}, nil
}
