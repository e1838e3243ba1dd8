package dedup

import (
	"testing"

	"github.com/poppolopoppo/multiarch/internal/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicateKeepsFirstPerDigestPreferringFewerFeatures(t *testing.T) {
	digestA := [32]byte{1}
	digestB := [32]byte{2}

	built := []variant.BuiltVariant{
		{Spec: variant.VariantSpec{Features: variant.NewFeatureSet("avx", "avx2")}, Digest: digestA},
		{Spec: variant.VariantSpec{Features: variant.NewFeatureSet()}, Digest: digestA},
		{Spec: variant.VariantSpec{Features: variant.NewFeatureSet("sse4.2")}, Digest: digestB},
	}

	out := Deduplicate(built)
	require.Len(t, out, 2)

	var keptForDigestA variant.BuiltVariant
	for _, b := range out {
		if b.Digest == digestA {
			keptForDigestA = b
		}
	}
	assert.True(t, keptForDigestA.Spec.Features.Empty(), "expected the empty-feature fallback to win the tie for identical content")
}

func TestBuildManifestHasDistinctDigests(t *testing.T) {
	built := []variant.BuiltVariant{
		{Digest: [32]byte{1}},
		{Digest: [32]byte{2}},
		{Digest: [32]byte{1}},
	}
	m := BuildManifest(built)
	assert.True(t, m.HasDistinctDigests())
	assert.Len(t, m.Bins, 2)
}
