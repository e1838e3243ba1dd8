package pack

import (
	"testing"

	"github.com/poppolopoppo/multiarch/internal/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSourceIsDeterministic(t *testing.T) {
	image := variant.FatBinImage{
		CompressedFallback: []byte{0x28, 0xb5, 0x2f, 0xfd},
		Patches: []variant.PatchEntry{
			{Features: variant.NewFeatureSet("avx", "avx2"), Patch: []byte{1, 2, 3}},
		},
	}

	a, err := GenerateSourceBytes("launcher", image)
	require.NoError(t, err)
	b, err := GenerateSourceBytes("launcher", image)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, string(a), `"avx", "avx2"`)
	assert.Contains(t, string(a), "package launcher")
}

func TestBuildFatBinImageRequiresFallback(t *testing.T) {
	manifest := variant.ArtifactManifest{Bins: []variant.BuiltVariant{
		{Spec: variant.VariantSpec{Features: variant.NewFeatureSet("avx")}, Path: "/nonexistent"},
	}}
	_, err := BuildFatBinImage(manifest)
	require.ErrorIs(t, err, ErrNoFallback)
}
