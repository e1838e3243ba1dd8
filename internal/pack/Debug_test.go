package pack

import (
	"path/filepath"
	"testing"

	"github.com/poppolopoppo/multiarch/internal/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDebugTraceRoundTrips(t *testing.T) {
	manifest := variant.ArtifactManifest{Bins: []variant.BuiltVariant{
		{
			Spec:   variant.VariantSpec{Features: variant.NewFeatureSet()},
			Path:   "bin-default",
			Digest: [32]byte{1},
		},
		{
			Spec:   variant.VariantSpec{Features: variant.NewFeatureSet("avx", "avx2")},
			Path:   "bin-avx_avx2",
			Digest: [32]byte{2},
		},
	}}
	image := variant.FatBinImage{
		CompressedFallback: []byte{0x28, 0xb5, 0x2f, 0xfd},
		Patches: []variant.PatchEntry{
			{Features: variant.NewFeatureSet("avx", "avx2"), Patch: []byte{1, 2, 3}},
		},
	}

	path := filepath.Join(t.TempDir(), "pack-trace.log.lz4")
	require.NoError(t, WriteDebugTrace(path, manifest, image))

	trace, err := ReadDebugTrace(path)
	require.NoError(t, err)
	assert.Contains(t, trace, "fallback: 4 bytes compressed")
	assert.Contains(t, trace, "bin-avx_avx2")
	assert.Contains(t, trace, "patch: features=avx,avx2 size=3")
}
