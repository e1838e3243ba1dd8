package dispatch

import (
	"testing"

	"github.com/poppolopoppo/multiarch/internal/base"
	"github.com/stretchr/testify/require"
)

func TestReconstructFallbackOnly(t *testing.T) {
	payload := []byte("hello fallback binary")
	compressed, err := base.CompressZstd(payload, 3)
	require.NoError(t, err)

	fb := RawFatBin{CompressedFallback: compressed}
	got, err := Reconstruct(fb, SelectResult{Index: -1})
	require.NoError(t, err)
	require.Equal(t, payload, got)
}
