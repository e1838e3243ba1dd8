package dispatch

import (
	"fmt"

	"github.com/gabstv/go-bsdiff/pkg/bspatch"
	"github.com/poppolopoppo/multiarch/internal/base"
)

// Reconstruct implements spec §4.6.4: decompress the embedded fallback, and
// if a variant was chosen, apply its patch against the decompressed
// fallback to produce the exact bytes of the winning variant.
func Reconstruct(fb RawFatBin, selection SelectResult) ([]byte, error) {
	fallback, err := base.DecompressZstd(fb.CompressedFallback)
	if err != nil {
		return nil, fmt.Errorf("dispatch: decompressing fallback: %w", err)
	}

	if selection.IsFallback() {
		return fallback, nil
	}

	patch := fb.Patches[selection.Index]
	reconstructed, err := bspatch.Bytes(fallback, patch.Patch)
	if err != nil {
		return nil, fmt.Errorf("dispatch: applying patch for %v: %w", patch.Tokens, err)
	}
	return reconstructed, nil
}
