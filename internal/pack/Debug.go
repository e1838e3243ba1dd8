package pack

import (
	"bytes"
	"fmt"
	"os"

	"github.com/poppolopoppo/multiarch/internal/base"
	"github.com/poppolopoppo/multiarch/internal/variant"
)

// WriteDebugTrace spills a plain-text summary of a packed FatBinImage to
// path, lz4-compressed: one line per variant naming its FeatureSet, digest
// and patch size, plus the fallback's compressed size. Nobody reads this
// file on a successful build; it exists for the case a dispatcher picks the
// wrong variant at a site and someone needs to see exactly what the pack
// step produced without re-running the build. LZ4 over zstd here for the
// same reason the teacher defaults scratch/trace artifacts to LZ4: this is
// write-once-read-rarely, so encode speed matters more than ratio.
func WriteDebugTrace(path string, manifest variant.ArtifactManifest, image variant.FatBinImage) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "fallback: %d bytes compressed\n", len(image.CompressedFallback))
	for _, b := range manifest.Bins {
		digest := base.Fingerprint(b.Digest)
		fmt.Fprintf(&buf, "bin: features=%v digest=%s path=%s\n", b.Spec.Features, digest.ShortString(), b.Path)
	}
	for _, p := range image.Patches {
		fmt.Fprintf(&buf, "patch: features=%v size=%d\n", p.Features, len(p.Patch))
	}

	compressed, err := base.CompressLZ4(buf.Bytes())
	if err != nil {
		return fmt.Errorf("pack: compressing debug trace: %w", err)
	}
	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		return fmt.Errorf("pack: writing debug trace %s: %w", path, err)
	}
	return nil
}

// ReadDebugTrace decompresses a trace written by WriteDebugTrace, used by
// the test suite to round-trip the format and by operators inspecting a
// scratch directory left behind by a failed run.
func ReadDebugTrace(path string) (string, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("pack: reading debug trace %s: %w", path, err)
	}
	raw, err := base.DecompressLZ4(compressed)
	if err != nil {
		return "", fmt.Errorf("pack: decompressing debug trace %s: %w", path, err)
	}
	return string(raw), nil
}
