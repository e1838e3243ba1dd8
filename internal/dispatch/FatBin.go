// Package dispatch is the Dispatcher: the runtime core embedded in every
// fat binary. It detects host CPU features, ranks and selects a variant,
// reconstructs it from the embedded FatBinImage, and execs it -- fileless
// via memfd where the platform allows, via a temp file otherwise.
package dispatch

import "github.com/poppolopoppo/multiarch/internal/base"

var LogDispatch = base.NewLogCategory("Dispatch")

// RawPatchEntry is the generated-source shape of one non-fallback variant:
// plain string tokens rather than variant.FeatureSet, so the code
// internal/pack generates into the launcher module carries no dependency on
// internal/variant.
type RawPatchEntry struct {
	Tokens []string
	Patch  []byte
}

// RawFatBin is the embedded-at-build-time table a generated launcher source
// file assigns to a package-level var, consumed directly by Main.
type RawFatBin struct {
	CompressedFallback []byte
	Patches            []RawPatchEntry
}

// ExitCode mirrors the sysexit-class taxonomy spec §4.6.6 asks for: IO-class
// failures (decompression, patch application, handle creation) get one
// code, an empty FatBinImage gets the software-error code, and a successful
// exec never returns to assign one at all.
type ExitCode int

const (
	ExitOK            ExitCode = 0
	ExitSoftware      ExitCode = 70 // EX_SOFTWARE, empty FatBinImage
	ExitIOError       ExitCode = 74 // EX_IOERR, decompress/patch/handle failures
	ExitUnavailable   ExitCode = 69 // EX_UNAVAILABLE, exec syscall failure
)
