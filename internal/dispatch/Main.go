package dispatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poppolopoppo/multiarch/internal/base"
)

// Main is the fat binary's process entry point (spec §4.6: "invoked as the
// process entry point ... returns to the OS with an exit code"). It never
// returns on a successful materialize+exec; a returned int is always a
// failure exit code per §4.6.6's taxonomy.
func Main(fb RawFatBin, argv, envp []string) int {
	if len(fb.CompressedFallback) == 0 {
		base.LogError(LogDispatch, "empty FatBinImage embedded in this binary")
		return int(ExitSoftware)
	}

	host := DetectHostFeatures()
	selection := Select(fb, host)
	if selection.IsFallback() {
		base.LogVerbose(LogDispatch, "dispatch: using fallback variant")
	} else {
		base.LogVerbose(LogDispatch, "dispatch: selected variant %v", fb.Patches[selection.Index].Tokens)
	}

	data, err := Reconstruct(fb, selection)
	if err != nil {
		base.LogError(LogDispatch, "%v", err)
		return int(ExitIOError)
	}

	name := materializationName(argv, fb, selection)
	fd, err := createWritable(name, data)
	if err != nil {
		base.LogError(LogDispatch, "%v", err)
		return int(ExitIOError)
	}

	if err := execHandle(fd, argv, envp); err != nil {
		base.LogError(LogDispatch, "%v", err)
		return int(ExitUnavailable)
	}
	// execHandle never returns on success; reaching here is itself a bug
	// in one of the per-platform implementations.
	return int(ExitUnavailable)
}

// materializationName builds the informational name passed to
// createWritable, spec §4.6.5's "<argv[0]>_<feat1_feat2_...>" or
// "<argv[0]>_generic" convention.
func materializationName(argv []string, fb RawFatBin, selection SelectResult) string {
	base0 := "multiarch"
	if len(argv) > 0 {
		base0 = filepath.Base(argv[0])
	}
	if selection.IsFallback() {
		return fmt.Sprintf("%s_generic", base0)
	}
	return fmt.Sprintf("%s_%s", base0, strings.Join(fb.Patches[selection.Index].Tokens, "_"))
}

// Run is the convenience entry point a generated launcher's main() calls:
// it wires os.Args/os.Environ to Main and calls os.Exit with the result,
// matching the teacher's convention of keeping main() itself a one-liner.
func Run(fb RawFatBin) {
	os.Exit(Main(fb, os.Args, os.Environ()))
}
