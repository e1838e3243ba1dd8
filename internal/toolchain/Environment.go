package toolchain

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/poppolopoppo/multiarch/internal/variant"
)

// Environment is the set of environment variables the Compiler Driver
// overlays onto `go build` subprocess invocations: GOOS/GOARCH select the
// target triple, GOAMD64/GOARM64 select the microarchitecture level, and
// GOFLAGS carries everything else (this driver's RUSTFLAGS analogue).
//
// Kept as a plain ordered map rather than a direct os/exec.Cmd.Env splice
// so that the Compiler Driver can log the exact overlay it is about to
// apply before running anything (spec §4.2's failure taxonomy wants to be
// able to say which env drove a failed build).
type Environment struct {
	vars    map[string]string
	removed map[string]struct{}
}

func NewEnvironment() *Environment {
	return &Environment{vars: map[string]string{}}
}

func (e *Environment) Set(key, value string) *Environment {
	e.vars[key] = value
	delete(e.removed, key)
	return e
}

func (e *Environment) Get(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// ForTriple overlays GOOS/GOARCH. GOARM is not set, and the triple's ABI
// field is not used.
func (e *Environment) ForTriple(t variant.Triple) *Environment {
	e.Set("GOOS", t.OS)
	e.Set("GOARCH", t.Arch)
	return e
}

// ForFeatures picks the narrowest GOAMD64/GOARM64 level implying fs and
// overlays it, the Compiler Driver's "compiler target-feature flag" step
// (spec §4.2 step 1).
func (e *Environment) ForFeatures(t variant.Triple, fs variant.FeatureSet) *Environment {
	switch t.Architecture() {
	case "amd64":
		e.Set("GOAMD64", GoAmd64Level(fs))
	case "arm64":
		e.Set("GOARM64", GoArm64Level(fs))
	}
	return e
}

// MergeGoFlags appends extraFlags to any inherited GOFLAGS rather than
// clobbering it, matching the original's "append to RUSTFLAGS, never
// replace a user's existing flags" rule (spec §4.1 CLI-override semantics
// applied to the ambient build environment).
func (e *Environment) MergeGoFlags(extraFlags ...string) *Environment {
	if len(extraFlags) == 0 {
		return e
	}
	existing, ok := e.vars["GOFLAGS"]
	if _, stripped := e.removed["GOFLAGS"]; !ok && !stripped {
		existing = os.Getenv("GOFLAGS")
	}
	parts := strings.Fields(existing)
	parts = append(parts, extraFlags...)
	e.Set("GOFLAGS", strings.Join(parts, " "))
	return e
}

// Strip marks keys for removal from the inherited environment, matching the
// original's launcher-build step of resetting experimental-feature flags
// before compiling the final fat binary shell (`.env_remove(...)`), so that
// the dispatcher's own build never silently depends on a flag a variant
// build happened to carry -- even when that flag is set in the ambient
// process environment rather than in this overlay.
func (e *Environment) Strip(keys ...string) *Environment {
	if e.removed == nil {
		e.removed = map[string]struct{}{}
	}
	for _, k := range keys {
		delete(e.vars, k)
		e.removed[k] = struct{}{}
	}
	return e
}

// Environ renders the overlay as process-environment-style KEY=VALUE pairs,
// merged on top of the current process's own environment so subprocesses
// still see PATH, HOME, etc. Keys passed to Strip are dropped even when
// inherited from os.Environ(), not just from the overlay.
func (e *Environment) Environ() []string {
	base := os.Environ()
	overlayed := make(map[string]string, len(base))
	for _, kv := range base {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			overlayed[kv[:i]] = kv[i+1:]
		}
	}
	for k := range e.removed {
		delete(overlayed, k)
	}
	for k, v := range e.vars {
		overlayed[k] = v
	}
	keys := make([]string, 0, len(overlayed))
	for k := range overlayed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		result = append(result, fmt.Sprintf("%s=%s", k, overlayed[k]))
	}
	return result
}

func (e *Environment) String() string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, e.vars[k]))
	}
	return strings.Join(parts, " ")
}
