package toolchain

import (
	"fmt"
	"strings"

	"github.com/poppolopoppo/multiarch/internal/variant"
)

// x86-64 microarchitecture levels, as standardized at
// https://en.wikipedia.org/wiki/X86-64#Microarchitecture_levels and exposed
// by the Go toolchain itself as the GOAMD64 build setting. This is the
// Go-native analogue of rustc's "x86-64-v3"-style -Ctarget-cpu models: the
// compiler has no facility to query feature sets for arbitrary named CPUs,
// so instead of shelling out (there is no `go --print=cfg` equivalent), the
// Policy Resolver expands a CpuModel token through this static table -- the
// same taxonomy the runtime ranking table (internal/dispatch) already
// hardcodes for the opposite direction (ranking tokens back to a level).
var x86_64Levels = map[variant.CpuModel][]variant.FeatureToken{
	"x86-64":    {},
	"x86-64-v1": {},
	"x86-64-v2": {"sse3", "ssse3", "sse4.1", "sse4.2", "popcnt"},
	"x86-64-v3": {"sse3", "ssse3", "sse4.1", "sse4.2", "popcnt", "avx", "avx2", "bmi", "bmi2", "lzcnt", "movbe", "fma"},
	"x86-64-v4": {"sse3", "ssse3", "sse4.1", "sse4.2", "popcnt", "avx", "avx2", "bmi", "bmi2", "lzcnt", "movbe", "fma", "avx512f", "avx512bw", "avx512cd", "avx512dq", "avx512vl"},
}

// arm64 microarchitecture levels as exposed by GOARM64 (Go 1.21+).
var arm64Levels = map[variant.CpuModel][]variant.FeatureToken{
	"armv8.0-a": {},
	"armv8.1-a": {"lse"},
	"armv8.2-a": {"lse", "crypto"},
	"armv9.0-a": {"lse", "crypto", "sve"},
}

// CpuFeaturesForModel is the compiler-query expansion function required by
// spec §3/§4.1: `cpu_features(triple, cpu_model) -> FeatureSet`. It returns
// an error for unknown CPU models, the Go-native equivalent of rustc
// rejecting an invalid -Ctarget-cpu value.
func CpuFeaturesForModel(triple variant.Triple, model variant.CpuModel) (variant.FeatureSet, error) {
	var table map[variant.CpuModel][]variant.FeatureToken
	switch triple.Architecture() {
	case "amd64":
		table = x86_64Levels
	case "arm64":
		table = arm64Levels
	default:
		return variant.FeatureSet{}, fmt.Errorf("toolchain: no known CPU models for architecture %q", triple.Architecture())
	}

	tokens, ok := table[model]
	if !ok {
		return variant.FeatureSet{}, fmt.Errorf("toolchain: unknown CPU model %q for architecture %q", model, triple.Architecture())
	}
	return variant.NewFeatureSet(tokens...), nil
}

// GoAmd64Level picks the narrowest GOAMD64 level (v1..v4) whose implied
// feature set is a superset of fs. This is the Compiler Driver's
// translation of a FeatureSet into "the compiler target-feature flag"
// (spec §4.2 step 1) for amd64 targets: Go has no per-token
// -Ctarget-feature, only these four discrete levels.
func GoAmd64Level(fs variant.FeatureSet) string {
	for _, level := range []variant.CpuModel{"x86-64-v1", "x86-64-v2", "x86-64-v3", "x86-64-v4"} {
		implied := variant.NewFeatureSet(x86_64Levels[level]...)
		if fs.IsSubsetOf(implied) {
			return strings.TrimPrefix(string(level), "x86-64-")
		}
	}
	return "v1"
}

// GoArm64Level is GoAmd64Level's arm64 counterpart: it returns the GOARM64
// spelling of the level ("v8.0".."v9.0").
func GoArm64Level(fs variant.FeatureSet) string {
	for _, level := range []variant.CpuModel{"armv8.0-a", "armv8.1-a", "armv8.2-a", "armv9.0-a"} {
		implied := variant.NewFeatureSet(arm64Levels[level]...)
		if fs.IsSubsetOf(implied) {
			return strings.TrimSuffix(strings.TrimPrefix(string(level), "arm"), "-a")
		}
	}
	return "v8.0"
}
