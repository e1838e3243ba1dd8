package dispatch

import (
	"github.com/klauspost/cpuid/v2"
)

// DetectHostFeatures builds the HostFeatures token set spec §4.6.1 asks
// for, via klauspost/cpuid/v2's in-process CPUID wrapper on x86/x86_64 and
// its ARM feature-register equivalent elsewhere. The token spelling matches
// the lowercase, dot-separated style the Policy Resolver and Compiler
// Driver already use ("sse4.2", not cpuid's "SSE42").
func DetectHostFeatures() map[string]bool {
	features := map[string]bool{}
	for _, feat := range cpuid.CPU.FeatureSet() {
		if token, ok := cpuidFeatureToken(feat); ok {
			features[token] = true
		}
	}
	return features
}

// cpuidFeatureToken translates one cpuid.FeatureID name to this driver's
// FeatureToken spelling. The x86 ranking-table tokens (ranking_amd64.go)
// are mapped, plus movbe and fma, which x86-64-v3/v4 expansion emits but
// the ranking table does not rank. Anything else is dropped, so a variant
// declaring an unmapped token never passes filtering; no arm64 tokens are
// mapped.
func cpuidFeatureToken(cpuidName string) (string, bool) {
	switch cpuidName {
	case "SSE3":
		return "sse3", true
	case "SSSE3":
		return "ssse3", true
	case "SSE4":
		return "sse4.1", true
	case "SSE42":
		return "sse4.2", true
	case "POPCNT":
		return "popcnt", true
	case "AVX":
		return "avx", true
	case "AVX2":
		return "avx2", true
	case "BMI1":
		return "bmi", true
	case "BMI2":
		return "bmi2", true
	case "LZCNT":
		return "lzcnt", true
	case "MOVBE":
		return "movbe", true
	case "FMA3":
		return "fma", true
	case "AVX512F":
		return "avx512f", true
	case "AVX512CD":
		return "avx512cd", true
	case "AVX512VL":
		return "avx512vl", true
	case "AVX512DQ":
		return "avx512dq", true
	case "AVX512BW":
		return "avx512bw", true
	default:
		return "", false
	}
}
