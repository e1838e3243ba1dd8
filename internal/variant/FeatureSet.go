// Package variant holds the core data model: the pure-value types that
// flow between the Policy Resolver, the Compiler Driver, the Deduplicator
// and the Patch/Pack Builder. Nothing in here touches a filesystem or a
// subprocess; it is kept as simple and dependency-free as the original
// cargo_config_loader.rs's CpuFeatures type, grounded on
// internal/base/Containers.go's SetT and SortedUniq for the dedup/ordering
// helpers.
package variant

import (
	"github.com/poppolopoppo/multiarch/internal/base"
)

// FeatureToken is a short, case-sensitive CPU capability identifier such as
// "avx2" or "bmi2". Compared as raw bytes, never case-folded.
type FeatureToken string

// FeatureSet is a canonically ordered, deduplicated set of FeatureTokens.
// Two FeatureSets are equal iff they contain the same tokens; the zero
// value is the empty set, which is the fallback variant's feature set.
type FeatureSet struct {
	tokens base.SetT[FeatureToken]
}

// NewFeatureSet builds a canonical FeatureSet: tokens are deduplicated and
// sorted lexicographically, matching invariant 1 of the data model.
func NewFeatureSet(tokens ...FeatureToken) FeatureSet {
	sorted := base.SortedUniq(tokens,
		func(a, b FeatureToken) bool { return a < b },
		func(a, b FeatureToken) bool { return a == b },
	)
	return FeatureSet{tokens: base.SetT[FeatureToken](sorted)}
}

func (fs FeatureSet) Tokens() []FeatureToken {
	return fs.tokens.Slice()
}

func (fs FeatureSet) Len() int { return fs.tokens.Len() }

func (fs FeatureSet) Empty() bool { return fs.tokens.Len() == 0 }

func (fs FeatureSet) Contains(t FeatureToken) bool {
	return fs.tokens.Contains(t)
}

// IsSubsetOf reports whether every token in fs is also present in other --
// the test the dispatcher's filtering stage (spec §4.6.2) performs between a
// candidate variant's FeatureSet and the host's detected features.
func (fs FeatureSet) IsSubsetOf(other FeatureSet) bool {
	for _, t := range fs.tokens {
		if !other.Contains(t) {
			return false
		}
	}
	return true
}

// Equal implements the data model's "same tokens" equality, independent of
// construction order since both sides are already canonical.
func (fs FeatureSet) Equal(other FeatureSet) bool {
	if len(fs.tokens) != len(other.tokens) {
		return false
	}
	for i, t := range fs.tokens {
		if other.tokens[i] != t {
			return false
		}
	}
	return true
}

// Union merges two FeatureSets into a new canonical FeatureSet.
func (fs FeatureSet) Union(other FeatureSet) FeatureSet {
	merged := base.NewSet(fs.tokens.Slice()...)
	merged.AppendUniq(other.tokens.Slice()...)
	return NewFeatureSet(merged.Slice()...)
}

// Less gives FeatureSets a total, deterministic order: by length first (so
// that sorting a collection of FeatureSets groups by specificity), then
// lexicographically by joined token string. Used to canonically order the
// Policy Resolver's output and to break ties while sorting.
func (fs FeatureSet) Less(other FeatureSet) bool {
	if len(fs.tokens) != len(other.tokens) {
		return len(fs.tokens) < len(other.tokens)
	}
	return fs.String() < other.String()
}

func (fs FeatureSet) String() string {
	return base.JoinString(",", fs.tokens...)
}

// ToCompilerFlag builds the Go-toolchain equivalent of
// CpuFeatures::to_compiler_flags: an empty string for the fallback, or a
// comma-joined token list otherwise. The Compiler Driver further maps this
// onto GOAMD64/GOARM64 (see internal/toolchain), since Go has no per-token
// -Ctarget-feature equivalent.
func (fs FeatureSet) ToCompilerFlag() string {
	return fs.String()
}

// ScratchBasename is the stable per-variant name the Compiler Driver copies
// its produced executable under, mirroring compile_multiarch.rs's
// `format!("bin-{}", cpu_features.iter().join("_"))`.
func (fs FeatureSet) ScratchBasename() string {
	if fs.Empty() {
		return "bin-default"
	}
	return "bin-" + base.JoinString("_", fs.tokens...)
}
