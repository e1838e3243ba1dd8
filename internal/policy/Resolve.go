package policy

import (
	"fmt"

	"github.com/poppolopoppo/multiarch/internal/base"
	"github.com/poppolopoppo/multiarch/internal/toolchain"
	"github.com/poppolopoppo/multiarch/internal/variant"
)

// Overrides carries the `--cpus` / `--cpufeatures` CLI flags (spec §4.1's
// CLI-override input). A nil slice means "not supplied"; an empty non-nil
// slice is indistinguishable from nil here, since the override rule only
// ever triggers on a non-empty value.
type Overrides struct {
	Cpus        []variant.CpuModel
	FeatureList []variant.FeatureToken
}

// Resolve implements the Variant Policy Resolver in full: override rule,
// expansion, union, canonical ordering, and the "no variants configured"
// error, exactly per spec §4.1.
func Resolve(cfg Config, overrides Overrides, triple variant.Triple) ([]variant.FeatureSet, error) {
	arch := triple.Architecture()
	archPolicy := cfg.Architectures[arch]

	cpus := archPolicy.Cpus
	if len(overrides.Cpus) > 0 {
		cpus = overrides.Cpus
	}

	featureLists := archPolicy.FeatureLists
	if len(overrides.FeatureList) > 0 {
		featureLists = [][]variant.FeatureToken{overrides.FeatureList}
	}

	var results []variant.FeatureSet
	for _, model := range cpus {
		fs, err := toolchain.CpuFeaturesForModel(triple, model)
		if err != nil {
			return nil, fmt.Errorf("policy: expanding cpu model %q: %w", model, err)
		}
		results = append(results, fs)
		base.LogVerbose(LogPolicy, "cpu model %q expands to %v on %s", model, fs, triple)
	}
	for _, tokens := range featureLists {
		results = append(results, variant.NewFeatureSet(tokens...))
	}

	results = dedupFeatureSets(results)

	if len(results) == 0 {
		return nil, fmt.Errorf("policy: no variants configured for %s (empty cpus and feature_lists, no CLI override supplied)", triple)
	}
	return results, nil
}

// dedupFeatureSets removes duplicate FeatureSets (CPU-model expansion and an
// explicit feature_list entry can legitimately coincide) and canonically
// orders the survivors by specificity, per spec §4.1's "canonically
// ordered" output requirement.
func dedupFeatureSets(in []variant.FeatureSet) []variant.FeatureSet {
	out := make([]variant.FeatureSet, 0, len(in))
	for _, fs := range in {
		dup := false
		for _, seen := range out {
			if seen.Equal(fs) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, fs)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Less(out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
