package policy

import (
	"testing"

	"github.com/poppolopoppo/multiarch/internal/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExpandsAndUnions(t *testing.T) {
	cfg := Config{Architectures: map[string]ArchPolicy{
		"amd64": {
			Cpus:         []variant.CpuModel{"x86-64-v2"},
			FeatureLists: [][]variant.FeatureToken{{"avx512f"}},
		},
	}}
	triple := variant.Triple{Arch: "amd64", OS: "linux"}

	got, err := Resolve(cfg, Overrides{}, triple)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Less(got[1]) || got[0].Equal(got[1]))
}

func TestResolveCliOverrideReplacesCpus(t *testing.T) {
	cfg := Config{Architectures: map[string]ArchPolicy{
		"amd64": {Cpus: []variant.CpuModel{"x86-64-v4"}},
	}}
	triple := variant.Triple{Arch: "amd64", OS: "linux"}

	got, err := Resolve(cfg, Overrides{Cpus: []variant.CpuModel{"x86-64-v2"}}, triple)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Contains("sse4.2"))
	assert.False(t, got[0].Contains("avx512f"))
}

func TestResolveCliOverrideReplacesFeatureList(t *testing.T) {
	cfg := Config{Architectures: map[string]ArchPolicy{
		"amd64": {FeatureLists: [][]variant.FeatureToken{{"avx"}, {"avx2"}}},
	}}
	triple := variant.Triple{Arch: "amd64", OS: "linux"}

	got, err := Resolve(cfg, Overrides{FeatureList: []variant.FeatureToken{"sse4.2"}}, triple)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, variant.NewFeatureSet("sse4.2"), got[0])
}

func TestResolveNoVariantsConfiguredError(t *testing.T) {
	triple := variant.Triple{Arch: "amd64", OS: "linux"}
	_, err := Resolve(Config{Architectures: map[string]ArchPolicy{}}, Overrides{}, triple)
	require.Error(t, err)
}

func TestResolvePolicyScopedToCurrentArchitecture(t *testing.T) {
	cfg := Config{Architectures: map[string]ArchPolicy{
		"arm64": {Cpus: []variant.CpuModel{"armv8.1-a"}},
	}}
	triple := variant.Triple{Arch: "amd64", OS: "linux"}
	_, err := Resolve(cfg, Overrides{}, triple)
	require.Error(t, err, "an arm64-only policy must not leak into an amd64 resolve")
}
