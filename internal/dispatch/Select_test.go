package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectFiltersUnsupportedVariants(t *testing.T) {
	fb := RawFatBin{
		Patches: []RawPatchEntry{
			{Tokens: []string{"avx512f", "avx512vl", "avx512dq", "avx512bw"}},
			{Tokens: []string{"avx", "avx2", "bmi2"}},
		},
	}
	host := map[string]bool{"avx": true, "avx2": true, "bmi2": true, "sse4.2": true}

	got := Select(fb, host)
	if hasRankingTable {
		assert.Equal(t, 1, got.Index, "avx512 variant must be filtered out when the host lacks it")
	} else {
		assert.True(t, got.IsFallback())
	}
}

func TestSelectFallsBackWhenNothingRetained(t *testing.T) {
	fb := RawFatBin{
		Patches: []RawPatchEntry{
			{Tokens: []string{"avx512f"}},
		},
	}
	got := Select(fb, map[string]bool{})
	assert.True(t, got.IsFallback())
}

func TestSelectPrefersHigherLevel(t *testing.T) {
	if !hasRankingTable {
		t.Skip("ranking table only exists on amd64")
	}
	fb := RawFatBin{
		Patches: []RawPatchEntry{
			{Tokens: []string{"sse4.2", "popcnt"}},
			{Tokens: []string{"avx", "avx2"}},
		},
	}
	host := map[string]bool{"sse4.2": true, "popcnt": true, "avx": true, "avx2": true}
	got := Select(fb, host)
	assert.Equal(t, 1, got.Index)
}
