//go:build arm64

package dispatch

// arm64 has no equivalent microarchitecture-level ranking table in the
// original implementation (spec §4.6.3: "architectures without a ranking
// table select 'none'"). Select reads hasRankingTable first and returns the
// fallback without filtering or ranking any entry, so rankTokens here is
// never called; it exists only so the package compiles uniformly.
func rankTokens(tokens []string) (level, weight, count int) {
	return 0, 0, 0
}

const hasRankingTable = false
