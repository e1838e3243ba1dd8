//go:build !amd64 && !arm64

package dispatch

// Fallback build for architectures this driver has no ranking table for.
// "Architectures without a ranking table select 'none'" (spec §4.6.3): the
// generic Select path (Select.go) already reads hasRankingTable to skip straight
// to the fallback, so rankTokens here is never actually called; it exists
// only so the package compiles uniformly across GOARCH.
func rankTokens(tokens []string) (level, weight, count int) {
	return 0, 0, 0
}

const hasRankingTable = false
