//go:build amd64

package dispatch

// x86-64 ranking table, lifted verbatim (same tokens/levels/weights) from
// the original's `RANKING` phf::Map (spec §4.6.3). Kept as a plain Go map
// rather than a generated perfect-hash table: this driver's table is small
// and rebuilt at most once per process, so a phf-style build-time lookup
// buys nothing a map literal doesn't already give for free.
var x86RankingTable = map[string]struct{ level, weight int }{
	"sse3":     {2, 1},
	"ssse3":    {2, 2},
	"sse4.1":   {2, 3},
	"popcnt":   {2, 4},
	"sse4.2":   {2, 5},
	"avx":      {3, 1},
	"avx2":     {3, 2},
	"lzcnt":    {3, 2},
	"bmi":      {3, 2},
	"bmi2":     {3, 2},
	"avx512f":  {4, 1},
	"avx512cd": {4, 1},
	"avx512vl": {4, 2},
	"avx512dq": {4, 2},
	"avx512bw": {4, 2},
}

// rankTokens implements spec §4.6.3's fold: bin_level = max level among
// tokens, bin_weight = max weight at that level, bin_count = number of
// tokens tied at that (level, weight). Tokens with no ranking-table entry
// (a FeatureToken unknown to this architecture's table) are ignored for
// ranking purposes but were already required to pass the filtering stage.
func rankTokens(tokens []string) (level, weight, count int) {
	for _, t := range tokens {
		entry, ok := x86RankingTable[t]
		if !ok {
			continue
		}
		switch {
		case entry.level > level:
			level, weight, count = entry.level, entry.weight, 1
		case entry.level == level && entry.weight > weight:
			weight, count = entry.weight, 1
		case entry.level == level && entry.weight == weight:
			count++
		}
	}
	return
}

// hasRankingTable reports whether this architecture can rank variants at
// all; amd64 always can.
const hasRankingTable = true
