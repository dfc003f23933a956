package match

import (
	"sort"
)

// DefaultThreshold is the minimum similarity a candidate needs to be suggested.
const DefaultThreshold = 0.6

type suggestion struct {
	name  string
	score float64
}

// segmentScore compares two folded segments, taking the better of the plain
// and the suffix-trimmed comparison.
func segmentScore(a, b string) float64 {
	return max(similarity(a, b), similarity(trimSuffix(a), trimSuffix(b)))
}

// keyScore compares two override keys segment by segment and multiplies the
// segment scores, so typos in several segments compound. Keys of different
// depth score 0: "city" is never offered for "address.city".
func keyScore(a, b string) float64 {
	sa, sb := segments(a), segments(b)
	if len(sa) != len(sb) {
		return 0
	}

	score := 1.0
	for i := range sa {
		score *= segmentScore(sa[i], sb[i])
	}

	return score
}

// rank scores every candidate against key and returns those reaching
// threshold, best first. Ties are broken by name.
func rank(key string, candidates []string, threshold float64) []suggestion {
	var out []suggestion

	for _, c := range candidates {
		score := keyScore(key, c)
		if score < threshold {
			continue
		}

		out = append(out, suggestion{name: c, score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}

		return out[i].name < out[j].name
	})

	return out
}

// Closest returns up to limit candidate keys most similar to key. A limit of
// zero or less returns every candidate above DefaultThreshold.
func Closest(key string, candidates []string, limit int) []string {
	ranked := rank(key, candidates, DefaultThreshold)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	names := make([]string, 0, len(ranked))
	for _, s := range ranked {
		names = append(names, s.name)
	}

	return names
}
