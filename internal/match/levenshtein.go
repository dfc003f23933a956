package match

// distance returns the Levenshtein edit distance between a and b, counted in
// runes. It keeps a single row of the edit matrix.
func distance(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i, ra := range a {
		diag := row[0]
		row[0] = i + 1

		for j, rb := range b {
			cost := 1
			if ra == rb {
				cost = 0
			}

			next := min(row[j+1]+1, row[j]+1, diag+cost)
			diag, row[j+1] = row[j+1], next
		}
	}

	return row[len(b)]
}

// similarity maps the edit distance of a and b to [0, 1], where 1 means equal.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)

	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}

	return 1 - float64(distance(ra, rb))/float64(longest)
}
