package internal

// WalkParents follows parent indexes from at until parentOf returns a
// negative index and returns the chain ordered root first.
func WalkParents(at int, parentOf func(int) int) []int {
	chain := []int{at}
	for {
		parent := parentOf(at)
		if parent < 0 {
			break
		}
		chain = append(chain, parent)
		at = parent
	}
	// reverse chain
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	return chain
}
