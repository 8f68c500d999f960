package pattern

// SmoothBoundaries runs majority-vote relaxation over the triangle
// adjacency graph to knock the jaggies off cluster boundaries.
//
// Each pass inspects every boundary triangle (one whose neighbors span
// more than one label), tallies neighbor labels with a weight-of-2 vote
// for the triangle's own label, and reassigns to the winner. The self
// vote biases toward stability and settles ties in favor of the current
// label. Votes are tallied against a frozen copy of the assignments so a
// pass cannot propagate its own reassignments order-dependently.
func SmoothBoundaries(cp *checkpoint, adj *Adjacency, assignment ClusterAssignment, k, passes int) error {
	if passes <= 0 {
		return nil
	}

	snapshot := make(ClusterAssignment, len(assignment))
	votes := make([]int, k)

	for pass := 0; pass < passes; pass++ {
		if err := cp.yield(); err != nil {
			return err
		}
		copy(snapshot, assignment)

		for t := range snapshot {
			if t%yieldEvery == 0 && t > 0 {
				if err := cp.yield(); err != nil {
					return err
				}
			}

			neighbors := adj.Neighbors(int32(t))
			current := snapshot[t]
			boundary := false
			for _, nb := range neighbors {
				if snapshot[nb] != current {
					boundary = true
					break
				}
			}
			if !boundary {
				continue
			}

			for c := range votes {
				votes[c] = 0
			}
			for _, nb := range neighbors {
				votes[snapshot[nb]]++
			}
			votes[current] += 2

			winner := current
			for c, v := range votes {
				if v > votes[winner] {
					winner = c
				}
			}
			assignment[t] = winner
		}
	}
	return nil
}
