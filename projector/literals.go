package projector

import "github.com/ericr/mbp/occurrence"

// filterTrue drops any occurrence equal to the reserved true constant,
// preserving order. A rewrite pass can turn a live literal into a
// tautology, and a tautology carries no information forward.
func filterTrue(occs []occurrence.Occurrence) []occurrence.Occurrence {
	out := make([]occurrence.Occurrence, 0, len(occs))
	for _, o := range occs {
		if o == occurrence.TrueOccurrence {
			continue
		}
		out = append(out, o)
	}
	return out
}
