// Package occurrence implements term occurrences: signed indices into a
// term.Store with a polarity bit in the low-order position.
package occurrence

import "fmt"

// Undef denotes the absence of an occurrence, the same way lit.Undef does
// for a CNF literal in a DPLL-style solver.
const Undef = Occurrence(-1)

// TrueOccurrence and FalseOccurrence are the two reserved occurrences that
// denote the Boolean constants. They always refer to node index 0, and are
// complements of each other.
const (
	TrueOccurrence  = Occurrence(0)
	FalseOccurrence = Occurrence(1)
)

// Occurrence is a term occurrence: the sign is held in the least
// significant bit (0 = positive, 1 = negated) and the remaining bits index
// a node in a term.Store. Complementing an occurrence is a single bit
// flip, so t+ and t- are always adjacent when sorted. Non-Boolean terms
// only ever appear with positive polarity.
type Occurrence int64

// New returns the occurrence of node index idx with the given polarity.
func New(idx int32, negated bool) Occurrence {
	if negated {
		return Occurrence(int64(idx)<<1 | 1)
	}
	return Occurrence(int64(idx) << 1)
}

// Not returns the complement of o.
func (o Occurrence) Not() Occurrence {
	return o ^ 1
}

// Sign reports whether o is negated.
func (o Occurrence) Sign() bool {
	return o&1 == 1
}

// Index returns the node index o refers to, discarding polarity.
func (o Occurrence) Index() int32 {
	return int32(o >> 1)
}

// Pos returns the positive occurrence of the same node as o.
func (o Occurrence) Pos() Occurrence {
	return o &^ 1
}

// String implements the Stringer interface.
func (o Occurrence) String() string {
	if o.Sign() {
		return fmt.Sprintf("~t%d", o.Index())
	}
	return fmt.Sprintf("t%d", o.Index())
}
