package term

import (
	"math/big"
	"sort"

	"github.com/ericr/mbp/occurrence"
)

// ConstMarker is the sentinel Var value a Monomial uses for its constant
// term, the leading constant monomial to skip when iterating a
// polynomial's variables.
const ConstMarker = occurrence.Occurrence(-2)

// Monomial is a single rational-weighted term in a Polynomial: Coeff * Var,
// or just Coeff when Var == ConstMarker.
type Monomial struct {
	Coeff *big.Rat
	Var   occurrence.Occurrence
}

// Polynomial is a sum of monomials over distinct variables, normalized:
// sorted by variable index, no duplicate variables, no zero coefficients,
// and the constant monomial (if any) always first.
type Polynomial struct {
	Monomials []Monomial
}

// normalizePoly merges duplicate variables, drops zero-coefficient terms,
// and sorts the result so hash-consing and hashing are deterministic.
func normalizePoly(ms []Monomial) []Monomial {
	byVar := map[occurrence.Occurrence]*big.Rat{}
	order := []occurrence.Occurrence{}
	for _, m := range ms {
		if _, ok := byVar[m.Var]; !ok {
			order = append(order, m.Var)
			byVar[m.Var] = new(big.Rat)
		}
		byVar[m.Var].Add(byVar[m.Var], m.Coeff)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i] == ConstMarker {
			return true
		}
		if order[j] == ConstMarker {
			return false
		}
		return order[i] < order[j]
	})
	out := make([]Monomial, 0, len(order))
	for _, v := range order {
		c := byVar[v]
		if c.Sign() == 0 {
			continue
		}
		out = append(out, Monomial{Coeff: c, Var: v})
	}
	return out
}

// HasConstant reports whether p carries a leading constant monomial.
func (p Polynomial) HasConstant() bool {
	return len(p.Monomials) > 0 && p.Monomials[0].Var == ConstMarker
}

// Constant returns the constant part of p, or zero if there is none.
func (p Polynomial) Constant() *big.Rat {
	if p.HasConstant() {
		return p.Monomials[0].Coeff
	}
	return new(big.Rat)
}

// VarMonomials returns the non-constant monomials of p, skipping the
// leading constant monomial if any.
func (p Polynomial) VarMonomials() []Monomial {
	if p.HasConstant() {
		return p.Monomials[1:]
	}
	return p.Monomials
}
