// Package term implements an immutable, hash-consed term graph. Terms are
// identified by occurrence.Occurrence values; every query strips the
// polarity bit before reading the node it indexes.
package term

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/ericr/mbp/occurrence"
)

type node struct {
	kind    Kind
	name    string
	isArith bool
	rat     *big.Rat
	bv      []bool
	poly    Polynomial
	arg     occurrence.Occurrence
	args    []occurrence.Occurrence
}

// Store is a hash-consed term arena. Node index 0 is reserved for the
// Boolean constant; occurrence.TrueOccurrence/FalseOccurrence refer to it.
// A Store is read-mostly: constructors append to nodes and are not safe to
// call concurrently with any other Store operation.
type Store struct {
	nodes  []node
	byHash map[uint64][]int32
}

// New returns an empty store with the reserved Boolean-constant node
// already installed.
func New() *Store {
	s := &Store{
		nodes:  []node{{kind: KindBoolConstant}},
		byHash: map[uint64][]int32{},
	}
	return s
}

func (s *Store) intern(key string, n node) occurrence.Occurrence {
	h := xxhash.Sum64String(key)
	for _, idx := range s.byHash[h] {
		if s.nodes[idx].kind == n.kind && nodesEqual(s.nodes[idx], n) {
			return occurrence.New(idx, false)
		}
	}
	idx := int32(len(s.nodes))
	s.nodes = append(s.nodes, n)
	s.byHash[h] = append(s.byHash[h], idx)
	return occurrence.New(idx, false)
}

func nodesEqual(a, b node) bool {
	if a.name != b.name || a.isArith != b.isArith || a.arg != b.arg {
		return false
	}
	if (a.rat == nil) != (b.rat == nil) {
		return false
	}
	if a.rat != nil && a.rat.Cmp(b.rat) != 0 {
		return false
	}
	if len(a.bv) != len(b.bv) {
		return false
	}
	for i := range a.bv {
		if a.bv[i] != b.bv[i] {
			return false
		}
	}
	if len(a.args) != len(b.args) {
		return false
	}
	for i := range a.args {
		if a.args[i] != b.args[i] {
			return false
		}
	}
	if len(a.poly.Monomials) != len(b.poly.Monomials) {
		return false
	}
	for i := range a.poly.Monomials {
		if a.poly.Monomials[i].Var != b.poly.Monomials[i].Var ||
			a.poly.Monomials[i].Coeff.Cmp(b.poly.Monomials[i].Coeff) != 0 {
			return false
		}
	}
	return true
}

// UninterpretedConstant returns a fresh uninterpreted constant of the given
// name. isArith selects the arithmetic sort over the Boolean sort; the
// projector core has no use for other sorts.
func (s *Store) UninterpretedConstant(name string, isArith bool) occurrence.Occurrence {
	// Constants are named: the key is the name plus the sort, so repeated
	// lookups (same name, same sort) return the same node while a different
	// name or sort gets a node of its own.
	key := fmt.Sprintf("uc:%s:%v", name, isArith)
	return s.intern(key, node{kind: KindUninterpretedConstant, name: name, isArith: isArith})
}

// BoolConstant returns the reserved occurrence for a Boolean literal.
func (s *Store) BoolConstant(b bool) occurrence.Occurrence {
	if b {
		return occurrence.TrueOccurrence
	}
	return occurrence.FalseOccurrence
}

// IntConstant returns the rational constant v/1.
func (s *Store) IntConstant(v int64) occurrence.Occurrence {
	return s.RatConstant(big.NewRat(v, 1))
}

// RatConstant returns an arithmetic constant term for r.
func (s *Store) RatConstant(r *big.Rat) occurrence.Occurrence {
	cp := new(big.Rat).Set(r)
	key := "rc:" + cp.RatString()
	return s.intern(key, node{kind: KindArithConstant, rat: cp})
}

// BVConstant returns a bitvector constant term. Bit-vector terms are only
// ever carried through, never interpreted by the projector core.
func (s *Store) BVConstant(bits []bool) occurrence.Occurrence {
	cp := append([]bool{}, bits...)
	var sb strings.Builder
	for _, b := range cp {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return s.intern("bv:"+sb.String(), node{kind: KindBVConstant, bv: cp})
}

// Poly builds a normalized polynomial term, folding to a constant or a bare
// variable occurrence when the normalized form collapses to one (a
// polynomial "1*x" is represented as the variable x itself, matching how a
// real term table avoids redundant poly nodes for degenerate sums).
func (s *Store) Poly(monomials []Monomial) occurrence.Occurrence {
	norm := normalizePoly(monomials)
	switch {
	case len(norm) == 0:
		return s.RatConstant(new(big.Rat))
	case len(norm) == 1 && norm[0].Var == ConstMarker:
		return s.RatConstant(norm[0].Coeff)
	case len(norm) == 1 && norm[0].Var != ConstMarker && norm[0].Coeff.Cmp(big.NewRat(1, 1)) == 0:
		return norm[0].Var
	}
	var sb strings.Builder
	sb.WriteString("poly:")
	for _, m := range norm {
		sb.WriteString(m.Coeff.RatString())
		sb.WriteByte('*')
		fmt.Fprintf(&sb, "%d", m.Var)
		sb.WriteByte(';')
	}
	return s.intern(sb.String(), node{kind: KindArithPoly, poly: Polynomial{Monomials: norm}})
}

// ArithEq builds the atom (p = 0), folding to a Boolean constant when p is
// itself a constant.
func (s *Store) ArithEq(p occurrence.Occurrence) occurrence.Occurrence {
	if s.Kind(p) == KindArithConstant {
		return s.BoolConstant(s.RatConstantValue(p).Sign() == 0)
	}
	return s.intern(fmt.Sprintf("aeq:%d", p), node{kind: KindArithEqAtom, arg: p})
}

// ArithGe builds the atom (p >= 0), folding to a Boolean constant when p is
// itself a constant.
func (s *Store) ArithGe(p occurrence.Occurrence) occurrence.Occurrence {
	if s.Kind(p) == KindArithConstant {
		return s.BoolConstant(s.RatConstantValue(p).Sign() >= 0)
	}
	return s.intern(fmt.Sprintf("age:%d", p), node{kind: KindArithGeAtom, arg: p})
}

// ArithBinEq builds the atom (t1 = t2) for two arithmetic terms, folding to
// the true constant when both sides are syntactically identical.
func (s *Store) ArithBinEq(a, b occurrence.Occurrence) occurrence.Occurrence {
	if a == b {
		return occurrence.TrueOccurrence
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return s.intern(fmt.Sprintf("abineq:%d:%d", lo, hi), node{kind: KindArithBinEqAtom, args: []occurrence.Occurrence{lo, hi}})
}

// Ite builds (ite c t e).
func (s *Store) Ite(c, t, e occurrence.Occurrence) occurrence.Occurrence {
	return s.intern(fmt.Sprintf("ite:%d:%d:%d", c, t, e), node{kind: KindIte, args: []occurrence.Occurrence{c, t, e}})
}

// Eq builds (= a b) for non-arithmetic terms, folding to the true constant
// when both sides are syntactically identical (the shape a rewrite leaves
// behind after a variable is substituted by its own equality partner).
func (s *Store) Eq(a, b occurrence.Occurrence) occurrence.Occurrence {
	if a == b {
		return occurrence.TrueOccurrence
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return s.intern(fmt.Sprintf("eq:%d:%d", lo, hi), node{kind: KindEq, args: []occurrence.Occurrence{lo, hi}})
}

// Distinct builds (distinct a1 ... an). It stays a generic literal even
// when every argument is arithmetic.
func (s *Store) Distinct(args []occurrence.Occurrence) occurrence.Occurrence {
	return s.intern("distinct:"+joinOccs(args), node{kind: KindDistinct, args: append([]occurrence.Occurrence{}, args...)})
}

// Or builds (or a1 ... an), folding away false disjuncts and short
// circuiting to the true constant as soon as one disjunct is syntactically
// true (the shape a rewrite leaves behind after a disjunct's variable is
// substituted by its model value).
func (s *Store) Or(args []occurrence.Occurrence) occurrence.Occurrence {
	kept := make([]occurrence.Occurrence, 0, len(args))
	for _, a := range args {
		if a == occurrence.TrueOccurrence {
			return occurrence.TrueOccurrence
		}
		if a == occurrence.FalseOccurrence {
			continue
		}
		kept = append(kept, a)
	}
	switch len(kept) {
	case 0:
		return occurrence.FalseOccurrence
	case 1:
		return kept[0]
	}
	return s.intern("or:"+joinOccs(kept), node{kind: KindOr, args: kept})
}

// Xor builds (xor a1 ... an).
func (s *Store) Xor(args []occurrence.Occurrence) occurrence.Occurrence {
	return s.intern("xor:"+joinOccs(args), node{kind: KindXor, args: append([]occurrence.Occurrence{}, args...)})
}

func joinOccs(args []occurrence.Occurrence) string {
	var sb strings.Builder
	for _, a := range args {
		fmt.Fprintf(&sb, "%d;", a)
	}
	return sb.String()
}
