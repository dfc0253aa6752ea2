package term

import (
	"fmt"
	"math/big"

	"github.com/ericr/mbp/occurrence"
)

func (s *Store) node(o occurrence.Occurrence) *node {
	return &s.nodes[o.Index()]
}

// Kind returns o's kind, after stripping polarity.
func (s *Store) Kind(o occurrence.Occurrence) Kind {
	return s.node(o).kind
}

// Name returns the declared name of an uninterpreted constant.
func (s *Store) Name(o occurrence.Occurrence) string {
	return s.node(o).name
}

// IsUninterpreted reports whether o (any polarity) is an uninterpreted
// constant.
func (s *Store) IsUninterpreted(o occurrence.Occurrence) bool {
	return s.Kind(o) == KindUninterpretedConstant
}

// IsUninterpretedConstant reports whether o is a *positive* occurrence of
// an uninterpreted constant, the shape every member of the elimination set
// must have.
func (s *Store) IsUninterpretedConstant(o occurrence.Occurrence) bool {
	return !o.Sign() && s.IsUninterpreted(o)
}

// IsBoolean reports whether o denotes a Boolean-sorted term.
func (s *Store) IsBoolean(o occurrence.Occurrence) bool {
	switch s.Kind(o) {
	case KindBoolConstant, KindEq, KindArithEqAtom, KindArithGeAtom, KindArithBinEqAtom,
		KindDistinct, KindOr, KindXor:
		return true
	case KindUninterpretedConstant:
		return !s.node(o).isArith
	default:
		return false
	}
}

// IsArithmetic reports whether o denotes an arithmetic-sorted term:
// a constant, a polynomial, or an arithmetic uninterpreted constant.
func (s *Store) IsArithmetic(o occurrence.Occurrence) bool {
	switch s.Kind(o) {
	case KindArithConstant, KindArithPoly:
		return true
	case KindUninterpretedConstant:
		return s.node(o).isArith
	default:
		return false
	}
}

// IsArithmeticLiteral reports whether o is one of the three arithmetic atom
// kinds: ArithEqAtom, ArithGeAtom, ArithBinEqAtom.
func (s *Store) IsArithmeticLiteral(o occurrence.Occurrence) bool {
	return s.Kind(o).isArithAtom()
}

// ArithAtomArg returns the argument of an ArithmeticEqAtom/ArithmeticGeAtom.
func (s *Store) ArithAtomArg(o occurrence.Occurrence) occurrence.Occurrence {
	n := s.node(o)
	if n.kind != KindArithEqAtom && n.kind != KindArithGeAtom {
		panic(fmt.Sprintf("term: ArithAtomArg called on kind %s", n.kind))
	}
	return n.arg
}

// ArithBinEqArgs returns the two sides of an ArithmeticBinEqAtom.
func (s *Store) ArithBinEqArgs(o occurrence.Occurrence) (occurrence.Occurrence, occurrence.Occurrence) {
	n := s.node(o)
	if n.kind != KindArithBinEqAtom {
		panic(fmt.Sprintf("term: ArithBinEqArgs called on kind %s", n.kind))
	}
	return n.args[0], n.args[1]
}

// PolyMonomials returns the monomials of an ArithmeticPolynomial term.
func (s *Store) PolyMonomials(o occurrence.Occurrence) []Monomial {
	n := s.node(o)
	if n.kind != KindArithPoly {
		panic(fmt.Sprintf("term: PolyMonomials called on kind %s", n.kind))
	}
	return n.poly.Monomials
}

// RatConstantValue returns the rational value of an ArithmeticConstant term.
func (s *Store) RatConstantValue(o occurrence.Occurrence) *big.Rat {
	n := s.node(o)
	if n.kind != KindArithConstant {
		panic(fmt.Sprintf("term: RatConstantValue called on kind %s", n.kind))
	}
	return n.rat
}

// BVConstantValue returns the bit pattern of a BVConstant term.
func (s *Store) BVConstantValue(o occurrence.Occurrence) []bool {
	n := s.node(o)
	if n.kind != KindBVConstant {
		panic(fmt.Sprintf("term: BVConstantValue called on kind %s", n.kind))
	}
	return n.bv
}

// DistinctArgs returns the arguments of a Distinct term.
func (s *Store) DistinctArgs(o occurrence.Occurrence) []occurrence.Occurrence {
	n := s.node(o)
	if n.kind != KindDistinct {
		panic(fmt.Sprintf("term: DistinctArgs called on kind %s", n.kind))
	}
	return n.args
}

// OrArgs returns the arguments of an Or term.
func (s *Store) OrArgs(o occurrence.Occurrence) []occurrence.Occurrence {
	n := s.node(o)
	if n.kind != KindOr {
		panic(fmt.Sprintf("term: OrArgs called on kind %s", n.kind))
	}
	return n.args
}

// XorArgs returns the arguments of a Xor term.
func (s *Store) XorArgs(o occurrence.Occurrence) []occurrence.Occurrence {
	n := s.node(o)
	if n.kind != KindXor {
		panic(fmt.Sprintf("term: XorArgs called on kind %s", n.kind))
	}
	return n.args
}

// IteArgs returns (cond, then, else) for an Ite term.
func (s *Store) IteArgs(o occurrence.Occurrence) (occurrence.Occurrence, occurrence.Occurrence, occurrence.Occurrence) {
	n := s.node(o)
	if n.kind != KindIte {
		panic(fmt.Sprintf("term: IteArgs called on kind %s", n.kind))
	}
	return n.args[0], n.args[1], n.args[2]
}

// EqArgs returns (a, b) for a generic Eq term.
func (s *Store) EqArgs(o occurrence.Occurrence) (occurrence.Occurrence, occurrence.Occurrence) {
	n := s.node(o)
	if n.kind != KindEq {
		panic(fmt.Sprintf("term: EqArgs called on kind %s", n.kind))
	}
	return n.args[0], n.args[1]
}

// CompositeArgs returns the child occurrences of any composite kind
// (Ite, Eq, Distinct, Or, Xor, ArithBinEqAtom). Used by elimsubst to
// walk arbitrary generic terms without a type switch at every call site.
func (s *Store) CompositeArgs(o occurrence.Occurrence) []occurrence.Occurrence {
	n := s.node(o)
	switch n.kind {
	case KindIte, KindEq, KindDistinct, KindOr, KindXor, KindArithBinEqAtom:
		return n.args
	default:
		return nil
	}
}

// String renders o for logging/debugging.
func (s *Store) String(o occurrence.Occurrence) string {
	prefix := ""
	if o.Sign() {
		prefix = "(not "
	}
	n := s.node(o.Pos())
	var body string
	switch n.kind {
	case KindBoolConstant:
		body = "true"
	case KindUninterpretedConstant:
		body = n.name
	case KindArithConstant:
		body = n.rat.RatString()
	case KindArithPoly:
		body = fmt.Sprintf("poly(%d terms)", len(n.poly.Monomials))
	case KindArithEqAtom:
		body = fmt.Sprintf("(= %s 0)", s.String(n.arg))
	case KindArithGeAtom:
		body = fmt.Sprintf("(>= %s 0)", s.String(n.arg))
	case KindArithBinEqAtom:
		body = fmt.Sprintf("(= %s %s)", s.String(n.args[0]), s.String(n.args[1]))
	case KindIte:
		body = fmt.Sprintf("(ite %s %s %s)", s.String(n.args[0]), s.String(n.args[1]), s.String(n.args[2]))
	case KindEq:
		body = fmt.Sprintf("(= %s %s)", s.String(n.args[0]), s.String(n.args[1]))
	case KindDistinct:
		body = "(distinct ...)"
	case KindOr:
		body = "(or ...)"
	case KindXor:
		body = "(xor ...)"
	default:
		body = n.kind.String()
	}
	if prefix != "" {
		return prefix + body + ")"
	}
	return body
}
