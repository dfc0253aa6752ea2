package term

// Kind tags the variant a node belongs to. Only the kinds the projector
// core needs to distinguish are modeled; bit-vector kinds are carried
// through as opaque pass-through nodes.
type Kind uint8

const (
	// KindUninterpretedConstant is a free constant, either of the Boolean
	// sort or of the arithmetic sort.
	KindUninterpretedConstant Kind = iota
	// KindBoolConstant is the reserved true/false node.
	KindBoolConstant
	// KindArithConstant is a rational literal.
	KindArithConstant
	// KindArithPoly is a sum of rational-weighted monomials over variables.
	KindArithPoly
	// KindArithEqAtom is (p = 0).
	KindArithEqAtom
	// KindArithGeAtom is (p >= 0).
	KindArithGeAtom
	// KindArithBinEqAtom is (t1 = t2) for two arithmetic terms.
	KindArithBinEqAtom
	// KindIte is (ite c t e).
	KindIte
	// KindEq is (= a b) for non-arithmetic terms.
	KindEq
	// KindDistinct is (distinct a1 ... an).
	KindDistinct
	// KindOr is (or a1 ... an).
	KindOr
	// KindXor is (xor a1 ... an).
	KindXor
	// KindBVConstant is a bitvector literal, pass-through only.
	KindBVConstant
	// KindBVTerm is any other bitvector composite, pass-through only.
	KindBVTerm
)

// String implements the Stringer interface for diagnostics and log lines.
func (k Kind) String() string {
	switch k {
	case KindUninterpretedConstant:
		return "uninterpreted-constant"
	case KindBoolConstant:
		return "bool-constant"
	case KindArithConstant:
		return "arith-constant"
	case KindArithPoly:
		return "arith-poly"
	case KindArithEqAtom:
		return "arith-eq-atom"
	case KindArithGeAtom:
		return "arith-ge-atom"
	case KindArithBinEqAtom:
		return "arith-bineq-atom"
	case KindIte:
		return "ite"
	case KindEq:
		return "eq"
	case KindDistinct:
		return "distinct"
	case KindOr:
		return "or"
	case KindXor:
		return "xor"
	case KindBVConstant:
		return "bv-constant"
	case KindBVTerm:
		return "bv-term"
	default:
		return "unknown-kind"
	}
}

// isArithAtom reports the three kinds the projector routes to its
// arithmetic literal set rather than its generic one.
func (k Kind) isArithAtom() bool {
	switch k {
	case KindArithEqAtom, KindArithGeAtom, KindArithBinEqAtom:
		return true
	default:
		return false
	}
}
