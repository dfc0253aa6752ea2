// Package model evaluates terms to theory values and exposes rational
// values for arithmetic variables.
package model

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/ericr/mbp/occurrence"
	"github.com/ericr/mbp/term"
)

// ErrUnassigned is wrapped (via github.com/pkg/errors) with the offending
// constant's name whenever Evaluate reaches a leaf with no assignment.
var ErrUnassigned = errors.New("model: uninterpreted constant has no assignment")

// ErrNotRational is returned by RationalValue for a non-arithmetic Value.
var ErrNotRational = errors.New("model: value is not rational")

// ErrUnsupportedKind is returned by Evaluate for term kinds the model does
// not know how to fold (bit-vector composites beyond a bare constant are
// out of scope for the projector core).
var ErrUnsupportedKind = errors.New("model: unsupported term kind")

// Model is the evaluation contract the Projector and its sub-engines
// consume.
type Model interface {
	// Evaluate computes t's value, folding composite terms over the
	// model's leaf assignments.
	Evaluate(t occurrence.Occurrence) (Value, error)
	// RationalValue extracts the rational payload of an arithmetic Value.
	RationalValue(v Value) (*big.Rat, error)
	// Holds reports whether the Boolean term t evaluates to true; used
	// only for debug assertions.
	Holds(t occurrence.Occurrence) bool
}

// MapModel is a concrete, in-memory Model: leaf uninterpreted constants are
// assigned directly, and every composite term is folded recursively over
// those assignments using the same node-id-memoized recursion shape a term
// evaluator elsewhere in the ecosystem uses for expression folding.
type MapModel struct {
	store   *term.Store
	assigns map[occurrence.Occurrence]Value
}

// New returns an empty MapModel over store.
func New(store *term.Store) *MapModel {
	return &MapModel{store: store, assigns: map[occurrence.Occurrence]Value{}}
}

// Assign records x's value. x must be the positive occurrence of an
// uninterpreted constant.
func (m *MapModel) Assign(x occurrence.Occurrence, v Value) {
	m.assigns[x] = v
}

// AssignBool is a convenience wrapper around Assign for Boolean constants.
func (m *MapModel) AssignBool(x occurrence.Occurrence, b bool) {
	m.Assign(x, BoolValue(b))
}

// AssignRat is a convenience wrapper around Assign for arithmetic constants.
func (m *MapModel) AssignRat(x occurrence.Occurrence, r *big.Rat) {
	m.Assign(x, RatValue(r))
}

// Evaluate implements Model.
func (m *MapModel) Evaluate(t occurrence.Occurrence) (Value, error) {
	cache := map[occurrence.Occurrence]Value{}
	v, err := m.evalSigned(t, cache)
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

// evalSigned evaluates o (any polarity), applying the sign to a Boolean
// result. Non-Boolean terms only ever appear with positive polarity, so
// signed evaluation of a non-Boolean value is a no-op.
func (m *MapModel) evalSigned(o occurrence.Occurrence, cache map[occurrence.Occurrence]Value) (Value, error) {
	v, err := m.eval(o.Pos(), cache)
	if err != nil {
		return Value{}, err
	}
	if o.Sign() && v.Kind == KindBool {
		return BoolValue(!v.B.True()), nil
	}
	return v, nil
}

// eval folds a *positive* occurrence, memoizing by node index so shared
// subterms (common under hash-consing) are only evaluated once per call.
func (m *MapModel) eval(o occurrence.Occurrence, cache map[occurrence.Occurrence]Value) (Value, error) {
	if v, ok := cache[o]; ok {
		return v, nil
	}
	v, err := m.evalUncached(o, cache)
	if err != nil {
		return Value{}, err
	}
	cache[o] = v
	return v, nil
}

func (m *MapModel) evalUncached(o occurrence.Occurrence, cache map[occurrence.Occurrence]Value) (Value, error) {
	switch m.store.Kind(o) {
	case term.KindBoolConstant:
		return BoolValue(true), nil

	case term.KindUninterpretedConstant:
		v, ok := m.assigns[o]
		if !ok {
			return Value{}, errors.Wrapf(ErrUnassigned, "constant %q", m.store.Name(o))
		}
		return v, nil

	case term.KindArithConstant:
		return RatValue(m.store.RatConstantValue(o)), nil

	case term.KindBVConstant:
		return BVValue(m.store.BVConstantValue(o)), nil

	case term.KindArithPoly:
		return m.evalPoly(o, cache)

	case term.KindArithEqAtom:
		v, err := m.evalArithArg(o, cache)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(v.Sign() == 0), nil

	case term.KindArithGeAtom:
		v, err := m.evalArithArg(o, cache)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(v.Sign() >= 0), nil

	case term.KindArithBinEqAtom:
		a, b := m.store.ArithBinEqArgs(o)
		va, err := m.evalSigned(a, cache)
		if err != nil {
			return Value{}, err
		}
		vb, err := m.evalSigned(b, cache)
		if err != nil {
			return Value{}, err
		}
		if va.Kind != KindRat || vb.Kind != KindRat {
			return Value{}, errors.Wrap(ErrUnsupportedKind, "arith-bineq operand did not evaluate to a rational")
		}
		return BoolValue(va.Rat.Cmp(vb.Rat) == 0), nil

	case term.KindIte:
		c, t, e := m.store.IteArgs(o)
		cv, err := m.evalSigned(c, cache)
		if err != nil {
			return Value{}, err
		}
		if cv.Kind != KindBool {
			return Value{}, errors.Wrap(ErrUnsupportedKind, "ite condition is not Boolean")
		}
		branch := e
		if cv.B.True() {
			branch = t
		}
		return m.evalSigned(branch, cache)

	case term.KindEq:
		a, b := m.store.EqArgs(o)
		va, err := m.evalSigned(a, cache)
		if err != nil {
			return Value{}, err
		}
		vb, err := m.evalSigned(b, cache)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(va.Equal(vb)), nil

	case term.KindDistinct:
		args := m.store.DistinctArgs(o)
		vals := make([]Value, len(args))
		for i, a := range args {
			v, err := m.evalSigned(a, cache)
			if err != nil {
				return Value{}, err
			}
			vals[i] = v
		}
		for i := 0; i < len(vals); i++ {
			for j := i + 1; j < len(vals); j++ {
				if vals[i].Equal(vals[j]) {
					return BoolValue(false), nil
				}
			}
		}
		return BoolValue(true), nil

	case term.KindOr:
		args := m.store.OrArgs(o)
		for _, a := range args {
			v, err := m.evalSigned(a, cache)
			if err != nil {
				return Value{}, err
			}
			if v.Kind == KindBool && v.B.True() {
				return BoolValue(true), nil
			}
		}
		return BoolValue(false), nil

	case term.KindXor:
		args := m.store.XorArgs(o)
		acc := false
		for _, a := range args {
			v, err := m.evalSigned(a, cache)
			if err != nil {
				return Value{}, err
			}
			if v.Kind == KindBool && v.B.True() {
				acc = !acc
			}
		}
		return BoolValue(acc), nil

	default:
		return Value{}, errors.Wrapf(ErrUnsupportedKind, "kind %s", m.store.Kind(o))
	}
}

func (m *MapModel) evalArithArg(o occurrence.Occurrence, cache map[occurrence.Occurrence]Value) (*big.Rat, error) {
	arg := m.store.ArithAtomArg(o)
	v, err := m.evalSigned(arg, cache)
	if err != nil {
		return nil, err
	}
	if v.Kind != KindRat {
		return nil, errors.Wrap(ErrUnsupportedKind, "arithmetic atom argument did not evaluate to a rational")
	}
	return v.Rat, nil
}

func (m *MapModel) evalPoly(o occurrence.Occurrence, cache map[occurrence.Occurrence]Value) (Value, error) {
	sum := new(big.Rat)
	for _, mono := range m.store.PolyMonomials(o) {
		if mono.Var == term.ConstMarker {
			sum.Add(sum, mono.Coeff)
			continue
		}
		v, err := m.evalSigned(mono.Var, cache)
		if err != nil {
			return Value{}, err
		}
		if v.Kind != KindRat {
			return Value{}, errors.Wrap(ErrUnsupportedKind, "polynomial variable did not evaluate to a rational")
		}
		weighted := new(big.Rat).Mul(mono.Coeff, v.Rat)
		sum.Add(sum, weighted)
	}
	return RatValue(sum), nil
}

// RationalValue implements Model.
func (m *MapModel) RationalValue(v Value) (*big.Rat, error) {
	if v.Kind != KindRat {
		return nil, ErrNotRational
	}
	return v.Rat, nil
}

// Holds implements Model.
func (m *MapModel) Holds(t occurrence.Occurrence) bool {
	v, err := m.Evaluate(t)
	return err == nil && v.Kind == KindBool && v.B.True()
}
