package arithproj

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/ericr/mbp/occurrence"
	"github.com/ericr/mbp/term"
)

// linExpr is a linear expression over arithmetic variables, the internal
// representation arithproj rewrites during virtual substitution. It is the
// same information a term.Polynomial carries, kept as a mutable map so
// elimination can add/scale/merge terms without re-normalizing through the
// term store on every intermediate step.
type linExpr struct {
	coeffs map[occurrence.Occurrence]*big.Rat
	konst  *big.Rat
}

func newLinExpr() *linExpr {
	return &linExpr{coeffs: map[occurrence.Occurrence]*big.Rat{}, konst: new(big.Rat)}
}

// linExprFromArg reads a TermStore arithmetic term (a constant, a bare
// variable, or a polynomial) into a linExpr. It returns ErrNonLinear for
// anything else: this term model has no way to express a genuinely
// non-linear term, so any monomial variable that is not itself a plain
// uninterpreted constant indicates a malformed arithmetic argument.
func linExprFromArg(store *term.Store, o occurrence.Occurrence) (*linExpr, error) {
	e := newLinExpr()
	switch store.Kind(o) {
	case term.KindArithConstant:
		e.konst.Add(e.konst, store.RatConstantValue(o))
	case term.KindUninterpretedConstant:
		e.coeffs[o] = big.NewRat(1, 1)
	case term.KindArithPoly:
		for _, mono := range store.PolyMonomials(o) {
			if mono.Var == term.ConstMarker {
				e.konst.Add(e.konst, mono.Coeff)
				continue
			}
			if store.Kind(mono.Var) != term.KindUninterpretedConstant {
				return nil, errors.Wrapf(ErrNonLinear, "polynomial variable %s is not a plain constant", store.String(mono.Var))
			}
			c := new(big.Rat).Set(mono.Coeff)
			if prev, ok := e.coeffs[mono.Var]; ok {
				c.Add(c, prev)
			}
			e.coeffs[mono.Var] = c
		}
	default:
		return nil, errors.Wrapf(ErrNonLinear, "term of kind %s is not an arithmetic expression", store.Kind(o))
	}
	return e, nil
}

func (e *linExpr) clone() *linExpr {
	out := newLinExpr()
	out.konst.Set(e.konst)
	for v, c := range e.coeffs {
		out.coeffs[v] = new(big.Rat).Set(c)
	}
	return out
}

func (e *linExpr) coeffOf(x occurrence.Occurrence) *big.Rat {
	if c, ok := e.coeffs[x]; ok {
		return c
	}
	return new(big.Rat)
}

func (e *linExpr) hasVar(x occurrence.Occurrence) bool {
	c, ok := e.coeffs[x]
	return ok && c.Sign() != 0
}

// withoutVar returns a copy of e with x's monomial dropped entirely.
func (e *linExpr) withoutVar(x occurrence.Occurrence) *linExpr {
	out := e.clone()
	delete(out.coeffs, x)
	return out
}

func (e *linExpr) scale(f *big.Rat) *linExpr {
	out := newLinExpr()
	out.konst.Mul(e.konst, f)
	for v, c := range e.coeffs {
		out.coeffs[v] = new(big.Rat).Mul(c, f)
	}
	return out
}

func (e *linExpr) add(other *linExpr) *linExpr {
	out := e.clone()
	out.konst.Add(out.konst, other.konst)
	for v, c := range other.coeffs {
		if prev, ok := out.coeffs[v]; ok {
			prev.Add(prev, c)
		} else {
			out.coeffs[v] = new(big.Rat).Set(c)
		}
	}
	return out
}

func constLinExpr(v *big.Rat) *linExpr {
	e := newLinExpr()
	e.konst.Set(v)
	return e
}

// substituteVar replaces x's monomial with coeff(x)*t, merged into e.
func (e *linExpr) substituteVar(x occurrence.Occurrence, t *linExpr) *linExpr {
	c := e.coeffOf(x)
	if c.Sign() == 0 {
		return e.clone()
	}
	return e.withoutVar(x).add(t.scale(c))
}

// evaluate folds e under a total assignment of its variables to rational
// model values.
func (e *linExpr) evaluate(values map[occurrence.Occurrence]*big.Rat) (*big.Rat, error) {
	sum := new(big.Rat).Set(e.konst)
	for v, c := range e.coeffs {
		val, ok := values[v]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownVariable, "no model value for %v", v)
		}
		sum.Add(sum, new(big.Rat).Mul(c, val))
	}
	return sum, nil
}

// toOccurrence materializes e as a term.Store polynomial term.
func (e *linExpr) toOccurrence(store *term.Store) occurrence.Occurrence {
	monomials := make([]term.Monomial, 0, len(e.coeffs)+1)
	if e.konst.Sign() != 0 {
		monomials = append(monomials, term.Monomial{Coeff: new(big.Rat).Set(e.konst), Var: term.ConstMarker})
	}
	for v, c := range e.coeffs {
		if c.Sign() == 0 {
			continue
		}
		monomials = append(monomials, term.Monomial{Coeff: new(big.Rat).Set(c), Var: v})
	}
	return store.Poly(monomials)
}
