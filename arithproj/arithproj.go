// Package arithproj eliminates arithmetic variables from a constraint set
// via model-guided Loos-Weispfenning virtual substitution over linear
// rational arithmetic.
package arithproj

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/ericr/mbp/occurrence"
	"github.com/ericr/mbp/term"
)

// ErrNonLinear is returned when a constraint's argument is not expressible
// as a linear combination of plain arithmetic variables: non-linear
// arithmetic is reported, never approximated.
var ErrNonLinear = errors.New("arithproj: non-linear or malformed arithmetic term")

// ErrUnknownVariable is returned when a constraint mentions a variable that
// was never registered with AddVar.
var ErrUnknownVariable = errors.New("arithproj: variable outside the closed set")

// ErrNotClosed is returned by AddConstraint before CloseVarSet is called.
var ErrNotClosed = errors.New("arithproj: variable set is not closed yet")

// ErrInternal marks an invariant violation: a chosen substitution left a
// constraint evaluating to false under the guiding model. This should be
// unreachable given a consistent model and linear constraints; it exists
// so a bug fails loudly instead of silently dropping an unsound literal.
var ErrInternal = errors.New("arithproj: substitution produced an unsatisfied constraint")

type varInfo struct {
	toElim bool
	value  *big.Rat
}

type constraint struct {
	poly   *linExpr
	eq     bool // p = 0
	neq    bool // p != 0 (negated equality)
	strict bool // p > 0 (negated Ge already normalized to this poly)
	index  int
}

// Projector accumulates a closed variable set and a constraint set, then
// eliminates the to-eliminate variables one at a time via virtual
// substitution guided by the model values supplied through AddVar.
type Projector struct {
	store  *term.Store
	vars   map[occurrence.Occurrence]*varInfo
	order  []occurrence.Occurrence
	closed bool

	constraints []*constraint
	nextIndex   int
}

// New returns an empty ArithProjector over store.
func New(store *term.Store) *Projector {
	return &Projector{store: store, vars: map[occurrence.Occurrence]*varInfo{}}
}

// AddVar registers x (an arithmetic uninterpreted constant) with its model
// value. toElim marks x as an EVar to be eliminated; false marks it a
// member of ArithVarsToKeep/ArithVars, present only to supply a model value
// other variables' bounds may be evaluated against.
func (p *Projector) AddVar(x occurrence.Occurrence, toElim bool, value *big.Rat) {
	if _, exists := p.vars[x]; !exists {
		p.order = append(p.order, x)
	}
	p.vars[x] = &varInfo{toElim: toElim, value: new(big.Rat).Set(value)}
}

// CloseVarSet marks the variable set closed. AddConstraint refuses to run
// before this is called; AddVar does not check it, so a variable can still
// be registered afterwards.
func (p *Projector) CloseVarSet() {
	p.closed = true
}

// AddConstraint normalizes lit (an ArithmeticEqAtom/GeAtom/BinEqAtom
// occurrence, any polarity) to an internal p ⋈ 0 constraint and records it.
func (p *Projector) AddConstraint(lit occurrence.Occurrence) error {
	if !p.closed {
		return ErrNotClosed
	}
	c, err := p.normalize(lit)
	if err != nil {
		return err
	}
	c.index = p.nextIndex
	p.nextIndex++
	p.constraints = append(p.constraints, c)
	return nil
}

func (p *Projector) normalize(lit occurrence.Occurrence) (*constraint, error) {
	pos := lit.Pos()
	negated := lit.Sign()

	switch p.store.Kind(pos) {
	case term.KindArithEqAtom:
		e, err := p.exprFor(p.store.ArithAtomArg(pos))
		if err != nil {
			return nil, err
		}
		if negated {
			return &constraint{poly: e, neq: true}, nil
		}
		return &constraint{poly: e, eq: true}, nil

	case term.KindArithGeAtom:
		e, err := p.exprFor(p.store.ArithAtomArg(pos))
		if err != nil {
			return nil, err
		}
		if negated {
			// not (p >= 0)  <=>  -p > 0
			return &constraint{poly: e.scale(big.NewRat(-1, 1)), strict: true}, nil
		}
		return &constraint{poly: e}, nil

	case term.KindArithBinEqAtom:
		a, b := p.store.ArithBinEqArgs(pos)
		ea, err := p.exprFor(a)
		if err != nil {
			return nil, err
		}
		eb, err := p.exprFor(b)
		if err != nil {
			return nil, err
		}
		diff := ea.add(eb.scale(big.NewRat(-1, 1)))
		if negated {
			return &constraint{poly: diff, neq: true}, nil
		}
		return &constraint{poly: diff, eq: true}, nil

	default:
		return nil, errors.Wrapf(ErrNonLinear, "kind %s is not an arithmetic literal", p.store.Kind(pos))
	}
}

func (p *Projector) exprFor(o occurrence.Occurrence) (*linExpr, error) {
	e, err := linExprFromArg(p.store, o)
	if err != nil {
		return nil, err
	}
	for v := range e.coeffs {
		if _, ok := p.vars[v]; !ok {
			return nil, errors.Wrapf(ErrUnknownVariable, "variable %s", p.store.String(v))
		}
	}
	return e, nil
}

// modelValues snapshots the current model values of every registered
// variable, used to evaluate candidate slack.
func (p *Projector) modelValues() map[occurrence.Occurrence]*big.Rat {
	out := make(map[occurrence.Occurrence]*big.Rat, len(p.vars))
	for v, info := range p.vars {
		out[v] = info.value
	}
	return out
}

// Eliminate runs one virtual-substitution step per to-eliminate variable,
// in AddVar insertion order, folding the result into the residual
// constraint set.
func (p *Projector) Eliminate() error {
	values := p.modelValues()
	for _, x := range p.order {
		info := p.vars[x]
		if !info.toElim {
			continue
		}
		if err := p.eliminateVar(x, values); err != nil {
			return err
		}
	}
	return nil
}

func (p *Projector) eliminateVar(x occurrence.Occurrence, values map[occurrence.Occurrence]*big.Rat) error {
	var eqCandidate *candidate
	var tightestLower, tightestUpper *candidate
	for _, c := range p.constraints {
		if c.neq || !c.poly.hasVar(x) {
			continue
		}
		coeff := c.poly.coeffOf(x)
		rest := c.poly.withoutVar(x)
		t := rest.scale(new(big.Rat).Neg(new(big.Rat).Inv(coeff)))

		// An equality constraint pins x's value exactly: it is always used
		// over any inequality bound, however large that bound's slack,
		// since it needs no case analysis and loses no information. Among
		// several equalities the earliest inserted one wins.
		if c.eq {
			if eqCandidate == nil || c.index < eqCandidate.index {
				eqCandidate = &candidate{term: t, index: c.index}
			}
			continue
		}

		modelT, err := t.evaluate(values)
		if err != nil {
			return err
		}
		modelX := values[x]

		var slack *big.Rat
		if coeff.Sign() > 0 {
			slack = new(big.Rat).Sub(modelX, modelT)
			cand := &candidate{term: t, slack: slack, index: c.index}
			tightestLower = tighterOf(tightestLower, cand)
		} else {
			slack = new(big.Rat).Sub(modelT, modelX)
			cand := &candidate{term: t, slack: slack, index: c.index}
			tightestUpper = tighterOf(tightestUpper, cand)
		}
	}

	var chosen *linExpr
	switch {
	case eqCandidate != nil:
		chosen = eqCandidate.term
	case tightestLower != nil || tightestUpper != nil:
		// Within one bound direction, every candidate but the tightest
		// (smallest-slack) one is infeasible: substituting a looser bound
		// would falsify the tighter bound of the same direction once x is
		// gone (x >= 1 and x >= 3 under x = 5 must substitute x := 3, the
		// tighter of the two, never x := 1). Once each direction is reduced
		// to its single feasible candidate, the largest-slack tie-break
		// decides between the (at most two) survivors.
		h := newCandidateHeap()
		if tightestLower != nil {
			h.push(*tightestLower)
		}
		if tightestUpper != nil {
			h.push(*tightestUpper)
		}
		chosen = h.pop().term
	default:
		chosen = constLinExpr(values[x])
	}

	next := make([]*constraint, 0, len(p.constraints))
	for _, c := range p.constraints {
		if !c.poly.hasVar(x) {
			next = append(next, c)
			continue
		}
		merged := c.poly.substituteVar(x, chosen)
		next = append(next, &constraint{poly: merged, eq: c.eq, neq: c.neq, strict: c.strict, index: c.index})
	}
	p.constraints = next
	delete(values, x)
	return nil
}

// tighterOf returns whichever of best and cand has the smaller model slack
// (earliest insertion index breaking a tie), treating a nil best as losing
// unconditionally. Used to find the single feasible bound within one
// direction (all lower bounds, or all upper bounds) before the cross-
// direction largest-slack tie-break runs.
func tighterOf(best, cand *candidate) *candidate {
	if best == nil {
		return cand
	}
	if c := cand.slack.Cmp(best.slack); c < 0 || (c == 0 && cand.index < best.index) {
		return cand
	}
	return best
}

// GetFormulaVector rebuilds the residual constraint set as term
// occurrences, dropping any that folded to the true constant and
// de-duplicating atoms that different constraints happened to collapse to
// after elimination (e.g. two bounds on the same eliminated variable both
// reducing to the same residual once substituted).
func (p *Projector) GetFormulaVector() ([]occurrence.Occurrence, error) {
	out := make([]occurrence.Occurrence, 0, len(p.constraints))
	seen := make(map[occurrence.Occurrence]bool, len(p.constraints))
	for _, c := range p.constraints {
		occ, err := c.toOccurrence(p.store)
		if err != nil {
			return nil, err
		}
		if occ == occurrence.TrueOccurrence {
			continue
		}
		if occ == occurrence.FalseOccurrence {
			return nil, errors.Wrapf(ErrInternal, "constraint index %d", c.index)
		}
		if seen[occ] {
			continue
		}
		seen[occ] = true
		out = append(out, occ)
	}
	return out, nil
}

func (c *constraint) toOccurrence(store *term.Store) (occurrence.Occurrence, error) {
	polyOcc := c.poly.toOccurrence(store)
	switch {
	case c.eq:
		return store.ArithEq(polyOcc), nil
	case c.neq:
		return store.ArithEq(polyOcc).Not(), nil
	case c.strict:
		// p > 0  <=>  not (-p >= 0)
		neg := c.poly.scale(big.NewRat(-1, 1)).toOccurrence(store)
		return store.ArithGe(neg).Not(), nil
	default:
		return store.ArithGe(polyOcc), nil
	}
}
