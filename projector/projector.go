// Package projector runs the three-phase pipeline (generic elimination,
// arithmetic projection, value-closure) that eliminates a set of
// uninterpreted constants from a cube of literals, guided by a satisfying
// model.
package projector

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/ericr/mbp/arithproj"
	"github.com/ericr/mbp/config"
	"github.com/ericr/mbp/elimsubst"
	"github.com/ericr/mbp/model"
	"github.com/ericr/mbp/occurrence"
	"github.com/ericr/mbp/subst"
	"github.com/ericr/mbp/term"
)

// Projector holds the state of a single projection run: the variable set,
// the surviving EVars, and the two literal buckets the classification
// algorithm partitions AddLiteral's input into.
type Projector struct {
	store *term.Store
	model model.Model
	cfg   *config.Config

	varSet map[occurrence.Occurrence]bool
	evars  []occurrence.Occurrence

	arithVarsToKeepSet map[occurrence.Occurrence]bool
	arithVars          []occurrence.Occurrence

	genLiterals   []occurrence.Occurrence
	arithLiterals []occurrence.Occurrence

	flag Flag
}

// New constructs a Projector over vars (the caller's variables to
// eliminate). Every member of vars must be a positive-polarity
// uninterpreted constant; violating that is a caller bug and panics
// rather than returning an error. If len(vars) exceeds cfg.MaxEvars, New
// still returns a usable Projector, but its flag is pre-set to
// TooManyVars and the returned error mirrors it (Run will short-circuit
// immediately).
func New(mdl model.Model, store *term.Store, vars []occurrence.Occurrence, cfg *config.Config) (*Projector, error) {
	if cfg == nil {
		cfg = config.New()
	}
	p := &Projector{
		store:              store,
		model:              mdl,
		cfg:                cfg,
		varSet:             make(map[occurrence.Occurrence]bool, len(vars)),
		arithVarsToKeepSet: map[occurrence.Occurrence]bool{},
		evars:              append([]occurrence.Occurrence{}, vars...),
	}
	for _, v := range vars {
		if !store.IsUninterpretedConstant(v) {
			panic("projector: vars_to_elim member is not a positive-polarity uninterpreted constant")
		}
		p.varSet[v] = true
	}
	if len(vars) > cfg.MaxEvars {
		p.setError(TooManyVars, errors.Errorf("vars_to_elim has %d entries, limit is %d", len(vars), cfg.MaxEvars))
	}
	cfg.Logf("projector created: vars_to_elim=%d limit=%d", len(vars), cfg.MaxEvars)
	if p.flag.IsError() {
		return p, p.flag
	}
	return p, nil
}

func (p *Projector) setError(kind FlagKind, cause error) {
	if p.flag.IsError() {
		return
	}
	p.flag = Flag{Kind: kind, Err: cause}
	p.cfg.Logf("sticky error set: %s: %v", kind, cause)
}

// AddLiteral classifies t and pushes it into the generic or arithmetic
// literal set.
func (p *Projector) AddLiteral(t occurrence.Occurrence) {
	if p.flag.IsError() {
		return
	}
	pos := t.Pos()
	if !p.store.IsArithmeticLiteral(pos) {
		p.genLiterals = append(p.genLiterals, t)
		if p.cfg.Verbose {
			p.cfg.Logf("classified %s as generic", p.store.String(t))
		}
		return
	}

	switch p.store.Kind(pos) {
	case term.KindArithEqAtom, term.KindArithGeAtom:
		p.processArithArg(p.store.ArithAtomArg(pos))
	case term.KindArithBinEqAtom:
		a, b := p.store.ArithBinEqArgs(pos)
		p.processArithArg(a)
		p.processArithArg(b)
	}
	p.arithLiterals = append(p.arithLiterals, t)
	if p.cfg.Verbose {
		p.cfg.Logf("classified %s as arithmetic", p.store.String(t))
	}
}

// processArithArg skips a constant argument, walks a polynomial's
// variable monomials, or else treats the whole argument as a single
// variable.
func (p *Projector) processArithArg(arg occurrence.Occurrence) {
	switch p.store.Kind(arg) {
	case term.KindArithConstant:
		return
	case term.KindArithPoly:
		for _, mono := range p.store.PolyMonomials(arg) {
			if mono.Var == term.ConstMarker {
				continue
			}
			p.processVar(mono.Var)
		}
	default:
		p.processVar(arg)
	}
}

// processVar validates that x is a plain arithmetic uninterpreted constant
// (erroring with NonLinear otherwise) and, unless x is already a target of
// elimination, registers it in the kept-variable set so its model value is
// available to bound candidates during arithPhase.
func (p *Projector) processVar(x occurrence.Occurrence) {
	if !p.store.IsUninterpretedConstant(x) {
		p.setError(NonLinear, errors.Errorf("term of kind %s is not a plain arithmetic variable", p.store.Kind(x)))
		return
	}
	if p.varSet[x] {
		return
	}
	if !p.arithVarsToKeepSet[x] {
		p.arithVarsToKeepSet[x] = true
		p.arithVars = append(p.arithVars, x)
	}
}

// Run executes the three phases in order, short-circuiting on the first
// sticky error, and appends the residual literals to out on success. out
// is left unmodified on error.
func (p *Projector) Run(out *[]occurrence.Occurrence) Flag {
	if p.flag.IsError() {
		return p.flag
	}

	p.cfg.Logf("phase=generic gen=%d arith=%d evars=%d", len(p.genLiterals), len(p.arithLiterals), len(p.evars))
	p.genericPhase()

	if !p.flag.IsError() {
		p.cfg.Logf("phase=arith arith=%d evars=%d kept=%d", len(p.arithLiterals), len(p.evars), len(p.arithVars))
		p.arithPhase()
	}

	if !p.flag.IsError() {
		p.cfg.Logf("phase=value-closure evars=%d", len(p.evars))
		p.valueClosurePhase()
	}

	if p.flag.IsError() {
		return p.flag
	}
	*out = append(*out, p.genLiterals...)
	*out = append(*out, p.arithLiterals...)
	p.cfg.Logf("run complete: residual=%d", len(p.genLiterals)+len(p.arithLiterals))
	return p.flag
}

// genericPhase eliminates variables that are directly assignable to some
// other term (x = t, with x not occurring in t) by building a substitution
// map and applying it to the remaining generic literals. It never fails:
// TryCheapMap's occurs check plus RemoveCycles guarantee the surviving map
// is acyclic, so Apply cannot report a cycle in practice; that path is
// asserted unreachable with a panic rather than assigned a FlagKind.
func (p *Projector) genericPhase() {
	varsBool := make(map[occurrence.Occurrence]bool, len(p.varSet))
	for x := range p.varSet {
		varsBool[x] = true
	}
	sub := elimsubst.New(p.store, varsBool)
	for _, t := range p.genLiterals {
		sub.TryCheapMap(t)
	}
	sub.RemoveCycles()

	before := len(p.evars)
	newEvars := make([]occurrence.Occurrence, 0, len(p.evars))
	eliminatedAny := false
	for _, x := range p.evars {
		if _, ok := sub.GetMap(x); ok {
			eliminatedAny = true
			continue
		}
		newEvars = append(newEvars, x)
	}
	p.evars = newEvars
	if !eliminatedAny {
		return
	}

	rewritten := make([]occurrence.Occurrence, 0, len(p.genLiterals))
	for _, t := range p.genLiterals {
		r, err := sub.Apply(t)
		if err != nil {
			panic(errors.Wrap(err, "projector: generic elimination produced a residual cycle"))
		}
		rewritten = append(rewritten, r)
	}
	p.genLiterals = filterTrue(rewritten)
	p.cfg.Logf("generic phase eliminated %d evar(s)", before-len(newEvars))
}

// arithPhase hands the arithmetic literals and the variables to eliminate
// to an arithproj.Projector, seeded with model values for both the
// eliminated variables and the surviving arithmetic variables their bounds
// are evaluated against, then rewrites p.arithLiterals to the residual
// vector it returns.
func (p *Projector) arithPhase() {
	ap := arithproj.New(p.store)

	remainingEvars := make([]occurrence.Occurrence, 0, len(p.evars))
	for _, x := range p.evars {
		if !p.store.IsArithmetic(x) {
			remainingEvars = append(remainingEvars, x)
			continue
		}
		val, err := p.rationalValueOf(x)
		if err != nil {
			p.setError(BadArithLiteral, err)
			return
		}
		ap.AddVar(x, true, val)
	}

	for _, v := range p.arithVars {
		val, err := p.rationalValueOf(v)
		if err != nil {
			p.setError(BadArithLiteral, err)
			return
		}
		ap.AddVar(v, false, val)
	}

	ap.CloseVarSet()

	for _, lit := range p.arithLiterals {
		if err := ap.AddConstraint(lit); err != nil {
			p.setError(BadArithLiteral, err)
			return
		}
	}

	if err := ap.Eliminate(); err != nil {
		p.setError(BadArithLiteral, err)
		return
	}

	residual, err := ap.GetFormulaVector()
	if err != nil {
		p.setError(BadArithLiteral, err)
		return
	}

	p.arithLiterals = residual
	p.evars = remainingEvars
}

func (p *Projector) rationalValueOf(x occurrence.Occurrence) (*big.Rat, error) {
	v, err := p.model.Evaluate(x)
	if err != nil {
		return nil, err
	}
	r, err := p.model.RationalValue(v)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// valueClosurePhase substitutes every variable still awaiting elimination
// with its model value directly, closing out any evar the earlier two
// phases could not remove structurally. When no literal is left to
// substitute into, the surviving evars are dropped without being evaluated.
func (p *Projector) valueClosurePhase() {
	if len(p.evars) == 0 {
		return
	}
	if len(p.genLiterals) == 0 && len(p.arithLiterals) == 0 {
		p.evars = nil
		return
	}

	constants := make([]occurrence.Occurrence, len(p.evars))
	for i, x := range p.evars {
		v, err := p.model.Evaluate(x)
		if err != nil {
			p.setError(ErrorInEval, err)
			return
		}
		c, err := valueToConstant(p.store, v)
		if err != nil {
			p.setError(ErrorInConvert, err)
			return
		}
		constants[i] = c
	}

	substitutor := subst.New(p.store, p.evars, constants)

	gen, err := applyAll(substitutor, p.genLiterals)
	if err != nil {
		p.setError(ErrorInSubst, err)
		return
	}
	arith, err := applyAll(substitutor, p.arithLiterals)
	if err != nil {
		p.setError(ErrorInSubst, err)
		return
	}

	p.genLiterals = gen
	p.arithLiterals = arith
	p.evars = nil
}

func applyAll(s *subst.Substitutor, lits []occurrence.Occurrence) ([]occurrence.Occurrence, error) {
	out := make([]occurrence.Occurrence, 0, len(lits))
	for _, t := range lits {
		r, err := s.Apply(t)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return filterTrue(out), nil
}

func valueToConstant(store *term.Store, v model.Value) (occurrence.Occurrence, error) {
	switch v.Kind {
	case model.KindBool:
		return store.BoolConstant(v.B.True()), nil
	case model.KindRat:
		return store.RatConstant(v.Rat), nil
	case model.KindBV:
		return store.BVConstant(v.BV), nil
	default:
		return occurrence.Undef, errors.Errorf("model value kind %d has no term representation", v.Kind)
	}
}

// ProjectLiterals is the one-shot convenience wrapper: build a Projector,
// feed it literals, and run it in one call.
func ProjectLiterals(mdl model.Model, store *term.Store, literals []occurrence.Occurrence, vars []occurrence.Occurrence, cfg *config.Config) ([]occurrence.Occurrence, Flag) {
	p, err := New(mdl, store, vars, cfg)
	if err != nil {
		return nil, p.flag
	}
	for _, t := range literals {
		p.AddLiteral(t)
	}
	var out []occurrence.Occurrence
	flag := p.Run(&out)
	return out, flag
}
