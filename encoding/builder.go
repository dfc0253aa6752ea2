package encoding

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/ericr/mbp/model"
	"github.com/ericr/mbp/occurrence"
	"github.com/ericr/mbp/term"
)

// Builder lowers parsed Problem text into term-graph occurrences, tracking
// each symbol's sort so repeated references have to agree with its first
// use.
type Builder struct {
	store *term.Store
	syms  map[string]occurrence.Occurrence
	arith map[string]bool
}

// NewBuilder returns a Builder that interns symbols into store.
func NewBuilder(store *term.Store) *Builder {
	return &Builder{store: store, syms: map[string]occurrence.Occurrence{}, arith: map[string]bool{}}
}

func (b *Builder) declare(name string, isArith bool) (occurrence.Occurrence, error) {
	if o, ok := b.syms[name]; ok {
		if b.arith[name] != isArith {
			return occurrence.Undef, errors.Errorf("encoding: symbol %q used with inconsistent sort", name)
		}
		return o, nil
	}
	o := b.store.UninterpretedConstant(name, isArith)
	b.syms[name] = o
	b.arith[name] = isArith
	return o, nil
}

// Symbol returns the occurrence already declared for name, if any.
func (b *Builder) Symbol(name string) (occurrence.Occurrence, bool) {
	o, ok := b.syms[name]
	return o, ok
}

// ApplyModel declares every assignment's symbol (rational for a numeral
// value, Boolean for true/false) and records the assignment in mdl.
func (b *Builder) ApplyModel(assignments []Assignment, mdl *model.MapModel) error {
	for _, a := range assignments {
		switch a.Value {
		case "true", "false":
			o, err := b.declare(a.Name, false)
			if err != nil {
				return err
			}
			mdl.AssignBool(o, a.Value == "true")
		default:
			r, ok := new(big.Rat).SetString(a.Value)
			if !ok {
				return errors.Errorf("encoding: model value %q for %q is neither a rational nor a boolean", a.Value, a.Name)
			}
			o, err := b.declare(a.Name, true)
			if err != nil {
				return err
			}
			mdl.AssignRat(o, r)
		}
	}
	return nil
}

// VarsToElim resolves the declared "v" names to occurrences. Every name
// must already carry a model assignment, so ApplyModel has to run first.
func (b *Builder) VarsToElim(names []string) ([]occurrence.Occurrence, error) {
	out := make([]occurrence.Occurrence, 0, len(names))
	for _, name := range names {
		o, ok := b.syms[name]
		if !ok {
			return nil, errors.Errorf("encoding: var-to-eliminate %q has no model assignment", name)
		}
		out = append(out, o)
	}
	return out, nil
}

// BuildLiteral parses and lowers one "l" line's s-expression text into a
// literal occurrence.
func (b *Builder) BuildLiteral(text string) (occurrence.Occurrence, error) {
	node, err := parseSexpr(text)
	if err != nil {
		return occurrence.Undef, err
	}
	return b.toBool(node)
}

func (b *Builder) toBool(n *sexpr) (occurrence.Occurrence, error) {
	if n.isAtom() {
		switch n.atom {
		case "true":
			return occurrence.TrueOccurrence, nil
		case "false":
			return occurrence.FalseOccurrence, nil
		}
		if o, ok := b.syms[n.atom]; ok {
			if b.arith[n.atom] {
				return occurrence.Undef, errors.Errorf("encoding: %q is an arithmetic symbol, not a Boolean one", n.atom)
			}
			return o, nil
		}
		return b.declare(n.atom, false)
	}
	if len(n.list) == 0 {
		return occurrence.Undef, errors.New("encoding: empty list is not a literal")
	}
	head, args := n.list[0], n.list[1:]
	if !head.isAtom() {
		return occurrence.Undef, errors.New("encoding: list head must be an operator symbol")
	}

	switch head.atom {
	case "not":
		if len(args) != 1 {
			return occurrence.Undef, errors.New("encoding: not takes exactly one argument")
		}
		inner, err := b.toBool(args[0])
		if err != nil {
			return occurrence.Undef, err
		}
		return inner.Not(), nil

	case "or":
		occs, err := b.toBoolAll(args)
		if err != nil {
			return occurrence.Undef, err
		}
		return b.store.Or(occs), nil

	case "xor":
		occs, err := b.toBoolAll(args)
		if err != nil {
			return occurrence.Undef, err
		}
		return b.store.Xor(occs), nil

	case "distinct":
		occs, err := b.toTermAll(args)
		if err != nil {
			return occurrence.Undef, err
		}
		return b.store.Distinct(occs), nil

	case "=":
		if len(args) != 2 {
			return occurrence.Undef, errors.New("encoding: = takes exactly two arguments")
		}
		if la, err := b.toArith(args[0]); err == nil {
			if lb, err := b.toArith(args[1]); err == nil {
				return b.store.ArithBinEq(la.toOccurrence(b.store), lb.toOccurrence(b.store)), nil
			}
		}
		a, err := b.toBool(args[0])
		if err != nil {
			return occurrence.Undef, err
		}
		bb, err := b.toBool(args[1])
		if err != nil {
			return occurrence.Undef, err
		}
		return b.store.Eq(a, bb), nil

	case ">=":
		if len(args) != 2 {
			return occurrence.Undef, errors.New("encoding: >= takes exactly two arguments")
		}
		la, err := b.toArith(args[0])
		if err != nil {
			return occurrence.Undef, err
		}
		lb, err := b.toArith(args[1])
		if err != nil {
			return occurrence.Undef, err
		}
		return b.store.ArithGe(la.sub(lb).toOccurrence(b.store)), nil

	default:
		// The term graph has no function-application kind. An unrecognized
		// head is lowered as an opaque Boolean symbol named after its own
		// textual form (the same stand-in an uninterpreted function
		// application gets elsewhere in this module).
		return b.declare(render(n), false)
	}
}

func (b *Builder) toBoolAll(nodes []*sexpr) ([]occurrence.Occurrence, error) {
	out := make([]occurrence.Occurrence, len(nodes))
	for i, n := range nodes {
		o, err := b.toBool(n)
		if err != nil {
			return nil, err
		}
		out[i] = o
	}
	return out, nil
}

// toTermAll lowers each node as an arithmetic term where possible, falling
// back to a Boolean term otherwise (Distinct's arguments may be of either
// sort; Distinct itself always stays a generic literal, but its arguments
// are plain occurrences regardless of sort).
func (b *Builder) toTermAll(nodes []*sexpr) ([]occurrence.Occurrence, error) {
	out := make([]occurrence.Occurrence, len(nodes))
	for i, n := range nodes {
		if t, err := b.toArith(n); err == nil {
			out[i] = t.toOccurrence(b.store)
			continue
		}
		o, err := b.toBool(n)
		if err != nil {
			return nil, err
		}
		out[i] = o
	}
	return out, nil
}

func (b *Builder) toArith(n *sexpr) (*arithTerm, error) {
	if n.isAtom() {
		if r, ok := new(big.Rat).SetString(n.atom); ok {
			return constArithTerm(r), nil
		}
		if o, ok := b.syms[n.atom]; ok {
			if !b.arith[n.atom] {
				return nil, errors.Errorf("encoding: %q is a Boolean symbol, not an arithmetic one", n.atom)
			}
			return varArithTerm(o), nil
		}
		o, err := b.declare(n.atom, true)
		if err != nil {
			return nil, err
		}
		return varArithTerm(o), nil
	}
	if len(n.list) == 0 {
		return nil, errors.New("encoding: empty list is not an arithmetic term")
	}
	head, args := n.list[0], n.list[1:]
	if !head.isAtom() {
		return nil, errors.New("encoding: list head must be an operator symbol")
	}

	switch head.atom {
	case "+":
		if len(args) == 0 {
			return nil, errors.New("encoding: + takes at least one argument")
		}
		first, err := b.toArith(args[0])
		if err != nil {
			return nil, err
		}
		acc := first.clone()
		for _, a := range args[1:] {
			t, err := b.toArith(a)
			if err != nil {
				return nil, err
			}
			acc.addInto(t, big.NewRat(1, 1))
		}
		return acc, nil

	case "-":
		if len(args) == 0 {
			return nil, errors.New("encoding: - takes at least one argument")
		}
		first, err := b.toArith(args[0])
		if err != nil {
			return nil, err
		}
		if len(args) == 1 {
			return first.scale(big.NewRat(-1, 1)), nil
		}
		acc := first.clone()
		for _, a := range args[1:] {
			t, err := b.toArith(a)
			if err != nil {
				return nil, err
			}
			acc.addInto(t, big.NewRat(-1, 1))
		}
		return acc, nil

	case "*":
		if len(args) != 2 {
			return nil, errors.New("encoding: * takes exactly two arguments")
		}
		coeffNode, other := args[0], args[1]
		if _, isNum := new(big.Rat).SetString(coeffNode.atom); !coeffNode.isAtom() || !isNum {
			coeffNode, other = args[1], args[0]
		}
		coeff, ok := new(big.Rat).SetString(coeffNode.atom)
		if !ok {
			return nil, errors.New("encoding: * requires one argument to be a numeral coefficient")
		}
		t, err := b.toArith(other)
		if err != nil {
			return nil, err
		}
		return t.scale(coeff), nil

	default:
		return nil, errors.Errorf("encoding: %q is not a recognized arithmetic operator", head.atom)
	}
}

// arithTerm is a linear combination of declared arithmetic symbols plus a
// constant, accumulated while lowering nested +/-/* s-expressions before a
// single term.Store.Poly call turns it into an occurrence.
type arithTerm struct {
	coeffs map[occurrence.Occurrence]*big.Rat
	konst  *big.Rat
}

func newArithTerm() *arithTerm {
	return &arithTerm{coeffs: map[occurrence.Occurrence]*big.Rat{}, konst: new(big.Rat)}
}

func constArithTerm(r *big.Rat) *arithTerm {
	t := newArithTerm()
	t.konst.Set(r)
	return t
}

func varArithTerm(v occurrence.Occurrence) *arithTerm {
	t := newArithTerm()
	t.coeffs[v] = big.NewRat(1, 1)
	return t
}

func (t *arithTerm) clone() *arithTerm {
	c := newArithTerm()
	c.konst.Set(t.konst)
	for v, coeff := range t.coeffs {
		c.coeffs[v] = new(big.Rat).Set(coeff)
	}
	return c
}

func (t *arithTerm) addInto(o *arithTerm, scale *big.Rat) {
	t.konst.Add(t.konst, new(big.Rat).Mul(o.konst, scale))
	for v, coeff := range o.coeffs {
		weighted := new(big.Rat).Mul(coeff, scale)
		if existing, ok := t.coeffs[v]; ok {
			existing.Add(existing, weighted)
		} else {
			t.coeffs[v] = weighted
		}
	}
}

func (t *arithTerm) scale(k *big.Rat) *arithTerm {
	out := newArithTerm()
	out.konst.Mul(t.konst, k)
	for v, coeff := range t.coeffs {
		out.coeffs[v] = new(big.Rat).Mul(coeff, k)
	}
	return out
}

func (t *arithTerm) sub(o *arithTerm) *arithTerm {
	out := t.clone()
	out.addInto(o, big.NewRat(-1, 1))
	return out
}

func (t *arithTerm) toOccurrence(store *term.Store) occurrence.Occurrence {
	monomials := make([]term.Monomial, 0, len(t.coeffs)+1)
	for v, coeff := range t.coeffs {
		if coeff.Sign() == 0 {
			continue
		}
		monomials = append(monomials, term.Monomial{Coeff: coeff, Var: v})
	}
	if t.konst.Sign() != 0 {
		monomials = append(monomials, term.Monomial{Coeff: t.konst, Var: term.ConstMarker})
	}
	return store.Poly(monomials)
}
