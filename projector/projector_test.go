package projector_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericr/mbp/config"
	"github.com/ericr/mbp/model"
	"github.com/ericr/mbp/occurrence"
	"github.com/ericr/mbp/projector"
	"github.com/ericr/mbp/term"
)

func run(t *testing.T, store *term.Store, mdl model.Model, vars, literals []occurrence.Occurrence) ([]occurrence.Occurrence, projector.Flag) {
	t.Helper()
	p, err := projector.New(mdl, store, vars, config.New())
	require.NoError(t, err)
	for _, l := range literals {
		p.AddLiteral(l)
	}
	var out []occurrence.Occurrence
	flag := p.Run(&out)
	return out, flag
}

// TestPureSubstitution covers a generic equality eliminating x entirely,
// dropping its own defining literal and rewriting the other one.
func TestPureSubstitution(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", false)
	y := store.UninterpretedConstant("y", false)
	q := store.UninterpretedConstant("q", false)
	mdl := model.New(store)
	mdl.AssignBool(x, true)
	mdl.AssignBool(y, true)
	mdl.AssignBool(q, false)

	def := store.Eq(x, y)
	usage := store.Or([]occurrence.Occurrence{x, q})

	out, flag := run(t, store, mdl, []occurrence.Occurrence{x}, []occurrence.Occurrence{def, usage})
	require.False(t, flag.IsError())
	require.Equal(t, []occurrence.Occurrence{store.Or([]occurrence.Occurrence{y, q})}, out)
}

// TestLinearArithmeticProjection eliminates x from two bounds a <= x <= b,
// leaving the residual a <= b behind.
func TestLinearArithmeticProjection(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", true)
	a := store.UninterpretedConstant("a", true)
	b := store.UninterpretedConstant("b", true)
	mdl := model.New(store)
	mdl.AssignRat(x, big.NewRat(2, 1))
	mdl.AssignRat(a, big.NewRat(1, 1))
	mdl.AssignRat(b, big.NewRat(3, 1))

	lower := store.ArithGe(store.Poly([]term.Monomial{ // x - a >= 0
		{Coeff: big.NewRat(1, 1), Var: x},
		{Coeff: big.NewRat(-1, 1), Var: a},
	}))
	upper := store.ArithGe(store.Poly([]term.Monomial{ // b - x >= 0
		{Coeff: big.NewRat(1, 1), Var: b},
		{Coeff: big.NewRat(-1, 1), Var: x},
	}))
	aLeB := store.ArithGe(store.Poly([]term.Monomial{ // b - a >= 0
		{Coeff: big.NewRat(1, 1), Var: b},
		{Coeff: big.NewRat(-1, 1), Var: a},
	}))

	out, flag := run(t, store, mdl, []occurrence.Occurrence{x}, []occurrence.Occurrence{lower, upper, aLeB})
	require.False(t, flag.IsError())
	for _, o := range out {
		require.NotEqual(t, x, o.Pos())
	}
	require.Len(t, out, 1)
	require.Equal(t, aLeB, out[0])
}

// TestSameDirectionBoundsSubstituteTightest guards against picking the
// loosest of two same-direction bounds: with x >= 1 and x >= 3 true under
// x = 5, only substituting x := 3 (the tighter bound) leaves both residuals
// true. Substituting x := 1 would falsify x >= 3.
func TestSameDirectionBoundsSubstituteTightest(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", true)
	mdl := model.New(store)
	mdl.AssignRat(x, big.NewRat(5, 1))

	geOne := store.ArithGe(store.Poly([]term.Monomial{
		{Coeff: big.NewRat(1, 1), Var: x},
		{Coeff: big.NewRat(-1, 1), Var: term.ConstMarker},
	}))
	geThree := store.ArithGe(store.Poly([]term.Monomial{
		{Coeff: big.NewRat(1, 1), Var: x},
		{Coeff: big.NewRat(-3, 1), Var: term.ConstMarker},
	}))

	out, flag := run(t, store, mdl, []occurrence.Occurrence{x}, []occurrence.Occurrence{geOne, geThree})
	require.False(t, flag.IsError())
	require.Empty(t, out, "both bounds are implied by the tighter one and should be dropped as true")
}

// TestValueClosure covers a Boolean variable with no structural
// substitution available, forcing value closure to fold it away directly.
func TestValueClosure(t *testing.T) {
	store := term.New()
	p := store.UninterpretedConstant("p", false)
	q := store.UninterpretedConstant("q", false)
	mdl := model.New(store)
	mdl.AssignBool(p, true)
	mdl.AssignBool(q, false)

	lit := store.Or([]occurrence.Occurrence{p, q})

	out, flag := run(t, store, mdl, []occurrence.Occurrence{p}, []occurrence.Occurrence{lit})
	require.False(t, flag.IsError())
	require.Empty(t, out)
}

// TestNonLinearRejection covers a non-linear subterm being rejected rather
// than silently approximated. This term model has no power-product
// representation, so a non-linear subterm is simulated by a Boolean atom
// standing where an arithmetic variable belongs: the one-monomial
// polynomial 1*bogus collapses to bogus itself, so processArithArg sees an
// argument that is not a plain uninterpreted constant (the same malformed
// shape it would see if a genuine product term slipped through).
func TestNonLinearRejection(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", true)
	a := store.UninterpretedConstant("a", true)
	b := store.UninterpretedConstant("b", true)
	mdl := model.New(store)
	mdl.AssignRat(x, big.NewRat(1, 1))

	bogus := store.Eq(a, b) // stands in for a power-product term
	lit := store.ArithGe(store.Poly([]term.Monomial{
		{Coeff: big.NewRat(1, 1), Var: bogus},
	}))

	out, flag := run(t, store, mdl, []occurrence.Occurrence{x}, []occurrence.Occurrence{lit})
	require.True(t, flag.IsError())
	require.Equal(t, projector.NonLinear, flag.Kind)
	require.Nil(t, out)
}

// TestMixed combines a generic elimination with an arithmetic one in the
// same run, checking that neither phase disturbs the other's residual.
func TestMixed(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", false)
	fz := store.UninterpretedConstant("fz", false) // stands in for f(z)
	y := store.UninterpretedConstant("y", true)
	w := store.UninterpretedConstant("w", true)
	mdl := model.New(store)
	mdl.AssignRat(y, big.NewRat(2, 1))
	mdl.AssignRat(w, big.NewRat(5, 1))

	def := store.Eq(x, fz)
	lower := store.ArithGe(y)
	upper := store.ArithGe(store.Poly([]term.Monomial{ // w - y >= 0
		{Coeff: big.NewRat(1, 1), Var: w},
		{Coeff: big.NewRat(-1, 1), Var: y},
	}))

	out, flag := run(t, store, mdl, []occurrence.Occurrence{x, y}, []occurrence.Occurrence{def, lower, upper})
	require.False(t, flag.IsError())
	require.Equal(t, []occurrence.Occurrence{store.ArithGe(w)}, out)
	for _, o := range out {
		require.NotEqual(t, x, o.Pos())
		require.NotEqual(t, y, o.Pos())
	}
}

// TestCycleBreaking covers a two-variable defining cycle (x = y, y = x)
// where neither literal is safe to use as a substitution outright.
func TestCycleBreaking(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", false)
	y := store.UninterpretedConstant("y", false)
	mdl := model.New(store)
	mdl.AssignBool(x, true)
	mdl.AssignBool(y, true)

	out, flag := run(t, store, mdl, []occurrence.Occurrence{x, y}, []occurrence.Occurrence{store.Eq(x, y), store.Eq(y, x)})
	require.False(t, flag.IsError())
	require.Empty(t, out)
}

func TestEmptyVarsReturnsInputUnchanged(t *testing.T) {
	store := term.New()
	p := store.UninterpretedConstant("p", false)
	q := store.UninterpretedConstant("q", false)
	mdl := model.New(store)
	mdl.AssignBool(p, true)
	mdl.AssignBool(q, false)

	lit := store.Or([]occurrence.Occurrence{p, q})
	out, flag := run(t, store, mdl, nil, []occurrence.Occurrence{lit})
	require.False(t, flag.IsError())
	require.Equal(t, []occurrence.Occurrence{lit}, out)
}

func TestEmptyLiteralsReturnsEmptyOutput(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", false)
	mdl := model.New(store)
	out, flag := run(t, store, mdl, []occurrence.Occurrence{x}, nil)
	require.False(t, flag.IsError())
	require.Empty(t, out)
}

func TestAllLiteralsEliminatedToTrue(t *testing.T) {
	store := term.New()
	p := store.UninterpretedConstant("p", false)
	mdl := model.New(store)
	mdl.AssignBool(p, true)

	lit := store.Eq(p, store.BoolConstant(true))
	out, flag := run(t, store, mdl, []occurrence.Occurrence{p}, []occurrence.Occurrence{lit})
	require.False(t, flag.IsError())
	require.Empty(t, out)
}

func TestTooManyVars(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", false)
	cfg := config.New()
	cfg.MaxEvars = 0
	_, err := projector.New(model.New(store), store, []occurrence.Occurrence{x}, cfg)
	require.Error(t, err)
}

// TestDistinctOverArithmeticStaysGeneric checks that Distinct is always
// classified as a generic literal, even when every argument is arithmetic.
func TestDistinctOverArithmeticStaysGeneric(t *testing.T) {
	store := term.New()
	a := store.UninterpretedConstant("a", true)
	b := store.UninterpretedConstant("b", true)
	d := store.Distinct([]occurrence.Occurrence{a, b})
	require.False(t, store.IsArithmeticLiteral(d))
}
