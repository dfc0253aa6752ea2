package subst_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericr/mbp/occurrence"
	"github.com/ericr/mbp/subst"
	"github.com/ericr/mbp/term"
)

func TestApplySubstitutesConstants(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", true)
	y := store.UninterpretedConstant("y", true)

	sub := subst.New(store,
		[]occurrence.Occurrence{x, y},
		[]occurrence.Occurrence{store.IntConstant(3), store.IntConstant(4)},
	)

	lit := store.ArithGe(store.Poly([]term.Monomial{
		{Coeff: big.NewRat(1, 1), Var: x},
		{Coeff: big.NewRat(-1, 1), Var: y},
	}))

	out, err := sub.Apply(lit)
	require.NoError(t, err)
	require.Equal(t, store.BoolConstant(false), out) // 3 - 4 >= 0 is false
}

func TestApplyLeavesUnaffectedLiteralsAlone(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", true)
	p := store.UninterpretedConstant("p", false)

	sub := subst.New(store, []occurrence.Occurrence{x}, []occurrence.Occurrence{store.IntConstant(1)})

	out, err := sub.Apply(p)
	require.NoError(t, err)
	require.Equal(t, p, out)
}
