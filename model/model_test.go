package model_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericr/mbp/model"
	"github.com/ericr/mbp/occurrence"
	"github.com/ericr/mbp/term"
)

func TestEvaluateArithLiteral(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", true)
	a := store.UninterpretedConstant("a", true)
	mdl := model.New(store)
	mdl.AssignRat(x, big.NewRat(2, 1))
	mdl.AssignRat(a, big.NewRat(1, 1))

	poly := store.Poly([]term.Monomial{
		{Coeff: big.NewRat(1, 1), Var: x},
		{Coeff: big.NewRat(-1, 1), Var: a},
	})
	ge := store.ArithGe(poly)

	require.True(t, mdl.Holds(ge))

	v, err := mdl.Evaluate(ge)
	require.NoError(t, err)
	require.Equal(t, model.KindBool, v.Kind)
	require.True(t, v.B.True())
}

func TestEvaluateUnassignedFails(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", true)
	mdl := model.New(store)

	_, err := mdl.Evaluate(store.ArithGe(x))
	require.Error(t, err)
}

func TestEvaluateOrXorDistinct(t *testing.T) {
	store := term.New()
	p := store.UninterpretedConstant("p", false)
	q := store.UninterpretedConstant("q", false)
	mdl := model.New(store)
	mdl.AssignBool(p, true)
	mdl.AssignBool(q, false)

	require.True(t, mdl.Holds(store.Or([]occurrence.Occurrence{p, q})))
	require.True(t, mdl.Holds(store.Xor([]occurrence.Occurrence{p, q})))
	require.True(t, mdl.Holds(store.Distinct([]occurrence.Occurrence{p, q})))
}
