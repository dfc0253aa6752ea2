package elimsubst_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericr/mbp/elimsubst"
	"github.com/ericr/mbp/occurrence"
	"github.com/ericr/mbp/term"
)

func TestTryCheapMapProposesAndSkipsDisequality(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", false)
	y := store.UninterpretedConstant("y", false)

	s := elimsubst.New(store, map[occurrence.Occurrence]bool{x: true})

	eq := store.Eq(x, y)
	require.True(t, s.TryCheapMap(eq))
	r, ok := s.GetMap(x)
	require.True(t, ok)
	require.Equal(t, y, r)

	require.False(t, s.TryCheapMap(eq.Not()))
}

func TestTryCheapMapRejectsOccursCheck(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", false)
	c := store.UninterpretedConstant("c", false)

	s := elimsubst.New(store, map[occurrence.Occurrence]bool{x: true})
	self := store.Eq(x, store.Ite(c, x, c))
	require.False(t, s.TryCheapMap(self))
	_, ok := s.GetMap(x)
	require.False(t, ok)
}

func TestTryCheapMapKeepsFirstProposal(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", false)
	y := store.UninterpretedConstant("y", false)
	z := store.UninterpretedConstant("z", false)

	s := elimsubst.New(store, map[occurrence.Occurrence]bool{x: true})
	require.True(t, s.TryCheapMap(store.Eq(x, y)))
	require.False(t, s.TryCheapMap(store.Eq(x, z)))
	r, _ := s.GetMap(x)
	require.Equal(t, y, r)
}

// TestRemoveCyclesKeepsEarlierInsertion covers vars = {x, y}, literals =
// {x = y, y = x}. The generic map proposes x -> y then y -> x;
// RemoveCycles must keep the first (x -> y) and drop the second, leaving y
// unmapped so it survives to later phases.
func TestRemoveCyclesKeepsEarlierInsertion(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", false)
	y := store.UninterpretedConstant("y", false)

	vars := map[occurrence.Occurrence]bool{x: true, y: true}
	s := elimsubst.New(store, vars)
	require.True(t, s.TryCheapMap(store.Eq(x, y)))
	require.True(t, s.TryCheapMap(store.Eq(y, x)))

	s.RemoveCycles()

	xr, xok := s.GetMap(x)
	require.True(t, xok)
	require.Equal(t, y, xr)

	_, yok := s.GetMap(y)
	require.False(t, yok)
}

// TestRemoveCyclesBreaksThreeCycle extends the two-variable scenario to a
// three-variable cycle (x -> y -> z -> x): RemoveCycles must still keep
// every mapping but the most recently inserted one in the cycle.
func TestRemoveCyclesBreaksThreeCycle(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", false)
	y := store.UninterpretedConstant("y", false)
	z := store.UninterpretedConstant("z", false)

	vars := map[occurrence.Occurrence]bool{x: true, y: true, z: true}
	s := elimsubst.New(store, vars)
	require.True(t, s.TryCheapMap(store.Eq(x, y)))
	require.True(t, s.TryCheapMap(store.Eq(y, z)))
	require.True(t, s.TryCheapMap(store.Eq(z, x)))

	s.RemoveCycles()

	xr, xok := s.GetMap(x)
	require.True(t, xok)
	require.Equal(t, y, xr)

	yr, yok := s.GetMap(y)
	require.True(t, yok)
	require.Equal(t, z, yr)

	_, zok := s.GetMap(z)
	require.False(t, zok)
}

func TestApplyResolvesChainedMappings(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", false)
	y := store.UninterpretedConstant("y", false)
	z := store.UninterpretedConstant("z", false)
	p := store.UninterpretedConstant("p", false)

	vars := map[occurrence.Occurrence]bool{x: true, y: true}
	s := elimsubst.New(store, vars)
	require.True(t, s.TryCheapMap(store.Eq(x, y)))
	require.True(t, s.TryCheapMap(store.Eq(y, z)))

	lit := store.Eq(x, p)
	out, err := s.Apply(lit)
	require.NoError(t, err)
	require.Equal(t, store.Eq(z, p), out)
}

func TestApplyDropsLiteralThatBecomesTrue(t *testing.T) {
	store := term.New()
	x := store.UninterpretedConstant("x", false)
	y := store.UninterpretedConstant("y", false)

	vars := map[occurrence.Occurrence]bool{x: true}
	s := elimsubst.New(store, vars)
	require.True(t, s.TryCheapMap(store.Eq(x, y)))

	lit := store.Eq(x, y)
	out, err := s.Apply(lit)
	require.NoError(t, err)
	require.Equal(t, occurrence.TrueOccurrence, out)
}
