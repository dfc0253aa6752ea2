package term

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericr/mbp/occurrence"
)

func TestUninterpretedConstantIsHashConsed(t *testing.T) {
	s := New()
	x1 := s.UninterpretedConstant("x", true)
	x2 := s.UninterpretedConstant("x", true)
	require.Equal(t, x1, x2, "same name and sort must intern to the same node")

	y := s.UninterpretedConstant("y", true)
	require.NotEqual(t, x1, y)
}

func TestEqFoldsReflexive(t *testing.T) {
	s := New()
	x := s.UninterpretedConstant("x", false)
	require.Equal(t, occurrence.TrueOccurrence, s.Eq(x, x))
}

func TestArithBinEqFoldsReflexive(t *testing.T) {
	s := New()
	x := s.UninterpretedConstant("x", true)
	require.Equal(t, occurrence.TrueOccurrence, s.ArithBinEq(x, x))
}

func TestEqIsOrderIndependent(t *testing.T) {
	s := New()
	x := s.UninterpretedConstant("x", false)
	y := s.UninterpretedConstant("y", false)
	require.Equal(t, s.Eq(x, y), s.Eq(y, x))
}

func TestArithEqFoldsOnConstant(t *testing.T) {
	s := New()
	require.Equal(t, occurrence.TrueOccurrence, s.ArithEq(s.IntConstant(0)))
	require.Equal(t, occurrence.FalseOccurrence, s.ArithEq(s.IntConstant(3)))
}

func TestArithGeFoldsOnConstant(t *testing.T) {
	s := New()
	require.Equal(t, occurrence.TrueOccurrence, s.ArithGe(s.IntConstant(0)))
	require.Equal(t, occurrence.TrueOccurrence, s.ArithGe(s.IntConstant(4)))
	require.Equal(t, occurrence.FalseOccurrence, s.ArithGe(s.IntConstant(-1)))
}

func TestOrFoldsShortCircuitAndDropsFalse(t *testing.T) {
	s := New()
	p := s.UninterpretedConstant("p", false)
	q := s.UninterpretedConstant("q", false)

	require.Equal(t, occurrence.TrueOccurrence, s.Or([]occurrence.Occurrence{p, occurrence.TrueOccurrence, q}))
	require.Equal(t, p, s.Or([]occurrence.Occurrence{p, occurrence.FalseOccurrence}))
	require.Equal(t, occurrence.FalseOccurrence, s.Or([]occurrence.Occurrence{occurrence.FalseOccurrence}))
}

func TestPolyCollapsesToBareVariable(t *testing.T) {
	s := New()
	x := s.UninterpretedConstant("x", true)
	poly := s.Poly([]Monomial{{Coeff: big.NewRat(1, 1), Var: x}})
	require.Equal(t, x, poly)
}

func TestPolyCollapsesToConstant(t *testing.T) {
	s := New()
	x := s.UninterpretedConstant("x", true)
	poly := s.Poly([]Monomial{
		{Coeff: big.NewRat(1, 1), Var: x},
		{Coeff: big.NewRat(-1, 1), Var: x},
	})
	require.Equal(t, KindArithConstant, s.Kind(poly))
	require.Equal(t, int64(0), s.RatConstantValue(poly).Num().Int64())
}

func TestSubstituteTermRewritesArithmeticAtom(t *testing.T) {
	s := New()
	x := s.UninterpretedConstant("x", true)
	y := s.UninterpretedConstant("y", true)

	atom := s.ArithGe(x)
	repl := map[occurrence.Occurrence]occurrence.Occurrence{x: y}

	out, err := s.SubstituteTerm(atom, repl)
	require.NoError(t, err)
	require.Equal(t, s.ArithGe(y), out)
}

func TestSubstituteTermChainsThroughReplacements(t *testing.T) {
	s := New()
	x := s.UninterpretedConstant("x", true)
	y := s.UninterpretedConstant("y", true)
	z := s.UninterpretedConstant("z", true)

	repl := map[occurrence.Occurrence]occurrence.Occurrence{x: y, y: z}
	out, err := s.SubstituteTerm(s.ArithGe(x), repl)
	require.NoError(t, err)
	require.Equal(t, s.ArithGe(z), out)
}

func TestSubstituteTermDetectsCycle(t *testing.T) {
	s := New()
	x := s.UninterpretedConstant("x", true)
	y := s.UninterpretedConstant("y", true)

	repl := map[occurrence.Occurrence]occurrence.Occurrence{x: y, y: x}
	_, err := s.SubstituteTerm(x, repl)
	require.ErrorIs(t, err, ErrSubstCycle)
}

func TestSubstituteTermRespectsPolarity(t *testing.T) {
	s := New()
	p := s.UninterpretedConstant("p", false)
	q := s.UninterpretedConstant("q", false)

	repl := map[occurrence.Occurrence]occurrence.Occurrence{p: q}
	out, err := s.SubstituteTerm(p.Not(), repl)
	require.NoError(t, err)
	require.Equal(t, q.Not(), out)
}

func TestSubstituteTermRenormalizesPolynomial(t *testing.T) {
	s := New()
	x := s.UninterpretedConstant("x", true)

	poly := s.Poly([]Monomial{
		{Coeff: big.NewRat(2, 1), Var: x},
		{Coeff: big.NewRat(3, 1), Var: ConstMarker},
	})
	repl := map[occurrence.Occurrence]occurrence.Occurrence{x: s.IntConstant(5)}

	out, err := s.SubstituteTerm(poly, repl)
	require.NoError(t, err)
	require.Equal(t, KindArithConstant, s.Kind(out))
	require.Equal(t, int64(13), s.RatConstantValue(out).Num().Int64())
}
