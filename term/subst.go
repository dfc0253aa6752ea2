package term

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/ericr/mbp/occurrence"
)

// ErrSubstCycle is returned when a replacement map, applied recursively,
// revisits an occurrence that is still being resolved. Both elimsubst.Subst
// and subst.Substitutor build maps that must never trigger this (the
// former is acyclic after cycle-breaking, the latter a total map to
// constants); it exists as a defensive check, not a normal control-flow
// path.
var ErrSubstCycle = errors.New("term: substitution cycle detected")

// SubstituteTerm rewrites o by replacing every occurrence of a key of repl
// (always a positive occurrence) with its value, recursing into the
// replacement itself so chained mappings (x -> y, y -> z) resolve fully,
// and renormalizing any polynomial whose variables were substituted by
// constants or other polynomials. repl's keys must be positive
// occurrences; values may be arbitrary occurrences, including further
// keys of repl.
func (s *Store) SubstituteTerm(o occurrence.Occurrence, repl map[occurrence.Occurrence]occurrence.Occurrence) (occurrence.Occurrence, error) {
	cache := map[occurrence.Occurrence]occurrence.Occurrence{}
	visiting := map[occurrence.Occurrence]bool{}
	return s.substSigned(o, repl, cache, visiting)
}

func (s *Store) substSigned(o occurrence.Occurrence, repl map[occurrence.Occurrence]occurrence.Occurrence, cache map[occurrence.Occurrence]occurrence.Occurrence, visiting map[occurrence.Occurrence]bool) (occurrence.Occurrence, error) {
	pos, err := s.subst(o.Pos(), repl, cache, visiting)
	if err != nil {
		return occurrence.Undef, err
	}
	if o.Sign() {
		return pos.Not(), nil
	}
	return pos, nil
}

func (s *Store) subst(o occurrence.Occurrence, repl map[occurrence.Occurrence]occurrence.Occurrence, cache map[occurrence.Occurrence]occurrence.Occurrence, visiting map[occurrence.Occurrence]bool) (occurrence.Occurrence, error) {
	if v, ok := cache[o]; ok {
		return v, nil
	}
	if visiting[o] {
		return occurrence.Undef, ErrSubstCycle
	}

	if r, ok := repl[o]; ok {
		visiting[o] = true
		result, err := s.substSigned(r, repl, cache, visiting)
		delete(visiting, o)
		if err != nil {
			return occurrence.Undef, err
		}
		cache[o] = result
		return result, nil
	}

	var result occurrence.Occurrence
	var err error
	switch s.Kind(o) {
	case KindBoolConstant, KindArithConstant, KindBVConstant, KindUninterpretedConstant:
		result = o

	case KindArithPoly:
		result, err = s.substPoly(o, repl, cache, visiting)

	case KindArithEqAtom:
		var arg occurrence.Occurrence
		arg, err = s.subst(s.node(o).arg, repl, cache, visiting)
		if err == nil {
			result = s.ArithEq(arg)
		}

	case KindArithGeAtom:
		var arg occurrence.Occurrence
		arg, err = s.subst(s.node(o).arg, repl, cache, visiting)
		if err == nil {
			result = s.ArithGe(arg)
		}

	case KindArithBinEqAtom:
		a, b := s.ArithBinEqArgs(o)
		var na, nb occurrence.Occurrence
		if na, err = s.substSigned(a, repl, cache, visiting); err == nil {
			if nb, err = s.substSigned(b, repl, cache, visiting); err == nil {
				result = s.ArithBinEq(na, nb)
			}
		}

	case KindIte:
		c, t, e := s.IteArgs(o)
		var nc, nt, ne occurrence.Occurrence
		if nc, err = s.substSigned(c, repl, cache, visiting); err == nil {
			if nt, err = s.substSigned(t, repl, cache, visiting); err == nil {
				if ne, err = s.substSigned(e, repl, cache, visiting); err == nil {
					result = s.Ite(nc, nt, ne)
				}
			}
		}

	case KindEq:
		a, b := s.EqArgs(o)
		var na, nb occurrence.Occurrence
		if na, err = s.substSigned(a, repl, cache, visiting); err == nil {
			if nb, err = s.substSigned(b, repl, cache, visiting); err == nil {
				result = s.Eq(na, nb)
			}
		}

	case KindDistinct:
		result, err = s.substMany(o, repl, cache, visiting, s.DistinctArgs(o), s.Distinct)

	case KindOr:
		result, err = s.substMany(o, repl, cache, visiting, s.OrArgs(o), s.Or)

	case KindXor:
		result, err = s.substMany(o, repl, cache, visiting, s.XorArgs(o), s.Xor)

	default:
		result = o
	}
	if err != nil {
		return occurrence.Undef, err
	}
	cache[o] = result
	return result, nil
}

func (s *Store) substMany(o occurrence.Occurrence, repl map[occurrence.Occurrence]occurrence.Occurrence, cache map[occurrence.Occurrence]occurrence.Occurrence, visiting map[occurrence.Occurrence]bool, args []occurrence.Occurrence, rebuild func([]occurrence.Occurrence) occurrence.Occurrence) (occurrence.Occurrence, error) {
	out := make([]occurrence.Occurrence, len(args))
	for i, a := range args {
		na, err := s.substSigned(a, repl, cache, visiting)
		if err != nil {
			return occurrence.Undef, err
		}
		out[i] = na
	}
	return rebuild(out), nil
}

// substPoly substitutes each variable of a polynomial, distributing the
// monomial's coefficient over the replacement when it is itself a constant
// or a polynomial, and re-normalizing the result.
func (s *Store) substPoly(o occurrence.Occurrence, repl map[occurrence.Occurrence]occurrence.Occurrence, cache map[occurrence.Occurrence]occurrence.Occurrence, visiting map[occurrence.Occurrence]bool) (occurrence.Occurrence, error) {
	out := []Monomial{}
	for _, mono := range s.PolyMonomials(o) {
		if mono.Var == ConstMarker {
			out = append(out, Monomial{Coeff: mono.Coeff, Var: ConstMarker})
			continue
		}
		nv, err := s.subst(mono.Var, repl, cache, visiting)
		if err != nil {
			return occurrence.Undef, err
		}
		switch s.Kind(nv) {
		case KindArithConstant:
			c := new(big.Rat).Mul(mono.Coeff, s.RatConstantValue(nv))
			out = append(out, Monomial{Coeff: c, Var: ConstMarker})
		case KindArithPoly:
			for _, sub := range s.PolyMonomials(nv) {
				out = append(out, Monomial{Coeff: new(big.Rat).Mul(mono.Coeff, sub.Coeff), Var: sub.Var})
			}
		default:
			out = append(out, Monomial{Coeff: new(big.Rat).Set(mono.Coeff), Var: nv})
		}
	}
	return s.Poly(out), nil
}
