// Package elimsubst proposes a cheap equality-based map from variables to
// terms, breaks any cycles the proposals form, and applies the surviving
// map to a literal vector. This is the generic-elimination phase of
// projection.
package elimsubst

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/ericr/mbp/occurrence"
	"github.com/ericr/mbp/term"
)

// ErrCycle is wrapped around term.ErrSubstCycle if Apply ever encounters a
// residual cycle. RemoveCycles is expected to make that unreachable; it is
// a defensive check, not a normal outcome.
var ErrCycle = errors.New("elimsubst: residual substitution cycle")

// Subst is an elimination-substitution proposal builder over a fixed
// variable set.
type Subst struct {
	store *term.Store
	vars  map[occurrence.Occurrence]bool

	m         map[occurrence.Occurrence]occurrence.Occurrence
	insertion map[occurrence.Occurrence]int
	next      int
}

// New returns an empty Subst over vars (the positive
// occurrences of the uninterpreted constants marked for elimination).
func New(store *term.Store, vars map[occurrence.Occurrence]bool) *Subst {
	return &Subst{
		store:     store,
		vars:      vars,
		m:         map[occurrence.Occurrence]occurrence.Occurrence{},
		insertion: map[occurrence.Occurrence]int{},
	}
}

// TryCheapMap inspects a positive-polarity generic literal t and, if it is
// a syntactic equality x = u (or u = x) between a variable x in the
// elimination set and a term u that does not itself mention x, proposes
// x -> u. Only the first admissible proposal for a given x is kept; later
// ones are ignored. It returns whether a proposal was recorded.
//
// A negative literal (a disequality) is never usable and returns false.
// An equality whose right side is itself an ite disguises no differently
// than a plain equality here: the occurs check on the whole right-hand
// term is what matters, whatever shape it has.
func (s *Subst) TryCheapMap(t occurrence.Occurrence) bool {
	if t.Sign() {
		return false
	}
	if s.store.Kind(t) != term.KindEq {
		return false
	}
	a, b := s.store.EqArgs(t)
	if s.propose(a, b) {
		return true
	}
	return s.propose(b, a)
}

func (s *Subst) propose(x, u occurrence.Occurrence) bool {
	if x.Sign() || !s.vars[x] {
		return false
	}
	if _, exists := s.m[x]; exists {
		return false
	}
	if occursIn(s.store, x, u) {
		return false
	}
	s.m[x] = u
	s.insertion[x] = s.next
	s.next++
	return true
}

// occursIn reports whether x's node appears anywhere in u's term graph,
// including inside polynomials and arithmetic atoms.
func occursIn(store *term.Store, x, u occurrence.Occurrence) bool {
	if u.Pos() == x {
		return true
	}
	switch store.Kind(u) {
	case term.KindArithPoly:
		for _, mono := range store.PolyMonomials(u) {
			if mono.Var != term.ConstMarker && mono.Var == x {
				return true
			}
		}
		return false
	case term.KindArithEqAtom, term.KindArithGeAtom:
		return occursIn(store, x, store.ArithAtomArg(u))
	default:
		for _, c := range store.CompositeArgs(u) {
			if occursIn(store, x, c) {
				return true
			}
		}
		return false
	}
}

// GetMap returns the (positive occurrence) replacement proposed for x, if
// any survived cycle removal.
func (s *Subst) GetMap(x occurrence.Occurrence) (occurrence.Occurrence, bool) {
	r, ok := s.m[x]
	return r, ok
}

// RemoveCycles restricts the proposal map to an acyclic sub-map: while the
// dependency graph through proposed variables has a cycle, it drops, in
// every strongly connected component of two or more variables, the mapping
// that was inserted last. The earlier-inserted mappings of a cycle are kept,
// so repeated runs over the same input are deterministic.
func (s *Subst) RemoveCycles() {
	for {
		comps := s.sccs()
		removed := false
		for _, comp := range comps {
			if len(comp) < 2 {
				continue
			}
			worst := comp[0]
			for _, n := range comp[1:] {
				if s.insertion[n] > s.insertion[worst] {
					worst = n
				}
			}
			delete(s.m, worst)
			delete(s.insertion, worst)
			removed = true
		}
		if !removed {
			return
		}
	}
}

// sccs computes the strongly connected components of the dependency graph
// x -> y for every y in vars mentioned by m[x], via Tarjan's algorithm.
// Variables outside the domain of m are reached only as edge targets: they
// have no outgoing edges, so each forms a singleton component and cannot
// be part of a cycle.
func (s *Subst) sccs() [][]occurrence.Occurrence {
	keys := make([]occurrence.Occurrence, 0, len(s.m))
	for x := range s.m {
		keys = append(keys, x)
	}
	sort.Slice(keys, func(i, j int) bool { return s.insertion[keys[i]] < s.insertion[keys[j]] })

	t := &tarjan{
		edges:   map[occurrence.Occurrence][]occurrence.Occurrence{},
		index:   map[occurrence.Occurrence]int{},
		lowlink: map[occurrence.Occurrence]int{},
		onStack: map[occurrence.Occurrence]bool{},
	}
	for _, x := range keys {
		t.edges[x] = s.deps(x)
	}
	for _, x := range keys {
		if _, seen := t.index[x]; !seen {
			t.strongConnect(x)
		}
	}
	return t.comps
}

func (s *Subst) deps(x occurrence.Occurrence) []occurrence.Occurrence {
	u := s.m[x]
	var out []occurrence.Occurrence
	var walk func(o occurrence.Occurrence)
	walk = func(o occurrence.Occurrence) {
		pos := o.Pos()
		if pos != x && s.vars[pos] {
			out = append(out, pos)
		}
		switch s.store.Kind(pos) {
		case term.KindArithPoly:
			for _, mono := range s.store.PolyMonomials(pos) {
				if mono.Var != term.ConstMarker {
					walk(mono.Var)
				}
			}
		case term.KindArithEqAtom, term.KindArithGeAtom:
			walk(s.store.ArithAtomArg(pos))
		default:
			for _, c := range s.store.CompositeArgs(pos) {
				walk(c)
			}
		}
	}
	walk(u)
	return out
}

type tarjan struct {
	edges   map[occurrence.Occurrence][]occurrence.Occurrence
	index   map[occurrence.Occurrence]int
	lowlink map[occurrence.Occurrence]int
	onStack map[occurrence.Occurrence]bool
	stack   []occurrence.Occurrence
	counter int
	comps   [][]occurrence.Occurrence
}

func (t *tarjan) strongConnect(v occurrence.Occurrence) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.edges[v] {
		if _, seen := t.index[w]; !seen {
			if _, hasEdges := t.edges[w]; !hasEdges {
				t.edges[w] = nil
			}
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var comp []occurrence.Occurrence
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		t.comps = append(t.comps, comp)
	}
}

// Apply rewrites t under the surviving (acyclic) map, resolving chained
// mappings (x -> y, y -> z) fully.
func (s *Subst) Apply(t occurrence.Occurrence) (occurrence.Occurrence, error) {
	out, err := s.store.SubstituteTerm(t, s.m)
	if err != nil {
		return occurrence.Undef, errors.Wrap(ErrCycle, err.Error())
	}
	return out, nil
}
