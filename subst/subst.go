// Package subst implements the value-closure phase's total substitution of
// eliminated variables by the constant terms their model values converted
// to.
package subst

import (
	"github.com/pkg/errors"

	"github.com/ericr/mbp/occurrence"
	"github.com/ericr/mbp/term"
)

// ErrCycle mirrors elimsubst.ErrCycle. It should be unreachable: the value
// closure's replacements are always constant terms, which by construction
// never reference a variable still awaiting substitution.
var ErrCycle = errors.New("subst: substitution cycle detected")

// Substitutor applies a fixed, total map from evaluated-out variables to
// their constant replacement terms.
type Substitutor struct {
	store *term.Store
	repl  map[occurrence.Occurrence]occurrence.Occurrence
}

// New builds a Substitutor mapping vars[i] -> replacements[i]. Every
// replacement must be a constant term; the value-closure phase always
// converts a variable's model value before building this map.
func New(store *term.Store, vars []occurrence.Occurrence, replacements []occurrence.Occurrence) *Substitutor {
	repl := make(map[occurrence.Occurrence]occurrence.Occurrence, len(vars))
	for i, v := range vars {
		repl[v] = replacements[i]
	}
	return &Substitutor{store: store, repl: repl}
}

// Apply rewrites t under the substitutor's map.
func (s *Substitutor) Apply(t occurrence.Occurrence) (occurrence.Occurrence, error) {
	out, err := s.store.SubstituteTerm(t, s.repl)
	if err != nil {
		return occurrence.Undef, errors.Wrap(ErrCycle, err.Error())
	}
	return out, nil
}
