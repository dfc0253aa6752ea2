package model

import (
	"math/big"

	"github.com/ericr/mbp/tribool"
)

// Kind tags the sort of a Value.
type Kind uint8

const (
	// KindBool is a Boolean value, held as a tribool.Tribool so an
	// evaluator can represent "not yet determined" as an intermediate
	// state without inventing a second return channel.
	KindBool Kind = iota
	// KindRat is an exact rational value.
	KindRat
	// KindBV is a fixed-width bitvector value.
	KindBV
)

// Value is the tagged union of theory values the Model evaluates terms to:
// Booleans, rationals, bitvectors.
type Value struct {
	Kind Kind
	B    tribool.Tribool
	Rat  *big.Rat
	BV   []bool
}

// BoolValue builds a Boolean Value.
func BoolValue(b bool) Value {
	return Value{Kind: KindBool, B: tribool.NewFromBool(b)}
}

// RatValue builds a rational Value.
func RatValue(r *big.Rat) Value {
	return Value{Kind: KindRat, Rat: r}
}

// BVValue builds a bitvector Value.
func BVValue(bits []bool) Value {
	return Value{Kind: KindBV, BV: bits}
}

// Equal reports whether two values of any kind are identical, used by
// Distinct/Eq evaluation.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.B == o.B
	case KindRat:
		return v.Rat.Cmp(o.Rat) == 0
	case KindBV:
		if len(v.BV) != len(o.BV) {
			return false
		}
		for i := range v.BV {
			if v.BV[i] != o.BV[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}
