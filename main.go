package main

import (
	"fmt"
	"math/big"

	"github.com/ericr/mbp/config"
	"github.com/ericr/mbp/model"
	"github.com/ericr/mbp/occurrence"
	"github.com/ericr/mbp/projector"
	"github.com/ericr/mbp/term"
)

func main() {
	printBanner()

	store := term.New()
	x := store.UninterpretedConstant("x", true)
	a := store.UninterpretedConstant("a", true)
	b := store.UninterpretedConstant("b", true)

	mdl := model.New(store)
	mdl.AssignRat(x, big.NewRat(2, 1))
	mdl.AssignRat(a, big.NewRat(1, 1))
	mdl.AssignRat(b, big.NewRat(3, 1))

	lower := store.ArithGe(store.Poly([]term.Monomial{
		{Coeff: big.NewRat(1, 1), Var: x},
		{Coeff: big.NewRat(-1, 1), Var: a},
	}))
	upper := store.ArithGe(store.Poly([]term.Monomial{
		{Coeff: big.NewRat(1, 1), Var: b},
		{Coeff: big.NewRat(-1, 1), Var: x},
	}))

	cfg := config.New()
	literals := []occurrence.Occurrence{lower, upper}
	vars := []occurrence.Occurrence{x}
	out, flag := projector.ProjectLiterals(mdl, store, literals, vars, cfg)

	fmt.Printf("flag: %s\n", flag.Kind)
	for _, o := range out {
		fmt.Println(store.String(o))
	}
}

func printBanner() {
	fmt.Println("mbp: model-based projection")
	fmt.Println("")
}
