// Command mbp is the CLI front end for the projector core: it reads a
// problem file in the encoding package's minimal surface syntax, runs
// model-based projection, and prints the residual cube plus run
// statistics.
package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericr/mbp/config"
	"github.com/ericr/mbp/encoding"
	"github.com/ericr/mbp/model"
	"github.com/ericr/mbp/occurrence"
	"github.com/ericr/mbp/projector"
	"github.com/ericr/mbp/term"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	var maxEvars int

	root := &cobra.Command{
		Use:   "mbp",
		Short: "Model-based projection over linear arithmetic and uninterpreted constants",
	}

	project := &cobra.Command{
		Use:   "project <problem-file>",
		Short: "Eliminate a problem file's vars-to-eliminate from its literal cube",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProject(args[0], verbose, maxEvars)
		},
	}
	project.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every literal classification decision")
	project.Flags().IntVar(&maxEvars, "max-evars", 4096, "reject the run if vars-to-eliminate exceeds this many entries")

	root.AddCommand(project)
	return root
}

func runProject(path string, verbose bool, maxEvars int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	problem, err := encoding.ParseProblem(bufio.NewReader(f))
	if err != nil {
		return err
	}

	store := term.New()
	mdl := model.New(store)
	builder := encoding.NewBuilder(store)

	if err := builder.ApplyModel(problem.Assignments, mdl); err != nil {
		return err
	}
	vars, err := builder.VarsToElim(problem.Vars)
	if err != nil {
		return err
	}

	cfg := config.New()
	cfg.Verbose = verbose
	cfg.MaxEvars = maxEvars

	p, err := projector.New(mdl, store, vars, cfg)
	if err != nil {
		return err
	}

	literalCount := len(problem.Literals)
	for _, l := range problem.Literals {
		lit, err := builder.BuildLiteral(l)
		if err != nil {
			return err
		}
		p.AddLiteral(lit)
	}

	start := time.Now()
	var out []occurrence.Occurrence
	flag := p.Run(&out)
	elapsed := time.Since(start)

	displayStats(cfg, vars, literalCount, out, elapsed)

	if flag.IsError() {
		fmt.Fprintf(os.Stdout, "flag=%s\n", flag.Kind)
		return flag
	}

	fmt.Fprintf(os.Stdout, "flag=%s\n", flag.Kind)
	for _, o := range out {
		fmt.Fprintln(os.Stdout, store.String(o))
	}
	return nil
}

func displayStats(cfg *config.Config, vars []occurrence.Occurrence, literalsIn int, out []occurrence.Occurrence, elapsed time.Duration) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "Run ID:        %s\n", cfg.RunID)
	fmt.Fprintf(os.Stderr, "Time Taken:    %fs\n", elapsed.Seconds())
	fmt.Fprintf(os.Stderr, "Vars To Elim:  %d\n", len(vars))
	fmt.Fprintf(os.Stderr, "Literals In:   %d\n", literalsIn)
	fmt.Fprintf(os.Stderr, "Literals Out:  %d\n", len(out))
	fmt.Fprintln(os.Stderr)
}
