// Package encoding implements a minimal problem file format: a
// line-oriented text format tokenized with a bufio.Scanner and
// bytes.Fields, carrying declaration, model, and literal lines instead of
// raw clause integers.
package encoding

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Assignment is a single "m <name> = <value>" line. Value is left as raw
// text; the Builder decides whether it denotes a rational or a Boolean.
type Assignment struct {
	Name  string
	Value string
}

// Problem is the parsed, uninterpreted contents of a problem file: symbol
// names and raw literal text, not yet lowered into a term graph.
type Problem struct {
	Vars        []string
	Assignments []Assignment
	Literals    []string
}

// ParseProblem reads a problem description line by line:
//
//	c comment
//	v x y     declares x, y as vars-to-eliminate
//	m x = 5   records a model assignment
//	l (>= x a) a literal, s-expression surface syntax
//
// Blank lines are skipped; any other prefix is an error, matching how
// strict a small hand-rolled format should be about its own syntax.
func ParseProblem(in io.Reader) (*Problem, error) {
	scanner := bufio.NewScanner(in)
	p := &Problem{}

	for scanner.Scan() {
		line := scanner.Text()
		fields := bytes.Fields(scanner.Bytes())
		if len(fields) == 0 {
			continue
		}
		prefix := string(fields[0])

		switch prefix {
		case "c":
			continue
		case "v":
			for _, f := range fields[1:] {
				p.Vars = append(p.Vars, string(f))
			}
		case "m":
			if len(fields) != 4 || string(fields[2]) != "=" {
				return nil, errors.Errorf("encoding: malformed model line %q", line)
			}
			p.Assignments = append(p.Assignments, Assignment{Name: string(fields[1]), Value: string(fields[3])})
		case "l":
			rest := strings.TrimSpace(strings.TrimPrefix(line, "l"))
			if rest == "" {
				return nil, errors.New("encoding: empty literal line")
			}
			p.Literals = append(p.Literals, rest)
		default:
			return nil, errors.Errorf("encoding: unrecognized line prefix %q", prefix)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "encoding: scanning problem file")
	}
	return p, nil
}
