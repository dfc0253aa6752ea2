package encoding

import (
	"strings"

	"github.com/pkg/errors"
)

// sexpr is a minimal s-expression node: either an atom or a list of
// children. The surface syntax is deliberately small, a full reader-macro
// grammar buys nothing; this is just enough structure to recover a
// literal's operator and arguments.
type sexpr struct {
	atom string
	list []*sexpr
}

func (s *sexpr) isAtom() bool { return s.list == nil }

func render(n *sexpr) string {
	if n.isAtom() {
		return n.atom
	}
	var sb strings.Builder
	sb.WriteByte('(')
	for i, c := range n.list {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(render(c))
	}
	sb.WriteByte(')')
	return sb.String()
}

func tokenizeSexpr(text string) []string {
	var tokens []string
	var cur []byte
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, string(cur))
			cur = cur[:0]
		}
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '(' || c == ')':
			flush()
			tokens = append(tokens, string(c))
		case c == ' ' || c == '\t':
			flush()
		default:
			cur = append(cur, c)
		}
	}
	flush()
	return tokens
}

func parseSexpr(text string) (*sexpr, error) {
	tokens := tokenizeSexpr(text)
	if len(tokens) == 0 {
		return nil, errors.New("encoding: empty s-expression")
	}
	node, rest, err := parseSexprTokens(tokens)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, errors.Errorf("encoding: trailing tokens after s-expression: %v", rest)
	}
	return node, nil
}

func parseSexprTokens(tokens []string) (*sexpr, []string, error) {
	if len(tokens) == 0 {
		return nil, nil, errors.New("encoding: unexpected end of s-expression")
	}
	head, rest := tokens[0], tokens[1:]
	if head == ")" {
		return nil, nil, errors.New("encoding: unexpected ')'")
	}
	if head != "(" {
		return &sexpr{atom: head}, rest, nil
	}

	children := []*sexpr{}
	for {
		if len(rest) == 0 {
			return nil, nil, errors.New("encoding: unterminated s-expression")
		}
		if rest[0] == ")" {
			return &sexpr{list: children}, rest[1:], nil
		}
		child, next, err := parseSexprTokens(rest)
		if err != nil {
			return nil, nil, err
		}
		children = append(children, child)
		rest = next
	}
}
