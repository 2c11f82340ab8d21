package boolquery

import (
	"github.com/kailas-cloud/trident/internal/domain"
)

// Parse builds an expression tree from a boolean query string.
// Malformed input (empty expression, dangling operators, mismatched
// parentheses, broken quoting) fails with *domain.ParseError.
func Parse(expression string) (Node, error) {
	tokens, err := tokenize(expression)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, domain.NewParseError(expression, 0, "empty expression")
	}

	p := &parser{expression: expression}
	for _, t := range tokens {
		if err := p.push(t); err != nil {
			return nil, err
		}
	}
	return p.finish()
}

// parser runs the shunting-yard algorithm, reducing operators onto an output
// stack of tree nodes. Precedence: NOT > AND > OR.
type parser struct {
	expression string
	output     []Node
	operators  []token
}

func precedence(kind tokenKind) int {
	switch kind {
	case tokenNot:
		return 3
	case tokenAnd:
		return 2
	case tokenOr:
		return 1
	default:
		return 0
	}
}

func (p *parser) push(t token) error {
	switch {
	case t.kind == tokenTerm:
		p.output = append(p.output, Term{Value: t.value})
	case t.kind == tokenLParen:
		p.operators = append(p.operators, t)
	case t.kind == tokenRParen:
		for len(p.operators) > 0 && p.top().kind != tokenLParen {
			if err := p.apply(p.pop()); err != nil {
				return err
			}
		}
		if len(p.operators) == 0 {
			return domain.NewParseError(p.expression, t.pos, "mismatched parenthesis")
		}
		p.pop() // discard '('
	case t.isOperator():
		for len(p.operators) > 0 && p.top().isOperator() && precedence(p.top().kind) >= precedence(t.kind) {
			if err := p.apply(p.pop()); err != nil {
				return err
			}
		}
		p.operators = append(p.operators, t)
	}
	return nil
}

func (p *parser) finish() (Node, error) {
	for len(p.operators) > 0 {
		op := p.pop()
		if op.kind == tokenLParen {
			return nil, domain.NewParseError(p.expression, op.pos, "mismatched parenthesis")
		}
		if err := p.apply(op); err != nil {
			return nil, err
		}
	}
	if len(p.output) != 1 {
		return nil, domain.NewParseError(p.expression, 0, "expression does not reduce to a single query")
	}
	return p.output[0], nil
}

// apply pops operands for op off the output stack and pushes the combined node.
func (p *parser) apply(op token) error {
	if op.kind == tokenNot {
		if len(p.output) < 1 {
			return domain.NewParseError(p.expression, op.pos, "NOT missing operand")
		}
		child := p.output[len(p.output)-1]
		p.output = p.output[:len(p.output)-1]
		p.output = append(p.output, Not{Child: child})
		return nil
	}

	if len(p.output) < 2 {
		name := "AND"
		if op.kind == tokenOr {
			name = "OR"
		}
		return domain.NewParseError(p.expression, op.pos, name+" missing operands")
	}
	right := p.output[len(p.output)-1]
	left := p.output[len(p.output)-2]
	p.output = p.output[:len(p.output)-2]

	if op.kind == tokenAnd {
		p.output = append(p.output, And{Left: left, Right: right})
	} else {
		p.output = append(p.output, Or{Left: left, Right: right})
	}
	return nil
}

func (p *parser) top() token {
	return p.operators[len(p.operators)-1]
}

func (p *parser) pop() token {
	t := p.operators[len(p.operators)-1]
	p.operators = p.operators[:len(p.operators)-1]
	return t
}
