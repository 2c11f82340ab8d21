package boolquery

import (
	"strings"
	"unicode"

	"github.com/kailas-cloud/trident/internal/domain"
)

type tokenKind int

const (
	tokenTerm tokenKind = iota
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind  tokenKind
	value string
	pos   int
}

func (t token) isOperator() bool {
	return t.kind == tokenAnd || t.kind == tokenOr || t.kind == tokenNot
}

// tokenize splits an expression into terms, phrases, operators, and parens.
// Operator keywords are case-insensitive; quoted phrases keep their content
// as a single term with the quotes stripped.
func tokenize(expression string) ([]token, error) {
	var tokens []token
	runes := []rune(expression)

	for pos := 0; pos < len(runes); {
		r := runes[pos]
		switch {
		case unicode.IsSpace(r):
			pos++
		case r == '(':
			tokens = append(tokens, token{kind: tokenLParen, pos: pos})
			pos++
		case r == ')':
			tokens = append(tokens, token{kind: tokenRParen, pos: pos})
			pos++
		case r == '"':
			end := pos + 1
			for end < len(runes) && runes[end] != '"' {
				end++
			}
			if end >= len(runes) {
				return nil, domain.NewParseError(expression, pos, "unterminated quoted phrase")
			}
			if end == pos+1 {
				return nil, domain.NewParseError(expression, pos, "empty quoted phrase")
			}
			tokens = append(tokens, token{kind: tokenTerm, value: string(runes[pos+1 : end]), pos: pos})
			pos = end + 1
		default:
			end := pos
			for end < len(runes) && !isTermBoundary(runes[end]) {
				end++
			}
			word := string(runes[pos:end])
			tokens = append(tokens, token{kind: keywordKind(word), value: word, pos: pos})
			pos = end
		}
	}

	return tokens, nil
}

func isTermBoundary(r rune) bool {
	return unicode.IsSpace(r) || r == '(' || r == ')' || r == '"'
}

func keywordKind(word string) tokenKind {
	switch strings.ToUpper(word) {
	case "AND":
		return tokenAnd
	case "OR":
		return tokenOr
	case "NOT":
		return tokenNot
	default:
		return tokenTerm
	}
}

// HasOperators reports whether the expression uses boolean syntax (operators,
// parentheses, or quoted phrases). Plain queries skip the parser entirely and
// go to the backend as a multi-field match.
func HasOperators(expression string) bool {
	tokens, err := tokenize(expression)
	if err != nil {
		// Broken quoting is boolean syntax; let Parse report the position.
		return true
	}
	for _, t := range tokens {
		if t.kind != tokenTerm {
			return true
		}
	}
	return strings.Contains(expression, `"`)
}
