// Package boolquery parses boolean search expressions and compiles them into
// a backend-agnostic query structure.
//
// Grammar: terms and double-quoted phrases combined with case-insensitive
// AND, OR, and NOT, grouped by parentheses. NOT binds tighter than AND,
// which binds tighter than OR.
package boolquery

// Node is one variant of the expression tree: Term, Not, And, or Or.
// The set is closed; sniff the concrete type with a type switch.
type Node interface {
	node()
}

// Term is a single word or quoted phrase.
type Term struct {
	Value string
}

// Not negates its child.
type Not struct {
	Child Node
}

// And requires both children.
type And struct {
	Left  Node
	Right Node
}

// Or requires at least one child.
type Or struct {
	Left  Node
	Right Node
}

func (Term) node() {}
func (Not) node()  {}
func (And) node()  {}
func (Or) node()   {}
