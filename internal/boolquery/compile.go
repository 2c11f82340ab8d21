package boolquery

// Searchable document fields with boost factors, title weighted 2x.
var matchFields = []string{"title^2", "content"}

// Query is the backend-agnostic compiled form of an expression tree.
// Exactly one of Match and Bool is set.
type Query struct {
	Match *MatchClause
	Bool  *BoolClause
}

// MatchClause is a multi-field text match.
type MatchClause struct {
	Text   string
	Fields []string
}

// BoolClause combines sub-queries with must / should / must-not semantics.
type BoolClause struct {
	Must               []Query
	Should             []Query
	MustNot            []Query
	MinimumShouldMatch int
}

// Match wraps plain query text in a multi-field match clause. Used for
// queries without boolean operators, which never go through Parse.
func Match(text string) Query {
	return Query{Match: &MatchClause{Text: text, Fields: matchFields}}
}

// Compile lowers an expression tree into a Query. The mapping is purely
// structural and deterministic; no backend is consulted.
//
//	Term(v)   -> multi-field match over title^2 + content
//	Not(c)    -> bool must_not [c]
//	And(l, r) -> bool must [l, r]
//	Or(l, r)  -> bool should [l, r], minimum_should_match 1
func Compile(node Node) Query {
	switch n := node.(type) {
	case Term:
		return Match(n.Value)
	case Not:
		return Query{Bool: &BoolClause{
			MustNot: []Query{Compile(n.Child)},
		}}
	case And:
		return Query{Bool: &BoolClause{
			Must: []Query{Compile(n.Left), Compile(n.Right)},
		}}
	case Or:
		return Query{Bool: &BoolClause{
			Should:             []Query{Compile(n.Left), Compile(n.Right)},
			MinimumShouldMatch: 1,
		}}
	default:
		// Unreachable: Node is a closed set.
		return Query{}
	}
}
