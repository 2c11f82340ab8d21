package match

// Type classifies which strategy produced a search result.
type Type string

// Match type constants.
const (
	Exact    Type = "exact"
	Fuzzy    Type = "fuzzy"
	Semantic Type = "semantic"
)

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	return t == Exact || t == Fuzzy || t == Semantic
}
