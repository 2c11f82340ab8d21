package order

// Order is the presentation sort for merged results.
type Order string

// Sort order constants.
const (
	// ByScore sorts by relevance score, descending. Default.
	ByScore Order = "score"
	// ByName sorts by document title, ascending, case-sensitive.
	ByName Order = "name"
)

// IsValid checks if the order is one of the supported values.
func (o Order) IsValid() bool {
	return o == ByScore || o == ByName
}
