package method

// Method is the search strategy.
type Method string

// Search method constants.
const (
	// Combined tries full-text first and falls back to fuzzy on zero results.
	Combined Method = "combined"
	Vector   Method = "vector"
	Fuzzy    Method = "fuzzy"
	Fulltext Method = "fulltext"
)

// IsValid checks if the method is one of the supported values.
func (m Method) IsValid() bool {
	return m == Combined || m == Vector || m == Fuzzy || m == Fulltext
}

// All returns the supported methods in their documented order.
func All() []Method {
	return []Method{Combined, Vector, Fuzzy, Fulltext}
}
