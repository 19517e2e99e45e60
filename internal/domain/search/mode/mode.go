package mode

// Mode is the search strategy.
type Mode string

// Search mode constants.
const (
	// Hybrid blends lexical and vector similarity scores.
	Hybrid Mode = "hybrid"
	Vector Mode = "vector"
	Text   Mode = "text"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Hybrid || m == Vector || m == Text
}

// UsesVector reports whether the mode needs a query embedding.
func (m Mode) UsesVector() bool { return m == Hybrid || m == Vector }

// UsesText reports whether the mode computes lexical scores.
func (m Mode) UsesText() bool { return m == Hybrid || m == Text }
