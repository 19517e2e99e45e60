package result

// Scored is a single ranked search hit.
type Scored struct {
	id             string
	readableID     string
	title          string
	body           string
	date           string
	textScore      float64
	vectorScore    float64
	finalScore     float64
	titleHighlight string
	bodyHighlight  string
}

// New creates a scored result.
func New(
	id, readableID, title, body, date string,
	textScore, vectorScore, finalScore float64,
	titleHighlight, bodyHighlight string,
) Scored {
	return Scored{
		id: id, readableID: readableID, title: title, body: body, date: date,
		textScore: textScore, vectorScore: vectorScore, finalScore: finalScore,
		titleHighlight: titleHighlight, bodyHighlight: bodyHighlight,
	}
}

// ID returns the entry identifier.
func (s *Scored) ID() string { return s.id }

// ReadableID returns the entry slug.
func (s *Scored) ReadableID() string { return s.readableID }

// Title returns the entry title.
func (s *Scored) Title() string { return s.title }

// Body returns the entry body.
func (s *Scored) Body() string { return s.body }

// Date returns the entry date.
func (s *Scored) Date() string { return s.date }

// TextScore returns the lexical relevance score in [0,1].
func (s *Scored) TextScore() float64 { return s.textScore }

// VectorScore returns the vector similarity score; 0 when no embedding was used.
func (s *Scored) VectorScore() float64 { return s.vectorScore }

// FinalScore returns the mode-weighted blend of text and vector scores.
func (s *Scored) FinalScore() float64 { return s.finalScore }

// TitleHighlight returns the title with query matches wrapped in <em> markers.
func (s *Scored) TitleHighlight() string { return s.titleHighlight }

// BodyHighlight returns the body with query matches wrapped in <em> markers.
func (s *Scored) BodyHighlight() string { return s.bodyHighlight }
