package docsearch

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/quillio/docsearch/embedding"
	"github.com/quillio/docsearch/vector"
)

var (
	ErrMissingTitle     = errors.New("title is required")
	ErrMissingContent   = errors.New("content is required")
	ErrMissingQuery     = errors.New("search text is required")
	ErrInvalidLimit     = errors.New("limit must be positive")
	ErrNotFound         = errors.New("document not found")
	ErrIDSpaceExhausted = errors.New("unable to allocate a free document id")
)

type Config struct {
	Vector    vector.Config    `yaml:"vector"`
	Embedding embedding.Config `yaml:"embedding"`
}

// Document is the sole entity of the service. The stored vector is derived
// from Title and Content and is never settable by callers.
type Document struct {
	ID       uint64  `json:"id"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Category *string `json:"category,omitempty"`
}

// EmbeddingText is the string whose embedding must equal the stored vector
// after every successful write.
func (d Document) EmbeddingText() string {
	return d.Title + " " + d.Content
}

type ScoredDocument struct {
	Document
	Similarity float32 `json:"similarity"`
}

// OptionalString distinguishes the three PATCH states of an optional field:
// key absent (untouched), explicit null (clear), and a string value (set).
type OptionalString struct {
	Present bool
	Valid   bool
	Value   string
}

func (s *OptionalString) UnmarshalJSON(data []byte) error {
	s.Present = true

	if bytes.Equal(data, []byte("null")) {
		s.Valid = false
		s.Value = ""
		return nil
	}

	if err := json.Unmarshal(data, &s.Value); err != nil {
		return err
	}

	s.Valid = true
	return nil
}

// DocumentPatch carries a partial update. Nil title/content keep the stored
// value; category follows the OptionalString three-state rule.
type DocumentPatch struct {
	Title    *string        `json:"title"`
	Content  *string        `json:"content"`
	Category OptionalString `json:"category"`
}

// MarshalJSON keeps the untouched/cleared distinction on the wire: the
// category key is emitted only when the patch actually touches it.
func (p DocumentPatch) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any)

	if p.Title != nil {
		fields["title"] = *p.Title
	}

	if p.Content != nil {
		fields["content"] = *p.Content
	}

	if p.Category.Present {
		if p.Category.Valid {
			fields["category"] = p.Category.Value
		} else {
			fields["category"] = nil
		}
	}

	return json.Marshal(fields)
}

func (p DocumentPatch) Apply(doc Document) Document {
	if p.Title != nil {
		doc.Title = *p.Title
	}

	if p.Content != nil {
		doc.Content = *p.Content
	}

	if p.Category.Present {
		if p.Category.Valid {
			category := p.Category.Value
			doc.Category = &category
		} else {
			doc.Category = nil
		}
	}

	return doc
}

func documentFromPoint(point vector.Point) Document {
	return Document{
		ID:       point.ID,
		Title:    point.Payload.Title,
		Content:  point.Payload.Content,
		Category: point.Payload.Category,
	}
}

func pointFromDocument(doc Document, embedding []float32) vector.Point {
	return vector.Point{
		ID:     doc.ID,
		Vector: embedding,
		Payload: vector.Payload{
			Title:    doc.Title,
			Content:  doc.Content,
			Category: doc.Category,
		},
	}
}
