package chromem

import (
	"context"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/quillio/docsearch/vector"
)

// NewChromemStore returns an embedded, in-process vector.Store. Embeddings
// are always precomputed by the caller; chromem never embeds on its own.
func NewChromemStore(cfg vector.Config) (vector.Store, error) {
	var db *chromem.DB
	if !cfg.Persistent {
		db = chromem.NewDB()
	} else {
		d, err := chromem.NewPersistentDB(cfg.Path, false)
		if err != nil {
			return nil, err
		}

		db = d
	}

	return &chromemStore{
		db:   db,
		name: cfg.Collection,
	}, nil
}

type chromemStore struct {
	db         *chromem.DB
	name       string
	collection *chromem.Collection
}

func (s *chromemStore) EnsureCollection(ctx context.Context) error {
	c, err := s.db.GetOrCreateCollection(s.name, nil, nil)
	if err != nil {
		return err
	}

	s.collection = c
	return nil
}

func (s *chromemStore) Upsert(ctx context.Context, point vector.Point) error {
	return s.collection.AddDocument(ctx, toChromemDocument(point))
}

func (s *chromemStore) Fetch(ctx context.Context, id uint64) (vector.Point, bool, error) {
	doc, err := s.collection.GetByID(ctx, formatID(id))
	if err != nil || doc.ID == "" {
		// chromem reports a missing id as an error; the store contract
		// treats it as absence.
		return vector.Point{}, false, nil
	}

	return toPoint(doc), true, nil
}

func (s *chromemStore) Search(ctx context.Context, queryVector []float32, limit int) ([]vector.Match, error) {
	if count := s.collection.Count(); limit > count {
		limit = count
	}

	if limit == 0 {
		return []vector.Match{}, nil
	}

	results, err := s.collection.QueryEmbedding(ctx, queryVector, limit, nil, nil)
	if err != nil {
		return nil, err
	}

	matches := make([]vector.Match, len(results))
	for i, result := range results {
		matches[i] = vector.Match{
			Point: toPoint(chromem.Document{
				ID:        result.ID,
				Metadata:  result.Metadata,
				Embedding: result.Embedding,
				Content:   result.Content,
			}),
			Score: result.Similarity,
		}
	}

	return matches, nil
}

func (s *chromemStore) Delete(ctx context.Context, id uint64) error {
	return s.collection.Delete(ctx, nil, nil, formatID(id))
}

func (s *chromemStore) Close() error {
	return nil
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func toChromemDocument(point vector.Point) chromem.Document {
	metadata := map[string]string{
		"title": point.Payload.Title,
	}

	if point.Payload.Category != nil {
		metadata["category"] = *point.Payload.Category
	}

	return chromem.Document{
		ID:        formatID(point.ID),
		Metadata:  metadata,
		Embedding: point.Vector,
		Content:   point.Payload.Content,
	}
}

func toPoint(doc chromem.Document) vector.Point {
	id, _ := strconv.ParseUint(doc.ID, 10, 64)

	payload := vector.Payload{
		Title:   doc.Metadata["title"],
		Content: doc.Content,
	}

	if category, ok := doc.Metadata["category"]; ok {
		payload.Category = &category
	}

	return vector.Point{
		ID:      id,
		Vector:  doc.Embedding,
		Payload: payload,
	}
}

var _ vector.Store = (*chromemStore)(nil)
