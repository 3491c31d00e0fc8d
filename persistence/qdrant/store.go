package qdrant

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/quillio/docsearch/vector"
)

// NewQdrantStore connects to a Qdrant instance over gRPC. The port is the
// gRPC port (6334 by default), not the HTTP one.
func NewQdrantStore(cfg vector.Config) (vector.Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Host,
		Port: cfg.Port,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant connect: %w", err)
	}

	return &qdrantStore{
		client:     client,
		collection: cfg.Collection,
		dimension:  uint64(cfg.Dimension),
	}, nil
}

type qdrantStore struct {
	client     *qdrant.Client
	collection string
	dimension  uint64
}

func (s *qdrantStore) EnsureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("check collection existence: %w", err)
	}

	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	return nil
}

func (s *qdrantStore) Upsert(ctx context.Context, point vector.Point) error {
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDNum(point.ID),
				Vectors: qdrant.NewVectors(point.Vector...),
				Payload: buildPayload(point.Payload),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("upsert point: %w", err)
	}

	return nil
}

func (s *qdrantStore) Fetch(ctx context.Context, id uint64) (vector.Point, bool, error) {
	points, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: s.collection,
		Ids:            []*qdrant.PointId{qdrant.NewIDNum(id)},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return vector.Point{}, false, fmt.Errorf("get point: %w", err)
	}

	if len(points) == 0 {
		return vector.Point{}, false, nil
	}

	return vector.Point{
		ID:      id,
		Payload: parsePayload(points[0].Payload),
	}, true, nil
}

func (s *qdrantStore) Search(ctx context.Context, queryVector []float32, limit int) ([]vector.Match, error) {
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}

	matches := make([]vector.Match, len(points))
	for i, point := range points {
		matches[i] = vector.Match{
			Point: vector.Point{
				ID:      point.Id.GetNum(),
				Payload: parsePayload(point.Payload),
			},
			Score: point.Score,
		}
	}

	return matches, nil
}

func (s *qdrantStore) Delete(ctx context.Context, id uint64) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         qdrant.NewPointsSelector(qdrant.NewIDNum(id)),
	})
	if err != nil {
		return fmt.Errorf("delete point: %w", err)
	}

	return nil
}

func (s *qdrantStore) Close() error {
	return s.client.Close()
}

func buildPayload(payload vector.Payload) map[string]*qdrant.Value {
	values := make(map[string]*qdrant.Value)

	values["title"], _ = qdrant.NewValue(payload.Title)
	values["content"], _ = qdrant.NewValue(payload.Content)

	if payload.Category != nil {
		values["category"], _ = qdrant.NewValue(*payload.Category)
	}

	return values
}

func parsePayload(values map[string]*qdrant.Value) vector.Payload {
	payload := vector.Payload{}

	if v, ok := values["title"]; ok {
		payload.Title = v.GetStringValue()
	}

	if v, ok := values["content"]; ok {
		payload.Content = v.GetStringValue()
	}

	if v, ok := values["category"]; ok && v.GetStringValue() != "" {
		category := v.GetStringValue()
		payload.Category = &category
	}

	return payload
}

var _ vector.Store = (*qdrantStore)(nil)
