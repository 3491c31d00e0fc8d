package docsearch

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/quillio/docsearch/embedding"
	"github.com/quillio/docsearch/vector"
)

// Service defines the document lifecycle of docsearch. All durable state
// lives in the vector store; the service itself is stateless across calls.
type Service interface {

	// CreateDocument embeds and upserts a document, assigning an id when the
	// caller supplies none. Calling it twice with the same id replaces the
	// prior document entirely.
	CreateDocument(ctx context.Context, doc Document) (Document, error)

	// SearchDocuments returns up to limit documents nearest to the query
	// text, ordered by descending similarity. No results is an empty slice.
	SearchDocuments(ctx context.Context, text string, limit int) ([]ScoredDocument, error)

	// UpdateDocument merges the patch into the stored document, re-embeds the
	// merged title and content, and overwrites the point. A missing id
	// reports (false, nil) rather than an error.
	UpdateDocument(ctx context.Context, id uint64, patch DocumentPatch) (bool, error)

	// DeleteDocument removes a document and reports whether it existed.
	// Deleting an absent id is not a fault.
	DeleteDocument(ctx context.Context, id uint64) (bool, error)

	// Close releases the vector store handle.
	Close() error
}

type ServiceMiddleware func(Service) Service

const idAllocationAttempts = 8

func NewService(ctx context.Context, embedder embedding.Embedder, store vector.Store) (Service, error) {
	log := zap.L().With(
		zap.String("service", "docsearch"),
	)

	if err := store.EnsureCollection(ctx); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	return &service{
		embedder: embedder,
		store:    store,
		log:      log,
	}, nil
}

type service struct {
	embedder embedding.Embedder
	store    vector.Store
	log      *zap.Logger
}

func (svc *service) Close() error {
	return svc.store.Close()
}

func (svc *service) CreateDocument(ctx context.Context, doc Document) (Document, error) {
	if doc.Title == "" {
		return Document{}, ErrMissingTitle
	}

	if doc.Content == "" {
		return Document{}, ErrMissingContent
	}

	if doc.ID == 0 {
		id, err := svc.allocateID(ctx)
		if err != nil {
			return Document{}, err
		}

		doc.ID = id
	}

	embedded, err := svc.embedder.Embed(ctx, doc.EmbeddingText())
	if err != nil {
		return Document{}, fmt.Errorf("embed document: %w", err)
	}

	if err := svc.store.Upsert(ctx, pointFromDocument(doc, embedded)); err != nil {
		return Document{}, fmt.Errorf("upsert document: %w", err)
	}

	return doc, nil
}

// allocateID draws random 63-bit ids and checks them against the store, so
// two distinct documents can never silently overwrite each other.
func (svc *service) allocateID(ctx context.Context) (uint64, error) {
	for range idAllocationAttempts {
		id := rand.Uint64() >> 1
		if id == 0 {
			continue
		}

		_, found, err := svc.store.Fetch(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("check id availability: %w", err)
		}

		if !found {
			return id, nil
		}

		svc.log.Warn("generated id already taken", zap.Uint64("id", id))
	}

	return 0, ErrIDSpaceExhausted
}

func (svc *service) SearchDocuments(ctx context.Context, text string, limit int) ([]ScoredDocument, error) {
	if text == "" {
		return nil, ErrMissingQuery
	}

	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	queryVector, err := svc.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := svc.store.Search(ctx, queryVector, limit)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	results := make([]ScoredDocument, len(matches))
	for i, match := range matches {
		results[i] = ScoredDocument{
			Document:   documentFromPoint(match.Point),
			Similarity: match.Score,
		}
	}

	return results, nil
}

func (svc *service) UpdateDocument(ctx context.Context, id uint64, patch DocumentPatch) (bool, error) {
	point, found, err := svc.store.Fetch(ctx, id)
	if err != nil {
		return false, fmt.Errorf("fetch document: %w", err)
	}

	if !found {
		return false, nil
	}

	merged := patch.Apply(documentFromPoint(point))
	merged.ID = id

	// Read-merge-write is not atomic; concurrent updates to the same id
	// resolve last-writer-wins at the store.
	if _, err := svc.CreateDocument(ctx, merged); err != nil {
		return false, err
	}

	return true, nil
}

func (svc *service) DeleteDocument(ctx context.Context, id uint64) (bool, error) {
	// The store's delete succeeds unconditionally, so existence is checked
	// first to let the API answer "not found".
	_, found, err := svc.store.Fetch(ctx, id)
	if err != nil {
		return false, fmt.Errorf("fetch document: %w", err)
	}

	if !found {
		return false, nil
	}

	if err := svc.store.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}

	return true, nil
}
