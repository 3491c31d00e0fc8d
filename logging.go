package docsearch

import (
	"context"

	"go.uber.org/zap"
)

func LoggingMiddleware(log *zap.Logger) ServiceMiddleware {
	log = log.With(
		zap.String("service", "docsearch"),
	)

	return func(next Service) Service {
		log.Info("service initialized")

		return &loggingMiddleware{
			log:  log,
			next: next,
		}
	}
}

type loggingMiddleware struct {
	log  *zap.Logger
	next Service
}

func (mw *loggingMiddleware) Close() error {
	log := mw.log.With(
		zap.String("action", "close"),
	)

	err := mw.next.Close()
	if err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("service closed")
	return nil
}

func (mw *loggingMiddleware) CreateDocument(ctx context.Context, doc Document) (Document, error) {
	log := mw.log.With(
		zap.String("action", "create_document"),
	)

	if doc.ID != 0 {
		log = log.With(
			zap.Uint64("id", doc.ID),
		)
	}

	created, err := mw.next.CreateDocument(ctx, doc)
	if err != nil {
		log.Error(err.Error())
		return Document{}, err
	}

	log.Info("document created", zap.Uint64("id", created.ID))
	return created, nil
}

func (mw *loggingMiddleware) SearchDocuments(ctx context.Context, text string, limit int) ([]ScoredDocument, error) {
	log := mw.log.With(
		zap.String("action", "search_documents"),
		zap.Int("limit", limit),
	)

	results, err := mw.next.SearchDocuments(ctx, text, limit)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("documents searched", zap.Int("count", len(results)))
	return results, nil
}

func (mw *loggingMiddleware) UpdateDocument(ctx context.Context, id uint64, patch DocumentPatch) (bool, error) {
	log := mw.log.With(
		zap.String("action", "update_document"),
		zap.Uint64("id", id),
	)

	found, err := mw.next.UpdateDocument(ctx, id, patch)
	if err != nil {
		log.Error(err.Error())
		return false, err
	}

	if !found {
		log.Warn("document not found")
		return false, nil
	}

	log.Info("document updated")
	return true, nil
}

func (mw *loggingMiddleware) DeleteDocument(ctx context.Context, id uint64) (bool, error) {
	log := mw.log.With(
		zap.String("action", "delete_document"),
		zap.Uint64("id", id),
	)

	found, err := mw.next.DeleteDocument(ctx, id)
	if err != nil {
		log.Error(err.Error())
		return false, err
	}

	if !found {
		log.Warn("document not found")
		return false, nil
	}

	log.Info("document deleted")
	return true, nil
}
