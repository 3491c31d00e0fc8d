package docsearch

import (
	"context"
	"errors"
)

// ProxyMiddleware implements Service over a remote EndpointSet, letting a
// client binary drive the service through any transport that can build one.
func ProxyMiddleware(endpoints *EndpointSet) ServiceMiddleware {
	return func(next Service) Service {
		return &proxyMiddleware{
			endpoints: endpoints,
		}
	}
}

type proxyMiddleware struct {
	endpoints *EndpointSet
}

func (mw *proxyMiddleware) Close() error {
	return nil
}

func (mw *proxyMiddleware) CreateDocument(ctx context.Context, doc Document) (Document, error) {
	resp, err := mw.endpoints.CreateDocument(ctx, CreateDocumentRequest(doc))
	if err != nil {
		return Document{}, err
	}

	created, ok := resp.(Document)
	if !ok {
		return Document{}, errors.New("invalid response type")
	}

	return created, nil
}

func (mw *proxyMiddleware) SearchDocuments(ctx context.Context, text string, limit int) ([]ScoredDocument, error) {
	req := SearchDocumentsRequest{
		Text:  text,
		Limit: limit,
	}

	resp, err := mw.endpoints.SearchDocuments(ctx, req)
	if err != nil {
		return nil, err
	}

	results, ok := resp.([]ScoredDocument)
	if !ok {
		return nil, errors.New("invalid response type")
	}

	return results, nil
}

func (mw *proxyMiddleware) UpdateDocument(ctx context.Context, id uint64, patch DocumentPatch) (bool, error) {
	req := UpdateDocumentRequest{
		ID:    id,
		Patch: patch,
	}

	_, err := mw.endpoints.UpdateDocument(ctx, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (mw *proxyMiddleware) DeleteDocument(ctx context.Context, id uint64) (bool, error) {
	_, err := mw.endpoints.DeleteDocument(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
