package docsearch

import (
	"context"
	"errors"

	"github.com/go-kit/kit/endpoint"
)

type EndpointSet struct {
	CreateDocument  endpoint.Endpoint
	SearchDocuments endpoint.Endpoint
	UpdateDocument  endpoint.Endpoint
	DeleteDocument  endpoint.Endpoint
}

type CreateDocumentRequest = Document

func CreateDocumentEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(CreateDocumentRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		return svc.CreateDocument(ctx, req)
	}
}

const DefaultSearchLimit = 5

type SearchDocumentsRequest struct {
	Text  string `json:"text"`
	Limit int    `json:"limit,omitempty"`
}

func SearchDocumentsEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(SearchDocumentsRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		return svc.SearchDocuments(ctx, req.Text, req.Limit)
	}
}

type UpdateDocumentRequest struct {
	ID    uint64        `json:"id"`
	Patch DocumentPatch `json:"patch"`
}

func UpdateDocumentEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(UpdateDocumentRequest)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		found, err := svc.UpdateDocument(ctx, req.ID, req.Patch)
		if err != nil {
			return nil, err
		}

		if !found {
			return nil, ErrNotFound
		}

		return nil, nil
	}
}

func DeleteDocumentEndpoint(svc Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		id, ok := request.(uint64)
		if !ok {
			return nil, errors.New("invalid request type")
		}

		found, err := svc.DeleteDocument(ctx, id)
		if err != nil {
			return nil, err
		}

		if !found {
			return nil, ErrNotFound
		}

		return nil, nil
	}
}
