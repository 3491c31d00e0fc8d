package nats

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/go-kit/kit/endpoint"
	"github.com/nats-io/nats.go/micro"

	"github.com/quillio/docsearch"
)

func errorCode(err error) string {
	switch {
	case errors.Is(err, docsearch.ErrNotFound):
		return "404"
	case errors.Is(err, docsearch.ErrMissingTitle),
		errors.Is(err, docsearch.ErrMissingContent),
		errors.Is(err, docsearch.ErrMissingQuery),
		errors.Is(err, docsearch.ErrInvalidLimit):
		return "400"
	default:
		return "502"
	}
}

func CreateDocumentHandler(endpoint endpoint.Endpoint) micro.HandlerFunc {
	return func(r micro.Request) {
		var req docsearch.CreateDocumentRequest
		if err := json.Unmarshal(r.Data(), &req); err != nil {
			r.Error("400", err.Error(), nil)
			return
		}

		ctx := context.Background()
		resp, err := endpoint(ctx, req)
		if err != nil {
			r.Error(errorCode(err), err.Error(), nil)
			return
		}

		doc, ok := resp.(docsearch.Document)
		if !ok {
			r.Error("500", "invalid response type", nil)
			return
		}

		r.RespondJSON(&doc)
	}
}

func SearchDocumentsHandler(endpoint endpoint.Endpoint) micro.HandlerFunc {
	return func(r micro.Request) {
		req := docsearch.SearchDocumentsRequest{
			Limit: docsearch.DefaultSearchLimit,
		}

		if err := json.Unmarshal(r.Data(), &req); err != nil {
			r.Error("400", err.Error(), nil)
			return
		}

		ctx := context.Background()
		resp, err := endpoint(ctx, req)
		if err != nil {
			r.Error(errorCode(err), err.Error(), nil)
			return
		}

		results, ok := resp.([]docsearch.ScoredDocument)
		if !ok {
			r.Error("500", "invalid response type", nil)
			return
		}

		r.RespondJSON(&results)
	}
}

func UpdateDocumentHandler(endpoint endpoint.Endpoint) micro.HandlerFunc {
	return func(r micro.Request) {
		var req docsearch.UpdateDocumentRequest
		if err := json.Unmarshal(r.Data(), &req); err != nil {
			r.Error("400", err.Error(), nil)
			return
		}

		ctx := context.Background()
		_, err := endpoint(ctx, req)
		if err != nil {
			r.Error(errorCode(err), err.Error(), nil)
			return
		}

		r.Respond([]byte("OK"))
	}
}

func DeleteDocumentHandler(endpoint endpoint.Endpoint) micro.HandlerFunc {
	return func(r micro.Request) {
		id, err := strconv.ParseUint(string(r.Data()), 10, 64)
		if err != nil {
			r.Error("400", "invalid document id", nil)
			return
		}

		ctx := context.Background()
		if _, err := endpoint(ctx, id); err != nil {
			r.Error(errorCode(err), err.Error(), nil)
			return
		}

		r.Respond([]byte("OK"))
	}
}
