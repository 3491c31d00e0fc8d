package nats

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/go-kit/kit/endpoint"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"

	"github.com/quillio/docsearch"
)

// MakeEndpoints builds a client-side EndpointSet whose endpoints issue NATS
// requests against a server registered with AddEndpoints under prefix.
func MakeEndpoints(nc *nats.Conn, prefix string) *docsearch.EndpointSet {
	return &docsearch.EndpointSet{
		CreateDocument:  CreateDocumentEndpoint(nc, prefix+".create_document"),
		SearchDocuments: SearchDocumentsEndpoint(nc, prefix+".search_documents"),
		UpdateDocument:  UpdateDocumentEndpoint(nc, prefix+".update_document"),
		DeleteDocument:  DeleteDocumentEndpoint(nc, prefix+".delete_document"),
	}
}

func remoteError(msg *nats.Msg) error {
	code := msg.Header.Get(micro.ErrorCodeHeader)
	if code == "" {
		return nil
	}

	if code == "404" {
		return docsearch.ErrNotFound
	}

	return errors.New(msg.Header.Get(micro.ErrorHeader))
}

func CreateDocumentEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(docsearch.CreateDocumentRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		data, err := json.Marshal(&req)
		if err != nil {
			return nil, err
		}

		resp, err := nc.Request(topic, data, nats.DefaultTimeout)
		if err != nil {
			return nil, err
		}

		if err := remoteError(resp); err != nil {
			return nil, err
		}

		var doc docsearch.Document
		if err := json.Unmarshal(resp.Data, &doc); err != nil {
			return nil, err
		}

		return doc, nil
	}
}

func SearchDocumentsEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(docsearch.SearchDocumentsRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		data, err := json.Marshal(&req)
		if err != nil {
			return nil, err
		}

		resp, err := nc.Request(topic, data, nats.DefaultTimeout)
		if err != nil {
			return nil, err
		}

		if err := remoteError(resp); err != nil {
			return nil, err
		}

		var results []docsearch.ScoredDocument
		if err := json.Unmarshal(resp.Data, &results); err != nil {
			return nil, err
		}

		return results, nil
	}
}

func UpdateDocumentEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(docsearch.UpdateDocumentRequest)
		if !ok {
			return nil, errors.New("invalid request")
		}

		data, err := json.Marshal(&req)
		if err != nil {
			return nil, err
		}

		resp, err := nc.Request(topic, data, nats.DefaultTimeout)
		if err != nil {
			return nil, err
		}

		if err := remoteError(resp); err != nil {
			return nil, err
		}

		return string(resp.Data), nil
	}
}

func DeleteDocumentEndpoint(nc *nats.Conn, topic string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		id, ok := request.(uint64)
		if !ok {
			return nil, errors.New("invalid request")
		}

		data := strconv.FormatUint(id, 10)

		resp, err := nc.Request(topic, []byte(data), nats.DefaultTimeout)
		if err != nil {
			return nil, err
		}

		if err := remoteError(resp); err != nil {
			return nil, err
		}

		return string(resp.Data), nil
	}
}
