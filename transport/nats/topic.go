package nats

import (
	"github.com/nats-io/nats.go/micro"

	"github.com/quillio/docsearch"
)

func AddEndpoints(group micro.Group, endpoints docsearch.EndpointSet) {
	group.AddEndpoint("create_document", CreateDocumentHandler(endpoints.CreateDocument))
	group.AddEndpoint("search_documents", SearchDocumentsHandler(endpoints.SearchDocuments))
	group.AddEndpoint("update_document", UpdateDocumentHandler(endpoints.UpdateDocument))
	group.AddEndpoint("delete_document", DeleteDocumentHandler(endpoints.DeleteDocument))
}
