package http

import (
	"github.com/gin-gonic/gin"

	"github.com/quillio/docsearch"
)

func AddRouters(r *gin.Engine, endpoints docsearch.EndpointSet) {
	r.POST("/documents/", CreateDocumentHandler(endpoints.CreateDocument))
	r.POST("/search/", SearchDocumentsHandler(endpoints.SearchDocuments))
	r.PATCH("/documents/:id", UpdateDocumentHandler(endpoints.UpdateDocument))
	r.DELETE("/documents/:id", DeleteDocumentHandler(endpoints.DeleteDocument))
}
