package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/kit/endpoint"

	"github.com/quillio/docsearch"
)

// statusOf maps service errors onto the HTTP surface: caller mistakes are
// 400, a missing document is 404, and everything else is an infra fault.
func statusOf(err error) int {
	switch {
	case errors.Is(err, docsearch.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, docsearch.ErrMissingTitle),
		errors.Is(err, docsearch.ErrMissingContent),
		errors.Is(err, docsearch.ErrMissingQuery),
		errors.Is(err, docsearch.ErrInvalidLimit):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func abortWithError(c *gin.Context, err error) {
	c.String(statusOf(err), err.Error())
	c.Error(err)
	c.Abort()
}

func CreateDocumentHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req docsearch.CreateDocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			c.Error(err)
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		resp, err := endpoint(ctx, req)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

func SearchDocumentsHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := docsearch.SearchDocumentsRequest{
			Limit: docsearch.DefaultSearchLimit,
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			c.Error(err)
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		resp, err := endpoint(ctx, req)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, &resp)
	}
}

func UpdateDocumentHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.String(http.StatusBadRequest, "invalid document id")
			c.Error(err)
			c.Abort()
			return
		}

		var patch docsearch.DocumentPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			c.Error(err)
			c.Abort()
			return
		}

		req := docsearch.UpdateDocumentRequest{
			ID:    id,
			Patch: patch,
		}

		ctx := c.Request.Context()
		if _, err := endpoint(ctx, req); err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "document updated successfully"})
	}
}

func DeleteDocumentHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.String(http.StatusBadRequest, "invalid document id")
			c.Error(err)
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		if _, err := endpoint(ctx, id); err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "document deleted successfully"})
	}
}
