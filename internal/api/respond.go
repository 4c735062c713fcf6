package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/blog-content-api/internal/service"
)

// writeError maps a service error onto the response envelope. Validation
// failures carry their field details; everything unrecognized is a 500 with
// the underlying message so partial failures surface instead of vanishing.
func writeError(c *gin.Context, log zerolog.Logger, err error) {
	var invalid *service.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": invalid.Error(),
			"errors":  invalid.Errors,
		})
	case errors.Is(err, service.ErrArticleNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrNoArticles):
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
	case errors.Is(err, service.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
	}
}
