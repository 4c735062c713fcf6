package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/blog-content-api/internal/config"
	"github.com/blog-content-api/internal/service"
)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// CreateArticle handles POST /api/save/:slug
// Accepts a multipart "markdown" file plus an optional "categoryId" field.
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	markdown, ok := h.readUpload(c, "markdown")
	if !ok {
		return
	}

	article, err := h.services.Article.Create(ctx, slug, markdown, c.PostForm("categoryId"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "article created",
		"article": article,
	})
}

// UpdateArticle handles PUT /api/update/:slug
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	markdown, ok := h.readUpload(c, "markdown")
	if !ok {
		return
	}

	article, err := h.services.Article.Update(ctx, slug, markdown, c.PostForm("categoryId"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "article updated",
		"article": article,
	})
}

// DeleteArticle handles DELETE /api/article/:slugOrId
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slugOrId")

	if err := h.services.Article.Delete(ctx, slug); err != nil {
		writeError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetArticle handles GET /api/article/:slugOrId
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	ctx := c.Request.Context()

	article, err := h.services.Article.Get(ctx, c.Param("slugOrId"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   article,
	})
}

// ListArticles handles GET /api/articles?page=&category=
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	ctx := c.Request.Context()

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "page must be a positive integer",
		})
		return
	}

	var categoryID *int64
	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "category must be a valid integer",
			})
			return
		}
		categoryID = &id
	}

	list, err := h.services.Article.List(ctx, page, categoryID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"data":        list.Data,
		"total":       list.Total,
		"currentPage": list.CurrentPage,
		"totalPages":  list.TotalPages,
	})
}

// CountByCategory handles GET /api/articles/count-by-category
func (h *ArticleHandler) CountByCategory(c *gin.Context) {
	ctx := c.Request.Context()

	counts, err := h.services.Article.CountByCategory(ctx)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   counts,
	})
}

// CheckOrGenerateSlug handles GET /api/check-or-generate-slug/:slug
func (h *ArticleHandler) CheckOrGenerateSlug(c *gin.Context) {
	ctx := c.Request.Context()

	check, err := h.services.Article.CheckOrGenerateSlug(ctx, c.Param("slug"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"exists":     check.Exists,
		"uniqueSlug": check.UniqueSlug,
	})
}

// UploadTitleImage handles POST /api/upload/images/:slug
// Returns the stored image URL only; associating it with an article is the
// caller's responsibility.
func (h *ArticleHandler) UploadTitleImage(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	file, header, err := c.Request.FormFile("imageTitleData")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "imageTitleData file is required",
		})
		return
	}
	defer file.Close()

	data, ok := h.readAll(c, file, header)
	if !ok {
		return
	}

	url, err := h.services.Article.UploadTitleImage(ctx, slug, header.Filename, data)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "success",
		"message":         "image uploaded",
		"image_title_url": url,
		"slug":            slug,
	})
}

// readUpload extracts a named multipart file, enforcing the size limit.
// It writes the error response itself and reports success via the bool.
func (h *ArticleHandler) readUpload(c *gin.Context, field string) ([]byte, bool) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": fmt.Sprintf("%s file is required", field),
		})
		return nil, false
	}
	defer file.Close()

	return h.readAll(c, file, header)
}

func (h *ArticleHandler) readAll(c *gin.Context, file multipart.File, header *multipart.FileHeader) ([]byte, bool) {
	if header.Size > h.cfg.Storage.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": fmt.Sprintf("file too large, max size is %d MB", h.cfg.Storage.MaxUploadSize/(1024*1024)),
		})
		return nil, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "failed to read uploaded file",
		})
		return nil, false
	}

	return data, true
}
