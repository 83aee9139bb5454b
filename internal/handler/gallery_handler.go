package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hmtc-its/hmtc-portal/internal/middleware"
	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/querykey"
	"github.com/hmtc-its/hmtc-portal/internal/service"
	"github.com/hmtc-its/hmtc-portal/pkg/response"
)

// GalleryHandler proxies gallery reads through the query cache.
type GalleryHandler struct {
	galleries *service.GalleryService
	cache     *service.CacheService
	ttl       time.Duration
	logger    *zap.Logger
}

// NewGalleryHandler constructs a GalleryHandler.
func NewGalleryHandler(galleries *service.GalleryService, cache *service.CacheService, ttl time.Duration, logger *zap.Logger) *GalleryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GalleryHandler{galleries: galleries, cache: cache, ttl: ttl, logger: logger}
}

// List handles GET /api/galleries.
func (h *GalleryHandler) List(c *gin.Context) {
	filter := models.GalleryFilter{
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
		Year:   queryInt(c, "year"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}
	key := querykey.Galleries.List(service.GalleryQuery(filter))
	page, hit, err := service.Fetch(c.Request.Context(), h.cache, key, h.ttl, func(ctx context.Context) (models.Page[models.GalleryItem], error) {
		env, err := h.galleries.List(ctx, filter)
		if err != nil {
			return models.Page[models.GalleryItem]{}, err
		}
		if err := env.Err(); err != nil {
			return models.Page[models.GalleryItem]{}, err
		}
		return env.Data, nil
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, page.Items, &page.Pagination, middleware.ExtractMeta(c))
}

// Get handles GET /api/galleries/:id.
func (h *GalleryHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, hit, err := service.Fetch(c.Request.Context(), h.cache, querykey.Galleries.Detail(id), h.ttl, func(ctx context.Context) (models.GalleryDetail, error) {
		env, err := h.galleries.Get(ctx, id)
		if err != nil {
			return models.GalleryDetail{}, err
		}
		if err := env.Err(); err != nil {
			return models.GalleryDetail{}, err
		}
		return env.Data, nil
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, detail, nil, middleware.ExtractMeta(c))
}

// Delete handles DELETE /api/galleries/:id with the caller's bearer token
// and drops every cached gallery query.
func (h *GalleryHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	env, err := h.galleries.Delete(c.Request.Context(), id, forwardBearer(c)...)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := env.Err(); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.cache.Invalidate(c.Request.Context(), querykey.Galleries.All()); err != nil {
		h.logger.Warn("gallery cache invalidation failed", zap.Int64("id", id), zap.Error(err))
	}
	response.NoContent(c)
}
