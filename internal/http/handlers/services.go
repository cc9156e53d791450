package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidyops/cleanhub/internal/cache"
	"github.com/tidyops/cleanhub/internal/config"
	"github.com/tidyops/cleanhub/internal/domain/servicetype"
)

type CatalogReader interface {
	List(ctx context.Context) []servicetype.ServiceType
}

const servicesCacheKey = "services:list"

type ServicesHandler struct {
	catalog CatalogReader
	cache   *cache.Cache
}

func NewServicesHandler(catalog CatalogReader, c *cache.Cache) *ServicesHandler {
	return &ServicesHandler{catalog: catalog, cache: c}
}

func (h *ServicesHandler) List(ctx *gin.Context) {
	if h.cache != nil {
		if v, ok := h.cache.Get(servicesCacheKey); ok {
			if services, ok := v.([]servicetype.ServiceType); ok {
				ctx.JSON(http.StatusOK, gin.H{"items": services, "count": len(services)})
				return
			}
		}
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	services := h.catalog.List(cctx)

	if h.cache != nil {
		h.cache.Set(servicesCacheKey, services)
	}

	ctx.JSON(http.StatusOK, gin.H{"items": services, "count": len(services)})
}
