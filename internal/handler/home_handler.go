package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/freit4sdev/urbanfood/internal/logger"
	"github.com/freit4sdev/urbanfood/internal/service"
)

// HomeHandler serve a vitrine pública.
type HomeHandler struct {
	Catalog *service.CatalogService
	DB      *gorm.DB
	Log     *zap.Logger
}

// ShowCatalog lista as lojas com seus produtos disponíveis. ?q= filtra por
// nome de loja ou de produto.
func (h *HomeHandler) ShowCatalog(c *gin.Context) {
	search := c.Query("q")
	entries, err := h.Catalog.Browse(c.Request.Context(), search)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	sections := service.GroupByStore(entries)
	if sections == nil {
		sections = []service.StoreSection{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"query":   search,
		"stores":  sections,
	})
}

func (h *HomeHandler) ListStores(c *gin.Context) {
	lojas, err := h.Catalog.ListStores(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stores": lojas})
}

// Healthz responde 503 quando o banco não responde ao ping.
func (h *HomeHandler) Healthz(c *gin.Context) {
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		logger.FromGin(h.Log, c).Error("Healthcheck: banco indisponível", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
