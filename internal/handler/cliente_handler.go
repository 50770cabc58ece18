package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/freit4sdev/urbanfood/internal/service"
)

type ClienteHandler struct {
	Orders *service.OrderStatusService
	Log    *zap.Logger
}

// ListOrders é o histórico de pedidos do cliente logado.
func (h *ClienteHandler) ListOrders(c *gin.Context) {
	user, _ := currentUser(c)
	pedidos, err := h.Orders.ListForClient(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": pedidos})
}
