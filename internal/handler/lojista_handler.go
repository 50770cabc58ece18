package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/freit4sdev/urbanfood/internal/model"
	"github.com/freit4sdev/urbanfood/internal/service"
)

type statusRequest struct {
	Status string `json:"status"`
}

// LojistaHandler é o painel da loja: cardápio e pedidos recebidos. As rotas
// passam por RoleRequired(store), então a loja da sessão sempre existe.
type LojistaHandler struct {
	Products *service.ProductService
	Orders   *service.OrderStatusService
	Log      *zap.Logger
}

// ListProducts lista o cardápio da loja, do mais novo para o mais antigo.
func (h *LojistaHandler) ListProducts(c *gin.Context) {
	lojaID, _ := currentStoreID(c)
	produtos, err := h.Products.List(c.Request.Context(), lojaID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": produtos})
}

func (h *LojistaHandler) CreateProduct(c *gin.Context) {
	lojaID, _ := currentStoreID(c)
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Dados do produto inválidos.")
		return
	}

	p, err := h.Products.Create(c.Request.Context(), lojaID, in)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Produto adicionado com sucesso!", "product": p})
}

func (h *LojistaHandler) UpdateProduct(c *gin.Context) {
	lojaID, _ := currentStoreID(c)
	produtoID, ok := paramID(c, "id", "ID inválido.")
	if !ok {
		return
	}
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Dados do produto inválidos.")
		return
	}

	p, err := h.Products.Update(c.Request.Context(), lojaID, produtoID, in)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Produto atualizado com sucesso!", "product": p})
}

// ToggleAvailability inverte a disponibilidade do produto na vitrine.
func (h *LojistaHandler) ToggleAvailability(c *gin.Context) {
	lojaID, _ := currentStoreID(c)
	produtoID, ok := paramID(c, "id", "ID inválido.")
	if !ok {
		return
	}

	p, err := h.Products.ToggleAvailability(c.Request.Context(), lojaID, produtoID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": p})
}

func (h *LojistaHandler) DeleteProduct(c *gin.Context) {
	lojaID, _ := currentStoreID(c)
	produtoID, ok := paramID(c, "id", "ID inválido.")
	if !ok {
		return
	}

	if err := h.Products.Delete(c.Request.Context(), lojaID, produtoID); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Produto excluído."})
}

// ListOrders traz as vendas da loja com cliente e itens.
func (h *LojistaHandler) ListOrders(c *gin.Context) {
	lojaID, _ := currentStoreID(c)
	pedidos, err := h.Orders.ListForStore(c.Request.Context(), lojaID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"orders":   pedidos,
		"statuses": model.StatusFluxo,
	})
}

func (h *LojistaHandler) UpdateOrderStatus(c *gin.Context) {
	lojaID, _ := currentStoreID(c)
	pedidoID, ok := paramID(c, "id", "ID do pedido inválido.")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Status inválido.")
		return
	}

	pedido, err := h.Orders.SetStatus(c.Request.Context(), pedidoID, lojaID, model.StatusPedido(req.Status))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status atualizado.", "order": pedido})
}
