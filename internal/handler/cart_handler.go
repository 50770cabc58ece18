package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/freit4sdev/urbanfood/internal/cart"
	"github.com/freit4sdev/urbanfood/internal/logger"
	"github.com/freit4sdev/urbanfood/internal/payment"
	"github.com/freit4sdev/urbanfood/internal/service"
)

// CartLineView é uma linha do carrinho como o frontend recebe.
type CartLineView struct {
	ProdutoID  uint            `json:"product_id"`
	Nome       string          `json:"name"`
	Preco      decimal.Decimal `json:"price"`
	Quantidade int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	LojaID     uint            `json:"store_id"`
	LojaNome   string          `json:"store_name"`
}

type CartGroupView struct {
	LojaID   uint            `json:"store_id"`
	LojaNome string          `json:"store_name"`
	Total    decimal.Decimal `json:"total"`
	Itens    []CartLineView  `json:"items"`
}

type CartView struct {
	Itens     []CartLineView  `json:"items"`
	Grupos    []CartGroupView `json:"groups"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

type addItemRequest struct {
	ProdutoID  uint `json:"product_id"`
	Quantidade *int `json:"quantity"`
}

type updateItemRequest struct {
	Quantidade *int `json:"quantity"`
}

// CartHandler agrupa os handlers do carrinho e do checkout.
type CartHandler struct {
	Store    *sessions.CookieStore
	Carts    *cart.Registry
	Catalog  *service.CatalogService
	Checkout *service.CheckoutService
	PixKey   string
	Log      *zap.Logger
}

// ShowCart devolve o carrinho da sessão (vazio se ainda não existe).
func (h *CartHandler) ShowCart(c *gin.Context) {
	carrinho, ok := h.existingCart(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": true, "cart": newCartView(cart.New())})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": newCartView(carrinho)})
}

// AddItem resolve o produto no catálogo e soma a quantidade (padrão 1) à linha.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProdutoID == 0 {
		badRequest(c, "ID do produto inválido.")
		return
	}
	qty := 1
	if req.Quantidade != nil {
		qty = *req.Quantidade
	}
	if qty < 1 {
		badRequest(c, "Quantidade inválida.")
		return
	}

	item, err := h.Catalog.CartItem(c.Request.Context(), req.ProdutoID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	carrinho, err := h.sessionCart(c)
	if err != nil {
		logger.FromGin(h.Log, c).Error("Erro ao salvar sessão do carrinho", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao salvar o carrinho."})
		return
	}
	carrinho.Add(item, qty)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item adicionado com sucesso!",
		"cart":    newCartView(carrinho),
	})
}

// UpdateItem define a quantidade absoluta; zero ou menos remove a linha.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	produtoID, ok := paramID(c, "id", "ID inválido.")
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantidade == nil {
		badRequest(c, "Quantidade inválida.")
		return
	}

	carrinho, exists := h.existingCart(c)
	if !exists {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Carrinho já vazio.", "cart": newCartView(cart.New())})
		return
	}
	carrinho.SetQuantity(produtoID, *req.Quantidade)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Quantidade atualizada.", "cart": newCartView(carrinho)})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	produtoID, ok := paramID(c, "id", "ID inválido.")
	if !ok {
		return
	}
	carrinho, exists := h.existingCart(c)
	if !exists {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Carrinho já vazio.", "cart": newCartView(cart.New())})
		return
	}
	carrinho.Remove(produtoID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item removido.", "cart": newCartView(carrinho)})
}

// ClearCart remove todos os itens do carrinho.
func (h *CartHandler) ClearCart(c *gin.Context) {
	if carrinho, ok := h.existingCart(c); ok {
		carrinho.Clear()
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Carrinho esvaziado.", "cart": newCartView(cart.New())})
}

// PixQRCode devolve o PNG do QR Code PIX do carrinho. O "copia e cola" vai no
// header X-Pix-Payload.
func (h *CartHandler) PixQRCode(c *gin.Context) {
	user, _ := currentUser(c)
	carrinho, ok := h.existingCart(c)
	if !ok || carrinho.IsEmpty() {
		respondError(c, h.Log, service.ErrCartEmpty)
		return
	}
	groups := carrinho.GroupByStore()
	if len(groups) != 1 {
		respondError(c, h.Log, service.ErrMultipleStores)
		return
	}

	ref := fmt.Sprintf("U%dL%d", user.ID, groups[0].LojaID)
	payload, err := payment.PixPayload(h.PixKey, groups[0].LojaNome, groups[0].Total(), ref)
	if err != nil {
		logger.FromGin(h.Log, c).Error("Erro ao montar payload PIX", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao gerar o QR Code PIX."})
		return
	}
	png, err := payment.PixQRCode(h.PixKey, groups[0].LojaNome, groups[0].Total(), ref)
	if err != nil {
		logger.FromGin(h.Log, c).Error("Erro ao gerar QR Code PIX", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao gerar o QR Code PIX."})
		return
	}

	c.Header("X-Pix-Payload", payload)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// ConfirmCheckout transforma o carrinho em pedido. Qualquer falha deixa o
// carrinho intacto.
func (h *CartHandler) ConfirmCheckout(c *gin.Context) {
	user, _ := currentUser(c)
	carrinho, ok := h.existingCart(c)
	if !ok {
		respondError(c, h.Log, service.ErrCartEmpty)
		return
	}

	pedido, err := h.Checkout.Checkout(c.Request.Context(), user.ID, carrinho)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	logger.FromGin(h.Log, c).Info("Pedido confirmado",
		zap.Uint("order_id", pedido.ID),
		zap.Uint("user_id", user.ID),
		zap.String("total", pedido.Total.StringFixed(2)),
	)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Pedido realizado com sucesso!",
		"order":   pedido,
	})
}

// existingCart não cria carrinho nem mexe no cookie.
func (h *CartHandler) existingCart(c *gin.Context) (*cart.Cart, bool) {
	session := getSession(h.Store, c)
	id, ok := session.Values[sessionCartID].(string)
	if !ok || id == "" {
		return nil, false
	}
	return h.Carts.Lookup(id)
}

// sessionCart devolve o carrinho da sessão, criando o id (e gravando o cookie)
// na primeira vez.
func (h *CartHandler) sessionCart(c *gin.Context) (*cart.Cart, error) {
	session := getSession(h.Store, c)
	id, ok := session.Values[sessionCartID].(string)
	if !ok || id == "" {
		id = h.Carts.NewID()
		session.Values[sessionCartID] = id
		if err := session.Save(c.Request, c.Writer); err != nil {
			return nil, err
		}
	}
	return h.Carts.Get(id), nil
}

func newCartView(c *cart.Cart) CartView {
	view := CartView{
		Itens:  []CartLineView{},
		Grupos: []CartGroupView{},
		Total:  decimal.Zero,
	}
	for _, g := range c.GroupByStore() {
		group := CartGroupView{LojaID: g.LojaID, LojaNome: g.LojaNome, Total: g.Total()}
		for _, l := range g.Lines {
			group.Itens = append(group.Itens, newLineView(l))
		}
		view.Grupos = append(view.Grupos, group)
	}
	for _, l := range c.Lines() {
		line := newLineView(l)
		view.Itens = append(view.Itens, line)
		view.Total = view.Total.Add(line.Subtotal)
		view.ItemCount += l.Quantidade
	}
	return view
}

func newLineView(l cart.Line) CartLineView {
	return CartLineView{
		ProdutoID:  l.ProdutoID,
		Nome:       l.ProdutoNome,
		Preco:      l.Preco,
		Quantidade: l.Quantidade,
		Subtotal:   l.Subtotal(),
		LojaID:     l.LojaID,
		LojaNome:   l.LojaNome,
	}
}
