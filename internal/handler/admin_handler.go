package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/freit4sdev/urbanfood/internal/logger"
	"github.com/freit4sdev/urbanfood/internal/service"
)

// AdminHandler expõe a gestão de usuários e lojas. Só admins chegam aqui.
type AdminHandler struct {
	Admin *service.AdminService
	Log   *zap.Logger
}

// ListUsers aceita ?tipo=client|store|admin.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Admin.ListUsers(c.Request.Context(), c.Query("tipo"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

func (h *AdminHandler) ToggleBlocked(c *gin.Context) {
	id, ok := paramID(c, "id", "ID de usuário inválido.")
	if !ok {
		return
	}
	user, err := h.Admin.ToggleBlocked(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	h.audit(c, "Bloqueio alternado", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *AdminHandler) ToggleActive(c *gin.Context) {
	id, ok := paramID(c, "id", "ID de usuário inválido.")
	if !ok {
		return
	}
	user, err := h.Admin.ToggleActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	h.audit(c, "Ativação alternada", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// DeleteUser recusa administradores com 403.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id", "ID de usuário inválido.")
	if !ok {
		return
	}
	if err := h.Admin.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	h.audit(c, "Usuário excluído", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Usuário excluído com sucesso."})
}

func (h *AdminHandler) ListStores(c *gin.Context) {
	lojas, err := h.Admin.ListStores(c.Request.Context())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stores": lojas})
}

func (h *AdminHandler) CreateStore(c *gin.Context) {
	var in service.StoreInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Dados da loja inválidos.")
		return
	}
	loja, err := h.Admin.CreateStore(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	h.audit(c, "Loja criada", loja.ID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Loja cadastrada com sucesso!", "store": loja})
}

func (h *AdminHandler) UpdateStore(c *gin.Context) {
	id, ok := paramID(c, "id", "ID da loja inválido.")
	if !ok {
		return
	}
	var in service.StoreUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Dados da loja inválidos.")
		return
	}
	if err := h.Admin.UpdateStore(c.Request.Context(), id, in); err != nil {
		respondError(c, h.Log, err)
		return
	}
	h.audit(c, "Loja atualizada", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Loja atualizada com sucesso!"})
}

// DeleteStore apaga a loja junto com o usuário dono, produtos e pedidos.
func (h *AdminHandler) DeleteStore(c *gin.Context) {
	id, ok := paramID(c, "id", "ID da loja inválido.")
	if !ok {
		return
	}
	if err := h.Admin.DeleteStore(c.Request.Context(), id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	h.audit(c, "Loja excluída", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Loja excluída com sucesso."})
}

func (h *AdminHandler) audit(c *gin.Context, msg string, target uint) {
	admin, _ := currentUser(c)
	logger.FromGin(h.Log, c).Info(msg, zap.Uint("admin_id", admin.ID), zap.Uint("target_id", target))
}
