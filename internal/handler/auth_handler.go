package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/freit4sdev/urbanfood/internal/cart"
	"github.com/freit4sdev/urbanfood/internal/logger"
	"github.com/freit4sdev/urbanfood/internal/model"
	"github.com/freit4sdev/urbanfood/internal/repository"
	"github.com/freit4sdev/urbanfood/internal/service"
)

type AuthHandler struct {
	Store    *sessions.CookieStore
	Auth     *service.AuthService
	Usuarios *repository.UsuarioRepository
	Carts    *cart.Registry
	Log      *zap.Logger
}

// ProcessCadastro cria uma conta de cliente a partir do JSON do formulário.
func (h *AuthHandler) ProcessCadastro(c *gin.Context) {
	var in service.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Dados do cadastro inválidos.")
		return
	}

	usuario, err := h.Auth.RegisterClient(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Cadastro realizado com sucesso! Faça o login.",
		"user":    usuario,
	})
}

// ProcessCadastroLoja cria o usuário lojista e a loja.
func (h *AuthHandler) ProcessCadastroLoja(c *gin.Context) {
	var in service.StoreSignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Dados do cadastro inválidos.")
		return
	}

	loja, err := h.Auth.RegisterStore(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Loja cadastrada com sucesso!",
		"store":   loja,
	})
}

// ProcessLogin confere as credenciais e grava o usuário na sessão.
func (h *AuthHandler) ProcessLogin(c *gin.Context) {
	var in service.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Dados de login inválidos.")
		return
	}

	sessao, err := h.Auth.Login(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	session := getSession(h.Store, c)
	session.Values[sessionUserID] = sessao.UsuarioID
	session.Values[sessionUserName] = sessao.Nome
	session.Values[sessionUserType] = sessao.Tipo
	if sessao.LojaID != 0 {
		session.Values[sessionStoreID] = sessao.LojaID
	} else {
		delete(session.Values, sessionStoreID)
	}

	if err := session.Save(c.Request, c.Writer); err != nil {
		logger.FromGin(h.Log, c).Error("Erro ao salvar sessão de login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao iniciar a sessão. Tente novamente."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": sessao})
}

// Logout encerra a sessão e descarta o carrinho dela.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := getSession(h.Store, c)
	if cartID, ok := session.Values[sessionCartID].(string); ok {
		h.Carts.Drop(cartID)
	}

	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	if err := session.Save(c.Request, c.Writer); err != nil {
		logger.FromGin(h.Log, c).Error("Erro ao salvar sessão de logout", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erro ao fazer logout."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logout realizado com sucesso."})
}

// AuthRequired exige um usuário logado, ainda existente, ativo e não bloqueado.
// O usuário vai para o contexto em "user".
func (h *AuthHandler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := getSession(h.Store, c)
		userID, ok := session.Values[sessionUserID].(uint)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Faça login para continuar."})
			return
		}

		user, err := h.Usuarios.FindByID(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				respondError(c, h.Log, err)
				c.Abort()
				return
			}
			logger.FromGin(h.Log, c).Warn("AuthRequired: usuário da sessão não existe mais", zap.Uint("user_id", userID))
			h.endSession(c, session)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Faça login para continuar."})
			return
		}
		if user.Bloqueado || !user.Ativo {
			h.endSession(c, session)
			msg := service.ErrContaInativa.Message
			if user.Bloqueado {
				msg = service.ErrContaBloqueada.Message
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": msg})
			return
		}

		c.Set("user", *user)
		if storeID, ok := session.Values[sessionStoreID].(uint); ok {
			c.Set("storeID", storeID)
		}
		c.Next()
	}
}

// RoleRequired verifica se o usuário logado tem o papel necessário.
func (h *AuthHandler) RoleRequired(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Faça login para continuar."})
			return
		}
		if user.Tipo != requiredRole {
			logger.FromGin(h.Log, c).Warn("RoleRequired: acesso negado",
				zap.Uint("user_id", user.ID),
				zap.String("required", requiredRole),
				zap.String("user_type", user.Tipo),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "Acesso negado."})
			return
		}
		if requiredRole == model.RoleLoja {
			if _, ok := currentStoreID(c); !ok {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": service.ErrDadosLojaAusentes.Message})
				return
			}
		}
		c.Next()
	}
}

func (h *AuthHandler) endSession(c *gin.Context, session *sessions.Session) {
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	if err := session.Save(c.Request, c.Writer); err != nil {
		logger.FromGin(h.Log, c).Warn("Erro ao encerrar sessão", zap.Error(err))
	}
}

func currentUser(c *gin.Context) (model.Usuario, bool) {
	v, ok := c.Get("user")
	if !ok {
		return model.Usuario{}, false
	}
	user, ok := v.(model.Usuario)
	return user, ok
}

func currentStoreID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("storeID")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
