package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/freit4sdev/urbanfood/internal/apperror"
	"github.com/freit4sdev/urbanfood/internal/logger"
)

// SessionName é o nome do cookie de sessão.
const SessionName = "urbanfood-session"

const (
	sessionUserID   = "userID"
	sessionUserName = "userName"
	sessionUserType = "userType"
	sessionStoreID  = "storeID"
	sessionCartID   = "cartID"
)

// SessionMaxAge é a validade do cookie de sessão. Carrinhos parados por mais
// tempo que isso não têm mais dono e podem ser descartados.
const SessionMaxAge = 7 * 24 * time.Hour

// NewSessionStore cria o cookie store. Em produção o cookie só trafega por HTTPS.
func NewSessionStore(secret []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(SessionMaxAge / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// getSession nunca devolve nil: cookie inválido (segredo trocado, por exemplo)
// vira uma sessão nova.
func getSession(store *sessions.CookieStore, c *gin.Context) *sessions.Session {
	session, err := store.Get(c.Request, SessionName)
	if err != nil {
		session, _ = store.New(c.Request, SessionName)
	}
	return session
}

// respondError traduz o erro de serviço para status e corpo JSON. Erros de
// banco e internos vão para o log com a causa; o usuário vê só a mensagem.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.FromGin(log, c).Error("Erro ao processar requisição",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"success": false, "error": apperror.PublicMessage(err)})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}

// paramID lê um id numérico da rota; em caso de erro já responde 400.
func paramID(c *gin.Context, name, msg string) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id64 == 0 {
		badRequest(c, msg)
		return 0, false
	}
	return uint(id64), true
}
