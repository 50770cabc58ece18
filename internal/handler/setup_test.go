package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/freit4sdev/urbanfood/internal/cart"
	"github.com/freit4sdev/urbanfood/internal/database"
	"github.com/freit4sdev/urbanfood/internal/metrics"
)

const senhaTeste = "123456"

type testApp struct {
	db     *gorm.DB
	store  *sessions.CookieStore
	carts  *cart.Registry
	router *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(database.MemoryDSN, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	deps := Deps{
		DB:      db,
		Log:     zap.NewNop(),
		Metrics: metrics.New(),
		Store:   NewSessionStore([]byte("segredo-de-teste-urbanfood-32-by"), false),
		Carts:   cart.NewRegistry(),
		PixKey:  "pix@urbanfood.com",
	}
	return &testApp{
		db:     db,
		store:  deps.Store,
		carts:  deps.Carts,
		router: NewRouter(deps, NewHandlers(deps)),
	}
}

// browser carrega o cookie de sessão de uma requisição para a próxima.
type browser struct {
	app    *testApp
	cookie *http.Cookie
}

func (a *testApp) browser() *browser {
	return &browser{app: a}
}

func (b *browser) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}

	w := httptest.NewRecorder()
	b.app.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.Name != SessionName {
			continue
		}
		if ck.MaxAge < 0 {
			b.cookie = nil
		} else {
			b.cookie = &http.Cookie{Name: ck.Name, Value: ck.Value}
		}
	}
	return w
}

// session decodifica o cookie atual como o servidor faria.
func (b *browser) session(t *testing.T) map[interface{}]interface{} {
	t.Helper()
	require.NotNil(t, b.cookie, "nenhum cookie de sessão")
	values := map[interface{}]interface{}{}
	err := securecookie.DecodeMulti(SessionName, b.cookie.Value, &values, b.app.store.Codecs...)
	require.NoError(t, err)
	return values
}

// forge monta um cookie válido com valores arbitrários.
func (a *testApp) forge(t *testing.T, values map[interface{}]interface{}) *browser {
	t.Helper()
	encoded, err := securecookie.EncodeMulti(SessionName, values, a.store.Codecs...)
	require.NoError(t, err)
	return &browser{app: a, cookie: &http.Cookie{Name: SessionName, Value: encoded}}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func idOf(t *testing.T, body map[string]any, key string) uint {
	t.Helper()
	obj, ok := body[key].(map[string]any)
	require.True(t, ok, "campo %q ausente", key)
	id, ok := obj["id"].(float64)
	require.True(t, ok)
	return uint(id)
}

func (a *testApp) client(t *testing.T, email string) *browser {
	t.Helper()
	b := a.browser()
	w := b.do(t, http.MethodPost, "/cadastro", gin.H{
		"name": "Cliente " + email, "email": email,
		"password": senhaTeste, "password_confirmation": senhaTeste,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	b.login(t, email, senhaTeste)
	return b
}

// storeOwner cadastra a loja e devolve o navegador logado do lojista.
func (a *testApp) storeOwner(t *testing.T, nome, email string) *browser {
	t.Helper()
	b := a.browser()
	w := b.do(t, http.MethodPost, "/lojas/cadastro", gin.H{
		"name": nome, "email": email, "description": "loja " + strings.ToLower(nome),
		"password": senhaTeste, "password_confirmation": senhaTeste,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	b.login(t, email, senhaTeste)
	return b
}

func (a *testApp) admin(t *testing.T) *browser {
	t.Helper()
	require.NoError(t, database.SeedAdmin(a.db, zap.NewNop()))
	b := a.browser()
	b.login(t, database.AdminEmail, database.AdminSenha)
	return b
}

func (b *browser) login(t *testing.T, email, senha string) {
	t.Helper()
	w := b.do(t, http.MethodPost, "/login", gin.H{"email": email, "password": senha})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func (b *browser) createProduct(t *testing.T, nome, preco string) uint {
	t.Helper()
	w := b.do(t, http.MethodPost, "/loja/produtos", gin.H{"name": nome, "price": preco})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return idOf(t, decodeBody(t, w), "product")
}

func (b *browser) addToCart(t *testing.T, produtoID uint, qty int) map[string]any {
	t.Helper()
	w := b.do(t, http.MethodPost, "/carrinho/itens", gin.H{"product_id": produtoID, "quantity": qty})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeBody(t, w)["cart"].(map[string]any)
}
