package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freit4sdev/urbanfood/internal/database"
	"github.com/freit4sdev/urbanfood/internal/model"
)

func TestAdminUsers(t *testing.T) {
	app := newTestApp(t)
	app.client(t, "ana@ex.com")
	admin := app.admin(t)

	t.Run("Filtrar Por Tipo", func(t *testing.T) {
		w := admin.do(t, http.MethodGet, "/admin/usuarios?tipo=client", nil)
		require.Equal(t, http.StatusOK, w.Code)
		users := decodeBody(t, w)["users"].([]any)
		require.Len(t, users, 1)
		assert.Equal(t, "ana@ex.com", users[0].(map[string]any)["email"])

		w = admin.do(t, http.MethodGet, "/admin/usuarios", nil)
		assert.Len(t, decodeBody(t, w)["users"], 2)

		w = admin.do(t, http.MethodGet, "/admin/usuarios?tipo=root", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Não Exclui Administrador", func(t *testing.T) {
		var adm model.Usuario
		require.NoError(t, app.db.Where("email = ?", database.AdminEmail).First(&adm).Error)

		w := admin.do(t, http.MethodDelete, fmt.Sprintf("/admin/usuarios/%d", adm.ID), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Não é possível excluir usuários administradores.", decodeBody(t, w)["error"])
	})

	t.Run("Ativação E Exclusão", func(t *testing.T) {
		var ana model.Usuario
		require.NoError(t, app.db.Where("email = ?", "ana@ex.com").First(&ana).Error)
		path := fmt.Sprintf("/admin/usuarios/%d", ana.ID)

		w := admin.do(t, http.MethodPost, path+"/ativacao", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, decodeBody(t, w)["user"].(map[string]any)["is_active"])

		w = app.browser().do(t, http.MethodPost, "/login", gin.H{"email": "ana@ex.com", "password": senhaTeste})
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = admin.do(t, http.MethodDelete, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		w = admin.do(t, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		w = admin.do(t, http.MethodPost, path+"/bloqueio", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAdminStores(t *testing.T) {
	app := newTestApp(t)
	admin := app.admin(t)

	w := admin.do(t, http.MethodPost, "/admin/lojas", gin.H{"name": "Doceria", "email": "doce@ex.com", "password": senhaTeste})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	lojaID := idOf(t, decodeBody(t, w), "store")
	path := fmt.Sprintf("/admin/lojas/%d", lojaID)

	t.Run("Email Repetido", func(t *testing.T) {
		w := admin.do(t, http.MethodPost, "/admin/lojas", gin.H{"name": "Outra", "email": "doce@ex.com", "password": senhaTeste})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Listar Com Dono", func(t *testing.T) {
		w := admin.do(t, http.MethodGet, "/admin/lojas", nil)
		require.Equal(t, http.StatusOK, w.Code)
		stores := decodeBody(t, w)["stores"].([]any)
		require.Len(t, stores, 1)
		assert.Equal(t, "doce@ex.com", stores[0].(map[string]any)["email"])
	})

	t.Run("Atualizar", func(t *testing.T) {
		w := admin.do(t, http.MethodPut, path, gin.H{"name": "Doceria Fina", "email": "doce@ex.com", "password": "novasenha"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		lojista := app.browser()
		lojista.login(t, "doce@ex.com", "novasenha")
		assert.Equal(t, lojaID, lojista.session(t)[sessionStoreID])
	})

	t.Run("Excluir", func(t *testing.T) {
		w := admin.do(t, http.MethodDelete, path, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = admin.do(t, http.MethodGet, "/admin/lojas", nil)
		assert.Empty(t, decodeBody(t, w)["stores"])
		w = admin.do(t, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
