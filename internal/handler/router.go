package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/freit4sdev/urbanfood/internal/cart"
	"github.com/freit4sdev/urbanfood/internal/logger"
	"github.com/freit4sdev/urbanfood/internal/metrics"
	"github.com/freit4sdev/urbanfood/internal/model"
	"github.com/freit4sdev/urbanfood/internal/repository"
	"github.com/freit4sdev/urbanfood/internal/service"
)

// Deps é o que a aplicação precisa para montar os handlers.
type Deps struct {
	DB              *gorm.DB
	Log             *zap.Logger
	Metrics         *metrics.Metrics
	Store           *sessions.CookieStore
	Carts           *cart.Registry
	FreeTransitions bool
	PixKey          string
	CORSOrigins     []string
}

type Handlers struct {
	Auth    *AuthHandler
	Home    *HomeHandler
	Cart    *CartHandler
	Lojista *LojistaHandler
	Cliente *ClienteHandler
	Admin   *AdminHandler
}

// NewHandlers liga repositórios, serviços e handlers sobre o mesmo *gorm.DB.
func NewHandlers(d Deps) Handlers {
	if d.Carts == nil {
		d.Carts = cart.NewRegistry()
	}

	usuarios := repository.NewUsuarioRepository(d.DB)
	lojas := repository.NewLojaRepository(d.DB)
	produtos := repository.NewProdutoRepository(d.DB)
	pedidos := repository.NewPedidoRepository(d.DB)
	catalogo := repository.NewCatalogRepository(d.DB)

	authSvc := service.NewAuthService(usuarios, lojas, d.Log, d.Metrics)
	catalogSvc := service.NewCatalogService(catalogo, lojas, produtos)
	productSvc := service.NewProductService(produtos, d.Log)
	checkoutSvc := service.NewCheckoutService(pedidos, d.Log, d.Metrics)
	orderSvc := service.NewOrderStatusService(pedidos, d.FreeTransitions, d.Log, d.Metrics)
	adminSvc := service.NewAdminService(usuarios, lojas, d.Log)

	return Handlers{
		Auth:    &AuthHandler{Store: d.Store, Auth: authSvc, Usuarios: usuarios, Carts: d.Carts, Log: d.Log},
		Home:    &HomeHandler{Catalog: catalogSvc, DB: d.DB, Log: d.Log},
		Cart:    &CartHandler{Store: d.Store, Carts: d.Carts, Catalog: catalogSvc, Checkout: checkoutSvc, PixKey: d.PixKey, Log: d.Log},
		Lojista: &LojistaHandler{Products: productSvc, Orders: orderSvc, Log: d.Log},
		Cliente: &ClienteHandler{Orders: orderSvc, Log: d.Log},
		Admin:   &AdminHandler{Admin: adminSvc, Log: d.Log},
	}
}

// NewRouter registra middlewares e rotas.
func NewRouter(d Deps, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger(d.Log))
	router.Use(d.Metrics.Middleware())

	if len(d.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-Pix-Payload"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", h.Home.Healthz)
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	router.POST("/cadastro", h.Auth.ProcessCadastro)
	router.POST("/lojas/cadastro", h.Auth.ProcessCadastroLoja)
	router.POST("/login", h.Auth.ProcessLogin)
	router.POST("/logout", h.Auth.Logout)
	router.GET("/catalogo", h.Home.ShowCatalog)
	router.GET("/lojas", h.Home.ListStores)

	carrinho := router.Group("/carrinho")
	{
		carrinho.GET("", h.Cart.ShowCart)
		carrinho.POST("/itens", h.Cart.AddItem)
		carrinho.PUT("/itens/:id", h.Cart.UpdateItem)
		carrinho.DELETE("/itens/:id", h.Cart.RemoveItem)
		carrinho.DELETE("", h.Cart.ClearCart)
	}

	cliente := router.Group("/cliente", h.Auth.AuthRequired(), h.Auth.RoleRequired(model.RoleCliente))
	{
		cliente.GET("/pedidos", h.Cliente.ListOrders)
		cliente.GET("/checkout/pix", h.Cart.PixQRCode)
		cliente.POST("/checkout", h.Cart.ConfirmCheckout)
	}

	loja := router.Group("/loja", h.Auth.AuthRequired(), h.Auth.RoleRequired(model.RoleLoja))
	{
		loja.GET("/produtos", h.Lojista.ListProducts)
		loja.POST("/produtos", h.Lojista.CreateProduct)
		loja.PUT("/produtos/:id", h.Lojista.UpdateProduct)
		loja.DELETE("/produtos/:id", h.Lojista.DeleteProduct)
		loja.POST("/produtos/:id/disponibilidade", h.Lojista.ToggleAvailability)
		loja.GET("/pedidos", h.Lojista.ListOrders)
		loja.PUT("/pedidos/:id/status", h.Lojista.UpdateOrderStatus)
	}

	admin := router.Group("/admin", h.Auth.AuthRequired(), h.Auth.RoleRequired(model.RoleAdmin))
	{
		admin.GET("/usuarios", h.Admin.ListUsers)
		admin.POST("/usuarios/:id/bloqueio", h.Admin.ToggleBlocked)
		admin.POST("/usuarios/:id/ativacao", h.Admin.ToggleActive)
		admin.DELETE("/usuarios/:id", h.Admin.DeleteUser)
		admin.GET("/lojas", h.Admin.ListStores)
		admin.POST("/lojas", h.Admin.CreateStore)
		admin.PUT("/lojas/:id", h.Admin.UpdateStore)
		admin.DELETE("/lojas/:id", h.Admin.DeleteStore)
	}

	return router
}
