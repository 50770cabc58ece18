package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/freit4sdev/urbanfood/internal/cart"
	"github.com/freit4sdev/urbanfood/internal/database"
	"github.com/freit4sdev/urbanfood/internal/metrics"
	"github.com/freit4sdev/urbanfood/internal/model"
	"github.com/freit4sdev/urbanfood/internal/repository"
	"github.com/freit4sdev/urbanfood/internal/service"
)

var ctx = context.Background()

type env struct {
	db       *gorm.DB
	usuarios *repository.UsuarioRepository
	lojas    *repository.LojaRepository
	produtos *repository.ProdutoRepository
	pedidos  *repository.PedidoRepository
	metrics  *metrics.Metrics

	auth     *service.AuthService
	catalog  *service.CatalogService
	products *service.ProductService
	checkout *service.CheckoutService
	status   *service.OrderStatusService
	admin    *service.AdminService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := database.Connect(database.MemoryDSN, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	log := zap.NewNop()
	e := &env{
		db:       db,
		usuarios: repository.NewUsuarioRepository(db),
		lojas:    repository.NewLojaRepository(db),
		produtos: repository.NewProdutoRepository(db),
		pedidos:  repository.NewPedidoRepository(db),
		metrics:  metrics.New(),
	}
	e.auth = service.NewAuthService(e.usuarios, e.lojas, log, e.metrics)
	e.catalog = service.NewCatalogService(repository.NewCatalogRepository(db), e.lojas, e.produtos)
	e.products = service.NewProductService(e.produtos, log)
	e.checkout = service.NewCheckoutService(e.pedidos, log, e.metrics)
	e.status = service.NewOrderStatusService(e.pedidos, false, log, e.metrics)
	e.admin = service.NewAdminService(e.usuarios, e.lojas, log)
	return e
}

func (e *env) cliente(t *testing.T, email string) *model.Usuario {
	t.Helper()
	u, err := e.auth.RegisterClient(ctx, service.SignupInput{Nome: "Ana", Email: email, Senha: "segredo1", Confirmacao: "segredo1"})
	require.NoError(t, err)
	return u
}

func (e *env) loja(t *testing.T, nome, email string) *model.Loja {
	t.Helper()
	l, err := e.auth.RegisterStore(ctx, service.StoreSignupInput{Nome: nome, Email: email, Senha: "segredo1", Confirmacao: "segredo1"})
	require.NoError(t, err)
	return l
}

func (e *env) produto(t *testing.T, lojaID uint, nome, preco string) *model.Produto {
	t.Helper()
	p, err := e.products.Create(ctx, lojaID, service.ProductInput{Nome: nome, Preco: decimal.RequireFromString(preco)})
	require.NoError(t, err)
	return p
}

// noCarrinho adiciona o produto ao carrinho pelo mesmo caminho do handler.
func (e *env) noCarrinho(t *testing.T, c *cart.Cart, produtoID uint, qty int) {
	t.Helper()
	item, err := e.catalog.CartItem(ctx, produtoID)
	require.NoError(t, err)
	c.Add(item, qty)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
