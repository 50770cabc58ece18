package repository_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/freit4sdev/urbanfood/internal/model"
	"github.com/freit4sdev/urbanfood/internal/repository"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestPedidoRepository_WithinTransactionCommits(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewPedidoRepository(db)
	cliente := criarCliente(t, db, "ana@ex.com")
	loja := criarLoja(t, db, "Pizzaria", "pizza@ex.com")
	pizza := criarProduto(t, db, loja.ID, "Pizza", "30.00", true)

	var pedido model.Pedido
	err := repo.WithinTransaction(ctx, func(w repository.OrderWriter) error {
		pedido = model.Pedido{ClienteID: cliente.ID, LojaID: loja.ID, Total: decimal.RequireFromString("60.00"), Status: model.StatusPendente}
		if err := w.CreateOrder(ctx, &pedido); err != nil {
			return err
		}
		return w.CreateOrderItem(ctx, &model.ItemPedido{PedidoID: pedido.ID, ProdutoID: pizza.ID, Quantidade: 2, Preco: pizza.Preco})
	})
	require.NoError(t, err)

	pedidos, err := repo.ListByLoja(ctx, loja.ID)
	require.NoError(t, err)
	require.Len(t, pedidos, 1)
	require.NotNil(t, pedidos[0].Cliente)
	assert.Equal(t, "Cliente", pedidos[0].Cliente.Nome)
	require.Len(t, pedidos[0].Itens, 1)
	require.NotNil(t, pedidos[0].Itens[0].Produto)
	assert.Equal(t, "Pizza", pedidos[0].Itens[0].Produto.Nome)

	doCliente, err := repo.ListByCliente(ctx, cliente.ID)
	require.NoError(t, err)
	require.Len(t, doCliente, 1)
	require.NotNil(t, doCliente[0].Loja)
	assert.Equal(t, "Pizzaria", doCliente[0].Loja.Nome)
}

func TestPedidoRepository_WithinTransactionRollsBack(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewPedidoRepository(db)
	cliente := criarCliente(t, db, "ana@ex.com")
	loja := criarLoja(t, db, "Pizzaria", "pizza@ex.com")

	err := repo.WithinTransaction(ctx, func(w repository.OrderWriter) error {
		pedido := model.Pedido{ClienteID: cliente.ID, LojaID: loja.ID, Total: decimal.NewFromInt(10), Status: model.StatusPendente}
		if err := w.CreateOrder(ctx, &pedido); err != nil {
			return err
		}
		// produto inexistente: a FK derruba o item e a transação inteira
		return w.CreateOrderItem(ctx, &model.ItemPedido{PedidoID: pedido.ID, ProdutoID: 4242, Quantidade: 1, Preco: decimal.NewFromInt(10)})
	})
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&model.Pedido{}).Where("store_id = ?", loja.ID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestPedidoRepository_UpdateStatusIsGuarded(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewPedidoRepository(db)
	cliente := criarCliente(t, db, "ana@ex.com")
	loja := criarLoja(t, db, "Pizzaria", "pizza@ex.com")
	outra := criarLoja(t, db, "Sushi", "sushi@ex.com")

	pedido := model.Pedido{ClienteID: cliente.ID, LojaID: loja.ID, Total: decimal.NewFromInt(10), Status: model.StatusPendente}
	require.NoError(t, db.Create(&pedido).Error)

	err := repo.UpdateStatus(ctx, pedido.ID, outra.ID, model.StatusPendente, model.StatusPronto)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.UpdateStatus(ctx, pedido.ID, loja.ID, model.StatusEmPreparo, model.StatusPronto)
	assert.ErrorIs(t, err, repository.ErrNotFound, "status lido já não confere")

	require.NoError(t, repo.UpdateStatus(ctx, pedido.ID, loja.ID, model.StatusPendente, model.StatusEmPreparo))
	got, err := repo.FindByIDAndLoja(ctx, pedido.ID, loja.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusEmPreparo, got.Status)

	_, err = repo.FindByIDAndLoja(ctx, pedido.ID, outra.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPedidoRepository_RollbackOnItemError_Postgres(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewPedidoRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnError(errors.New(`violates foreign key constraint "fk_order_items_produto"`))
	mock.ExpectRollback()

	err := repo.WithinTransaction(ctx, func(w repository.OrderWriter) error {
		pedido := model.Pedido{ClienteID: 1, LojaID: 1, Total: decimal.NewFromInt(10), Status: model.StatusPendente}
		if err := w.CreateOrder(ctx, &pedido); err != nil {
			return err
		}
		return w.CreateOrderItem(ctx, &model.ItemPedido{PedidoID: pedido.ID, ProdutoID: 99, Quantidade: 1, Preco: decimal.NewFromInt(10)})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "foreign key")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPedidoRepository_UpdateStatusNoRows_Postgres(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewPedidoRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateStatus(ctx, 1, 1, model.StatusPendente, model.StatusPronto)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
