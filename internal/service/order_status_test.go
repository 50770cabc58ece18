package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/freit4sdev/urbanfood/internal/apperror"
	"github.com/freit4sdev/urbanfood/internal/cart"
	"github.com/freit4sdev/urbanfood/internal/model"
	"github.com/freit4sdev/urbanfood/internal/repository"
	"github.com/freit4sdev/urbanfood/internal/service"
)

func pedidoNaLoja(t *testing.T, e *env) (*model.Pedido, *model.Loja) {
	t.Helper()
	cliente := e.cliente(t, "ana@ex.com")
	l := e.loja(t, "Pizzaria", "pizza@ex.com")
	pizza := e.produto(t, l.ID, "Pizza", "30.00")

	c := cart.New()
	e.noCarrinho(t, c, pizza.ID, 1)
	pedido, err := e.checkout.Checkout(ctx, cliente.ID, c)
	require.NoError(t, err)
	return pedido, l
}

func statusSalvo(t *testing.T, e *env, pedidoID, lojaID uint) model.StatusPedido {
	t.Helper()
	p, err := e.pedidos.FindByIDAndLoja(ctx, pedidoID, lojaID)
	require.NoError(t, err)
	return p.Status
}

func TestSetStatusForwardWorkflow(t *testing.T) {
	e := newEnv(t)
	pedido, l := pedidoNaLoja(t, e)

	for _, next := range []model.StatusPedido{model.StatusEmPreparo, model.StatusPronto, model.StatusEntregue} {
		got, err := e.status.SetStatus(ctx, pedido.ID, l.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, got.Status)
		assert.Equal(t, next, statusSalvo(t, e, pedido.ID, l.ID))
	}

	// Entregue é terminal no fluxo padrão.
	_, err := e.status.SetStatus(ctx, pedido.ID, l.ID, model.StatusPendente)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.ErrorIs(t, err, service.ErrTransicaoNaoPermitida)
	assert.Equal(t, `O pedido já está "Entregue" e não pode mais mudar.`, apperror.PublicMessage(err))
	assert.Equal(t, model.StatusEntregue, statusSalvo(t, e, pedido.ID, l.ID))
}

func TestSetStatusSameStatusIsNoop(t *testing.T) {
	e := newEnv(t)
	pedido, l := pedidoNaLoja(t, e)

	got, err := e.status.SetStatus(ctx, pedido.ID, l.ID, model.StatusPendente)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendente, got.Status)
}

func TestSetStatusRejectsUnknownLabel(t *testing.T) {
	e := newEnv(t)
	pedido, l := pedidoNaLoja(t, e)

	_, err := e.status.SetStatus(ctx, pedido.ID, l.ID, model.StatusPedido("Voando"))
	assert.ErrorIs(t, err, service.ErrStatusInvalido)
	assert.Equal(t, model.StatusPendente, statusSalvo(t, e, pedido.ID, l.ID))
}

func TestSetStatusForeignStoreIsNotFound(t *testing.T) {
	e := newEnv(t)
	pedido, l := pedidoNaLoja(t, e)
	outra := e.loja(t, "Sushi", "sushi@ex.com")

	_, err := e.status.SetStatus(ctx, pedido.ID, outra.ID, model.StatusCancelado)
	assert.ErrorIs(t, err, service.ErrPedidoNaoEncontrado)
	assert.Equal(t, 404, apperror.HTTPStatus(err))
	assert.Equal(t, model.StatusPendente, statusSalvo(t, e, pedido.ID, l.ID))
}

func TestSetStatusFreeTransitions(t *testing.T) {
	e := newEnv(t)
	pedido, l := pedidoNaLoja(t, e)
	livre := service.NewOrderStatusService(e.pedidos, true, zap.NewNop(), nil)

	_, err := livre.SetStatus(ctx, pedido.ID, l.ID, model.StatusCancelado)
	require.NoError(t, err)
	_, err = livre.SetStatus(ctx, pedido.ID, l.ID, model.StatusPendente)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendente, statusSalvo(t, e, pedido.ID, l.ID))
}

// racingStore muda o status por baixo entre a leitura e o UPDATE.
type racingStore struct {
	*repository.PedidoRepository
	mudar func()
	fired bool
}

func (r *racingStore) FindByIDAndLoja(ctx context.Context, id, lojaID uint) (*model.Pedido, error) {
	p, err := r.PedidoRepository.FindByIDAndLoja(ctx, id, lojaID)
	if err == nil && !r.fired {
		r.fired = true
		r.mudar()
	}
	return p, err
}

func TestSetStatusConcurrentChangeIsConflict(t *testing.T) {
	e := newEnv(t)
	pedido, l := pedidoNaLoja(t, e)

	store := &racingStore{PedidoRepository: e.pedidos, mudar: func() {
		require.NoError(t, e.pedidos.UpdateStatus(ctx, pedido.ID, l.ID, model.StatusPendente, model.StatusCancelado))
	}}
	svc := service.NewOrderStatusService(store, false, zap.NewNop(), nil)

	_, err := svc.SetStatus(ctx, pedido.ID, l.ID, model.StatusEmPreparo)
	assert.ErrorIs(t, err, service.ErrPedidoAlterado)
	assert.Equal(t, model.StatusCancelado, statusSalvo(t, e, pedido.ID, l.ID))
}

func TestListForStoreIncludesClientAndItems(t *testing.T) {
	e := newEnv(t)
	pedido, l := pedidoNaLoja(t, e)

	pedidos, err := e.status.ListForStore(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, pedidos, 1)
	assert.Equal(t, pedido.ID, pedidos[0].ID)
	require.NotNil(t, pedidos[0].Cliente)
	assert.Equal(t, "Ana", pedidos[0].Cliente.Nome)
	require.Len(t, pedidos[0].Itens, 1)
	assert.Equal(t, "Pizza", pedidos[0].Itens[0].Produto.Nome)

	outra := e.loja(t, "Sushi", "sushi@ex.com")
	vazia, err := e.status.ListForStore(ctx, outra.ID)
	require.NoError(t, err)
	assert.Empty(t, vazia)
}
