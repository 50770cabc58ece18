package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/freit4sdev/urbanfood/internal/apperror"
	"github.com/freit4sdev/urbanfood/internal/metrics"
	"github.com/freit4sdev/urbanfood/internal/model"
	"github.com/freit4sdev/urbanfood/internal/repository"
)

var (
	ErrStatusInvalido        = apperror.Validation("Status inválido.")
	ErrPedidoNaoEncontrado   = apperror.NotFound("Pedido não encontrado.")
	ErrPedidoAlterado        = apperror.Conflict("O pedido foi alterado enquanto você editava. Atualize a lista.")
	ErrTransicaoNaoPermitida = errors.New("transição de status não permitida")
)

// OrderStore é o que o fluxo de status precisa da persistência de pedidos.
type OrderStore interface {
	FindByIDAndLoja(ctx context.Context, id, lojaID uint) (*model.Pedido, error)
	UpdateStatus(ctx context.Context, id, lojaID uint, from, to model.StatusPedido) error
	ListByLoja(ctx context.Context, lojaID uint) ([]model.Pedido, error)
	ListByCliente(ctx context.Context, clienteID uint) ([]model.Pedido, error)
}

type OrderStatusService struct {
	pedidos         OrderStore
	freeTransitions bool
	log             *zap.Logger
	metrics         *metrics.Metrics
}

// NewOrderStatusService cria o serviço. Com freeTransitions qualquer status pode
// ir para qualquer outro (correção manual); sem ele vale o fluxo para frente.
func NewOrderStatusService(pedidos OrderStore, freeTransitions bool, log *zap.Logger, m *metrics.Metrics) *OrderStatusService {
	return &OrderStatusService{pedidos: pedidos, freeTransitions: freeTransitions, log: log, metrics: m}
}

// SetStatus muda o status de um pedido da loja. Pedido de outra loja é tratado
// como inexistente. Repetir o status atual não altera nada.
func (s *OrderStatusService) SetStatus(ctx context.Context, pedidoID, lojaID uint, novo model.StatusPedido) (*model.Pedido, error) {
	if !novo.Valid() {
		return nil, ErrStatusInvalido
	}

	pedido, err := s.pedidos.FindByIDAndLoja(ctx, pedidoID, lojaID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPedidoNaoEncontrado
		}
		return nil, apperror.Persistence("Erro ao atualizar status.", err)
	}

	atual := pedido.Status
	if atual == novo {
		return pedido, nil
	}
	if !s.freeTransitions && atual.Terminal() {
		return nil, apperror.Wrap(apperror.KindConflict,
			fmt.Sprintf("O pedido já está %q e não pode mais mudar.", atual),
			ErrTransicaoNaoPermitida)
	}
	if !s.freeTransitions && !atual.CanTransitionTo(novo) {
		return nil, apperror.Wrap(apperror.KindConflict,
			fmt.Sprintf("Não é possível mudar o pedido de %q para %q.", atual, novo),
			ErrTransicaoNaoPermitida)
	}

	if err := s.pedidos.UpdateStatus(ctx, pedidoID, lojaID, atual, novo); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPedidoAlterado
		}
		return nil, apperror.Persistence("Erro ao atualizar status.", err)
	}

	pedido.Status = novo
	s.metrics.StatusChanged(string(novo))
	s.log.Info("Status do pedido atualizado",
		zap.Uint("order_id", pedidoID),
		zap.Uint("store_id", lojaID),
		zap.String("from", string(atual)),
		zap.String("to", string(novo)),
	)
	return pedido, nil
}

// ListForStore traz os pedidos da loja com o nome do cliente e os itens.
func (s *OrderStatusService) ListForStore(ctx context.Context, lojaID uint) ([]model.Pedido, error) {
	pedidos, err := s.pedidos.ListByLoja(ctx, lojaID)
	if err != nil {
		return nil, apperror.Persistence("Erro ao carregar pedidos.", err)
	}
	return pedidos, nil
}

// ListForClient é o histórico de pedidos do cliente.
func (s *OrderStatusService) ListForClient(ctx context.Context, clienteID uint) ([]model.Pedido, error) {
	pedidos, err := s.pedidos.ListByCliente(ctx, clienteID)
	if err != nil {
		return nil, apperror.Persistence("Erro ao carregar pedidos.", err)
	}
	return pedidos, nil
}
