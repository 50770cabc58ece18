package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/freit4sdev/urbanfood/internal/apperror"
	"github.com/freit4sdev/urbanfood/internal/cart"
	"github.com/freit4sdev/urbanfood/internal/metrics"
	"github.com/freit4sdev/urbanfood/internal/model"
	"github.com/freit4sdev/urbanfood/internal/repository"
)

var (
	ErrCartEmpty      = apperror.Validation("Seu carrinho está vazio.")
	ErrMultipleStores = apperror.Validation("Por favor, finalize pedidos de uma loja por vez.")
)

// OrderWriter é o lado de escrita usado dentro da transação do checkout.
type OrderWriter = repository.OrderWriter

// OrderTransactor executa fn numa transação: nil confirma, erro desfaz tudo.
type OrderTransactor interface {
	WithinTransaction(ctx context.Context, fn func(OrderWriter) error) error
}

type CheckoutService struct {
	tx      OrderTransactor
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewCheckoutService(tx OrderTransactor, log *zap.Logger, m *metrics.Metrics) *CheckoutService {
	return &CheckoutService{tx: tx, log: log, metrics: m}
}

// Checkout aplica as regras de negócio (carrinho não vazio e de uma só loja)
// e grava o pedido.
func (s *CheckoutService) Checkout(ctx context.Context, clienteID uint, c *cart.Cart) (*model.Pedido, error) {
	if c.IsEmpty() {
		return nil, ErrCartEmpty
	}
	lojaID, ok := c.SingleStore()
	if !ok {
		return nil, ErrMultipleStores
	}
	return s.PlaceOrder(ctx, clienteID, lojaID, c)
}

// PlaceOrder grava cabeçalho e itens numa única transação com os preços do
// carrinho e, só depois do COMMIT, tira do carrinho o que entrou no pedido.
// Itens adicionados durante a transação ficam para a próxima compra. Em caso
// de erro o carrinho fica como estava.
func (s *CheckoutService) PlaceOrder(ctx context.Context, clienteID, lojaID uint, c *cart.Cart) (*model.Pedido, error) {
	lines := c.Lines()
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}

	pedido := &model.Pedido{
		ClienteID: clienteID,
		LojaID:    lojaID,
		Total:     total,
		Status:    model.StatusPendente,
	}

	err := s.tx.WithinTransaction(ctx, func(w OrderWriter) error {
		if err := w.CreateOrder(ctx, pedido); err != nil {
			return err
		}
		pedido.Itens = make([]model.ItemPedido, 0, len(lines))
		for _, l := range lines {
			item := model.ItemPedido{
				PedidoID:   pedido.ID,
				ProdutoID:  l.ProdutoID,
				Quantidade: l.Quantidade,
				Preco:      l.Preco,
			}
			if err := w.CreateOrderItem(ctx, &item); err != nil {
				return err
			}
			pedido.Itens = append(pedido.Itens, item)
		}
		return nil
	})
	if err != nil {
		s.metrics.OrderFailed()
		s.log.Error("Falha ao gravar pedido",
			zap.Uint("client_id", clienteID),
			zap.Uint("store_id", lojaID),
			zap.Error(err),
		)
		return nil, apperror.Persistence("Erro ao confirmar pedido.", err)
	}

	c.RemoveLines(lines)

	receita, _ := total.Float64()
	s.metrics.OrderPlaced(receita)
	s.log.Info("Pedido confirmado",
		zap.Uint("order_id", pedido.ID),
		zap.Uint("client_id", clienteID),
		zap.Uint("store_id", lojaID),
		zap.String("total", pedido.Total.StringFixed(2)),
	)
	return pedido, nil
}
