package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/freit4sdev/urbanfood/internal/model"
)

// OrderWriter grava um pedido e seus itens. Dentro de WithinTransaction todas
// as chamadas usam a mesma transação.
type OrderWriter interface {
	CreateOrder(ctx context.Context, p *model.Pedido) error
	CreateOrderItem(ctx context.Context, item *model.ItemPedido) error
}

// PedidoRepository acessa orders e order_items.
type PedidoRepository struct {
	db *gorm.DB
}

func NewPedidoRepository(db *gorm.DB) *PedidoRepository {
	return &PedidoRepository{db: db}
}

// WithinTransaction abre BEGIN, entrega ao fn um writer preso à transação e
// faz COMMIT se fn devolver nil; qualquer erro (ou panic) vira ROLLBACK.
func (r *PedidoRepository) WithinTransaction(ctx context.Context, fn func(OrderWriter) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PedidoRepository{db: tx})
	})
}

// CreateOrder insere só o cabeçalho; os itens vão por CreateOrderItem.
func (r *PedidoRepository) CreateOrder(ctx context.Context, p *model.Pedido) error {
	return r.db.WithContext(ctx).Omit("Itens", "Cliente", "Loja").Create(p).Error
}

func (r *PedidoRepository) CreateOrderItem(ctx context.Context, item *model.ItemPedido) error {
	return r.db.WithContext(ctx).Omit("Produto").Create(item).Error
}

// FindByIDAndLoja devolve ErrNotFound também quando o pedido é de outra loja.
func (r *PedidoRepository) FindByIDAndLoja(ctx context.Context, id, lojaID uint) (*model.Pedido, error) {
	var p model.Pedido
	if err := r.db.WithContext(ctx).Where("id = ? AND store_id = ?", id, lojaID).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// UpdateStatus troca from por to apenas se o pedido ainda estiver em from.
// Zero linhas afetadas vira ErrNotFound; quem chama decide se é conflito.
func (r *PedidoRepository) UpdateStatus(ctx context.Context, id, lojaID uint, from, to model.StatusPedido) error {
	res := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Where("id = ? AND store_id = ? AND status = ?", id, lojaID, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	return affected(res)
}

// ListByLoja traz os pedidos da loja com cliente e itens, mais recentes primeiro.
func (r *PedidoRepository) ListByLoja(ctx context.Context, lojaID uint) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Itens", orderItems).
		Preload("Itens.Produto").
		Where("store_id = ?", lojaID).
		Order("created_at DESC").Order("id DESC").
		Find(&pedidos).Error
	if err != nil {
		return nil, err
	}
	return pedidos, nil
}

func (r *PedidoRepository) ListByCliente(ctx context.Context, clienteID uint) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Loja").
		Preload("Itens", orderItems).
		Preload("Itens.Produto").
		Where("client_id = ?", clienteID).
		Order("created_at DESC").Order("id DESC").
		Find(&pedidos).Error
	if err != nil {
		return nil, err
	}
	return pedidos, nil
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.id")
}
