// /internal/model/pedido.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusPedido define os possíveis status de um pedido
type StatusPedido string

const (
	StatusPendente  StatusPedido = "Pendente"
	StatusEmPreparo StatusPedido = "Em preparo"
	StatusPronto    StatusPedido = "Pronto"
	StatusEntregue  StatusPedido = "Entregue"
	StatusCancelado StatusPedido = "Cancelado"
)

// StatusFluxo lista os status na ordem do fluxo de trabalho da loja.
var StatusFluxo = []StatusPedido{StatusPendente, StatusEmPreparo, StatusPronto, StatusEntregue, StatusCancelado}

var transicoes = map[StatusPedido][]StatusPedido{
	StatusPendente:  {StatusEmPreparo, StatusPronto, StatusCancelado},
	StatusEmPreparo: {StatusPronto, StatusCancelado},
	StatusPronto:    {StatusEntregue, StatusCancelado},
	StatusEntregue:  nil,
	StatusCancelado: nil,
}

func (s StatusPedido) Valid() bool {
	_, ok := transicoes[s]
	return ok
}

// Terminal indica que nenhum avanço é possível a partir de s.
func (s StatusPedido) Terminal() bool {
	next, ok := transicoes[s]
	return ok && len(next) == 0
}

// CanTransitionTo diz se o fluxo para frente permite sair de s para next.
func (s StatusPedido) CanTransitionTo(next StatusPedido) bool {
	for _, allowed := range transicoes[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Pedido é o cabeçalho de uma compra de um cliente em uma única loja.
// Total é fixado na criação e não acompanha mudanças de preço do catálogo.
type Pedido struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ClienteID uint            `gorm:"column:client_id;not null;index" json:"client_id"`
	Cliente   *Usuario        `gorm:"foreignKey:ClienteID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	LojaID    uint            `gorm:"column:store_id;not null;index" json:"store_id"`
	Loja      *Loja           `gorm:"foreignKey:LojaID;constraint:OnDelete:CASCADE" json:"store,omitempty"`
	Total     decimal.Decimal `gorm:"column:total_amount;type:decimal(10,2);not null" json:"total_amount"`
	Status    StatusPedido    `gorm:"column:status;type:varchar(20);not null;check:chk_orders_status,status IN ('Pendente','Em preparo','Pronto','Entregue','Cancelado')" json:"status"`
	CreatedAt time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at" json:"updated_at"`
	Itens     []ItemPedido    `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Pedido) TableName() string { return "orders" }

// ItemPedido representa um item dentro de um Pedido.
type ItemPedido struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	PedidoID   uint            `gorm:"column:order_id;not null;index" json:"order_id"`
	ProdutoID  uint            `gorm:"column:product_id;not null" json:"product_id"`
	Produto    *Produto        `gorm:"foreignKey:ProdutoID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Quantidade int             `gorm:"column:quantity;not null;check:chk_order_items_quantity,quantity > 0" json:"quantity"`
	Preco      decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null" json:"price"` // preço unitário no momento da compra
}

func (ItemPedido) TableName() string { return "order_items" }

func (i ItemPedido) Subtotal() decimal.Decimal {
	return i.Preco.Mul(decimal.NewFromInt(int64(i.Quantidade)))
}
