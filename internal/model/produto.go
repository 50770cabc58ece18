package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Produto representa um item vendido por uma loja.
type Produto struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	LojaID     uint            `gorm:"column:store_id;not null;index" json:"store_id"`
	Loja       *Loja           `gorm:"foreignKey:LojaID;constraint:OnDelete:CASCADE" json:"-"`
	Nome       string          `gorm:"column:name;not null" json:"name"`
	Descricao  string          `gorm:"column:description" json:"description,omitempty"`
	Preco      decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null;check:chk_products_price,price > 0" json:"price"`
	ImagemPath string          `gorm:"column:image_path" json:"image_path,omitempty"` // caminho dentro de assets/products
	CreatedAt  time.Time       `gorm:"column:created_at" json:"created_at"`
	Disponivel bool            `gorm:"column:is_available;not null" json:"is_available"`
}

func (Produto) TableName() string { return "products" }
