package repository

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogStore é a parte "loja" de uma linha do catálogo.
type CatalogStore struct {
	ID        uint   `json:"id"`
	Nome      string `json:"name"`
	Descricao string `json:"description,omitempty"`
}

// CatalogProduct é a parte "produto"; nil quando a loja não tem nada disponível.
type CatalogProduct struct {
	ID         uint            `json:"id"`
	Nome       string          `json:"name"`
	Descricao  string          `json:"description,omitempty"`
	Preco      decimal.Decimal `json:"price"`
	ImagemPath string          `json:"image_path,omitempty"`
}

type CatalogEntry struct {
	Loja    CatalogStore    `json:"store"`
	Produto *CatalogProduct `json:"product,omitempty"`
}

type catalogRow struct {
	StoreID            uint
	StoreName          string
	StoreDescription   *string
	ProductID          *uint
	ProductName        *string
	ProductDescription *string
	Price              decimal.NullDecimal
	ProductImage       *string
}

const catalogSelect = `s.id AS store_id, s.name AS store_name, s.description AS store_description,
p.id AS product_id, p.name AS product_name, p.description AS product_description,
p.price AS price, p.image_path AS product_image`

// CatalogRepository executa a consulta de vitrine (lojas + produtos disponíveis).
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Browse faz o LEFT JOIN de lojas com seus produtos disponíveis, filtrando por
// nome de loja OU de produto quando search não é vazio.
func (r *CatalogRepository) Browse(ctx context.Context, search string) ([]CatalogEntry, error) {
	q := r.db.WithContext(ctx).
		Table("stores AS s").
		Select(catalogSelect).
		Joins("LEFT JOIN products p ON s.id = p.store_id AND p.is_available = ?", true)

	if term := strings.TrimSpace(search); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		q = q.Where(`LOWER(s.name) LIKE ? ESCAPE '\' OR LOWER(p.name) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var rows []catalogRow
	if err := q.Order("s.name, p.name, s.id, p.id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]CatalogEntry, 0, len(rows))
	for _, row := range rows {
		entry := CatalogEntry{Loja: CatalogStore{ID: row.StoreID, Nome: row.StoreName, Descricao: deref(row.StoreDescription)}}
		if row.ProductID != nil {
			entry.Produto = &CatalogProduct{
				ID:         *row.ProductID,
				Nome:       deref(row.ProductName),
				Descricao:  deref(row.ProductDescription),
				Preco:      row.Price.Decimal,
				ImagemPath: deref(row.ProductImage),
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// escapeLike faz %, _ e \ valerem literalmente dentro do padrão LIKE.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
