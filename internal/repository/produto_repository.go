package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/freit4sdev/urbanfood/internal/model"
)

// ProdutoUpdate são os campos editáveis pelo lojista. ImagemPath vazio
// mantém a imagem atual.
type ProdutoUpdate struct {
	Nome       string
	Descricao  string
	Preco      decimal.Decimal
	ImagemPath string
}

// ProdutoRepository acessa products. Toda escrita é restrita à loja dona.
type ProdutoRepository struct {
	db *gorm.DB
}

func NewProdutoRepository(db *gorm.DB) *ProdutoRepository {
	return &ProdutoRepository{db: db}
}

// ListByLoja traz o cardápio da loja, mais recentes primeiro.
func (r *ProdutoRepository) ListByLoja(ctx context.Context, lojaID uint) ([]model.Produto, error) {
	var produtos []model.Produto
	err := r.db.WithContext(ctx).
		Where("store_id = ?", lojaID).
		Order("created_at DESC").Order("id DESC").
		Find(&produtos).Error
	if err != nil {
		return nil, err
	}
	return produtos, nil
}

// FindAvailable carrega um produto disponível junto com a loja, para o carrinho.
func (r *ProdutoRepository) FindAvailable(ctx context.Context, id uint) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).
		Preload("Loja").
		Where("id = ? AND is_available = ?", id, true).
		First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *ProdutoRepository) FindByIDAndLoja(ctx context.Context, id, lojaID uint) (*model.Produto, error) {
	var p model.Produto
	if err := r.db.WithContext(ctx).Where("id = ? AND store_id = ?", id, lojaID).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *ProdutoRepository) Create(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProdutoRepository) Update(ctx context.Context, id, lojaID uint, upd ProdutoUpdate) error {
	campos := map[string]any{"name": upd.Nome, "description": upd.Descricao, "price": upd.Preco}
	if upd.ImagemPath != "" {
		campos["image_path"] = upd.ImagemPath
	}
	res := r.db.WithContext(ctx).Model(&model.Produto{}).
		Where("id = ? AND store_id = ?", id, lojaID).
		Updates(campos)
	return affected(res)
}

// ToggleAvailability inverte is_available e devolve o produto como ficou.
func (r *ProdutoRepository) ToggleAvailability(ctx context.Context, id, lojaID uint) (*model.Produto, error) {
	res := r.db.WithContext(ctx).Model(&model.Produto{}).
		Where("id = ? AND store_id = ?", id, lojaID).
		Update("is_available", gorm.Expr("NOT is_available"))
	if err := affected(res); err != nil {
		return nil, err
	}
	return r.FindByIDAndLoja(ctx, id, lojaID)
}

func (r *ProdutoRepository) Delete(ctx context.Context, id, lojaID uint) error {
	return affected(r.db.WithContext(ctx).Where("store_id = ?", lojaID).Delete(&model.Produto{}, id))
}
