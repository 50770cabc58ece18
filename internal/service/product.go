package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/freit4sdev/urbanfood/internal/apperror"
	"github.com/freit4sdev/urbanfood/internal/model"
	"github.com/freit4sdev/urbanfood/internal/repository"
)

var (
	ErrProdutoNaoEncontrado = apperror.NotFound("Produto não encontrado.")
	ErrPrecoInvalido        = apperror.Validation("Por favor, insira um preço válido.")
)

// ProductInput vem do formulário do lojista. Disponivel só é lido na criação
// (ausente conta como disponível); depois a troca é pelo toggle.
type ProductInput struct {
	Nome       string          `json:"name" validate:"required"`
	Descricao  string          `json:"description"`
	Preco      decimal.Decimal `json:"price"`
	ImagemPath string          `json:"image_path"`
	Disponivel *bool           `json:"is_available"`
}

// ProductService é o cardápio do lojista. Toda operação é presa à loja da sessão.
type ProductService struct {
	produtos *repository.ProdutoRepository
	log      *zap.Logger
}

func NewProductService(produtos *repository.ProdutoRepository, log *zap.Logger) *ProductService {
	return &ProductService{produtos: produtos, log: log}
}

func (s *ProductService) List(ctx context.Context, lojaID uint) ([]model.Produto, error) {
	produtos, err := s.produtos.ListByLoja(ctx, lojaID)
	if err != nil {
		return nil, apperror.Persistence("Erro ao carregar produtos.", err)
	}
	return produtos, nil
}

func (s *ProductService) Create(ctx context.Context, lojaID uint, in ProductInput) (*model.Produto, error) {
	if err := validateProduct(&in); err != nil {
		return nil, err
	}

	p := &model.Produto{
		LojaID:     lojaID,
		Nome:       in.Nome,
		Descricao:  in.Descricao,
		Preco:      in.Preco,
		ImagemPath: in.ImagemPath,
		Disponivel: in.Disponivel == nil || *in.Disponivel,
	}
	if err := s.produtos.Create(ctx, p); err != nil {
		return nil, apperror.Persistence("Erro ao salvar produto.", err)
	}
	s.log.Info("Produto criado", zap.Uint("store_id", lojaID), zap.Uint("product_id", p.ID))
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, lojaID, produtoID uint, in ProductInput) (*model.Produto, error) {
	if err := validateProduct(&in); err != nil {
		return nil, err
	}

	upd := repository.ProdutoUpdate{Nome: in.Nome, Descricao: in.Descricao, Preco: in.Preco, ImagemPath: in.ImagemPath}
	if err := s.produtos.Update(ctx, produtoID, lojaID, upd); err != nil {
		return nil, productErr(err, "Erro ao atualizar produto.")
	}
	p, err := s.produtos.FindByIDAndLoja(ctx, produtoID, lojaID)
	if err != nil {
		return nil, productErr(err, "Erro ao atualizar produto.")
	}
	return p, nil
}

func (s *ProductService) ToggleAvailability(ctx context.Context, lojaID, produtoID uint) (*model.Produto, error) {
	p, err := s.produtos.ToggleAvailability(ctx, produtoID, lojaID)
	if err != nil {
		return nil, productErr(err, "Erro ao atualizar produto.")
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, lojaID, produtoID uint) error {
	if err := s.produtos.Delete(ctx, produtoID, lojaID); err != nil {
		return productErr(err, "Erro ao excluir produto.")
	}
	s.log.Info("Produto excluído", zap.Uint("store_id", lojaID), zap.Uint("product_id", produtoID))
	return nil
}

func validateProduct(in *ProductInput) error {
	in.Nome = strings.TrimSpace(in.Nome)
	in.Descricao = strings.TrimSpace(in.Descricao)
	in.ImagemPath = strings.TrimSpace(in.ImagemPath)
	if err := validateInput(*in); err != nil {
		return err
	}
	// O preço vale como será gravado: 0.004 vira 0.00 e é recusado.
	in.Preco = in.Preco.Round(2)
	if !in.Preco.IsPositive() {
		return ErrPrecoInvalido
	}
	return nil
}

func productErr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProdutoNaoEncontrado
	}
	return apperror.Persistence(msg, err)
}
