package service

import (
	"context"
	"errors"

	"github.com/freit4sdev/urbanfood/internal/apperror"
	"github.com/freit4sdev/urbanfood/internal/cart"
	"github.com/freit4sdev/urbanfood/internal/model"
	"github.com/freit4sdev/urbanfood/internal/repository"
)

var ErrProdutoIndisponivel = apperror.NotFound("Produto não encontrado ou indisponível.")

// StoreSection é uma loja da vitrine com seus produtos disponíveis.
type StoreSection struct {
	Loja     repository.CatalogStore     `json:"store"`
	Produtos []repository.CatalogProduct `json:"products"`
}

type CatalogService struct {
	catalogo *repository.CatalogRepository
	lojas    *repository.LojaRepository
	produtos *repository.ProdutoRepository
}

func NewCatalogService(catalogo *repository.CatalogRepository, lojas *repository.LojaRepository, produtos *repository.ProdutoRepository) *CatalogService {
	return &CatalogService{catalogo: catalogo, lojas: lojas, produtos: produtos}
}

// Browse devolve as linhas planas da vitrine, já ordenadas por loja e produto.
func (s *CatalogService) Browse(ctx context.Context, search string) ([]repository.CatalogEntry, error) {
	entries, err := s.catalogo.Browse(ctx, search)
	if err != nil {
		return nil, apperror.Persistence("Erro ao carregar dados.", err)
	}
	return entries, nil
}

// GroupByStore junta as linhas consecutivas de cada loja numa seção. Uma loja
// sem produto disponível vira uma seção com lista vazia.
func GroupByStore(entries []repository.CatalogEntry) []StoreSection {
	var sections []StoreSection
	index := make(map[uint]int)
	for _, e := range entries {
		i, ok := index[e.Loja.ID]
		if !ok {
			i = len(sections)
			index[e.Loja.ID] = i
			sections = append(sections, StoreSection{Loja: e.Loja, Produtos: []repository.CatalogProduct{}})
		}
		if e.Produto != nil {
			sections[i].Produtos = append(sections[i].Produtos, *e.Produto)
		}
	}
	return sections
}

// ListStores é a aba de lojas do cliente.
func (s *CatalogService) ListStores(ctx context.Context) ([]model.Loja, error) {
	lojas, err := s.lojas.ListByName(ctx)
	if err != nil {
		return nil, apperror.Persistence("Erro ao carregar lojas.", err)
	}
	return lojas, nil
}

// CartItem resolve um produto disponível e tira o retrato que vai para o carrinho.
func (s *CatalogService) CartItem(ctx context.Context, produtoID uint) (cart.Item, error) {
	p, err := s.produtos.FindAvailable(ctx, produtoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return cart.Item{}, ErrProdutoIndisponivel
		}
		return cart.Item{}, apperror.Persistence("Erro ao buscar produto.", err)
	}

	item := cart.Item{ProdutoID: p.ID, ProdutoNome: p.Nome, Preco: p.Preco, LojaID: p.LojaID}
	if p.Loja != nil {
		item.LojaNome = p.Loja.Nome
	}
	return item, nil
}
