// Package cart guarda as seleções do usuário em memória até o checkout.
// Nada aqui é persistido: o carrinho vive enquanto o processo vive.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Item é o que a vitrine informa ao adicionar um produto; os campos viram o
// snapshot da linha e não são revalidados contra o catálogo.
type Item struct {
	ProdutoID   uint
	ProdutoNome string
	Preco       decimal.Decimal
	LojaID      uint
	LojaNome    string
}

// Line é uma linha do carrinho. Quantidade é sempre >= 1.
type Line struct {
	Item
	Quantidade int
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Preco.Mul(decimal.NewFromInt(int64(l.Quantidade)))
}

// StoreGroup são as linhas de uma mesma loja.
type StoreGroup struct {
	LojaID   uint
	LojaNome string
	Lines    []Line
}

func (g StoreGroup) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range g.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Cart é indexado pela identidade do produto e preserva a ordem de inserção.
type Cart struct {
	mu    sync.Mutex
	order []uint
	lines map[uint]*Line
}

func New() *Cart {
	return &Cart{lines: make(map[uint]*Line)}
}

// Add soma qty à linha do produto, criando-a (com quantidade 0) se não existir.
// Se a quantidade resultante ficar <= 0 a linha é removida.
func (c *Cart) Add(item Item, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.lines[item.ProdutoID]
	if !ok {
		line = &Line{Item: item}
		c.lines[item.ProdutoID] = line
		c.order = append(c.order, item.ProdutoID)
	}
	line.Quantidade += qty
	if line.Quantidade <= 0 {
		c.removeLocked(item.ProdutoID)
	}
}

// SetQuantity define a quantidade absoluta; qty <= 0 remove a linha.
// Produto ausente: nada acontece.
func (c *Cart) SetQuantity(produtoID uint, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.lines[produtoID]
	if !ok {
		return
	}
	if qty <= 0 {
		c.removeLocked(produtoID)
		return
	}
	line.Quantidade = qty
}

func (c *Cart) Remove(produtoID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(produtoID)
}

// RemoveLines desconta do carrinho as quantidades das linhas dadas (em geral o
// retrato usado num pedido). O que foi adicionado depois do retrato continua
// no carrinho; linhas que chegam a zero saem.
func (c *Cart) RemoveLines(lines []Line) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range lines {
		line, ok := c.lines[l.ProdutoID]
		if !ok {
			continue
		}
		line.Quantidade -= l.Quantidade
		if line.Quantidade <= 0 {
			c.removeLocked(l.ProdutoID)
		}
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = nil
	c.lines = make(map[uint]*Line)
}

// Total é a soma de preço x quantidade; zero para carrinho vazio.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ItemCount é a soma das quantidades.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, line := range c.lines {
		count += line.Quantidade
	}
	return count
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

// Lines devolve uma cópia das linhas na ordem de inserção.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.linesLocked()
}

func (c *Cart) Line(produtoID uint) (Line, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.lines[produtoID]
	if !ok {
		return Line{}, false
	}
	return *line, true
}

// GroupByStore particiona as linhas por loja. Lojas e linhas aparecem na ordem
// da primeira inserção; nenhuma linha aparece em dois grupos.
func (c *Cart) GroupByStore() []StoreGroup {
	c.mu.Lock()
	defer c.mu.Unlock()

	var groups []StoreGroup
	index := make(map[uint]int)
	for _, line := range c.linesLocked() {
		i, ok := index[line.LojaID]
		if !ok {
			i = len(groups)
			index[line.LojaID] = i
			groups = append(groups, StoreGroup{LojaID: line.LojaID, LojaNome: line.LojaNome})
		}
		groups[i].Lines = append(groups[i].Lines, line)
	}
	return groups
}

// StoreIDs são as lojas presentes no carrinho, na ordem do agrupamento.
func (c *Cart) StoreIDs() []uint {
	groups := c.GroupByStore()
	ids := make([]uint, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.LojaID)
	}
	return ids
}

// SingleStore devolve a loja quando todas as linhas pertencem a uma só.
func (c *Cart) SingleStore() (uint, bool) {
	ids := c.StoreIDs()
	if len(ids) != 1 {
		return 0, false
	}
	return ids[0], true
}

func (c *Cart) linesLocked() []Line {
	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

func (c *Cart) removeLocked(produtoID uint) {
	if _, ok := c.lines[produtoID]; !ok {
		return
	}
	delete(c.lines, produtoID)
	for i, id := range c.order {
		if id == produtoID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
