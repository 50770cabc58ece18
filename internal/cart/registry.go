package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry mantém um carrinho por sessão. O id da sessão é opaco; quem chama
// costuma guardá-lo no cookie de sessão.
type Registry struct {
	mu       sync.Mutex
	carts    map[string]*Cart
	lastSeen map[string]time.Time
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		carts:    make(map[string]*Cart),
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

// NewID gera um id de carrinho novo.
func (r *Registry) NewID() string {
	return uuid.NewString()
}

// Get devolve o carrinho da sessão, criando um vazio na primeira vez.
func (r *Registry) Get(id string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[id]
	if !ok {
		c = New()
		r.carts[id] = c
	}
	r.lastSeen[id] = r.now()
	return c
}

// Lookup não cria nada, mas conta como acesso.
func (r *Registry) Lookup(id string) (*Cart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[id]
	if ok {
		r.lastSeen[id] = r.now()
	}
	return c, ok
}

// Drop descarta o carrinho da sessão (logout).
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, id)
	delete(r.lastSeen, id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

// Sweep descarta os carrinhos sem acesso há mais de maxIdle e devolve quantos
// saíram.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	limite := r.now().Add(-maxIdle)
	removidos := 0
	for id, visto := range r.lastSeen {
		if visto.Before(limite) {
			delete(r.carts, id)
			delete(r.lastSeen, id)
			removidos++
		}
	}
	return removidos
}

// Run chama Sweep a cada intervalo até ctx ser cancelado. onSweep, se não for
// nil, recebe quantos carrinhos saíram em cada passada.
func (r *Registry) Run(ctx context.Context, every, maxIdle time.Duration, onSweep func(int)) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := r.Sweep(maxIdle)
			if onSweep != nil {
				onSweep(n)
			}
		}
	}
}
