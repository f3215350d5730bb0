package catalog

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/jsamuelsen11/go-actor/internal/domain"
)

// Inventory errors. Both wrap domain sentinels so adapters can map them.
var (
	ErrUnknownSKU = fmt.Errorf("unknown sku: %w", domain.ErrNotFound)
	ErrOutOfStock = fmt.Errorf("out of stock: %w", domain.ErrConflict)
)

// Inventory is an in-memory stock table shared by every request.
type Inventory struct {
	mu    sync.Mutex
	stock map[string]int
}

// NewInventory creates an inventory seeded with a copy of initial.
func NewInventory(initial map[string]int) *Inventory {
	stock := make(map[string]int, len(initial))
	maps.Copy(stock, initial)
	return &Inventory{stock: stock}
}

// Reserve takes qty units of sku out of stock.
func (inv *Inventory) Reserve(sku string, qty int) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	have, ok := inv.stock[sku]
	if !ok {
		return fmt.Errorf("%q: %w", sku, ErrUnknownSKU)
	}
	if have < qty {
		return fmt.Errorf("%q: %d requested, %d left: %w", sku, qty, have, ErrOutOfStock)
	}
	inv.stock[sku] = have - qty
	return nil
}

// Release puts qty units of sku back.
func (inv *Inventory) Release(sku string, qty int) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.stock[sku] += qty
}

// Available returns the units of sku in stock.
func (inv *Inventory) Available(sku string) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.stock[sku]
}

// Name implements ports.HealthChecker.
func (inv *Inventory) Name() string { return "inventory" }

// HealthCheck reports an error when no SKU has stock left.
func (inv *Inventory) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	for _, n := range inv.stock {
		if n > 0 {
			return nil
		}
	}
	return fmt.Errorf("inventory: %w", ErrOutOfStock)
}
