// Package catalog holds the sample actors served by the gateway: the small
// Increment/FailWithError/Chain actors and an order placement pipeline that
// reserves stock, charges a card and issues a receipt, rolling back the
// reservation and the charge when a later step fails.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jsamuelsen11/go-actor/pkg/actor"
)

// Options configures the order pipeline.
type Options struct {
	// Inventory backs ReserveStock. Required.
	Inventory *Inventory

	// Payments charges the card through another gateway. When nil,
	// PlaceOrder plays ChargeCard locally.
	Payments actor.Caller

	// PaymentsName identifies the remote payments actor in errors and
	// traces.
	PaymentsName string
}

// Catalog is the set of actors callable by name.
type Catalog struct {
	classes map[string]*actor.Class
}

// New builds the catalog around the given inventory and payment route.
func New(opts Options) (*Catalog, error) {
	if opts.Inventory == nil {
		return nil, errors.New("catalog: inventory is required")
	}

	reserve, err := newReserveStock(opts.Inventory)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	var payment actor.Target = ChargeCard
	if opts.Payments != nil {
		name := opts.PaymentsName
		if name == "" {
			name = ChargeCard.Name()
		}
		payment = actor.External(name, opts.Payments)
	}

	order, err := newPlaceOrder(reserve, payment)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	c := &Catalog{classes: map[string]*actor.Class{}}
	for _, class := range []*actor.Class{
		Increment, FailWithError, Chain,
		ValidateOrder, reserve, ChargeCard, IssueReceipt, order,
	} {
		c.classes[class.Name()] = class
	}
	return c, nil
}

// Lookup returns the actor called name.
func (c *Catalog) Lookup(name string) (*actor.Class, bool) {
	class, ok := c.classes[name]
	return class, ok
}

// Classes returns every actor sorted by name.
func (c *Catalog) Classes() []*actor.Class {
	out := make([]*actor.Class, 0, len(c.classes))
	for _, class := range c.classes {
		out = append(out, class)
	}
	slices.SortFunc(out, func(a, b *actor.Class) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return out
}
