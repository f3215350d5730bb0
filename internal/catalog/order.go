package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-actor/pkg/actor"
)

var (
	sku           = actor.NewKey[string]("sku")
	quantity      = actor.NewKey[int]("quantity")
	unitPrice     = actor.NewKey[int]("unit_price_cents")
	amount        = actor.NewKey[int]("amount_cents")
	cardNumber    = actor.NewKey[string]("card_number")
	chargeID      = actor.NewKey[string]("charge_id")
	reservationID = actor.NewKey[string]("reservation_id")
	currency      = actor.NewKey[string]("currency")
	receipt       = actor.NewKey[string]("receipt")
)

// declinedPrefix marks test cards that are always declined.
const declinedPrefix = "4000"

func skuInput() actor.Option {
	return actor.Input("sku",
		actor.Type(actor.String),
		actor.MustBe("be present", func(s string) bool { return strings.TrimSpace(s) != "" }),
	)
}

func quantityInput() actor.Option {
	return actor.Input("quantity",
		actor.Type(actor.Integer),
		actor.Default(1),
		actor.MustBe("be positive", func(n int) bool { return n > 0 }),
	)
}

func amountInput() actor.Option {
	return actor.Input("amount_cents",
		actor.Type(actor.Integer),
		actor.MustBe("be positive", func(n int) bool { return n > 0 }),
	)
}

func cardNumberInput() actor.Option {
	return actor.Input("card_number",
		actor.Type(actor.String),
		actor.MustMessage("be 16 digits", func(v any) bool {
			s, ok := v.(string)
			return ok && len(s) == 16 && strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
		}, actor.Text("The card number must be 16 digits")),
	)
}

func currencyInput() actor.Option {
	return actor.Input("currency", actor.Type(actor.String), actor.Default("USD"), actor.In("USD", "EUR"))
}

// ValidateOrder prices an order line.
var ValidateOrder = actor.MustNew("ValidateOrder",
	skuInput(),
	quantityInput(),
	actor.Input("unit_price_cents",
		actor.Type(actor.Integer),
		actor.Default(100),
		actor.MustBe("be positive", func(n int) bool { return n > 0 }),
	),
	actor.Output("amount_cents",
		actor.Type(actor.Integer),
		actor.MustBe("be positive", func(n int) bool { return n > 0 }),
	),
	actor.Perform(func(_ context.Context, a *actor.Actor) error {
		amount.Set(a, quantity.Get(a)*unitPrice.Get(a))
		return nil
	}),
)

// ChargeCard charges a card. Cards starting with 4000 are declined. Rolling
// it back refunds the charge.
var ChargeCard = actor.MustNew("ChargeCard",
	cardNumberInput(),
	amountInput(),
	actor.Output("charge_id", actor.Type(actor.String)),
	actor.Perform(func(_ context.Context, a *actor.Actor) error {
		if strings.HasPrefix(cardNumber.Get(a), declinedPrefix) {
			return a.Fail(actor.Values{"error": "card declined"})
		}
		chargeID.Set(a, "ch_"+uuid.NewString())
		return nil
	}),
	actor.OnRollback(func(_ context.Context, a *actor.Actor) error {
		a.Result().Set("refunded", chargeID.Get(a))
		return nil
	}),
)

// IssueReceipt formats the receipt for a charged order.
var IssueReceipt = actor.MustNew("IssueReceipt",
	skuInput(),
	quantityInput(),
	amountInput(),
	actor.Input("charge_id", actor.Type(actor.String)),
	currencyInput(),
	actor.Output("receipt", actor.Type(actor.String)),
	actor.Perform(func(_ context.Context, a *actor.Actor) error {
		cents := amount.Get(a)
		receipt.Set(a, fmt.Sprintf("%d x %s: %d.%02d %s (charge %s)",
			quantity.Get(a), sku.Get(a), cents/100, cents%100, currency.Get(a), chargeID.Get(a)))
		return nil
	}),
)

// newReserveStock builds the actor that takes stock out of inv. Rolling it
// back puts the stock back.
func newReserveStock(inv *Inventory) (*actor.Class, error) {
	return actor.New("ReserveStock",
		skuInput(),
		quantityInput(),
		actor.Output("reservation_id", actor.Type(actor.String)),
		actor.Perform(func(_ context.Context, a *actor.Actor) error {
			err := inv.Reserve(sku.Get(a), quantity.Get(a))
			switch {
			case errors.Is(err, ErrUnknownSKU):
				return a.Fail(actor.Values{"error": fmt.Sprintf("unknown sku %q", sku.Get(a))})
			case errors.Is(err, ErrOutOfStock):
				return a.Fail(actor.Values{"error": fmt.Sprintf("only %d of %q left", inv.Available(sku.Get(a)), sku.Get(a))})
			case err != nil:
				return err
			}
			reservationID.Set(a, "rsv_"+uuid.NewString())
			return nil
		}),
		actor.OnRollback(func(_ context.Context, a *actor.Actor) error {
			inv.Release(sku.Get(a), quantity.Get(a))
			a.Result().Set("stock_released", true)
			return nil
		}),
	)
}

// OrderError is returned by PlaceOrder.Call when the order is rejected.
type OrderError struct {
	Failure *actor.Failure
}

func (e *OrderError) Error() string {
	return "order rejected: " + e.Failure.Result.ErrorValue()
}

func (e *OrderError) Unwrap() error { return e.Failure }

// newPlaceOrder builds the order pipeline. payment is the step that charges
// the card, either ChargeCard or an external actor. Every caller-supplied
// key is checked by PlaceOrder itself, so a malformed order is rejected
// before any stock is reserved or card charged.
func newPlaceOrder(reserve *actor.Class, payment actor.Target) (*actor.Class, error) {
	return actor.New("PlaceOrder",
		skuInput(),
		quantityInput(),
		cardNumberInput(),
		currencyInput(),
		actor.Output("receipt", actor.Type(actor.String)),
		actor.Play(ValidateOrder, reserve, payment, IssueReceipt),
		actor.WithErrors(actor.ErrorClasses{
			Failure: func(f *actor.Failure) error { return &OrderError{Failure: f} },
		}),
	)
}
