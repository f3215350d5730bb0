package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/go-actor/internal/catalog"
	"github.com/jsamuelsen11/go-actor/internal/domain"
	"github.com/jsamuelsen11/go-actor/pkg/actor"
)

const goodCard = "4242424242424242"

func newCatalog(t *testing.T, payments actor.Caller) (*catalog.Catalog, *catalog.Inventory) {
	t.Helper()
	inv := catalog.NewInventory(map[string]int{"apple": 10, "pear": 1})
	c, err := catalog.New(catalog.Options{Inventory: inv, Payments: payments, PaymentsName: "ChargeCard"})
	require.NoError(t, err)
	return c, inv
}

func order(sku string, qty int, card string) actor.Values {
	return actor.Values{"sku": sku, "quantity": qty, "unit_price_cents": 250, "card_number": card}
}

func TestNew_RequiresInventory(t *testing.T) {
	t.Parallel()

	_, err := catalog.New(catalog.Options{})

	require.Error(t, err)
}

func TestCatalog_ClassesSortedByName(t *testing.T) {
	t.Parallel()

	c, _ := newCatalog(t, nil)

	names := make([]string, 0)
	for _, class := range c.Classes() {
		names = append(names, class.Name())
	}
	assert.Equal(t, []string{
		"Chain", "ChargeCard", "FailWithError", "Increment",
		"IssueReceipt", "PlaceOrder", "ReserveStock", "ValidateOrder",
	}, names)

	_, ok := c.Lookup("PlaceOrder")
	assert.True(t, ok)
	_, ok = c.Lookup("Nope")
	assert.False(t, ok)
}

func TestChain_LeavesIncrementedValue(t *testing.T) {
	t.Parallel()

	r, err := catalog.Chain.Result(context.Background(), actor.Values{"value": 1})

	require.NoError(t, err)
	assert.True(t, r.IsFailure())
	assert.Equal(t, 2, r.Get("value"))
	assert.Equal(t, "Ouch", r.ErrorValue())
}

func TestPlaceOrder_Success(t *testing.T) {
	t.Parallel()

	c, inv := newCatalog(t, nil)
	place, _ := c.Lookup("PlaceOrder")

	r, err := place.Call(context.Background(), order("apple", 3, goodCard))

	require.NoError(t, err)
	assert.Equal(t, 750, r.Get("amount_cents"))
	assert.Equal(t, 7, inv.Available("apple"))
	receipt, _ := actor.Lookup[string](r, "receipt")
	assert.True(t, strings.HasPrefix(receipt, "3 x apple: 7.50 USD (charge ch_"), receipt)
	assert.NotEmpty(t, r.Get("reservation_id"))
}

func TestPlaceOrder_DeclinedCardReleasesStock(t *testing.T) {
	t.Parallel()

	c, inv := newCatalog(t, nil)
	place, _ := c.Lookup("PlaceOrder")

	r, err := place.Call(context.Background(), order("apple", 4, "4000000000000002"))

	var oerr *catalog.OrderError
	require.True(t, errors.As(err, &oerr))
	require.ErrorIs(t, err, actor.ErrFailure)
	assert.Equal(t, "order rejected: card declined", err.Error())
	assert.Equal(t, 10, inv.Available("apple"))
	assert.Equal(t, true, r.Get("stock_released"))
	assert.False(t, r.Has("receipt"))
}

func TestPlaceOrder_OutOfStock(t *testing.T) {
	t.Parallel()

	c, inv := newCatalog(t, nil)
	place, _ := c.Lookup("PlaceOrder")

	r, err := place.Result(context.Background(), order("pear", 2, goodCard))

	require.NoError(t, err)
	assert.True(t, r.IsFailure())
	assert.Equal(t, `only 1 of "pear" left`, r.ErrorValue())
	assert.Equal(t, 1, inv.Available("pear"))
	assert.False(t, r.Has("charge_id"))
}

func TestPlaceOrder_UnknownSKU(t *testing.T) {
	t.Parallel()

	c, _ := newCatalog(t, nil)
	place, _ := c.Lookup("PlaceOrder")

	r, err := place.Result(context.Background(), order("kiwi", 1, goodCard))

	require.NoError(t, err)
	assert.Equal(t, `unknown sku "kiwi"`, r.ErrorValue())
}

func TestPlaceOrder_ArgumentErrors(t *testing.T) {
	t.Parallel()

	c, inv := newCatalog(t, nil)
	place, _ := c.Lookup("PlaceOrder")

	_, err := place.Call(context.Background(), order("apple", 0, goodCard))

	var argErr *actor.ArgumentError
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, "PlaceOrder", argErr.Actor)
	assert.Equal(t, []string{"quantity"}, argErr.Keys())
	assert.Equal(t, 10, inv.Available("apple"))
}

func TestPlaceOrder_ArgumentErrorsLeaveStockAlone(t *testing.T) {
	t.Parallel()

	withCurrency := func(v actor.Values, cur any) actor.Values {
		v["currency"] = cur
		return v
	}
	tests := []struct {
		name    string
		values  actor.Values
		wantKey string
		wantMsg string
	}{
		{
			name:    "short card number",
			values:  order("apple", 1, "123"),
			wantKey: "card_number",
			wantMsg: "The card number must be 16 digits",
		},
		{
			name:    "card number with letters",
			values:  order("apple", 1, "4242abcd42424242"),
			wantKey: "card_number",
			wantMsg: "The card number must be 16 digits",
		},
		{
			name:    "unsupported currency",
			values:  withCurrency(order("apple", 1, goodCard), "GBP"),
			wantKey: "currency",
			wantMsg: `must be included in ["USD", "EUR"]`,
		},
		{
			name:    "free item",
			values:  actor.Values{"sku": "apple", "unit_price_cents": 0, "card_number": goodCard},
			wantKey: "unit_price_cents",
			wantMsg: `must "be positive"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, inv := newCatalog(t, nil)
			place, _ := c.Lookup("PlaceOrder")

			for range 5 {
				r, err := place.Result(context.Background(), tt.values)

				require.ErrorIs(t, err, actor.ErrArgument)
				assert.False(t, r.Has("reservation_id"))
				var argErr *actor.ArgumentError
				require.True(t, errors.As(err, &argErr))
				assert.Equal(t, []string{tt.wantKey}, argErr.Keys())
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
			assert.Equal(t, 10, inv.Available("apple"), "no stock was reserved")
			require.NoError(t, inv.HealthCheck(context.Background()))
		})
	}
}

func TestPlaceOrder_Int64QuantityIsPriced(t *testing.T) {
	t.Parallel()

	c, inv := newCatalog(t, nil)
	place, _ := c.Lookup("PlaceOrder")

	values := order("apple", 0, goodCard)
	values["quantity"] = int64(3)

	r, err := place.Call(context.Background(), values)

	require.NoError(t, err)
	assert.Equal(t, 750, r.Get("amount_cents"))
	assert.Equal(t, 7, inv.Available("apple"))
}

func TestPlaceOrder_RemotePayments(t *testing.T) {
	t.Parallel()

	var sent actor.Values
	remote := actor.CallerFunc(func(_ context.Context, v actor.Values) (actor.Values, error) {
		sent = v
		return actor.Values{"charge_id": "ch_remote"}, nil
	})
	c, _ := newCatalog(t, remote)
	place, _ := c.Lookup("PlaceOrder")

	r, err := place.Call(context.Background(), order("apple", 2, goodCard))

	require.NoError(t, err)
	assert.Equal(t, 500, sent["amount_cents"])
	assert.Equal(t, goodCard, sent["card_number"])
	assert.Contains(t, r.Get("receipt"), "charge ch_remote")
}

func TestPlaceOrder_RemoteFailureReleasesStock(t *testing.T) {
	t.Parallel()

	remote := actor.CallerFunc(func(context.Context, actor.Values) (actor.Values, error) {
		return actor.Values{"error": "card declined"}, fmt.Errorf("ChargeCard: %w", actor.ErrFailure)
	})
	c, inv := newCatalog(t, remote)
	place, _ := c.Lookup("PlaceOrder")

	r, err := place.Result(context.Background(), order("apple", 2, goodCard))

	require.NoError(t, err)
	assert.True(t, r.IsFailure())
	assert.Equal(t, "card declined", r.ErrorValue())
	assert.Equal(t, 10, inv.Available("apple"))
}

func TestPlaceOrder_RemoteOutageReleasesStock(t *testing.T) {
	t.Parallel()

	remote := actor.CallerFunc(func(context.Context, actor.Values) (actor.Values, error) {
		return nil, domain.ErrUnavailable
	})
	c, inv := newCatalog(t, remote)
	place, _ := c.Lookup("PlaceOrder")

	_, err := place.Call(context.Background(), order("apple", 2, goodCard))

	require.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Equal(t, 10, inv.Available("apple"))
}

func TestPlaceOrder_ConcurrentOrdersNeverOversell(t *testing.T) {
	t.Parallel()

	c, inv := newCatalog(t, nil)
	place, _ := c.Lookup("PlaceOrder")

	var wg sync.WaitGroup
	var mu sync.Mutex
	placed := 0
	for range 25 {
		wg.Go(func() {
			r, err := place.Result(context.Background(), order("apple", 1, goodCard))
			if err == nil && !r.IsFailure() {
				mu.Lock()
				placed++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	assert.Equal(t, 10, placed)
	assert.Equal(t, 0, inv.Available("apple"))
}

func TestChargeCard_RollbackRecordsRefund(t *testing.T) {
	t.Parallel()

	pipeline := actor.MustNew("ChargeThenFail", actor.Play(catalog.ChargeCard, catalog.FailWithError))

	r, err := pipeline.Result(context.Background(), actor.Values{"card_number": goodCard, "amount_cents": 100})

	require.NoError(t, err)
	assert.Equal(t, r.Get("charge_id"), r.Get("refunded"))
}

func TestInventory(t *testing.T) {
	t.Parallel()

	inv := catalog.NewInventory(map[string]int{"apple": 1})

	require.NoError(t, inv.Reserve("apple", 1))
	require.ErrorIs(t, inv.Reserve("apple", 1), catalog.ErrOutOfStock)
	require.ErrorIs(t, inv.Reserve("apple", 1), domain.ErrConflict)
	require.ErrorIs(t, inv.Reserve("kiwi", 1), domain.ErrNotFound)
	require.Error(t, inv.HealthCheck(context.Background()))

	inv.Release("apple", 1)
	assert.Equal(t, 1, inv.Available("apple"))
	require.NoError(t, inv.HealthCheck(context.Background()))
	assert.Equal(t, "inventory", inv.Name())
}
