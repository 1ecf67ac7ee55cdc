package dialog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mariettabot/vendobot/catalog"
)

func burgerCatalog() *catalog.Catalog {
	return catalog.NewCatalog([]*catalog.Entry{
		{SKU: "burger", Name: "Burger", Price: 5000, Keys: []string{"burger"}},
		{SKU: "fries", Name: "Fries", Price: 2000, Keys: []string{"fries"}},
	})
}

func TestOrder_Total(t *testing.T) {
	cat := burgerCatalog()
	o := NewOrder("123")
	o.MergeItems(map[string]int{"burger": 2, "fries": 1})

	o.Delivery = DeliveryPickup
	assert.Equal(t, 12000, o.Total(cat, 3000))

	o.Delivery = DeliverySend
	assert.Equal(t, 15000, o.Total(cat, 3000))
}

func TestOrder_TotalIgnoresUnknownSKUs(t *testing.T) {
	cat := burgerCatalog()
	o := NewOrder("123")
	o.Items["retired_item"] = 3
	o.Items["burger"] = 1
	assert.Equal(t, 5000, o.Total(cat, 3000))
}

func TestOrder_MergeItems(t *testing.T) {
	o := NewOrder("123")
	o.MergeItems(map[string]int{"burger": 2})
	o.MergeItems(map[string]int{"burger": 1, "fries": 2})
	o.MergeItems(map[string]int{"fries": 0, "burger": -5})

	assert.Equal(t, map[string]int{"burger": 3, "fries": 2}, o.Items)
}

func TestOrder_Reset(t *testing.T) {
	o := NewOrder("123")
	o.State = StateAskConfirm
	o.Name = "Juan"
	o.Delivery = DeliverySend
	o.Address = "Calle Falsa 123"
	o.Payment = PaymentCash
	o.Items["burger"] = 2
	o.Mods = []string{"sin lechuga"}
	o.OrderID = 7
	o.Modified = true
	o.AwaitingCancel = true
	o.PendingMod = "pendiente"
	o.LastConfirmed = time.Now()

	o.Reset()

	assert.Equal(t, StateStart, o.State)
	assert.Empty(t, o.Name)
	assert.Equal(t, DeliveryNone, o.Delivery)
	assert.Empty(t, o.Address)
	assert.Equal(t, PaymentNone, o.Payment)
	assert.Empty(t, o.Items)
	assert.Empty(t, o.Mods)
	assert.Zero(t, o.OrderID)
	assert.False(t, o.Modified)
	assert.False(t, o.AwaitingCancel)
	assert.Empty(t, o.PendingMod)
	assert.True(t, o.LastConfirmed.IsZero())
	assert.Equal(t, "123", o.CustomerID)
}

func TestOrder_RenderedMods(t *testing.T) {
	o := NewOrder("123")
	for i := 1; i <= 14; i++ {
		o.Mods = append(o.Mods, fmt.Sprintf("nota %d", i))
	}

	mods := o.RenderedMods()
	assert.Len(t, mods, 10)
	assert.Equal(t, "nota 5", mods[0])
	assert.Equal(t, "nota 14", mods[9])
}

func TestState_String(t *testing.T) {
	states := []State{
		StateStart, StateAskName, StateAskDelivery, StateAskAddress,
		StateAskPayment, StateAskConfirm, StatePostConfirmedWait,
		StateAskConfirmMod, StatePostModConfirm,
	}
	seen := make(map[string]bool)
	for _, s := range states {
		str := s.String()
		assert.NotEqual(t, "UNKNOWN", str)
		assert.False(t, seen[str], "duplicate state name %s", str)
		seen[str] = true
	}
	assert.Equal(t, "UNKNOWN", State(99).String())
}
