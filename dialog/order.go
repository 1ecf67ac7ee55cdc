package dialog

import (
	"sync"
	"time"

	"github.com/mariettabot/vendobot/catalog"
)

// State is the conversation position of one customer.
type State int

const (
	StateStart State = iota
	StateAskName
	StateAskDelivery
	StateAskAddress
	StateAskPayment
	StateAskConfirm
	StatePostConfirmedWait
	StateAskConfirmMod
	StatePostModConfirm
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateAskName:
		return "ASK_NAME"
	case StateAskDelivery:
		return "ASK_DELIVERY"
	case StateAskAddress:
		return "ASK_ADDRESS"
	case StateAskPayment:
		return "ASK_PAYMENT"
	case StateAskConfirm:
		return "ASK_CONFIRM"
	case StatePostConfirmedWait:
		return "POST_CONFIRMED_WAIT"
	case StateAskConfirmMod:
		return "ASK_CONFIRM_MOD"
	case StatePostModConfirm:
		return "POST_MOD_CONFIRM"
	default:
		return "UNKNOWN"
	}
}

// Field limits, in words.
const (
	maxNameWords    = 5
	maxAddressWords = 12
	maxModWords     = 20

	// only the most recent modifications are surfaced on a printed record
	maxRenderedMods = 10
)

// Order is the mutable per-customer aggregate: conversation state plus
// everything collected so far. The embedded mutex serializes handling of one
// customer's messages; distinct customers never share an Order.
type Order struct {
	sync.Mutex

	CustomerID string
	State      State

	Name     string
	Delivery Delivery
	Address  string
	Payment  Payment
	Items    map[string]int // SKU → quantity, quantities only ever accumulate
	Mods     []string

	OrderID  int // 0 until a new order lifecycle assigns one
	Modified bool

	AwaitingCancel bool
	PendingMod     string

	LastConfirmed time.Time // zero until the first confirmed order
}

// NewOrder returns a fresh START aggregate for a customer.
func NewOrder(customerID string) *Order {
	return &Order{
		CustomerID: customerID,
		Items:      make(map[string]int),
	}
}

// Reset clears every field back to a fresh START record, keeping the
// customer identity. Used on confirmed cancellation and on idle expiry.
func (o *Order) Reset() {
	o.State = StateStart
	o.Name = ""
	o.Delivery = DeliveryNone
	o.Address = ""
	o.Payment = PaymentNone
	o.Items = make(map[string]int)
	o.Mods = nil
	o.OrderID = 0
	o.Modified = false
	o.AwaitingCancel = false
	o.PendingMod = ""
	o.LastConfirmed = time.Time{}
}

// MergeItems adds quantities into the aggregate. Items are only ever added,
// never replaced; zero and negative quantities are dropped.
func (o *Order) MergeItems(items map[string]int) {
	for sku, qty := range items {
		if qty > 0 {
			o.Items[sku] += qty
		}
	}
}

// Total computes the order total: Σ price×qty plus the flat delivery fee when
// the order ships.
func (o *Order) Total(cat *catalog.Catalog, deliveryFee int) int {
	total := 0
	for sku, qty := range o.Items {
		if e := cat.Get(sku); e != nil {
			total += e.Price * qty
		}
	}
	if o.Delivery == DeliverySend {
		total += deliveryFee
	}
	return total
}

// RenderedMods returns the modifications that belong on a printed record:
// the most recent ten.
func (o *Order) RenderedMods() []string {
	if len(o.Mods) <= maxRenderedMods {
		return o.Mods
	}
	return o.Mods[len(o.Mods)-maxRenderedMods:]
}
