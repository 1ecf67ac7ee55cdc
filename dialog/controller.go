package dialog

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/mariettabot/vendobot/catalog"
)

// OrderStore is the persistence port the controller calls at every successful
// confirmation. Failures are logged and swallowed: by the time persistence
// runs the conversation has already advanced and is never rolled back.
type OrderStore interface {
	// NextOrderID returns the next order sequence number.
	NextOrderID() (int, error)
	// SaveOrder durably records the order, both under its own number and as
	// the latest record for printing.
	SaveOrder(o *Order, cat *catalog.Catalog) error
}

// Config carries the fixed business constants surfaced in replies and
// records. None of these are derived at runtime.
type Config struct {
	DeliveryFee int
	ETAMinutes  int
}

// Controller drives one conversation turn at a time. It owns no sessions and
// performs no I/O besides the OrderStore port; the caller locks the Order,
// applies expiry, and delivers the returned reply.
type Controller struct {
	store OrderStore
	cfg   Config
	now   func() time.Time
}

// NewController wires the controller to its persistence port.
func NewController(store OrderStore, cfg Config) *Controller {
	return &Controller{store: store, cfg: cfg, now: time.Now}
}

// Prompts reused across states.
const (
	replyAskCancel     = "❌ ¿Querés cancelar el pedido? (SI / NO)"
	replyAskConfirm    = "¿Confirmás? (SI / NO)"
	replyAskConfirmMod = "¿Confirmás el pedido modificado? (SI / NO)"
	replyAskConfirmFre = "¿Confirmás la modificación? (SI / NO)"
	replyAskDelivery   = "📦 ¿Envío o retirar?"
	replyAskPayment    = "💵 ¿Efectivo o transferencia?"
	replyInPrep        = "👌 Perfecto. Tu pedido está en preparación."
	replyStillInPrep   = "👌 Perfecto. Tu pedido sigue en preparación."
	replyCancelled     = "❌ Pedido cancelado."
)

var namePrefixRe = regexp.MustCompile(`(?i)^\s*a\s+nombre\s+de\s+`)

// Handle processes one inbound message for a customer and returns the reply
// text. It is total: every (state, text) pair maps to a defined transition
// and a non-empty reply. The caller must hold the Order's lock.
func (c *Controller) Handle(o *Order, raw string, cat *catalog.Catalog, idx catalog.MatchIndex) string {
	// A pending cancellation overrides every state until resolved.
	if o.AwaitingCancel {
		return c.handleCancelConfirm(o, raw)
	}

	if o.State == StateStart && WantsMenu(raw) {
		return c.menu(cat)
	}

	switch o.State {
	case StatePostConfirmedWait:
		return c.handlePostConfirmed(o, raw, cat, idx)
	case StatePostModConfirm:
		return c.handleModConfirm(o, raw, cat)
	case StateAskConfirmMod:
		return c.handleConfirmMod(o, raw, cat)
	case StateStart:
		return c.handleStart(o, raw, cat, idx)
	case StateAskName:
		name := namePrefixRe.ReplaceAllString(strings.TrimSpace(raw), "")
		o.Name = catalog.ClipWords(name, maxNameWords)
		o.State = StateAskDelivery
		return replyAskDelivery
	case StateAskDelivery:
		dm := DetectDelivery(raw)
		if dm == DeliveryNone {
			return replyAskDelivery
		}
		o.Delivery = dm
		if dm == DeliverySend {
			o.State = StateAskAddress
			return "📍 Perfecto. Decime la dirección por favor."
		}
		o.State = StateAskPayment
		return replyAskPayment
	case StateAskAddress:
		o.Address = catalog.ClipWords(strings.TrimSpace(raw), maxAddressWords)
		o.State = StateAskPayment
		return replyAskPayment
	case StateAskPayment:
		pm := DetectPayment(raw)
		if pm == PaymentNone {
			return replyAskPayment
		}
		o.Payment = pm
		o.State = StateAskConfirm
		return summaryMessage(o, cat, c.cfg.DeliveryFee, c.cfg.ETAMinutes) + "\n" + replyAskConfirm
	case StateAskConfirm:
		return c.handleConfirm(o, raw, cat)
	}

	// unreachable with a well-formed State, but the machine stays total
	return c.menu(cat)
}

func (c *Controller) handleCancelConfirm(o *Order, raw string) string {
	switch {
	case IsYes(raw):
		o.Reset()
		return replyCancelled
	case IsNo(raw) || IsPoliteDecline(raw):
		o.AwaitingCancel = false
		o.State = StatePostConfirmedWait
		return replyStillInPrep
	default:
		return replyAskCancel
	}
}

func (c *Controller) handlePostConfirmed(o *Order, raw string, cat *catalog.Catalog, idx catalog.MatchIndex) string {
	if IsPoliteDecline(raw) {
		return replyInPrep
	}
	if IsCancel(raw) {
		o.AwaitingCancel = true
		return replyAskCancel
	}

	if add := catalog.Match(catalog.Normalize(raw), idx); len(add) > 0 {
		if o.OrderID == 0 {
			o.OrderID = c.nextOrderID()
		}
		o.MergeItems(add)
		o.Modified = true
		o.State = StateAskConfirmMod
		return "📝 Perfecto, sumé al pedido. Te paso el resumen:\n" +
			summaryMessage(o, cat, c.cfg.DeliveryFee, c.cfg.ETAMinutes) +
			"\n" + replyAskConfirmMod
	}

	// No items detected: take the text verbatim as a kitchen note, pending
	// a yes/no. Empty text or a plain negation means no further changes.
	mod := catalog.ClipWords(strings.TrimSpace(raw), maxModWords)
	if mod == "" || IsNo(raw) {
		return replyInPrep
	}
	o.PendingMod = mod
	o.State = StatePostModConfirm
	return "🧾 Modificación:\n“" + mod + "”\n" + replyAskConfirmFre
}

func (c *Controller) handleModConfirm(o *Order, raw string, cat *catalog.Catalog) string {
	switch {
	case IsYes(raw):
		if mod := catalog.ClipWords(o.PendingMod, maxModWords); mod != "" {
			o.Mods = append(o.Mods, mod)
			o.Modified = true
			c.persist(o, cat)
		}
		o.PendingMod = ""
		o.State = StatePostConfirmedWait
		return "✅ Modificación aceptada. Tu pedido está en preparación."
	case IsNo(raw) || IsPoliteDecline(raw):
		o.PendingMod = ""
		o.State = StatePostConfirmedWait
		return replyStillInPrep
	default:
		return replyAskConfirmFre
	}
}

func (c *Controller) handleConfirmMod(o *Order, raw string, cat *catalog.Catalog) string {
	switch {
	case IsYes(raw):
		c.persist(o, cat)
		o.LastConfirmed = c.now()
		o.State = StatePostConfirmedWait
		return "✅ Pedido modificado confirmado. Tu pedido está en preparación."
	case IsNo(raw):
		// already-merged items stay; the customer can restate the order
		o.State = StatePostConfirmedWait
		return replyStillInPrep
	default:
		return replyAskConfirmMod
	}
}

func (c *Controller) handleStart(o *Order, raw string, cat *catalog.Catalog, idx catalog.MatchIndex) string {
	items := catalog.Match(catalog.Normalize(raw), idx)

	if AsksBeverage(raw) && !cat.HasBeverages() && len(items) == 0 {
		return "🥤 Cocacola/gaseosa no tenemos para ofrecerte en estos momentos (no hay bebidas hoy).\n" + c.menu(cat)
	}
	if len(items) == 0 {
		return c.menu(cat)
	}

	o.Items = make(map[string]int)
	o.MergeItems(items)
	o.OrderID = c.nextOrderID()
	o.Modified = false
	o.State = StateAskName
	return "🧾 Perfecto. ¿A nombre de quién es el pedido?"
}

func (c *Controller) handleConfirm(o *Order, raw string, cat *catalog.Catalog) string {
	switch {
	case IsYes(raw):
		c.persist(o, cat)
		o.LastConfirmed = c.now()
		o.State = StatePostConfirmedWait
		return "✅ Pedido confirmado. ¡Gracias!\n" +
			"¿Querés agregar algo más, o modificar algún ingrediente? Escribí lo que quieras y yo se lo paso al cocinero."
	case IsNo(raw):
		o.Reset()
		return replyCancelled
	default:
		return replyAskConfirm
	}
}

func (c *Controller) menu(cat *catalog.Catalog) string {
	return MenuMessage(cat, c.cfg.DeliveryFee, c.cfg.ETAMinutes)
}

func (c *Controller) nextOrderID() int {
	id, err := c.store.NextOrderID()
	if err != nil {
		slog.Error("failed to assign order number", "error", err)
		return 0
	}
	return id
}

func (c *Controller) persist(o *Order, cat *catalog.Catalog) {
	if err := c.store.SaveOrder(o, cat); err != nil {
		slog.Error("failed to persist order record",
			"customer", o.CustomerID, "order", o.OrderID, "error", err)
	}
}
