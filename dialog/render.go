package dialog

import (
	"fmt"
	"strings"

	"github.com/mariettabot/vendobot/catalog"
)

// MenuMessage renders the greeting plus the current menu listing.
func MenuMessage(cat *catalog.Catalog, deliveryFee, etaMinutes int) string {
	var b strings.Builder
	b.WriteString("👋 *Hola!* Soy *Marietta*\n")
	b.WriteString("🧾 *Menú*\n")
	for _, e := range cat.Entries {
		fmt.Fprintf(&b, "🍽️ %s — $%d\n", e.Name, e.Price)
	}
	fmt.Fprintf(&b, "\n🚚 Envío $%d | ⏱️ %d min\n", deliveryFee, etaMinutes)
	b.WriteString("👉 Mandame tu pedido con cantidades (ej: “2 milanesas y 1 sandwich”)")
	return b.String()
}

// summaryMessage renders the running order summary shown at every
// confirmation prompt.
func summaryMessage(o *Order, cat *catalog.Catalog, deliveryFee, etaMinutes int) string {
	var lines []string
	if o.Name != "" {
		lines = append(lines, fmt.Sprintf("🧾 Pedido a nombre de: %s", o.Name))
	}
	for _, e := range cat.Entries {
		if qty := o.Items[e.SKU]; qty > 0 {
			lines = append(lines, fmt.Sprintf("• %d x %s", qty, e.Name))
		}
	}
	if o.Delivery == DeliverySend {
		addr := o.Address
		if addr == "" {
			addr = "-"
		}
		lines = append(lines, fmt.Sprintf("📍 Dirección: %s", addr))
		lines = append(lines, fmt.Sprintf("🚚 Envío: $%d", deliveryFee))
	} else {
		lines = append(lines, "🏃 Retiro en local")
	}
	if o.Payment != PaymentNone {
		lines = append(lines, fmt.Sprintf("💳 Pago: %s", o.Payment))
	}
	lines = append(lines, fmt.Sprintf("💰 Total: $%d", o.Total(cat, deliveryFee)))
	lines = append(lines, fmt.Sprintf("⏱️ Demora: %d min", etaMinutes))
	return strings.Join(lines, "\n")
}
