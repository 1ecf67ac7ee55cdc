// Package dialog implements the conversational order intake engine: intent
// classification, the per-customer order aggregate, the conversation state
// machine and the session store.
package dialog

import (
	"strings"

	"github.com/mariettabot/vendobot/catalog"
)

// Payment is the customer's payment choice.
type Payment int

const (
	PaymentNone Payment = iota
	PaymentCash
	PaymentTransfer
)

func (p Payment) String() string {
	switch p {
	case PaymentCash:
		return "efectivo"
	case PaymentTransfer:
		return "transferencia"
	default:
		return ""
	}
}

// Delivery is the customer's delivery choice.
type Delivery int

const (
	DeliveryNone Delivery = iota
	DeliverySend
	DeliveryPickup
)

func (d Delivery) String() string {
	switch d {
	case DeliverySend:
		return "envio"
	case DeliveryPickup:
		return "retiro"
	default:
		return ""
	}
}

// Closed keyword sets driving the classifiers. Kept as data tables so every
// recognized token is auditable in one place. All entries are pre-normalized.
var (
	yesTokens = map[string]struct{}{
		"si": {}, "s": {}, "dale": {}, "ok": {}, "oka": {}, "okay": {},
		"confirmo": {}, "de una": {}, "de_una": {}, "deuna": {}, "listo": {},
	}
	noTokens = map[string]struct{}{
		"no": {}, "n": {}, "nop": {}, "negativo": {},
	}
	declineWords  = []string{"no", "nop", "n"}
	declinePhrase = []string{"no gracias", "gracias no"}
	cancelWords   = []string{
		"cancel", "cancelar", "cancelo", "cancelalo", "cancela",
		"anul", "anular", "anulo", "anulalo", "anula",
	}
	cashWords     = []string{"efectivo", "cash"}
	transferWords = []string{"transfer", "transferencia", "transf", "cbu", "alias"}
	sendWords     = []string{"envio", "enviar", "a domicilio", "delivery"}
	pickupWords   = []string{"retiro", "retirar", "paso", "buscar", "voy"}
	greetWords    = []string{"hola", "buenas", "buen dia", "que tal", "estan", "trabajando"}
	menuWords     = []string{"menu", "que hay", "que tenes", "precio", "precios"}
	beverageWords = []string{
		"coca", "cocacola", "coca cola", "gaseosa", "cola",
		"pepsi", "fanta", "sprite", "agua", "jugo", "bebida",
	}
)

func isWordChar(r byte) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// containsWord reports whether phrase occurs in text bounded by non-word
// characters (a whole-word match, not a raw substring test).
func containsWord(text, phrase string) bool {
	for from := 0; ; {
		i := strings.Index(text[from:], phrase)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(phrase)
		leftOK := start == 0 || !isWordChar(text[start-1])
		rightOK := end == len(text) || !isWordChar(text[end])
		if leftOK && rightOK {
			return true
		}
		from = start + 1
	}
}

func containsAnyWord(text string, phrases []string) bool {
	for _, p := range phrases {
		if containsWord(text, p) {
			return true
		}
	}
	return false
}

// IsYes reports an exact affirmative reply ("si", "dale", "confirmo", ...).
func IsYes(raw string) bool {
	_, ok := yesTokens[catalog.Normalize(raw)]
	return ok
}

// IsNo reports an exact negative reply ("no", "nop", ...).
func IsNo(raw string) bool {
	_, ok := noTokens[catalog.Normalize(raw)]
	return ok
}

// IsPoliteDecline recognizes "no quiero nada mas" style answers: a negation
// word anywhere, or a "no gracias" variant. Looser than IsNo on purpose; it
// answers "do you want changes?" rather than a hard yes/no prompt.
func IsPoliteDecline(raw string) bool {
	t := catalog.Normalize(raw)
	if containsAnyWord(t, declineWords) {
		return true
	}
	for _, p := range declinePhrase {
		if strings.Contains(t, p) {
			return true
		}
	}
	return false
}

// IsCancel recognizes cancellation/annulment verb forms as whole words.
func IsCancel(raw string) bool {
	return containsAnyWord(catalog.Normalize(raw), cancelWords)
}

// DetectPayment classifies the payment method, or PaymentNone.
func DetectPayment(raw string) Payment {
	t := catalog.Normalize(raw)
	if containsAnyWord(t, cashWords) {
		return PaymentCash
	}
	if containsAnyWord(t, transferWords) {
		return PaymentTransfer
	}
	// recurring voice-note mis-transcription of "transferencia"; keep it
	if strings.Contains(t, "transexual") {
		return PaymentTransfer
	}
	return PaymentNone
}

// DetectDelivery classifies the delivery method, or DeliveryNone.
func DetectDelivery(raw string) Delivery {
	t := catalog.Normalize(raw)
	if containsAnyWord(t, sendWords) {
		return DeliverySend
	}
	if containsAnyWord(t, pickupWords) {
		return DeliveryPickup
	}
	return DeliveryNone
}

// WantsMenu reports whether the message is a greeting/short status check, or
// explicitly asks for the menu or prices.
func WantsMenu(raw string) bool {
	t := catalog.Normalize(raw)
	if len(strings.Fields(t)) <= 3 && containsAnyWord(t, greetWords) {
		return true
	}
	return containsAnyWord(t, menuWords)
}

// AsksBeverage reports whether any beverage keyword appears as a whole word.
func AsksBeverage(raw string) bool {
	return containsAnyWord(catalog.Normalize(raw), beverageWords)
}
