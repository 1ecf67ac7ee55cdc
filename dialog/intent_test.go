package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsYes(t *testing.T) {
	for _, s := range []string{"si", "Sí", " SI ", "dale", "ok", "confirmo", "listo", "de una"} {
		assert.True(t, IsYes(s), "%q should be affirmative", s)
	}
	for _, s := range []string{"no", "si quiero otra cosa", "bueno dale ok", ""} {
		assert.False(t, IsYes(s), "%q should not be affirmative", s)
	}
}

func TestIsNo(t *testing.T) {
	for _, s := range []string{"no", "No", "nop", "negativo", "n"} {
		assert.True(t, IsNo(s), "%q should be negative", s)
	}
	for _, s := range []string{"no gracias", "nonono", "si", ""} {
		assert.False(t, IsNo(s), "%q should not be a bare negative", s)
	}
}

func TestIsPoliteDecline(t *testing.T) {
	for _, s := range []string{"no", "no gracias", "gracias no", "no, nada más", "nop todo bien"} {
		assert.True(t, IsPoliteDecline(s), "%q should decline", s)
	}
	for _, s := range []string{"si", "quiero otra milanesa", ""} {
		assert.False(t, IsPoliteDecline(s), "%q should not decline", s)
	}
}

func TestIsCancel(t *testing.T) {
	for _, s := range []string{"cancelar", "cancelalo", "CANCELO el pedido", "anular", "anulá eso"} {
		assert.True(t, IsCancel(s), "%q should be a cancellation", s)
	}
	for _, s := range []string{"cancelacioncita", "quiero otra", ""} {
		assert.False(t, IsCancel(s), "%q should not be a cancellation", s)
	}
}

func TestDetectPayment(t *testing.T) {
	tests := []struct {
		in   string
		want Payment
	}{
		{"efectivo", PaymentCash},
		{"pago cash", PaymentCash},
		{"transferencia", PaymentTransfer},
		{"te paso el cbu", PaymentTransfer},
		{"por alias", PaymentTransfer},
		// recurring voice-note mis-transcription, mapped on purpose
		{"transexual", PaymentTransfer},
		{"despues veo", PaymentNone},
		{"", PaymentNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectPayment(tt.in), "input %q", tt.in)
	}
}

func TestDetectDelivery(t *testing.T) {
	tests := []struct {
		in   string
		want Delivery
	}{
		{"envío por favor", DeliverySend},
		{"a domicilio", DeliverySend},
		{"delivery", DeliverySend},
		{"retiro", DeliveryPickup},
		{"paso a buscar", DeliveryPickup},
		{"voy yo", DeliveryPickup},
		{"mmm", DeliveryNone},
		{"", DeliveryNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectDelivery(tt.in), "input %q", tt.in)
	}
}

func TestWantsMenu(t *testing.T) {
	for _, s := range []string{"hola", "buenas!", "hola que tal", "menu", "me pasás los precios del local por favor", "que tenes"} {
		assert.True(t, WantsMenu(s), "%q should ask for the menu", s)
	}
	for _, s := range []string{"hola quiero pedir dos milanesas ya", "dos milanesas", ""} {
		assert.False(t, WantsMenu(s), "%q should not ask for the menu", s)
	}
}

func TestAsksBeverage(t *testing.T) {
	for _, s := range []string{"una coca", "tenes gaseosa?", "agua por favor", "coca cola"} {
		assert.True(t, AsksBeverage(s), "%q should ask for a beverage", s)
	}
	for _, s := range []string{"milanesa", "cocacolada no", ""} {
		assert.False(t, AsksBeverage(s), "%q should not ask for a beverage", s)
	}
}
