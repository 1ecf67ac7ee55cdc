package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEnvelope = `{
  "entry": [{
    "changes": [{
      "value": {
        "messages": [{
          "from": "5491100000000",
          "type": "text",
          "text": {"body": "hola, quiero 2 milanesas"}
        }]
      }
    }]
  }]
}`

func TestParseMessage(t *testing.T) {
	from, text, ok := ParseMessage([]byte(sampleEnvelope))
	require.True(t, ok)
	assert.Equal(t, "5491100000000", from)
	assert.Equal(t, "hola, quiero 2 milanesas", text)
}

func TestParseMessage_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json at all"},
		{"empty object", "{}"},
		{"empty entry", `{"entry": []}`},
		{"no changes", `{"entry": [{"changes": []}]}`},
		{"status only, no messages", `{"entry": [{"changes": [{"value": {"statuses": [{"id": "x"}]}}]}]}`},
		{"message without sender", `{"entry": [{"changes": [{"value": {"messages": [{"text": {"body": "hola"}}]}}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, ok := ParseMessage([]byte(tt.body))
			assert.False(t, ok)
		})
	}
}

func TestVerifyHandshake(t *testing.T) {
	challenge, ok := VerifyHandshake("subscribe", "secreto", "12345", "secreto")
	require.True(t, ok)
	assert.Equal(t, "12345", challenge)

	_, ok = VerifyHandshake("subscribe", "otro", "12345", "secreto")
	assert.False(t, ok)
	_, ok = VerifyHandshake("unsubscribe", "secreto", "12345", "secreto")
	assert.False(t, ok)
	_, ok = VerifyHandshake("subscribe", "", "12345", "")
	assert.False(t, ok)
}

func TestClient_SendText(t *testing.T) {
	var got sendTextRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient("token-123", "phone-456")
	c.baseURL = srv.URL
	c.SendText(context.Background(), "5491100000000", "✅ Pedido confirmado.")

	assert.Equal(t, "Bearer token-123", auth)
	assert.Equal(t, "whatsapp", got.MessagingProduct)
	assert.Equal(t, "5491100000000", got.To)
	assert.Equal(t, "text", got.Type)
	assert.Equal(t, "✅ Pedido confirmado.", got.Text.Body)
}

func TestClient_SendTextUnconfiguredIsNoop(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient("", "")
	c.baseURL = srv.URL
	c.SendText(context.Background(), "5491100000000", "hola")
	assert.False(t, called)
}

func TestClient_SendTextSwallowsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("token", "phone")
	c.baseURL = srv.URL
	// must not panic or surface the failure
	c.SendText(context.Background(), "5491100000000", "hola")
}
