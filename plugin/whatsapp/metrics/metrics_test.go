package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporter_Counters(t *testing.T) {
	e := NewExporter()

	e.WebhookReceived()
	e.WebhookReceived()
	e.ParseFailure()
	e.MessageHandled()
	e.ReplySent()
	e.OrderConfirmed()
	e.OrderCancelled()
	e.ObserveHandle(2 * time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(e.webhooksReceived))
	assert.Equal(t, float64(1), testutil.ToFloat64(e.parseFailures))
	assert.Equal(t, float64(1), testutil.ToFloat64(e.messagesHandled))
	assert.Equal(t, float64(1), testutil.ToFloat64(e.repliesSent))
	assert.Equal(t, float64(1), testutil.ToFloat64(e.ordersConfirmed))
	assert.Equal(t, float64(1), testutil.ToFloat64(e.ordersCancelled))
}

func TestExporter_Handler(t *testing.T) {
	e := NewExporter()
	e.WebhookReceived()

	srv := httptest.NewServer(e.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "vendobot_webhook_received_total 1")
	assert.Contains(t, string(body), "vendobot_dialog_handle_latency_seconds")
}
