// Package server wires the webhook transport, catalog loader, session store
// and conversation controller into an HTTP server.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mariettabot/vendobot/catalog"
	"github.com/mariettabot/vendobot/dialog"
	"github.com/mariettabot/vendobot/internal/profile"
	"github.com/mariettabot/vendobot/plugin/whatsapp"
	"github.com/mariettabot/vendobot/plugin/whatsapp/metrics"
)

// Sender delivers a reply to a customer's channel, best-effort.
type Sender interface {
	SendText(ctx context.Context, to, body string)
}

// Server is the HTTP surface of the bot.
type Server struct {
	echo       *echo.Echo
	profile    *profile.Profile
	loader     *catalog.Loader
	sessions   *dialog.SessionStore
	controller *dialog.Controller
	sender     Sender
	metrics    *metrics.Exporter
}

// New assembles the server. The caller provides the already-wired controller
// and collaborators.
func New(p *profile.Profile, loader *catalog.Loader, sessions *dialog.SessionStore, controller *dialog.Controller, sender Sender, exporter *metrics.Exporter) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:       e,
		profile:    p,
		loader:     loader,
		sessions:   sessions,
		controller: controller,
		sender:     sender,
		metrics:    exporter,
	}

	e.GET("/webhook", s.verifyWebhook)
	e.POST("/webhook", s.receiveWebhook)
	e.POST("/test_message", s.testMessage)
	e.GET("/healthz", s.healthz)
	e.GET("/metrics", echo.WrapHandler(exporter.Handler()))

	return s
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start(_ context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.profile.Addr, s.profile.Port)
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(ctx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
}

// verifyWebhook answers the Cloud API subscription handshake.
func (s *Server) verifyWebhook(c echo.Context) error {
	challenge, ok := whatsapp.VerifyHandshake(
		c.QueryParam("hub.mode"),
		c.QueryParam("hub.verify_token"),
		c.QueryParam("hub.challenge"),
		s.profile.VerifyToken,
	)
	if !ok {
		return c.String(http.StatusForbidden, "forbidden")
	}
	return c.String(http.StatusOK, challenge)
}

type okResponse struct {
	OK bool `json:"ok"`
}

// receiveWebhook processes one inbound Cloud API event. Malformed or
// message-less envelopes are acknowledged and ignored without touching any
// conversation state.
func (s *Server) receiveWebhook(c echo.Context) error {
	s.metrics.WebhookReceived()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		s.metrics.ParseFailure()
		return c.JSON(http.StatusOK, okResponse{OK: true})
	}
	from, text, ok := whatsapp.ParseMessage(body)
	if !ok {
		s.metrics.ParseFailure()
		return c.JSON(http.StatusOK, okResponse{OK: true})
	}

	reply, err := s.handleMessage(from, text)
	if err != nil {
		// catalog load failure: operator problem, not the customer's
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	s.sender.SendText(c.Request().Context(), from, reply)
	s.metrics.ReplySent()
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

type testMessageRequest struct {
	From string `json:"from"`
	Text string `json:"text"`
}

type testMessageResponse struct {
	Reply string `json:"reply"`
}

// testMessage runs a message through the controller without the channel
// round-trip. Used by operators and integration tests.
func (s *Server) testMessage(c echo.Context) error {
	var req testMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.From == "" {
		req.From = "test_user"
	}

	reply, err := s.handleMessage(req.From, req.Text)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, testMessageResponse{Reply: reply})
}

func (s *Server) healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// handleMessage loads the catalog, applies session expiry and runs the
// conversation controller for one customer message.
func (s *Server) handleMessage(from, text string) (string, error) {
	traceID := uuid.NewString()

	cat, idx, err := s.loader.Load()
	if err != nil {
		slog.Error("failed to load catalog", "trace_id", traceID, "error", err)
		return "", err
	}

	sess := s.sessions.Get(from)
	sess.Lock()
	prevConfirmed := sess.LastConfirmed
	wasAwaitingCancel := sess.AwaitingCancel

	started := time.Now()
	s.sessions.ApplyExpiry(sess, started)
	reply := s.controller.Handle(sess, text, cat, idx)
	s.metrics.ObserveHandle(time.Since(started))
	s.metrics.MessageHandled()

	if sess.LastConfirmed.After(prevConfirmed) {
		s.metrics.OrderConfirmed()
	}
	if wasAwaitingCancel && !sess.AwaitingCancel && sess.State == dialog.StateStart {
		s.metrics.OrderCancelled()
	}
	state := sess.State
	sess.Unlock()

	slog.Debug("handled message",
		"trace_id", traceID, "customer", from, "state", state.String())
	return reply, nil
}
