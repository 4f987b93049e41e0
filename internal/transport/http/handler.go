// Package http exposes the chat webhook over HTTP.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ivayloh/ledgerbot/internal/adapter/telegram"
	"github.com/ivayloh/ledgerbot/internal/service"
)

// Recorder consumes the decoded chat traffic.
type Recorder interface {
	HandleMessage(ctx context.Context, msg service.IncomingMessage) error
	HandleCallback(ctx context.Context, cb service.IncomingCallback) error
}

// Handler handles webhook HTTP requests.
type Handler struct {
	svc         Recorder
	webhookPath string
	logger      *slog.Logger
}

// NewHandler creates a new handler.
func NewHandler(svc Recorder, webhookPath string, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, webhookPath: webhookPath, logger: logger}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST(h.webhookPath, h.Webhook)
	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// Webhook receives one chat platform update. It always acknowledges with
// 200 so the platform does not redeliver updates we already processed;
// failures are reported to the user in-band and logged here.
func (h *Handler) Webhook(c echo.Context) error {
	var update telegram.Update
	if err := c.Bind(&update); err != nil {
		h.logger.Warn("undecodable webhook payload", "error", err)
		return c.NoContent(http.StatusBadRequest)
	}

	ctx := c.Request().Context()
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		if err := h.svc.HandleCallback(ctx, callbackFrom(update.CallbackQuery)); err != nil {
			h.logger.Error("callback handling failed",
				"update_id", update.UpdateID, "error", err)
		}
	case update.Message != nil && update.Message.From != nil:
		if err := h.svc.HandleMessage(ctx, messageFrom(update.Message)); err != nil {
			h.logger.Error("message handling failed",
				"update_id", update.UpdateID, "error", err)
		}
	}
	return c.NoContent(http.StatusOK)
}

func messageFrom(msg *telegram.Message) service.IncomingMessage {
	return service.IncomingMessage{
		UserID:    strconv.FormatInt(msg.From.ID, 10),
		ChatID:    msg.Chat.ID,
		EnteredBy: senderName(msg.From),
		Text:      msg.Text,
		SentAt:    time.Unix(msg.Date, 0).UTC(),
	}
}

func callbackFrom(cb *telegram.CallbackQuery) service.IncomingCallback {
	var chatID int64
	if cb.Message != nil {
		chatID = cb.Message.Chat.ID
	}
	return service.IncomingCallback{
		UserID:     strconv.FormatInt(cb.From.ID, 10),
		ChatID:     chatID,
		CallbackID: cb.ID,
		Data:       cb.Data,
	}
}

func senderName(u *telegram.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
