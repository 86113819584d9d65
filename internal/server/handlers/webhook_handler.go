package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/barbershop/internal/domain/models"
	"github.com/mamadbah2/barbershop/internal/repository/mongodb"
	service "github.com/mamadbah2/barbershop/internal/service/whatsapp"
)

const businessAccountObject = "whatsapp_business_account"

// BarberDirectory resolves the barber a manager message is addressed to.
type BarberDirectory interface {
	GetBarber(ctx context.Context, id string) (*models.Barber, error)
}

// WebhookHandler exposes the WhatsApp command channel and manager notes to barbers.
type WebhookHandler struct {
	svc     service.MessagingService
	barbers BarberDirectory
	logger  *zap.Logger
}

// NewWebhookHandler wires the messaging service and the barber directory.
func NewWebhookHandler(svc service.MessagingService, barbers BarberDirectory, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{svc: svc, barbers: barbers, logger: logger}
}

// Verify answers Meta's subscription challenge.
func (h *WebhookHandler) Verify(c *gin.Context) {
	resp, err := h.svc.VerifyWebhookToken(c.Query("hub.mode"), c.Query("hub.verify_token"), c.Query("hub.challenge"))
	if err != nil {
		h.logger.Warn("webhook verification failed", zap.Error(err))
		c.String(http.StatusForbidden, "verification failed")
		return
	}
	c.String(http.StatusOK, resp)
}

// Receive runs the barber commands carried by a webhook callback. A reply that
// could not be delivered is acknowledged anyway: the message is already recorded
// as seen, so a redelivery from Meta would be dropped.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if payload.Object != "" && payload.Object != businessAccountObject {
		h.logger.Debug("ignoring webhook for other object", zap.String("object", payload.Object))
		c.Status(http.StatusOK)
		return
	}

	err := h.svc.HandleWebhook(c.Request.Context(), payload)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrReplyUndelivered):
		h.logger.Warn("command reply not delivered", zap.Error(err))
	default:
		h.logger.Error("failed processing barber command", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process webhook"})
		return
	}
	c.Status(http.StatusOK)
}

// SendMessage delivers a manager note to a registered barber's phone.
func (h *WebhookHandler) SendMessage(c *gin.Context) {
	var req models.BarberMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid barber message", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "barber_id and message are required"})
		return
	}

	barber, err := h.barbers.GetBarber(c.Request.Context(), req.BarberID)
	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "barber not found"})
		return
	case err != nil:
		h.logger.Error("barber lookup failed", zap.Error(err), zap.String("barber_id", req.BarberID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !barber.Active {
		c.JSON(http.StatusConflict, gin.H{"error": "barber is inactive"})
		return
	}
	if barber.Phone == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "barber has no phone registered"})
		return
	}

	out := models.OutboundMessageRequest{To: barber.Phone, Message: req.Message}
	if err := h.svc.SendOutbound(c.Request.Context(), out); err != nil {
		h.logger.Error("failed sending barber message", zap.Error(err), zap.String("barber_id", barber.ID))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
		return
	}

	h.logger.Info("manager message sent", zap.String("barber_id", barber.ID))
	c.JSON(http.StatusAccepted, gin.H{"barber_id": barber.ID, "to": barber.Phone})
}
