package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/barbershop/internal/domain/models"
	"github.com/mamadbah2/barbershop/internal/repository/mongodb"
	service "github.com/mamadbah2/barbershop/internal/service/whatsapp"
)

type stubMessaging struct {
	handled  int
	handle   error
	outbound []models.OutboundMessageRequest
	send     error
}

func (s *stubMessaging) VerifyWebhookToken(mode, token, challenge string) (string, error) {
	if token != "verify" {
		return "", errors.New("invalid verify token")
	}
	return challenge, nil
}

func (s *stubMessaging) HandleWebhook(context.Context, models.WebhookPayload) error {
	s.handled++
	return s.handle
}

func (s *stubMessaging) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	s.outbound = append(s.outbound, req)
	return s.send
}

type stubDirectory map[string]models.Barber

func (d stubDirectory) GetBarber(_ context.Context, id string) (*models.Barber, error) {
	if id == "broken" {
		return nil, errors.New("connection reset")
	}
	b, ok := d[id]
	if !ok {
		return nil, fmt.Errorf("get barber: %w", mongodb.ErrNotFound)
	}
	return &b, nil
}

func webhookEngine(svc *stubMessaging) *gin.Engine {
	gin.SetMode(gin.TestMode)
	dir := stubDirectory{
		"b1": {ID: "b1", Name: "Ana", Phone: "5511999990001", Active: true},
		"b2": {ID: "b2", Name: "Bruno", Active: true},
		"b3": {ID: "b3", Name: "Caio", Phone: "5511999990003", Active: false},
	}
	h := NewWebhookHandler(svc, dir, nil)
	r := gin.New()
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", h.Receive)
	r.POST("/send-message", h.SendMessage)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookVerify(t *testing.T) {
	r := webhookEngine(&stubMessaging{})

	w := serve(r, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=verify&hub.challenge=abc", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", w.Body.String())

	w = serve(r, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=abc", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWebhookReceive(t *testing.T) {
	svc := &stubMessaging{}
	r := webhookEngine(svc)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/webhook", `{"object":"whatsapp_business_account","entry":[]}`).Code)
	assert.Equal(t, 1, svc.handled)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/webhook", `{"object":"page"}`).Code)
	assert.Equal(t, 1, svc.handled)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/webhook", `{`).Code)
}

func TestWebhookReceiveAcknowledgesUndeliveredReply(t *testing.T) {
	svc := &stubMessaging{handle: fmt.Errorf("%w to 5511: %w", service.ErrReplyUndelivered, errors.New("meta down"))}
	r := webhookEngine(svc)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/webhook", `{"entry":[]}`).Code)
	assert.Equal(t, 1, svc.handled)
}

func TestWebhookReceiveFailsOnCommandError(t *testing.T) {
	svc := &stubMessaging{handle: errors.New("store unavailable")}
	r := webhookEngine(svc)

	assert.Equal(t, http.StatusInternalServerError, serve(r, http.MethodPost, "/webhook", `{"entry":[]}`).Code)
}

func TestSendMessageToBarber(t *testing.T) {
	svc := &stubMessaging{}
	r := webhookEngine(svc)

	w := serve(r, http.MethodPost, "/send-message", `{"barber_id":"b1","message":"great week!"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"to":"5511999990001"`)
	require.Len(t, svc.outbound, 1)
	assert.Equal(t, "5511999990001", svc.outbound[0].To)
	assert.Equal(t, "great week!", svc.outbound[0].Message)
}

func TestSendMessageRequiresRegisteredBarber(t *testing.T) {
	svc := &stubMessaging{}
	r := webhookEngine(svc)

	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/send-message", `{"to":"5511","message":"hello"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/send-message", `{"barber_id":"b1"}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodPost, "/send-message", `{"barber_id":"b9","message":"hello"}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, serve(r, http.MethodPost, "/send-message", `{"barber_id":"b2","message":"hello"}`).Code)
	assert.Equal(t, http.StatusConflict, serve(r, http.MethodPost, "/send-message", `{"barber_id":"b3","message":"hello"}`).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(r, http.MethodPost, "/send-message", `{"barber_id":"broken","message":"hello"}`).Code)
	assert.Empty(t, svc.outbound)
}

func TestSendMessageDeliveryFailure(t *testing.T) {
	svc := &stubMessaging{send: errors.New("down")}
	r := webhookEngine(svc)

	assert.Equal(t, http.StatusBadGateway, serve(r, http.MethodPost, "/send-message", `{"barber_id":"b1","message":"hello"}`).Code)
}
