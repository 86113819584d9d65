package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/barbershop/internal/domain/models"
	"github.com/mamadbah2/barbershop/internal/server/handlers"
)

type nopMessaging struct{}

func (nopMessaging) VerifyWebhookToken(_, _, challenge string) (string, error) { return challenge, nil }
func (nopMessaging) HandleWebhook(context.Context, models.WebhookPayload) error { return nil }
func (nopMessaging) SendOutbound(context.Context, models.OutboundMessageRequest) error {
	return nil
}

func TestRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(handlers.NewWebhookHandler(nopMessaging{}, nil, nil), handlers.NewAPIHandler(nil, nil, nil, nil), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /webhook",
		"POST /webhook",
		"PUT /api/v1/barbers/:id/productions/:date",
		"PUT /api/v1/barbers/:id/goals/:year/:month",
		"GET /api/v1/barbers/:id/dashboard",
		"GET /api/v1/leaderboard",
		"GET /api/v1/reports/overview",
	} {
		assert.True(t, registered[want], want)
	}
}
