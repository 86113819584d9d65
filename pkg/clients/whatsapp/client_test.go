package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/barbershop/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.WhatsAppConfig{
		AccessToken:   "secret",
		PhoneNumberID: "12345",
		BaseURL:       srv.URL + "/",
		APIVersion:    "v20.0",
	})
}

func TestSendTextMessage(t *testing.T) {
	var got textPayload
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v20.0/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	})

	resp, err := client.SendTextMessage(context.Background(), SendTextMessageRequest{To: "5511999990000", Body: "hi"})
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "wamid.1", resp.Messages[0].ID)
	assert.Equal(t, "whatsapp", got.MessagingProduct)
	assert.Equal(t, "text", got.Type)
	assert.Equal(t, "hi", got.Text.Body)
}

func TestSendTextMessageAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid recipient","code":131030}}`))
	})

	_, err := client.SendTextMessage(context.Background(), SendTextMessageRequest{To: "1", Body: "hi"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, 131030, apiErr.Code)
	assert.Equal(t, "invalid recipient", apiErr.Message)
}

func TestSendTextMessageRetriesThrottling(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var calls int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) == 1 {
					w.WriteHeader(status)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.2"}]}`))
			})

			resp, err := client.SendTextMessage(context.Background(), SendTextMessageRequest{To: "1", Body: "hi"})
			require.NoError(t, err)
			assert.Equal(t, "wamid.2", resp.Messages[0].ID)
			assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
		})
	}
}

func TestSendTextMessageDoesNotResendAfterServerError(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusBadGateway} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var calls int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"error":{"message":"internal","code":1}}`))
			})

			_, err := client.SendTextMessage(context.Background(), SendTextMessageRequest{To: "1", Body: "hi"})
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, status, apiErr.Status)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestRetryableConditions(t *testing.T) {
	assert.True(t, retryable(nil, errors.New("connection reset")))
}

func TestSendTextMessageRequiresBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.SendTextMessage(context.Background(), SendTextMessageRequest{To: "1", Body: "  "})
	assert.Error(t, err)
}

func TestDisabledClient(t *testing.T) {
	_, err := DisabledClient{}.SendTextMessage(context.Background(), SendTextMessageRequest{To: "1", Body: "hi"})
	assert.ErrorIs(t, err, ErrDisabled)
}
