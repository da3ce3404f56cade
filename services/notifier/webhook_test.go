package notifier_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notifyrelay/config"
	"notifyrelay/models"
	"notifyrelay/services/notifier"
	"notifyrelay/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(botURL, callbackURL string) *notifier.WebhookNotifier {
	config.AppConfig.BotAPIURL = botURL
	config.AppConfig.BackendCallbackURL = callbackURL
	config.AppConfig.WebhookSecret = "hook-secret"
	config.AppConfig.SendTimeoutSec = 5
	config.AppConfig.HealthTimeoutSec = 2
	return notifier.NewWebhookNotifier()
}

func TestSendSuccess(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]any

	bot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"message_id": "m-77"},
		})
	}))
	defer bot.Close()

	n := models.Notification{
		ID:        "n-1",
		Kind:      models.KindQuestion,
		Title:     "Proceed?",
		Body:      "All checks green.",
		Priority:  models.PriorityHigh,
		ProjectID: "p-1",
		CreatedAt: time.Now().UTC(),
	}

	handle, err := newTestNotifier(bot.URL, "").Send(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, "m-77", handle)

	assert.Equal(t, "Bearer hook-secret", gotAuth)
	assert.Equal(t, "/api/notifications", gotPath)
	assert.Equal(t, "n-1", gotBody["notification_id"])
	assert.Equal(t, "question", gotBody["kind"])
	assert.Equal(t, "All checks green.", gotBody["content"])
}

func TestSendBotHTTPError(t *testing.T) {
	bot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer bot.Close()

	_, err := newTestNotifier(bot.URL, "").Send(context.Background(), models.Notification{ID: "n-1"})
	assert.ErrorIs(t, err, utils.ErrDelivery)
}

func TestSendBotRejection(t *testing.T) {
	bot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "channel missing"})
	}))
	defer bot.Close()

	_, err := newTestNotifier(bot.URL, "").Send(context.Background(), models.Notification{ID: "n-1"})
	require.ErrorIs(t, err, utils.ErrDelivery)
	assert.Contains(t, err.Error(), "channel missing")
}

func TestSendBotUnreachable(t *testing.T) {
	bot := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	bot.Close()

	_, err := newTestNotifier(bot.URL, "").Send(context.Background(), models.Notification{ID: "n-1"})
	assert.ErrorIs(t, err, utils.ErrDelivery)
}

func TestSendReply(t *testing.T) {
	var gotBody map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	reply := models.NotificationReply{
		NotificationID: "n-1",
		ResponseText:   "ship it",
		UserID:         "u-1",
		RespondedAt:    time.Now().UTC(),
	}

	err := newTestNotifier("http://bot.invalid", backend.URL).SendReply(context.Background(), reply)
	require.NoError(t, err)
	assert.Equal(t, "n-1", gotBody["notification_id"])
	assert.Equal(t, "ship it", gotBody["response_text"])
}

func TestSendReplyBackendError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer backend.Close()

	err := newTestNotifier("http://bot.invalid", backend.URL).SendReply(context.Background(), models.NotificationReply{NotificationID: "n-1"})
	assert.ErrorIs(t, err, utils.ErrDelivery)
}

func TestSendReplyNoCallbackConfigured(t *testing.T) {
	err := newTestNotifier("http://bot.invalid", "").SendReply(context.Background(), models.NotificationReply{NotificationID: "n-1"})
	assert.NoError(t, err)
}

func TestHealthCheck(t *testing.T) {
	bot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	assert.True(t, newTestNotifier(bot.URL, "").HealthCheck(context.Background()))

	bot.Close()
	assert.False(t, newTestNotifier(bot.URL, "").HealthCheck(context.Background()))
}
