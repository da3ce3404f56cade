package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"notifyrelay/config"
	"notifyrelay/models"
	"notifyrelay/utils"

	"go.uber.org/zap"
)

// WebhookNotifier delivers notifications by POSTing them to the chat bot's
// webhook endpoint, authenticated with the shared webhook secret. Replies are
// forwarded to the backend callback URL when one is configured.
type WebhookNotifier struct {
	botURL      string
	callbackURL string
	secret      string
	client      *http.Client
	probeClient *http.Client
	logger      *zap.Logger
}

// NewWebhookNotifier builds the production Notifier from AppConfig.
func NewWebhookNotifier() *WebhookNotifier {
	return &WebhookNotifier{
		botURL:      config.AppConfig.BotAPIURL,
		callbackURL: config.AppConfig.BackendCallbackURL,
		secret:      config.AppConfig.WebhookSecret,
		client:      &http.Client{Timeout: config.SendTimeout()},
		probeClient: &http.Client{Timeout: config.HealthTimeout()},
		logger:      utils.GetLogger(),
	}
}

// dispatchPayload is the body posted to the bot for each notification.
type dispatchPayload struct {
	NotificationID string                  `json:"notification_id"`
	Kind           models.NotificationKind `json:"kind"`
	Title          string                  `json:"title"`
	Content        string                  `json:"content"`
	Priority       models.Priority         `json:"priority"`
	ProjectID      string                  `json:"project_id,omitempty"`
	CreatedAt      string                  `json:"created_at"`
	Metadata       map[string]any          `json:"metadata,omitempty"`
}

// dispatchResult is the bot's response. The bot answers 200 only after the
// chat message is actually dispatched, so MessageID is the platform handle.
type dispatchResult struct {
	Success bool `json:"success"`
	Data    struct {
		MessageID string `json:"message_id"`
	} `json:"data"`
	Error string `json:"error"`
}

func (w *WebhookNotifier) postJSON(ctx context.Context, client *http.Client, url string, body any) (*http.Response, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+w.secret)
	req.Header.Set("Content-Type", "application/json")
	return client.Do(req)
}

// Send pushes a notification to the bot and returns the chat message handle.
func (w *WebhookNotifier) Send(ctx context.Context, n models.Notification) (string, error) {
	payload := dispatchPayload{
		NotificationID: n.ID,
		Kind:           n.Kind,
		Title:          n.Title,
		Content:        n.Body,
		Priority:       n.Priority,
		ProjectID:      n.ProjectID,
		CreatedAt:      n.CreatedAt.Format(time.RFC3339),
		Metadata:       n.Metadata,
	}

	resp, err := w.postJSON(ctx, w.client, w.botURL+"/api/notifications", payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", utils.ErrDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: bot returned %d: %s", utils.ErrDelivery, resp.StatusCode, string(body))
	}

	var result dispatchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode bot response: %v", utils.ErrDelivery, err)
	}
	if !result.Success || result.Data.MessageID == "" {
		return "", fmt.Errorf("%w: bot rejected notification: %s", utils.ErrDelivery, result.Error)
	}
	return result.Data.MessageID, nil
}

// SendReply forwards an accepted reply to the backend callback. Without a
// configured callback the reply stays queryable through the store and the
// REPLIED status is the hand-off signal.
func (w *WebhookNotifier) SendReply(ctx context.Context, reply models.NotificationReply) error {
	if w.callbackURL == "" {
		w.logger.Debug("No backend callback configured, skipping reply forward",
			zap.String("notificationId", reply.NotificationID))
		return nil
	}

	body := map[string]any{
		"notification_id": reply.NotificationID,
		"response_text":   reply.ResponseText,
		"user_id":         reply.UserID,
		"responded_at":    reply.RespondedAt.Format(time.RFC3339),
	}

	resp, err := w.postJSON(ctx, w.client, w.callbackURL, body)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: backend returned %d", utils.ErrDelivery, resp.StatusCode)
	}
	return nil
}

// HealthCheck probes the bot's health endpoint.
func (w *WebhookNotifier) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.botURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := w.probeClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
