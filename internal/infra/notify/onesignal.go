package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hotelops/reklamacije/internal/domain"
)

// OneSignal delivers through the OneSignal REST API, one request per
// recipient addressed by external id.
type OneSignal struct {
	client   *http.Client
	appID    string
	apiKey   string
	endpoint string
}

// NewOneSignal creates a OneSignal gateway. An empty endpoint uses the public API.
func NewOneSignal(appID, apiKey, endpoint string, client *http.Client) *OneSignal {
	if endpoint == "" {
		endpoint = domain.DefaultNotifyEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &OneSignal{client: client, appID: appID, apiKey: apiKey, endpoint: endpoint}
}

type oneSignalRequest struct {
	AppID            string              `json:"app_id"`
	Headings         map[string]string   `json:"headings"`
	Contents         map[string]string   `json:"contents"`
	IncludeAliases   map[string][]string `json:"include_aliases"`
	TargetChannel    string              `json:"target_channel"`
	AndroidChannelID string              `json:"android_channel_id"`
	Data             map[string]string   `json:"data,omitempty"`
	Priority         int                 `json:"priority"`
}

type oneSignalResponse struct {
	ID     string `json:"id"`
	Errors any    `json:"errors,omitempty"`
}

// Notify sends n to each recipient. Unknown recipients count as failed but
// do not make the call fail; only transport errors on every recipient do.
func (g *OneSignal) Notify(ctx context.Context, n domain.Notification) (domain.DeliveryResult, error) {
	var (
		res     domain.DeliveryResult
		lastErr error
	)
	for _, id := range n.Recipients {
		ok, err := g.send(ctx, id, n)
		switch {
		case err != nil:
			lastErr = err
			res.Failed++
		case ok:
			res.Sent++
		default:
			res.Failed++
		}
	}
	if res.Sent == 0 && lastErr != nil {
		return res, fmt.Errorf("%w: %w", domain.ErrDelivery, lastErr)
	}
	return res, nil
}

func (g *OneSignal) send(ctx context.Context, recipient string, n domain.Notification) (bool, error) {
	priority := 5
	if n.Priority == domain.PriorityUrgent {
		priority = 10
	}
	body, err := json.Marshal(oneSignalRequest{
		AppID:            g.appID,
		Headings:         map[string]string{"en": n.Title},
		Contents:         map[string]string{"en": n.Body},
		IncludeAliases:   map[string][]string{"external_id": {recipient}},
		TargetChannel:    "push",
		AndroidChannelID: "default_channel_id",
		Data:             map[string]string{"taskId": n.TaskID},
		Priority:         priority,
	})
	if err != nil {
		return false, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Basic "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("post notification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 500 {
		return false, fmt.Errorf("onesignal returned %s", resp.Status)
	}
	if resp.StatusCode >= 400 {
		return false, nil
	}

	var out oneSignalResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	// OneSignal answers 200 with an empty id when no subscription matched.
	return out.ID != "", nil
}
