package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hotelops/reklamacije/internal/domain"
)

// LogGateway "delivers" by writing the notification to the log.
type LogGateway struct {
	Logger domain.Logger
}

// Notify logs n and reports every recipient as sent.
func (g LogGateway) Notify(_ context.Context, n domain.Notification) (domain.DeliveryResult, error) {
	if g.Logger != nil {
		g.Logger.Info(n.TaskID, "notify", fmt.Sprintf("push to %s: %s | %s",
			strings.Join(n.Recipients, ","), n.Title, n.Body))
	}
	return domain.DeliveryResult{Sent: len(n.Recipients)}, nil
}

// nopGateway drops notifications.
type nopGateway struct{}

func (nopGateway) Notify(_ context.Context, _ domain.Notification) (domain.DeliveryResult, error) {
	return domain.DeliveryResult{}, nil
}

// GatewayFromConfig builds the gateway selected by [notify] driver.
func GatewayFromConfig(cfg domain.NotifyConfig, logger domain.Logger, client *http.Client) (domain.NotificationGateway, error) {
	switch cfg.Driver {
	case "", "log":
		return LogGateway{Logger: logger}, nil
	case "none":
		return nopGateway{}, nil
	case "onesignal":
		if cfg.AppID == "" || cfg.APIKey == "" {
			return nil, errors.New("onesignal driver requires app_id and api_key (or ONESIGNAL_APP_ID and ONESIGNAL_REST_API_KEY)")
		}
		return NewOneSignal(cfg.AppID, cfg.APIKey, cfg.Endpoint, client), nil
	default:
		return nil, fmt.Errorf("unknown notify driver %q", cfg.Driver)
	}
}
