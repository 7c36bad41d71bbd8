// Package legacy talks to the storefront backend that still owns push
// delivery, the mobile home cache, and shipping rate math. Every call is
// bounded by a per-operation deadline so a slow storefront never stalls
// admin mutations.
package legacy

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/marketa-app/admin-backend/pkg/config"
)

const (
	sendPushPath       = "/v3_0_0-notification/send-push"
	clearHomeCachePath = "/v3_0_0-app/clear-home-cache"
	shippingRatePath   = "/v3_0_0-shipping/calculate-rate"

	cacheSecretHeader = "X-Cache-Secret"
)

// PushMessage is the payload fanned out to a single device token.
type PushMessage struct {
	FCMToken string            `json:"fcm_token"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
}

// ShippingRateRequest asks the storefront to price shipping for a parcel.
type ShippingRateRequest struct {
	CategoryID int64           `json:"category_id"`
	Weight     decimal.Decimal `json:"weight"`
	Quantity   int             `json:"quantity"`
}

// ShippingRateResponse carries the storefront's computed rate.
type ShippingRateResponse struct {
	Rate decimal.Decimal `json:"rate"`
}

// Client is the admin side of the storefront HTTP API.
type Client struct {
	http *resty.Client
	cfg  config.LegacyBackendConfig
}

// New builds a storefront client. A blank base URL yields a disabled client
// whose calls succeed as no-ops, which keeps local development working
// without a storefront instance.
func New(cfg config.LegacyBackendConfig) *Client {
	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("User-Agent", "marketa-admin/1.0")
	return &Client{http: http, cfg: cfg}
}

// Enabled reports whether a storefront base URL is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.BaseURL != ""
}

// SendPush delivers a push message to one device token.
func (c *Client) SendPush(ctx context.Context, msg PushMessage) error {
	if !c.Enabled() {
		return nil
	}
	if msg.FCMToken == "" {
		return fmt.Errorf("fcm token is required")
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.PushTimeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(callCtx).
		SetBody(msg).
		Post(sendPushPath)
	if err != nil {
		return fmt.Errorf("sending push: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("push rejected with status %d", resp.StatusCode())
	}
	return nil
}

// ClearHomeCache busts the storefront's cached mobile home screen. Banner,
// grid, and flash sale mutations call this so the app reflects changes
// without waiting for the storefront TTL.
func (c *Client) ClearHomeCache(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CacheBustTimeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(callCtx).
		SetHeader(cacheSecretHeader, c.cfg.CacheSecret).
		Post(clearHomeCachePath)
	if err != nil {
		return fmt.Errorf("clearing home cache: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("cache bust rejected with status %d", resp.StatusCode())
	}
	return nil
}

// CalculateShippingRate prices shipping for a parcel via the storefront.
func (c *Client) CalculateShippingRate(ctx context.Context, req ShippingRateRequest) (decimal.Decimal, error) {
	if !c.Enabled() {
		return decimal.Zero, fmt.Errorf("storefront backend is not configured")
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.ShippingTimeout)
	defer cancel()

	var result ShippingRateResponse
	resp, err := c.http.R().
		SetContext(callCtx).
		SetBody(req).
		SetResult(&result).
		Post(shippingRatePath)
	if err != nil {
		return decimal.Zero, fmt.Errorf("calculating shipping rate: %w", err)
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("shipping rate rejected with status %d", resp.StatusCode())
	}
	return result.Rate, nil
}
