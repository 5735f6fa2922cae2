// Package push sends web push notifications through the OneSignal REST API.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/betis-escocia/backend/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrNoRecipients is returned when a notification targets nobody.
var ErrNoRecipients = errors.New("push: notification has no recipients")

// Notification is a single push message. Exactly one of ExternalIDs or
// Segments should be set; ExternalIDs are Clerk user ids linked to the
// OneSignal subscription on the client.
type Notification struct {
	Heading     string
	Content     string
	URL         string
	ExternalIDs []string
	Segments    []string
	Data        map[string]any
}

type request struct {
	AppID            string              `json:"app_id"`
	Headings         map[string]string   `json:"headings"`
	Contents         map[string]string   `json:"contents"`
	URL              string              `json:"url,omitempty"`
	TargetChannel    string              `json:"target_channel"`
	IncludeAliases   map[string][]string `json:"include_aliases,omitempty"`
	IncludedSegments []string            `json:"included_segments,omitempty"`
	Data             map[string]any      `json:"data,omitempty"`
}

type response struct {
	ID     string          `json:"id"`
	Errors json.RawMessage `json:"errors"`
}

// APIError carries a non-2xx answer from OneSignal.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("onesignal: status %d: %s", e.StatusCode, e.Body)
}

// Client talks to OneSignal. A Client without credentials is valid; Send
// then logs the notification and returns without calling out.
type Client struct {
	appID   string
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *zerolog.Logger
}

// NewClient constructs a Client from the integration config.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return &Client{
		appID:   cfg.Integration.OneSignalAppID,
		apiKey:  cfg.Integration.OneSignalAPIKey,
		baseURL: strings.TrimRight(cfg.Integration.OneSignalBaseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// Enabled reports whether credentials are configured.
func (c *Client) Enabled() bool {
	return c.appID != "" && c.apiKey != ""
}

// Send delivers n and returns the OneSignal notification id.
func (c *Client) Send(ctx context.Context, n Notification) (string, error) {
	if len(n.ExternalIDs) == 0 && len(n.Segments) == 0 {
		return "", ErrNoRecipients
	}

	if !c.Enabled() {
		c.logger.Info().
			Str("heading", n.Heading).
			Int("recipients", len(n.ExternalIDs)).
			Msg("push disabled, skipping notification")
		return "", nil
	}

	body := request{
		AppID:            c.appID,
		Headings:         map[string]string{"en": n.Heading},
		Contents:         map[string]string{"en": n.Content},
		URL:              n.URL,
		TargetChannel:    "push",
		IncludedSegments: n.Segments,
		Data:             n.Data,
	}
	if len(n.ExternalIDs) > 0 {
		body.IncludeAliases = map[string][]string{"external_id": n.ExternalIDs}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, "encoding notification")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "building notification request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "sending notification")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", errors.Wrap(err, "reading notification response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out response
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", errors.Wrap(err, "decoding notification response")
	}

	// OneSignal answers 200 with an "errors" field when no subscription
	// matched; that is logged, not failed, so the job is not retried.
	if len(out.Errors) > 0 && string(out.Errors) != "null" {
		c.logger.Warn().
			RawJSON("errors", out.Errors).
			Str("notification_id", out.ID).
			Msg("onesignal reported delivery errors")
	}

	return out.ID, nil
}
