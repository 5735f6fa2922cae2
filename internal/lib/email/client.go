// Package email provides an email sending client.
//
// It uses Resend (resend-go) as the email provider and renders HTML bodies
// from templates embedded in the binary.
package email

import (
	"context"
	"fmt"

	"github.com/betis-escocia/backend/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// ErrNoRecipients is returned when a message has nobody to go to.
var ErrNoRecipients = errors.New("email: no recipients")

// Client wraps the Resend emails service and sender settings.
type Client struct {
	emails      resend.EmailsSvc
	from        string
	adminEmails []string
	siteURL     string
	enabled     bool
	logger      *zerolog.Logger
}

// NewClient creates an email Client. Without an API key the client is
// disabled and only logs what it would have sent.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return &Client{
		emails:      resend.NewClient(cfg.Integration.ResendAPIKey).Emails,
		from:        cfg.Integration.EmailFrom,
		adminEmails: cfg.Integration.AdminEmails,
		siteURL:     cfg.Integration.SiteURL,
		enabled:     cfg.Integration.ResendAPIKey != "",
		logger:      logger,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Message is a rendered-on-send email.
type Message struct {
	To       []string
	Subject  string
	Template Template
	Data     any
	ReplyTo  string
	Tags     map[string]string
}

// Send renders msg.Template with msg.Data and sends it through Resend.
// It returns the provider message id.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if len(msg.To) == 0 {
		return "", ErrNoRecipients
	}

	html, err := Render(msg.Template, msg.Data)
	if err != nil {
		return "", err
	}

	if !c.enabled {
		c.logger.Info().
			Strs("to", msg.To).
			Str("template", string(msg.Template)).
			Msg("email disabled, skipping send")
		return "", nil
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    html,
		ReplyTo: msg.ReplyTo,
	}
	for name, value := range msg.Tags {
		params.Tags = append(params.Tags, resend.Tag{Name: name, Value: value})
	}

	sent, err := c.emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Debug().
		Str("email_id", sent.Id).
		Str("template", string(msg.Template)).
		Msg("email sent")

	return sent.Id, nil
}
