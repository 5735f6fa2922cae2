package email

import (
	"context"
	"fmt"
	"time"
)

// RSVPConfirmationData feeds TemplateRSVPConfirmation.
type RSVPConfirmationData struct {
	Name             string
	Attendees        int
	EventID          string
	Message          string
	WhatsAppInterest bool
	SiteURL          string
}

// ContactNotificationData feeds TemplateContactNotification.
type ContactNotificationData struct {
	Name        string
	Email       string
	Phone       string
	Type        string
	Subject     string
	Message     string
	SubmittedAt time.Time
	SiteURL     string
}

// SendRSVPConfirmation confirms an RSVP to the supporter who made it.
func (c *Client) SendRSVPConfirmation(ctx context.Context, to string, data RSVPConfirmationData) error {
	if data.SiteURL == "" {
		data.SiteURL = c.siteURL
	}

	_, err := c.Send(ctx, Message{
		To:       []string{to},
		Subject:  "Confirmación de asistencia - Peña Bética Escocesa",
		Template: TemplateRSVPConfirmation,
		Data:     data,
		Tags:     map[string]string{"category": "rsvp"},
	})
	return err
}

// SendContactNotification forwards a contact submission to every admin
// address. Replies go straight to the submitter.
func (c *Client) SendContactNotification(ctx context.Context, data ContactNotificationData) error {
	if data.SiteURL == "" {
		data.SiteURL = c.siteURL
	}

	_, err := c.Send(ctx, Message{
		To:       c.adminEmails,
		Subject:  fmt.Sprintf("[Contacto] %s", data.Subject),
		Template: TemplateContactNotification,
		Data:     data,
		ReplyTo:  data.Email,
		Tags:     map[string]string{"category": "contact"},
	})
	return err
}
