package email

import (
	"context"
	"errors"
	"testing"

	"github.com/betis-escocia/backend/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmails records sends; other EmailsSvc methods are not used.
type fakeEmails struct {
	resend.EmailsSvc
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeEmails) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "email_123"}, nil
}

func newTestClient(fake *fakeEmails) *Client {
	logger := zerolog.Nop()
	c := NewClient(&config.Config{Integration: config.IntegrationConfig{
		ResendAPIKey: "re_test",
		EmailFrom:    "Peña <no-reply@example.com>",
		AdminEmails:  []string{"admin@example.com", "junta@example.com"},
		SiteURL:      "https://example.com",
	}}, &logger)
	c.emails = fake
	return c
}

func TestRenderPreviews(t *testing.T) {
	for name, data := range PreviewData {
		t.Run(string(name), func(t *testing.T) {
			html, err := Render(name, data)
			require.NoError(t, err)
			assert.Contains(t, html, "<html")
		})
	}

	html, err := Render(TemplateRSVPConfirmation, PreviewData[TemplateRSVPConfirmation])
	require.NoError(t, err)
	assert.Contains(t, html, "María García")
	assert.Contains(t, html, "3 personas")
	assert.Contains(t, html, "grupo de WhatsApp")

	html, err = Render(TemplateContactNotification, PreviewData[TemplateContactNotification])
	require.NoError(t, err)
	assert.Contains(t, html, "MERCHANDISE")
	assert.Contains(t, html, "01/03/2025 18:30 UTC")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render(Template("nope"), nil)
	assert.Error(t, err)
}

func TestSendRSVPConfirmation(t *testing.T) {
	fake := &fakeEmails{}
	c := newTestClient(fake)

	err := c.SendRSVPConfirmation(context.Background(), "fan@example.com", RSVPConfirmationData{Name: "Ana", Attendees: 1})
	require.NoError(t, err)

	require.Len(t, fake.sent, 1)
	sent := fake.sent[0]
	assert.Equal(t, []string{"fan@example.com"}, sent.To)
	assert.Equal(t, "Peña <no-reply@example.com>", sent.From)
	assert.Contains(t, sent.Html, "1 persona")
	assert.Contains(t, sent.Html, "https://example.com/rsvp")
}

func TestSendContactNotification(t *testing.T) {
	fake := &fakeEmails{}
	c := newTestClient(fake)

	err := c.SendContactNotification(context.Background(), ContactNotificationData{
		Name: "Ana", Email: "ana@example.com", Type: "general", Subject: "Hola", Message: "Buenas",
	})
	require.NoError(t, err)

	require.Len(t, fake.sent, 1)
	assert.Equal(t, []string{"admin@example.com", "junta@example.com"}, fake.sent[0].To)
	assert.Equal(t, "ana@example.com", fake.sent[0].ReplyTo)
	assert.Equal(t, "[Contacto] Hola", fake.sent[0].Subject)
}

func TestSend_Errors(t *testing.T) {
	c := newTestClient(&fakeEmails{err: errors.New("rate limited")})

	_, err := c.Send(context.Background(), Message{To: []string{"x@example.com"}, Template: TemplateRSVPConfirmation, Data: RSVPConfirmationData{}})
	assert.ErrorContains(t, err, "rate limited")

	_, err = c.Send(context.Background(), Message{Template: TemplateRSVPConfirmation})
	assert.ErrorIs(t, err, ErrNoRecipients)
}

func TestSend_Disabled(t *testing.T) {
	logger := zerolog.Nop()
	c := NewClient(&config.Config{}, &logger)
	fake := &fakeEmails{}
	c.emails = fake

	id, err := c.Send(context.Background(), Message{To: []string{"x@example.com"}, Template: TemplateRSVPConfirmation, Data: RSVPConfirmationData{}})
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Empty(t, fake.sent)
}
