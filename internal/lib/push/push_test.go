package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/betis-escocia/backend/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL, appID, apiKey string) *Client {
	logger := zerolog.Nop()
	cfg := &config.Config{Integration: config.IntegrationConfig{
		OneSignalAppID:   appID,
		OneSignalAPIKey:  apiKey,
		OneSignalBaseURL: baseURL,
	}}
	return NewClient(cfg, &logger)
}

func TestSend(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notifications", r.URL.Path)
		assert.Equal(t, "Key api-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"notif-1"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "app-id", "api-key")
	id, err := c.Send(context.Background(), Notification{
		Heading:     "Nuevo RSVP",
		Content:     "Ana (2 personas)",
		URL:         "https://betis-escocia.com/admin",
		ExternalIDs: []string{"user_admin"},
	})
	require.NoError(t, err)
	assert.Equal(t, "notif-1", id)

	assert.Equal(t, "app-id", got["app_id"])
	assert.Equal(t, "push", got["target_channel"])
	assert.Equal(t, map[string]any{"en": "Nuevo RSVP"}, got["headings"])
	assert.Equal(t, map[string]any{"external_id": []any{"user_admin"}}, got["include_aliases"])
	assert.NotContains(t, got, "included_segments")
}

func TestSend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":["app_id not found"]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "app-id", "api-key").Send(context.Background(), Notification{Segments: []string{"Admins"}})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestSend_DisabledAndNoRecipients(t *testing.T) {
	c := newTestClient("http://127.0.0.1:0", "", "")
	assert.False(t, c.Enabled())

	id, err := c.Send(context.Background(), Notification{ExternalIDs: []string{"u1"}})
	require.NoError(t, err)
	assert.Empty(t, id)

	_, err = c.Send(context.Background(), Notification{})
	assert.ErrorIs(t, err, ErrNoRecipients)
}
