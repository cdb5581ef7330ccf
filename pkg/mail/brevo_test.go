package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBrevoMailerDisabled(t *testing.T) {
	m, err := NewBrevoMailer(BrevoSettings{Enabled: false})
	require.NoError(t, err)

	err = m.Send(context.Background(), Message{To: []string{"a@x.com"}})
	require.ErrorIs(t, err, ErrDeliveryDisabled)
}

func TestBrevoMailerRequiresCredentials(t *testing.T) {
	_, err := NewBrevoMailer(BrevoSettings{Enabled: true})
	require.Error(t, err)

	_, err = NewBrevoMailer(BrevoSettings{Enabled: true, APIKey: "key"})
	require.Error(t, err)
}

func TestBrevoMailerPostsPayload(t *testing.T) {
	var got brevoPayload
	var apiKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	m, err := NewBrevoMailer(BrevoSettings{
		Enabled:    true,
		APIKey:     "test-key",
		SenderName: "Client Portal",
		SenderMail: "no-reply@portal.test",
		Endpoint:   srv.URL,
	})
	require.NoError(t, err)

	err = m.Send(context.Background(), Message{
		To:      []string{"lead@example.com"},
		Subject: "Your OTP for Login",
		HTML:    "<h1>482913</h1>",
	})
	require.NoError(t, err)

	require.Equal(t, "test-key", apiKey)
	require.Equal(t, "no-reply@portal.test", got.Sender.Email)
	require.Len(t, got.To, 1)
	require.Equal(t, "lead@example.com", got.To[0].Email)
	require.Equal(t, "<h1>482913</h1>", got.HTMLContent)
}

func TestBrevoMailerSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid sender"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	m, err := NewBrevoMailer(BrevoSettings{
		Enabled:    true,
		APIKey:     "test-key",
		SenderMail: "no-reply@portal.test",
		Endpoint:   srv.URL,
	})
	require.NoError(t, err)

	err = m.Send(context.Background(), Message{To: []string{"lead@example.com"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "400")
}

func TestRenderOTPEmailEscapesName(t *testing.T) {
	html, err := RenderOTPEmail("Client Portal", "<script>x</script>", "482913", 0)
	require.NoError(t, err)
	require.NotContains(t, html, "<script>x</script>")
	require.Contains(t, html, "482913")
	require.Contains(t, html, "Valid for 1 minutes")
}
