package notifications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsBrevoPayload(t *testing.T) {
	var got brevoPayload
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/smtp/email", r.URL.Path)
		apiKey = r.Header.Get("api-key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	svc := NewBrevoService(srv.URL, "key-123", "noreply@example.com", "Courses")
	require.NoError(t, svc.send("ada@example.com", "", "Purchase Confirmed!", PurchaseConfirmedEmail("Go <Basics>", "49.99")))

	assert.Equal(t, "key-123", apiKey)
	assert.Equal(t, "Purchase Confirmed!", got.Subject)
	require.Len(t, got.To, 1)
	assert.Equal(t, "ada", got.To[0]["name"])
	assert.Equal(t, "noreply@example.com", got.Sender["email"])
	assert.Contains(t, got.HTMLContent, "$49.99")
	assert.Contains(t, got.HTMLContent, "Go &lt;Basics&gt;")
}

func TestSendRejectsBadRecipientAndErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	svc := NewBrevoService(srv.URL, "bad", "noreply@example.com", "Courses")
	assert.Error(t, svc.send("not-an-email", "", "s", "b"))
	assert.Error(t, svc.send("ada@example.com", "Ada", "s", "b"))
}

func TestSendEmailWithoutClientIsNoop(t *testing.T) {
	EmailClient = nil
	assert.NotPanics(t, func() { SendEmail("Ada", "ada@example.com", "s", "b") })
}
