// internal/notification/sender_test.go
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	commonhttp "studio-site/internal/common/http"
	"studio-site/internal/common/logger"
	"studio-site/internal/models"
	"studio-site/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)

func createTestSender(t *testing.T, url string) *Sender {
	urls := map[models.SubmissionType]string{
		models.TypeSupport:          url,
		models.TypeStaffApplication: url,
	}
	s := NewSender(commonhttp.NewClient(2*time.Second), urls, registry.Default(), logger.NewTestLogger(t))
	s.now = func() time.Time { return fixedNow }
	return s
}

func supportForm() *registry.Form {
	form, _ := registry.Default().Lookup("support")
	return form
}

// ==========================
// Embed Tests
// ==========================

func TestBuildEmbed_Support(t *testing.T) {
	embed := BuildEmbed(supportForm(), &models.ContactForm{
		Name:          "Ann",
		ContactMethod: models.ContactMethodEmail,
		Message:       "cannot join",
	}, fixedNow)

	assert.Equal(t, "New support request", embed.Title)
	assert.Equal(t, EmbedColor, embed.Color)
	assert.Equal(t, "Support system", embed.Footer.Text)
	assert.Equal(t, "2025-02-03T04:05:06Z", embed.Timestamp)

	require.Len(t, embed.Fields, 4)
	assert.Equal(t, EmbedField{Name: "Contact method", Value: "Email", Inline: true}, embed.Fields[1])
	assert.Equal(t, EmbedField{Name: "Contact details", Value: "not specified", Inline: true}, embed.Fields[2])
	assert.False(t, embed.Fields[3].Inline)
}

func TestBuildEmbed_StaffApplication(t *testing.T) {
	form, _ := registry.Default().Lookup("staff-application")
	embed := BuildEmbed(form, &models.StaffApplicationForm{
		FullName:   "Jordan",
		Experience: strings.Repeat("x", 2000),
	}, fixedNow)

	require.Len(t, embed.Fields, 11)
	assert.Equal(t, "New staff application", embed.Title)
	assert.Equal(t, "Jordan", embed.Fields[0].Value)
	assert.Len(t, []rune(embed.Fields[6].Value), 1024)
	assert.Equal(t, "not specified", embed.Fields[10].Value)
}

// ==========================
// Delivery Tests
// ==========================

func TestSender_Notify_Success(t *testing.T) {
	var received WebhookMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	s := createTestSender(t, server.URL)
	err := s.Notify(context.Background(), &models.ContactForm{Name: "Ann", ContactMethod: "discord", Message: "hi"})
	require.NoError(t, err)

	require.Len(t, received.Embeds, 1)
	assert.Equal(t, "New support request", received.Embeds[0].Title)
	assert.Equal(t, "Discord", received.Embeds[0].Fields[1].Value)
}

func TestSender_Notify_Failures(t *testing.T) {
	t.Run("non 2xx status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer server.Close()

		err := createTestSender(t, server.URL).Notify(context.Background(), &models.ContactForm{Name: "Ann"})
		assert.ErrorIs(t, err, ErrWebhookSendFailed)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		err := createTestSender(t, url).Notify(context.Background(), &models.StaffApplicationForm{FullName: "J"})
		assert.ErrorIs(t, err, ErrWebhookSendFailed)
	})

	t.Run("no url configured", func(t *testing.T) {
		err := createTestSender(t, "").Notify(context.Background(), &models.ContactForm{Name: "Ann"})
		assert.True(t, errors.Is(err, ErrWebhookNotConfigured))
	})
}
