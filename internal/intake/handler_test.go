// internal/intake/handler_test.go
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	commonhttp "studio-site/internal/common/http"
	"studio-site/internal/common/logger"
	"studio-site/internal/common/observability"
	"studio-site/internal/common/validation"
	"studio-site/internal/models"
	"studio-site/internal/notification"
	"studio-site/internal/repository"
	"studio-site/internal/store"
	"studio-site/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type stubNotifier struct {
	err   error
	calls int
}

func (n *stubNotifier) Notify(context.Context, models.Payload) error {
	n.calls++
	return n.err
}

type brokenRepo struct{}

func (brokenRepo) Save(context.Context, models.Payload) (*models.Submission, bool) { return nil, false }

func createTestHandler(t *testing.T, notifier Notifier, repo Repository) *Handler {
	v, err := validation.NewValidator(registry.Default())
	require.NoError(t, err)
	if repo == nil {
		repo = repository.New(store.NewMemoryStore(), logger.NewTestLogger(t), observability.NewNoop())
	}
	return NewHandler(nil, v, notifier, repo, logger.NewTestLogger(t))
}

func createApplicationBody(t *testing.T, modify func(m map[string]interface{})) json.RawMessage {
	m := map[string]interface{}{
		"fullName":        "Jordan Lee",
		"age":             "16",
		"discordUsername": "jordan",
		"robloxUsername":  "jordan_builds",
		"timezone":        "UTC+2",
		"position":        "moderator",
		"experience":      "ran a server",
		"weeklyHours":     "3-4",
		"motivation":      "help out",
		"scenario":        "talk to both",
		"additionalInfo":  "",
		"agreedToRules":   true,
	}
	if modify != nil {
		modify(m)
	}
	b, err := json.Marshal(m)
	require.NoError(t, err)
	return b
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	notifier := &stubNotifier{}
	h := createTestHandler(t, notifier, nil)

	output, err := h.Execute(context.Background(), &Input{
		Type: models.TypeStaffApplication,
		Body: createApplicationBody(t, nil),
	})
	require.NoError(t, err)
	assert.True(t, output.Delivered)
	assert.Equal(t, 1, notifier.calls)
	assert.False(t, output.Submission.Read)

	app, ok := output.Submission.StaffApplication()
	require.True(t, ok)
	assert.Equal(t, "Jordan Lee", app.FullName)
}

func TestHandler_Execute_WebhookFailureStillPersists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	testLog := logger.NewTestLogger(t)
	sender := notification.NewSender(
		commonhttp.NewClient(time.Second),
		map[models.SubmissionType]string{models.TypeSupport: server.URL},
		registry.Default(),
		testLog,
	)
	repo := repository.New(store.NewMemoryStore(), testLog, observability.NewNoop())
	h := createTestHandler(t, sender, repo)

	output, err := h.Execute(context.Background(), &Input{
		Type: models.TypeSupport,
		Body: json.RawMessage(`{"name":"Ann","contactMethod":"email","message":"hi"}`),
	})
	require.NoError(t, err)
	assert.False(t, output.Delivered)

	list := repo.List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, output.Submission.ID, list[0].ID)
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Execute_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		modify func(m map[string]interface{})
		field  string
	}{
		{"too young", func(m map[string]interface{}) { m["age"] = "12" }, "age"},
		{"too old", func(m map[string]interface{}) { m["age"] = "101" }, "age"},
		{"age not digits", func(m map[string]interface{}) { m["age"] = "twelve" }, "age"},
		{"unknown weekly hours", func(m map[string]interface{}) { m["weeklyHours"] = "lots" }, "weeklyHours"},
		{"rules not agreed", func(m map[string]interface{}) { m["agreedToRules"] = false }, "agreedToRules"},
		{"missing motivation", func(m map[string]interface{}) { delete(m, "motivation") }, "motivation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &stubNotifier{}
			h := createTestHandler(t, notifier, nil)

			output, err := h.Execute(context.Background(), &Input{
				Type: models.TypeStaffApplication,
				Body: createApplicationBody(t, tt.modify),
			})
			assert.Nil(t, output)
			assert.ErrorIs(t, err, ErrValidationFailed)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.True(t, verr.Result.HasErrors(tt.field), "errors: %v", verr.Result.GetErrorMessages())
			assert.Zero(t, notifier.calls, "invalid forms are never announced")
		})
	}
}

func TestHandler_Execute_MinimumAgeAccepted(t *testing.T) {
	h := createTestHandler(t, &stubNotifier{}, nil)
	_, err := h.Execute(context.Background(), &Input{
		Type: models.TypeStaffApplication,
		Body: createApplicationBody(t, func(m map[string]interface{}) { m["age"] = "13" }),
	})
	assert.NoError(t, err)
}

func TestHandler_Execute_MalformedBody(t *testing.T) {
	h := createTestHandler(t, &stubNotifier{}, nil)
	_, err := h.Execute(context.Background(), &Input{Type: models.TypeSupport, Body: json.RawMessage(`{"name":`)})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_UnknownForm(t *testing.T) {
	h := createTestHandler(t, &stubNotifier{}, nil)
	_, err := h.Execute(context.Background(), &Input{Type: "newsletter", Body: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, ErrUnknownForm)
}

func TestHandler_Execute_StoreUnavailable(t *testing.T) {
	notifier := &stubNotifier{err: errors.New("down")}
	h := createTestHandler(t, notifier, brokenRepo{})

	output, err := h.Execute(context.Background(), &Input{
		Type: models.TypeSupport,
		Body: json.RawMessage(`{"name":"Ann","contactMethod":"other","message":"hi"}`),
	})
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
