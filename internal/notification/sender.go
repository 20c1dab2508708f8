// internal/notification/sender.go
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	commonhttp "studio-site/internal/common/http"
	"studio-site/internal/common/logger"
	"studio-site/internal/models"
	"studio-site/pkg/registry"
)

var (
	ErrWebhookNotConfigured = errors.New("WEBHOOK_NOT_CONFIGURED")
	ErrWebhookSendFailed    = errors.New("WEBHOOK_SEND_FAILED")
)

// Sender posts form notifications to the per-type chat webhooks. Delivery is
// attempted once.
type Sender struct {
	client   *commonhttp.Client
	urls     map[models.SubmissionType]string
	registry *registry.FormRegistry
	logger   logger.Logger
	now      func() time.Time
}

func NewSender(client *commonhttp.Client, urls map[models.SubmissionType]string, reg *registry.FormRegistry, log logger.Logger) *Sender {
	return &Sender{
		client:   client,
		urls:     urls,
		registry: reg,
		logger:   log.WithFields(map[string]interface{}{"component": "notification"}),
		now:      time.Now,
	}
}

// Notify sends one embed describing payload.
func (s *Sender) Notify(ctx context.Context, payload models.Payload) error {
	formType := payload.Type()

	url := s.urls[formType]
	if url == "" {
		return fmt.Errorf("%w: %s", ErrWebhookNotConfigured, formType)
	}

	form, ok := s.registry.Lookup(string(formType))
	if !ok {
		return fmt.Errorf("%w: no form registered for %s", ErrWebhookSendFailed, formType)
	}

	msg := WebhookMessage{Embeds: []Embed{BuildEmbed(form, payload, s.now())}}
	if err := s.client.PostJSON(ctx, url, msg); err != nil {
		s.logger.Warn("webhook delivery failed", map[string]interface{}{
			"type":  formType,
			"error": err,
		})
		return fmt.Errorf("%w: %v", ErrWebhookSendFailed, err)
	}

	s.logger.Debug("webhook delivered", map[string]interface{}{"type": formType})
	return nil
}
