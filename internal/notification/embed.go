// internal/notification/embed.go
package notification

import (
	"strings"
	"time"
	"unicode/utf8"

	"studio-site/internal/models"
	"studio-site/pkg/registry"
)

const (
	notSpecified  = "not specified"
	maxFieldValue = 1024
)

// BuildEmbed renders a form payload as a single embed.
func BuildEmbed(form *registry.Form, payload models.Payload, now time.Time) Embed {
	var fields []EmbedField
	switch p := payload.(type) {
	case *models.ContactForm:
		fields = []EmbedField{
			field("Name", p.Name, true),
			field("Contact method", models.ContactMethodLabel(p.ContactMethod), true),
			field("Contact details", p.ContactDetails, true),
			field("Message", p.Message, false),
		}
	case *models.StaffApplicationForm:
		fields = []EmbedField{
			field("Full name", p.FullName, true),
			field("Age", p.Age, true),
			field("Discord username", p.DiscordUsername, true),
			field("Roblox username", p.RobloxUsername, true),
			field("Timezone", p.Timezone, true),
			field("Position", p.Position, true),
			field("Prior experience", p.Experience, false),
			field("Weekly hours", p.WeeklyHours, false),
			field("Motivation", p.Motivation, false),
			field("Example scenario", p.Scenario, false),
			field("Additional info", p.AdditionalInfo, false),
		}
	}

	return Embed{
		Title:     form.WebhookTitle,
		Color:     EmbedColor,
		Fields:    fields,
		Timestamp: now.UTC().Format(time.RFC3339),
		Footer:    EmbedFooter{Text: form.FooterText},
	}
}

func field(name, value string, inline bool) EmbedField {
	value = strings.TrimSpace(value)
	if value == "" {
		value = notSpecified
	}
	if utf8.RuneCountInString(value) > maxFieldValue {
		runes := []rune(value)
		value = string(runes[:maxFieldValue-1]) + "…"
	}
	return EmbedField{Name: name, Value: value, Inline: inline}
}
