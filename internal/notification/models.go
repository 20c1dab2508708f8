// internal/notification/models.go
package notification

// EmbedColor is the accent used for every form notification.
const EmbedColor = 0x3b82f6

// WebhookMessage is the chat webhook body.
type WebhookMessage struct {
	Embeds []Embed `json:"embeds"`
}

type Embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Fields    []EmbedField `json:"fields"`
	Timestamp string       `json:"timestamp"`
	Footer    EmbedFooter  `json:"footer"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}
