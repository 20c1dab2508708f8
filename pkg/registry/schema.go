// pkg/registry/schema.go
package registry

// FormRegistry describes every public form the site accepts.
type FormRegistry struct {
	Version     string `json:"version"`
	LastUpdated string `json:"lastUpdated"`
	Forms       []Form `json:"forms"`
}

// Form ties a submission type to its input schema and notification text.
type Form struct {
	Type         string                 `json:"type"`
	DisplayName  string                 `json:"displayName"`
	WebhookTitle string                 `json:"webhookTitle"`
	FooterText   string                 `json:"footerText"`
	InputSchema  map[string]interface{} `json:"inputSchema"`
	Tags         []string               `json:"tags"`
}
