// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadRegistry reads a registry file. Forms missing from the file fall back
// to the built-in definitions.
func LoadRegistry(path string) (*FormRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg FormRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}

	for _, builtin := range Default().Forms {
		if _, ok := reg.Lookup(builtin.Type); !ok {
			reg.Forms = append(reg.Forms, builtin)
		}
	}
	return &reg, nil
}

// Lookup finds the form registered for a submission type.
func (r *FormRegistry) Lookup(formType string) (*Form, bool) {
	for i := range r.Forms {
		if r.Forms[i].Type == formType {
			return &r.Forms[i], true
		}
	}
	return nil, false
}

func requiredText() map[string]interface{} {
	return map[string]interface{}{"type": "string", "minLength": 1, "pattern": `\S`}
}

func optionalText() map[string]interface{} {
	return map[string]interface{}{"type": "string"}
}

// Default returns the built-in support and staff application forms.
func Default() *FormRegistry {
	return &FormRegistry{
		Version:     "1.0.0",
		LastUpdated: "2025-01-01",
		Forms: []Form{
			{
				Type:         "support",
				DisplayName:  "Support",
				WebhookTitle: "New support request",
				FooterText:   "Support system",
				InputSchema: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"name": requiredText(),
						"contactMethod": map[string]interface{}{
							"type": "string",
							"enum": []interface{}{"discord", "roblox", "email", "other"},
						},
						"contactDetails": optionalText(),
						"message":        requiredText(),
					},
					"required": []interface{}{"name", "contactMethod", "message"},
				},
				Tags: []string{"public"},
			},
			{
				Type:         "staff-application",
				DisplayName:  "Staff application",
				WebhookTitle: "New staff application",
				FooterText:   "Staff applications",
				InputSchema: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"fullName": requiredText(),
						"age": map[string]interface{}{
							"type":    "string",
							"pattern": `^[0-9]{1,3}$`,
						},
						"discordUsername": requiredText(),
						"robloxUsername":  requiredText(),
						"timezone":        requiredText(),
						"position":        requiredText(),
						"experience":      requiredText(),
						"weeklyHours": map[string]interface{}{
							"type": "string",
							"enum": []interface{}{"0.5-1", "1-2", "3-4", "5+"},
						},
						"motivation":     requiredText(),
						"scenario":       requiredText(),
						"additionalInfo": optionalText(),
						"agreedToRules": map[string]interface{}{
							"type": "boolean",
							"enum": []interface{}{true},
						},
					},
					"required": []interface{}{
						"fullName", "age", "discordUsername", "robloxUsername", "timezone",
						"position", "experience", "weeklyHours", "motivation", "scenario",
						"agreedToRules",
					},
				},
				Tags: []string{"public", "reviewable"},
			},
		},
	}
}
