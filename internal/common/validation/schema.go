// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"sort"
	"strings"

	"studio-site/pkg/registry"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validator checks form bodies against the compiled schemas of a registry.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewValidator compiles every form schema up front so a bad registry fails at startup.
func NewValidator(reg *registry.FormRegistry) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(reg.Forms))}
	for _, form := range reg.Forms {
		if len(form.InputSchema) == 0 {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(form.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", form.Type, err)
		}
		v.schemas[form.Type] = schema
	}
	return v, nil
}

// Validate checks a raw JSON document. A form without a schema accepts anything.
func (v *Validator) Validate(formType string, document []byte) (*ValidationResult, error) {
	schema, ok := v.schemas[formType]
	if !ok {
		return &ValidationResult{Valid: true}, nil
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   fieldName(desc),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })

	return &ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}, nil
}

// fieldName reports required-property errors against the missing property
// rather than the document root.
func fieldName(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if field == "(root)" {
		if prop, ok := desc.Details()["property"].(string); ok {
			return prop
		}
	}
	return field
}

// Add appends an error found outside the schema.
func (vr *ValidationResult) Add(field, message, code string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message, Code: code})
	vr.Valid = false
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a specific field
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") || strings.HasPrefix(err.Field, field+"[") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}
