// cmd/tools/form-registry/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"studio-site/internal/common/validation"
	"studio-site/pkg/registry"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	checkCmd := flag.NewFlagSet("check", flag.ExitOnError)

	exportPath := exportCmd.String("path", "configs/form-registry.json", "Where to write the registry")
	validatePath := validateCmd.String("path", "configs/form-registry.json", "Path to registry file")
	checkPath := checkCmd.String("path", "", "Path to registry file (built-in forms when empty)")
	checkForm := checkCmd.String("form", "", "Form type (support, staff-application)")
	checkDoc := checkCmd.String("doc", "", "JSON document to check")

	if len(os.Args) < 2 {
		printHelp(os.Stdout)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		reg := registry.Default()
		reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
		if err := saveRegistry(reg, *exportPath); err != nil {
			fmt.Printf("Error exporting registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d forms to %s\n", len(reg.Forms), *exportPath)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validateRegistry(*validatePath); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Registry validation passed.")

	case "check":
		checkCmd.Parse(os.Args[2:])
		if *checkForm == "" || *checkDoc == "" {
			fmt.Println("Error: form and doc are required for check.")
			checkCmd.Usage()
			os.Exit(1)
		}
		ok, err := checkDocument(*checkPath, *checkForm, *checkDoc)
		if err != nil {
			fmt.Printf("Error checking document: %v\n", err)
			os.Exit(1)
		}
		if !ok {
			os.Exit(2)
		}

	case "help":
		fallthrough
	default:
		printHelp(os.Stdout)
	}
}

func validateRegistry(path string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	types := make(map[string]bool)
	for _, form := range reg.Forms {
		if form.Type == "" {
			return fmt.Errorf("form missing required field: Type")
		}
		if types[form.Type] {
			return fmt.Errorf("duplicate form type: %s", form.Type)
		}
		types[form.Type] = true

		if form.WebhookTitle == "" {
			return fmt.Errorf("form %s missing required field: WebhookTitle", form.Type)
		}
		if len(form.InputSchema) == 0 {
			return fmt.Errorf("form %s missing required field: InputSchema", form.Type)
		}
	}

	if _, err := validation.NewValidator(reg); err != nil {
		return err
	}

	fmt.Printf("Found %d forms.\n", len(reg.Forms))
	return nil
}

func checkDocument(path, formType, docPath string) (bool, error) {
	reg := registry.Default()
	if path != "" {
		loaded, err := registry.LoadRegistry(path)
		if err != nil {
			return false, fmt.Errorf("failed to load registry: %w", err)
		}
		reg = loaded
	}

	validator, err := validation.NewValidator(reg)
	if err != nil {
		return false, err
	}

	doc, err := os.ReadFile(docPath)
	if err != nil {
		return false, fmt.Errorf("failed to read document: %w", err)
	}

	result, err := validator.Validate(formType, doc)
	if err != nil {
		return false, err
	}
	if result.Valid {
		fmt.Println("Document is valid.")
		return true, nil
	}
	for _, msg := range result.GetErrorMessages() {
		fmt.Println(msg)
	}
	return false, nil
}

func saveRegistry(reg *registry.FormRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `
Usage: form-registry <command> [flags]

Commands:
  export    Write the built-in forms to a registry file
  validate  Validate a registry file and compile its schemas
  check     Validate a JSON document against a form
  help      Show this help message

Examples:
  form-registry export -path configs/form-registry.json
  form-registry validate -path configs/form-registry.json
  form-registry check -form support -doc request.json
`)
}
