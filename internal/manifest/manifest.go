// Package manifest emits the fixed-shape runtime manifest that tells the
// browser notebook runtime which storage key holds the converted bundle.
package manifest

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaVersion is the manifest schema revision the runtime expects.
const SchemaVersion = 0

// FileName is the manifest's well-known name inside the output directory.
const FileName = "jupyter-lite.json"

//go:embed schema.json
var schemaJSON string

// Config shapes the storage key recorded in the manifest.
type Config struct {
	// Language is the target-language identifier, "python" by default.
	Language string
	// StoragePrefix namespaces the storage key, "nblite" by default.
	StoragePrefix string
}

type record struct {
	SchemaVersion int        `json:"jupyter-lite-schema-version"`
	ConfigData    configData `json:"jupyter-config-data"`
}

type configData struct {
	ContentsStorageName string `json:"contentsStorageName"`
}

// Render produces the manifest bytes, validated against the embedded schema
// before they are handed back. A validation failure here is a programming
// error in the record shape, so it is surfaced rather than skipped.
func Render(cfg Config) ([]byte, error) {
	language := strings.TrimSpace(cfg.Language)
	if language == "" {
		language = "python"
	}
	prefix := strings.TrimSpace(cfg.StoragePrefix)
	if prefix == "" {
		prefix = "nblite"
	}

	data, err := json.MarshalIndent(record{
		SchemaVersion: SchemaVersion,
		ConfigData: configData{
			ContentsStorageName: prefix + "-" + language,
		},
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("manifest: marshal: %w", err)
	}
	data = append(data, '\n')

	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("manifest: rendered record invalid: %w", err)
	}
	return data, nil
}

// Write renders the manifest and stores it as FileName inside dir.
func Write(dir string, cfg Config) error {
	data, err := Render(cfg)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return nil
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(FileName, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("manifest: add schema resource: %w", err)
	}
	schema, err := compiler.Compile(FileName)
	if err != nil {
		return nil, fmt.Errorf("manifest: compile schema: %w", err)
	}
	return schema, nil
})

// Validate checks manifest bytes against the embedded schema.
func Validate(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("manifest: decode: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("manifest: schema validation: %w", err)
	}
	return nil
}
