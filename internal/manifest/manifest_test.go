package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderDefaults(t *testing.T) {
	data, err := Render(Config{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if doc["jupyter-lite-schema-version"] != float64(0) {
		t.Fatalf("schema version mismatch: %#v", doc["jupyter-lite-schema-version"])
	}
	configData, ok := doc["jupyter-config-data"].(map[string]any)
	if !ok {
		t.Fatalf("jupyter-config-data missing: %#v", doc)
	}
	if configData["contentsStorageName"] != "nblite-python" {
		t.Fatalf("storage name mismatch: %#v", configData["contentsStorageName"])
	}
}

func TestRenderCustomStorageName(t *testing.T) {
	data, err := Render(Config{Language: "r", StoragePrefix: "course"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(data), `"contentsStorageName": "course-r"`) {
		t.Fatalf("custom storage name missing:\n%s", data)
	}
}

func TestWriteManifestFile(t *testing.T) {
	dir := t.TempDir()

	if err := Write(dir, Config{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read back %s: %v", FileName, err)
	}
	if err := Validate(data); err != nil {
		t.Fatalf("written manifest fails validation: %v", err)
	}
}

func TestValidateRejectsBadDocuments(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"wrong version", `{"jupyter-lite-schema-version": 1, "jupyter-config-data": {"contentsStorageName": "x"}}`},
		{"missing config data", `{"jupyter-lite-schema-version": 0}`},
		{"empty storage name", `{"jupyter-lite-schema-version": 0, "jupyter-config-data": {"contentsStorageName": ""}}`},
		{"extra top-level key", `{"jupyter-lite-schema-version": 0, "jupyter-config-data": {"contentsStorageName": "x"}, "extra": true}`},
		{"not json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Validate([]byte(tc.doc)); err == nil {
				t.Fatalf("expected validation failure for %s", tc.name)
			}
		})
	}
}
