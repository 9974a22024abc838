package notebook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coursekit/nblite/pkg/interfaces"
)

func sampleNotebook() *interfaces.Notebook {
	nb := &interfaces.Notebook{
		Cells: []interfaces.Cell{
			{ID: "cell-md", Type: interfaces.CellTypeMarkdown, Source: "# Title\n\nprose", Metadata: map[string]any{}},
			{ID: "cell-code", Type: interfaces.CellTypeCode, Source: "x = 1\nprint(x)", Metadata: map[string]any{}},
		},
		Metadata:      map[string]any{},
		NBFormat:      4,
		NBFormatMinor: 5,
	}
	nb.SetKernelspec(interfaces.Kernelspec{Name: "python", DisplayName: "Python (Pyodide)"})
	return nb
}

func TestMarshalDocumentShape(t *testing.T) {
	data, err := Marshal(sampleNotebook())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Fatalf("output missing trailing newline")
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if doc["nbformat"] != float64(4) || doc["nbformat_minor"] != float64(5) {
		t.Fatalf("nbformat mismatch: %v.%v", doc["nbformat"], doc["nbformat_minor"])
	}

	metadata := doc["metadata"].(map[string]any)
	kernelspec, ok := metadata["kernelspec"].(map[string]any)
	if !ok {
		t.Fatalf("kernelspec missing: %#v", metadata)
	}
	if kernelspec["name"] != "python" || kernelspec["display_name"] != "Python (Pyodide)" {
		t.Fatalf("kernelspec mismatch: %#v", kernelspec)
	}
}

func TestMarshalCells(t *testing.T) {
	data, err := Marshal(sampleNotebook())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var doc struct {
		Cells []map[string]any `json:"cells"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(doc.Cells))
	}

	md := doc.Cells[0]
	if md["cell_type"] != interfaces.CellTypeMarkdown || md["id"] != "cell-md" {
		t.Fatalf("markdown cell mismatch: %#v", md)
	}
	if _, present := md["outputs"]; present {
		t.Fatalf("markdown cell carries outputs: %#v", md)
	}

	code := doc.Cells[1]
	if code["cell_type"] != interfaces.CellTypeCode {
		t.Fatalf("code cell mismatch: %#v", code)
	}
	if code["execution_count"] != nil {
		t.Fatalf("execution_count should be null, got %#v", code["execution_count"])
	}
	outputs, ok := code["outputs"].([]any)
	if !ok || len(outputs) != 0 {
		t.Fatalf("outputs should be an empty array, got %#v", code["outputs"])
	}

	source, _ := code["source"].([]any)
	want := []any{"x = 1\n", "print(x)"}
	if len(source) != len(want) {
		t.Fatalf("source line split mismatch: %#v", source)
	}
	for i := range want {
		if source[i] != want[i] {
			t.Fatalf("source line %d mismatch: got %#v want %#v", i, source[i], want[i])
		}
	}
}

func TestSourceLines(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"one line", []string{"one line"}},
		{"a\nb", []string{"a\n", "b"}},
		{"a\nb\n", []string{"a\n", "b\n"}},
		{"\n", []string{"\n"}},
	}
	for _, tc := range cases {
		got := sourceLines(tc.in)
		if len(got) != len(tc.want) {
			t.Fatalf("sourceLines(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("sourceLines(%q)[%d] = %q, want %q", tc.in, i, got[i], tc.want[i])
			}
		}
	}
}

func TestWriteCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lesson.ipynb")

	if err := NewWriter().Write(sampleNotebook(), path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("written file is not valid JSON: %v", err)
	}
}

func TestMarshalNilNotebook(t *testing.T) {
	if _, err := Marshal(nil); err == nil {
		t.Fatalf("expected error for nil notebook")
	}
}

func TestMarshalFillsMissingCellID(t *testing.T) {
	nb := &interfaces.Notebook{
		Cells:    []interfaces.Cell{{Type: interfaces.CellTypeMarkdown, Source: "hi"}},
		NBFormat: 4, NBFormatMinor: 5,
	}
	data, err := Marshal(nb)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var doc struct {
		Cells []map[string]any `json:"cells"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if id, _ := doc.Cells[0]["id"].(string); id == "" {
		t.Fatalf("expected generated cell id, got %#v", doc.Cells[0]["id"])
	}
}
