package notebook

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/coursekit/nblite/pkg/interfaces"
)

// Writer serialises notebooks as nbformat 4.5 JSON documents.
type Writer struct{}

// NewWriter returns a writer targeting nbformat 4.5.
func NewWriter() *Writer {
	return &Writer{}
}

// Write marshals the notebook and writes it to path.
func (w *Writer) Write(nb *interfaces.Notebook, path string) error {
	data, err := Marshal(nb)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("notebook writer: write %s: %w", path, err)
	}
	return nil
}

// Marshal renders the notebook as indented nbformat JSON with a trailing
// newline. Cell sources are split into per-line arrays, each line keeping
// its newline except the last, matching how notebook runtimes store text.
func Marshal(nb *interfaces.Notebook) ([]byte, error) {
	if nb == nil {
		return nil, fmt.Errorf("notebook writer: nil notebook")
	}

	doc := nbDocument{
		Cells:         make([]map[string]any, 0, len(nb.Cells)),
		Metadata:      nb.Metadata,
		NBFormat:      nb.NBFormat,
		NBFormatMinor: nb.NBFormatMinor,
	}
	if doc.Metadata == nil {
		doc.Metadata = map[string]any{}
	}
	if doc.NBFormat == 0 {
		doc.NBFormat = 4
		doc.NBFormatMinor = 5
	}

	for _, cell := range nb.Cells {
		doc.Cells = append(doc.Cells, marshalCell(cell))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("notebook writer: marshal: %w", err)
	}
	return append(data, '\n'), nil
}

type nbDocument struct {
	Cells         []map[string]any `json:"cells"`
	Metadata      map[string]any   `json:"metadata"`
	NBFormat      int              `json:"nbformat"`
	NBFormatMinor int              `json:"nbformat_minor"`
}

func marshalCell(cell interfaces.Cell) map[string]any {
	id := cell.ID
	if id == "" {
		id = newCellID()
	}
	metadata := cell.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	out := map[string]any{
		"id":        id,
		"cell_type": cell.Type,
		"metadata":  metadata,
		"source":    sourceLines(cell.Source),
	}
	if cell.Type == interfaces.CellTypeCode {
		out["execution_count"] = nil
		out["outputs"] = []any{}
	}
	return out
}

// sourceLines splits cell text the way nbformat stores it: one entry per
// line, every entry except the last terminated by a newline.
func sourceLines(source string) []string {
	if source == "" {
		return []string{}
	}
	lines := strings.SplitAfter(source, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// newCellID produces an nbformat-compatible cell identifier. The format
// caps ids at 64 characters from [a-zA-Z0-9-_]; a UUID fits comfortably.
func newCellID() string {
	return uuid.NewString()
}
