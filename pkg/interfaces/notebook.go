package interfaces

import "context"

// Cell types recognised by the notebook model. The converter only produces
// markdown and code cells; raw cells are preserved when a reader emits them.
const (
	CellTypeMarkdown = "markdown"
	CellTypeCode     = "code"
	CellTypeRaw      = "raw"
)

// FormatExtendedMarkdown identifies the extended-markdown notebook dialect
// (YAML metadata header plus braced fenced code chunks). Readers must reject
// any other format identifier so callers cannot silently feed an unsupported
// dialect through the pipeline.
const FormatExtendedMarkdown = "extended-markdown-notebook"

// Notebook is an ordered sequence of content cells plus a metadata map. It is
// the unit of output handed to the target execution runtime. The converter
// constructs a notebook from rewritten document text and patches its
// kernelspec; it never mutates cells after construction.
type Notebook struct {
	Cells         []Cell
	Metadata      map[string]any
	NBFormat      int
	NBFormatMinor int
}

// Cell holds a single unit of notebook content. Source keeps the cell text as
// a plain string with interior newlines; serialisation into per-line arrays is
// a writer concern.
type Cell struct {
	ID       string
	Type     string
	Source   string
	Metadata map[string]any
}

// Kernelspec names the execution kernel recorded in notebook metadata.
type Kernelspec struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// SetKernelspec replaces the notebook's kernelspec metadata entry.
func (nb *Notebook) SetKernelspec(spec Kernelspec) {
	if nb.Metadata == nil {
		nb.Metadata = map[string]any{}
	}
	nb.Metadata["kernelspec"] = map[string]any{
		"name":         spec.Name,
		"display_name": spec.DisplayName,
	}
}

// NotebookReader materialises a structured notebook from document text. The
// format identifier selects the source dialect; FormatExtendedMarkdown is the
// only dialect this module ships.
type NotebookReader interface {
	Read(text string, format string) (*Notebook, error)
}

// NotebookWriter serialises a notebook to the destination path.
type NotebookWriter interface {
	Write(nb *Notebook, path string) error
}

// ConvertService exposes the document and directory conversion workflows.
// ProcessDocument transforms one document's text into a notebook without
// touching storage; ProcessDirectory walks an input directory, writes one
// output notebook per matched file, and emits the runtime manifest.
type ConvertService interface {
	ProcessDocument(ctx context.Context, text string) (*Notebook, error)
	ProcessFile(ctx context.Context, path string) (*Notebook, error)
	ProcessDirectory(ctx context.Context, inputDir, outputDir string) (*ConvertResult, error)
}

// ConvertResult summarises a directory conversion run.
type ConvertResult struct {
	Converted []string
	Skipped   []string
	Errors    []error
}
