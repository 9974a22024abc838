package notebook

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/coursekit/nblite/pkg/interfaces"
)

// chunkOpenRe matches the opening line of a fenced code chunk: three or more
// backticks, then a braced tag whose first token is the chunk language,
// optionally followed by chunk options inside the braces.
var chunkOpenRe = regexp.MustCompile("^(`{3,})\\{([A-Za-z][A-Za-z0-9_+-]*)([^}]*)\\}[ \t]*$")

// Reader materialises extended-markdown notebook documents. The dialect is a
// YAML metadata header followed by prose interleaved with braced code
// chunks; prose between chunks becomes markdown cells, chunk interiors
// become code cells.
type Reader struct{}

// NewReader returns a reader for the extended-markdown notebook dialect.
func NewReader() *Reader {
	return &Reader{}
}

// Read parses document text into a notebook. Only
// interfaces.FormatExtendedMarkdown is recognised; any other identifier is
// rejected so unsupported dialects fail loudly instead of producing a
// half-parsed notebook.
func (r *Reader) Read(text string, format string) (*interfaces.Notebook, error) {
	if format != interfaces.FormatExtendedMarkdown {
		return nil, fmt.Errorf("notebook reader: unsupported format %q", format)
	}

	meta, body, err := splitMetadata(text)
	if err != nil {
		return nil, fmt.Errorf("notebook reader: %w", err)
	}

	nb := &interfaces.Notebook{
		Cells:         splitCells(body),
		Metadata:      meta,
		NBFormat:      4,
		NBFormatMinor: 5,
	}
	return nb, nil
}

// splitMetadata extracts the YAML header into a metadata map and returns the
// remaining body text. Documents without a header yield an empty map.
func splitMetadata(text string) (map[string]any, string, error) {
	meta := map[string]any{}
	rest, err := frontmatter.Parse(strings.NewReader(text), &meta)
	if err != nil {
		if err == io.EOF {
			return map[string]any{}, text, nil
		}
		return nil, "", fmt.Errorf("parse metadata header: %w", err)
	}
	return normalizeMap(meta), string(rest), nil
}

// normalizeMap rewrites the interface-keyed maps yaml produces for nested
// header values into string-keyed maps. Without this the metadata cannot be
// JSON-serialised and every document with a nested header fails to write.
func normalizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(v any) any {
	switch value := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(value))
		for key, item := range value {
			out[fmt.Sprint(key)] = normalizeValue(item)
		}
		return out
	case map[string]any:
		return normalizeMap(value)
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

// splitCells walks the body line by line, alternating between markdown spans
// and fenced code chunks. Markdown cells drop blank edge lines; code cell
// interiors are kept byte-identical.
func splitCells(body string) []interfaces.Cell {
	lines := strings.Split(body, "\n")
	cells := make([]interfaces.Cell, 0, 8)

	var prose []string
	flushProse := func() {
		trimmed := trimBlankEdges(prose)
		prose = prose[:0]
		if len(trimmed) == 0 {
			return
		}
		cells = append(cells, newCell(interfaces.CellTypeMarkdown, strings.Join(trimmed, "\n")))
	}

	for i := 0; i < len(lines); i++ {
		m := chunkOpenRe.FindStringSubmatch(lines[i])
		if m == nil {
			prose = append(prose, lines[i])
			continue
		}

		closing := findChunkClose(lines, i+1, len(m[1]))
		if closing < 0 {
			// Unterminated chunk: treat the remainder as prose rather
			// than guessing at a boundary.
			prose = append(prose, lines[i])
			continue
		}

		flushProse()
		cells = append(cells, newCell(interfaces.CellTypeCode, strings.Join(lines[i+1:closing], "\n")))
		i = closing
	}
	flushProse()

	return cells
}

// findChunkClose returns the index of the first line at or after from that
// closes a chunk opened with fenceLength backticks, or -1 when none exists.
// Closing fences may carry surrounding whitespace.
func findChunkClose(lines []string, from, fenceLength int) int {
	for i := from; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if len(trimmed) >= fenceLength && strings.Count(trimmed, "`") == len(trimmed) {
			return i
		}
	}
	return -1
}

func trimBlankEdges(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

func newCell(cellType, source string) interfaces.Cell {
	return interfaces.Cell{
		ID:       newCellID(),
		Type:     cellType,
		Source:   source,
		Metadata: map[string]any{},
	}
}
