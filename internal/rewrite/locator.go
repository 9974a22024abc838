package rewrite

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gtext "github.com/yuin/goldmark/text"

	"github.com/coursekit/nblite/internal/mdext"
)

// AdmonitionSpan identifies one admonition block inside a document snapshot:
// the 0-indexed line of its opening fence, the 0-indexed line of its matching
// closing fence, the braced type tag, and the optional free-text title.
// Spans are computed fresh per snapshot and never survive a rewrite.
type AdmonitionSpan struct {
	StartLine int
	EndLine   int
	Type      string
	Title     string
}

// admonitionTypes enumerates the directive names treated as admonitions.
// The set mirrors the source dialect's admonition classes.
var admonitionTypes = map[string]struct{}{
	"admonition": {},
	"attention":  {},
	"caution":    {},
	"danger":     {},
	"error":      {},
	"hint":       {},
	"important":  {},
	"note":       {},
	"seealso":    {},
	"tip":        {},
	"warning":    {},
}

// newLocatorEngine builds the goldmark instance used for span location. The
// extension set is a compatibility contract: removing an entry changes which
// constructs parse as discrete blocks, which shifts the tree adjacency the
// end-of-block scan depends on. Do not alter it without revisiting every
// fixture.
func newLocatorEngine() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(
		mdext.DirectiveExtension,
		extension.Table,
		extension.Strikethrough,
		extension.Linkify,
		extension.TaskList,
		extension.DefinitionList,
		extension.Footnote,
		extension.Typographer,
	))
}

// closingFenceRe matches a line consisting solely of a three-or-more run of
// backtick, colon, or tilde characters, optionally surrounded by whitespace.
var closingFenceRe = regexp.MustCompile("^[ \t]*(?:`{3,}|:{3,}|~{3,})[ \t]*$")

// fencedInfoRe extracts the braced type tag and optional title from a fenced
// code block info string such as "{note} Remember".
var fencedInfoRe = regexp.MustCompile(`^\{([A-Za-z0-9_-]+)\}[ \t]*(.*)$`)

// LocateAdmonitions parses text with the fixed-extension goldmark engine and
// returns one span per admonition-class block, in document order. The start
// line comes straight from the parsed node; the end line is recovered by
// scanning backward from the next block's line (or the end of the document)
// until a closing fence is found. A missing closing fence is a structural
// error.
func LocateAdmonitions(text string) ([]AdmonitionSpan, error) {
	source := []byte(text)
	doc := newLocatorEngine().Parser().Parse(gtext.NewReader(source))

	index := newLineIndex(source)
	lines := strings.Split(text, "\n")

	var spans []AdmonitionSpan
	walkErr := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		name, title, offset, ok := admonitionNode(n, source)
		if !ok {
			return ast.WalkContinue, nil
		}

		start := index.lineAt(offset)
		end, err := findClosingFence(lines, start, boundaryLine(n, source, index, len(lines)))
		if err != nil {
			return ast.WalkStop, err
		}

		spans = append(spans, AdmonitionSpan{
			StartLine: start,
			EndLine:   end,
			Type:      name,
			Title:     title,
		})
		return ast.WalkSkipChildren, nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.SliceStable(spans, func(i, j int) bool { return spans[i].StartLine < spans[j].StartLine })
	return spans, nil
}

// admonitionNode reports whether n is an admonition-class block and, if so,
// returns its type tag, title, and the byte offset of its opening fence line.
// Both colon-fenced directives and backtick/tilde fences with a braced info
// string qualify.
func admonitionNode(n ast.Node, source []byte) (name, title string, offset int, ok bool) {
	switch node := n.(type) {
	case *mdext.Directive:
		if _, found := admonitionTypes[node.Name]; !found {
			return "", "", 0, false
		}
		return node.Name, node.Title, node.Offset, true
	case *ast.FencedCodeBlock:
		if node.Info == nil {
			return "", "", 0, false
		}
		info := node.Info.Segment.Value(source)
		m := fencedInfoRe.FindSubmatch(info)
		if m == nil {
			return "", "", 0, false
		}
		if _, found := admonitionTypes[string(m[1])]; !found {
			return "", "", 0, false
		}
		return string(m[1]), strings.TrimSpace(string(m[2])), node.Info.Segment.Start, true
	}
	return "", "", 0, false
}

// boundaryLine returns the 0-indexed line just above the next block after n,
// walking up the tree until a sibling with a resolvable source position is
// found. When no following block exists the last line of the document bounds
// the scan.
func boundaryLine(n ast.Node, source []byte, index *lineIndex, lineCount int) int {
	for cur := n; cur != nil; cur = cur.Parent() {
		for sib := cur.NextSibling(); sib != nil; sib = sib.NextSibling() {
			if offset, ok := nodeStartOffset(sib, source); ok {
				return index.lineAt(offset) - 1
			}
		}
	}
	return lineCount - 1
}

// nodeStartOffset resolves the byte offset where a block node begins in the
// source. Nodes without recorded segments (thematic breaks, empty containers)
// report false so the caller can keep searching.
func nodeStartOffset(n ast.Node, source []byte) (int, bool) {
	if directive, ok := n.(*mdext.Directive); ok {
		return directive.Offset, true
	}
	if fenced, ok := n.(*ast.FencedCodeBlock); ok && fenced.Info != nil {
		return fenced.Info.Segment.Start, true
	}
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(0).Start, true
		}
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if offset, ok := nodeStartOffset(child, source); ok {
			return offset, true
		}
	}
	return 0, false
}

// findClosingFence scans backward from ceiling toward start+1 for the first
// fence-only line. The floor excludes the opening line itself; a fence
// directly below it closes an empty admonition.
func findClosingFence(lines []string, start, ceiling int) (int, error) {
	if ceiling > len(lines)-1 {
		ceiling = len(lines) - 1
	}
	for line := ceiling; line > start; line-- {
		if closingFenceRe.MatchString(lines[line]) {
			return line, nil
		}
	}
	return 0, newStructuralError(codeAdmonitionEndNotFound,
		"could not find end of admonition", map[string]any{
			"start_line": start,
			"ceiling":    ceiling,
			"opening":    lines[start],
		})
}

// lineIndex maps byte offsets to 0-indexed line numbers.
type lineIndex struct {
	starts []int
}

func newLineIndex(source []byte) *lineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (l *lineIndex) lineAt(offset int) int {
	return sort.Search(len(l.starts), func(i int) bool {
		return l.starts[i] > offset
	}) - 1
}
