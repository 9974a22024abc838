package mdext

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Directive is a block node for colon-fenced directive syntax:
//
//	:::{name} optional title
//	body lines
//	:::
//
// goldmark's stock parsers treat the construct as a paragraph, which loses
// the block boundary information the span locator depends on. Interior lines
// are kept raw; the locator never needs them parsed and rewriting works on
// the source text directly.
type Directive struct {
	ast.BaseBlock

	// Name is the braced directive tag, e.g. "note" for ":::{note}".
	Name string
	// Title is the free text following the braced tag, possibly empty.
	Title string
	// FenceChar is the fence rune (':') recorded for closing-fence matching.
	FenceChar byte
	// FenceLength is the length of the opening fence run.
	FenceLength int
	// Offset is the byte offset of the opening fence within the source.
	Offset int
}

// KindDirective is the node kind registered for colon-fenced directives.
var KindDirective = ast.NewNodeKind("Directive")

// Kind implements ast.Node.
func (n *Directive) Kind() ast.NodeKind {
	return KindDirective
}

// IsRaw reports that interior lines are stored verbatim and must not be
// parsed as children.
func (n *Directive) IsRaw() bool {
	return true
}

// Dump implements ast.Node.
func (n *Directive) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name":  n.Name,
		"Title": n.Title,
	}, nil)
}

// NewDirective returns a directive block for the given header values.
func NewDirective(name, title string, fenceChar byte, fenceLength, offset int) *Directive {
	return &Directive{
		Name:        name,
		Title:       title,
		FenceChar:   fenceChar,
		FenceLength: fenceLength,
		Offset:      offset,
	}
}

type directiveParser struct{}

var defaultDirectiveParser = &directiveParser{}

// NewDirectiveParser returns a block parser recognising colon-fenced
// directive blocks.
func NewDirectiveParser() parser.BlockParser {
	return defaultDirectiveParser
}

func (p *directiveParser) Trigger() []byte {
	return []byte{':'}
}

func (p *directiveParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos >= len(line) || line[pos] != ':' {
		return nil, parser.NoChildren
	}

	i := pos
	for ; i < len(line) && line[i] == ':'; i++ {
	}
	fenceLength := i - pos
	if fenceLength < 3 {
		return nil, parser.NoChildren
	}

	name, title, ok := parseDirectiveHeader(line[i:])
	if !ok {
		return nil, parser.NoChildren
	}

	node := NewDirective(name, title, ':', fenceLength, segment.Start+pos)
	return node, parser.NoChildren
}

func (p *directiveParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	directive := node.(*Directive)

	if isClosingFence(line, directive.FenceChar, directive.FenceLength) {
		reader.Advance(segment.Len() - 1)
		return parser.Close
	}

	node.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (p *directiveParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	// Unclosed directives run to the end of the enclosing block, matching
	// how the source dialect treats a missing closing fence.
}

func (p *directiveParser) CanInterruptParagraph() bool {
	return true
}

func (p *directiveParser) CanAcceptIndentedLine() bool {
	return false
}

// parseDirectiveHeader extracts the braced tag and trailing title from the
// remainder of an opening fence line. The tag must be non-empty and consist
// of word characters or hyphens.
func parseDirectiveHeader(rest []byte) (name string, title string, ok bool) {
	rest = util.TrimLeftSpace(rest)
	rest = util.TrimRightSpace(rest)
	if len(rest) < 3 || rest[0] != '{' {
		return "", "", false
	}

	end := -1
	for i := 1; i < len(rest); i++ {
		if rest[i] == '}' {
			end = i
			break
		}
		if !isDirectiveNameChar(rest[i]) {
			return "", "", false
		}
	}
	if end <= 1 {
		return "", "", false
	}

	name = string(rest[1:end])
	title = string(util.TrimLeftSpace(rest[end+1:]))
	return name, title, true
}

func isDirectiveNameChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}

// isClosingFence reports whether line is a run of at least length fence
// characters with nothing but whitespace around it.
func isClosingFence(line []byte, fenceChar byte, length int) bool {
	trimmed := util.TrimLeftSpace(line)
	i := 0
	for ; i < len(trimmed) && trimmed[i] == fenceChar; i++ {
	}
	if i < length {
		return false
	}
	return util.IsBlank(trimmed[i:])
}

type directiveExtension struct{}

// DirectiveExtension registers the colon-fence directive parser with a
// goldmark instance.
var DirectiveExtension goldmark.Extender = &directiveExtension{}

func (e *directiveExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		util.Prioritized(NewDirectiveParser(), 550),
	))
}
