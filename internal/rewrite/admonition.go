package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// admonitionHeaderRe re-parses an opening fence line located by
// LocateAdmonitions: an optional fence marker, the braced type tag, then
// free text as the title. A located line that fails this match signals a
// disagreement between locator and rewriter, which is fatal.
var admonitionHeaderRe = regexp.MustCompile("^(?:[`:~]{3,}[ \t]*)?\\{([A-Za-z0-9_-]+)\\}[ \t]*(.*)$")

// RewriteAdmonitions replaces each admonition's opening line with
// "**Start of <type>: <title>**" and its closing fence with
// "**End of <type>**", leaving every interior line byte-identical. All spans
// are applied over a single line array; replacements are one line for one
// line, so locator indices stay valid for later spans.
func RewriteAdmonitions(text string) (string, error) {
	spans, err := LocateAdmonitions(text)
	if err != nil {
		return "", err
	}
	if len(spans) == 0 {
		return text, nil
	}

	lines := strings.Split(text, "\n")
	for _, span := range spans {
		opening := lines[span.StartLine]
		m := admonitionHeaderRe.FindStringSubmatch(opening)
		if m == nil {
			return "", newStructuralError(codeAdmonitionBadHeader,
				"admonition opening line does not match header pattern", map[string]any{
					"line":    span.StartLine,
					"content": opening,
				})
		}

		name := m[1]
		title := strings.TrimSpace(m[2])
		if title != "" {
			lines[span.StartLine] = fmt.Sprintf("**Start of %s: %s**", name, title)
		} else {
			lines[span.StartLine] = fmt.Sprintf("**Start of %s**", name)
		}
		lines[span.EndLine] = fmt.Sprintf("**End of %s**", name)
	}

	return strings.Join(lines, "\n"), nil
}
