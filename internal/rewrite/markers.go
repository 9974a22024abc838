package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// Marker replacement output. Exercise markers become reader-facing text
// immediately; solution markers become HTML-comment machine markers consumed
// by the collapse pass.
const (
	exerciseStartText = "**Start of exercise**"
	exerciseEndText   = "**End of exercise**"
	solutionStartMark = "<!-- start-solution -->"
	solutionEndMark   = "<!-- end-solution -->"
	solutionPlacehold = "**See page for solution**"
)

const fencePattern = "(?:`{3,}|:{3,}|~{3,})"

// markerRe matches one exercise/solution marker: leading blank lines
// (captured so surrounding spacing survives), the fence line carrying the
// braced directive tag, any ":key: value" attribute lines, and an optional
// closing fence. Attribute lines and fences are consumed with the marker.
// RE2 has no backreferences, so the closing fence matches any fence style,
// not just the opening one; a stray foreign-style fence directly under a
// marker is consumed with it.
var markerRe = regexp.MustCompile(
	`(?m)^(\n*)` + fencePattern + `[ \t]*\{(exercise|solution)-(start|end)\}[^\n]*(?:\n|$)` +
		`(?::[^\n:]+:[^\n]*(?:\n|$))*` +
		`(?:` + fencePattern + `[ \t]*(?:\n|$))?`,
)

// solutionRegionRe matches a whole solution-marked region, delimiters and
// interior included, non-greedily across lines.
var solutionRegionRe = regexp.MustCompile(`(?s)` +
	regexp.QuoteMeta(solutionStartMark) + `.*?` + regexp.QuoteMeta(solutionEndMark) + `(?:\n|$)`)

// markerState tracks which region kind is currently open. Markers of each
// kind must strictly alternate start/end, and only one region can be open at
// a time.
type markerState int

const (
	stateOutside markerState = iota
	stateInsideExercise
	stateInsideSolution
)

func (s markerState) String() string {
	switch s {
	case stateInsideExercise:
		return "inside-exercise"
	case stateInsideSolution:
		return "inside-solution"
	default:
		return "outside"
	}
}

// transition applies one marker to the state machine, returning the next
// state or a sequencing error naming the offending marker and current state.
func (s markerState) transition(kind, boundary string) (markerState, error) {
	switch {
	case kind == "exercise" && boundary == "start" && s == stateOutside:
		return stateInsideExercise, nil
	case kind == "exercise" && boundary == "end" && s == stateInsideExercise:
		return stateOutside, nil
	case kind == "solution" && boundary == "start" && s == stateOutside:
		return stateInsideSolution, nil
	case kind == "solution" && boundary == "end" && s == stateInsideSolution:
		return stateOutside, nil
	}
	return s, newMarkerSequencingError(
		fmt.Sprintf("unexpected {%s-%s} marker in state %s", kind, boundary, s),
		map[string]any{
			"marker": fmt.Sprintf("{%s-%s}", kind, boundary),
			"state":  s.String(),
		})
}

// RewriteExerciseSolution rewrites exercise and solution regions in two
// passes over the raw text. The first pass substitutes each fence marker
// (validating start/end alternation as it goes); the second collapses every
// solution-marked region into a single placeholder line. No structural parse
// is involved; markers are pattern-matched directly.
func RewriteExerciseSolution(text string) (string, error) {
	matches := markerRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return collapseSolutions(text), nil
	}

	state := stateOutside
	var out strings.Builder
	out.Grow(len(text))
	cursor := 0

	for _, m := range matches {
		start, end := m[0], m[1]
		blanks := text[m[2]:m[3]]
		kind := text[m[4]:m[5]]
		boundary := text[m[6]:m[7]]

		next, err := state.transition(kind, boundary)
		if err != nil {
			return "", err
		}
		state = next

		out.WriteString(text[cursor:start])
		out.WriteString(blanks)
		out.WriteString(markerReplacement(kind, boundary))
		out.WriteByte('\n')
		cursor = end
	}
	out.WriteString(text[cursor:])

	if state != stateOutside {
		return "", newMarkerSequencingError(
			fmt.Sprintf("document ended in state %s with region still open", state),
			map[string]any{"state": state.String()})
	}

	return collapseSolutions(out.String()), nil
}

func markerReplacement(kind, boundary string) string {
	if kind == "exercise" {
		if boundary == "start" {
			return exerciseStartText
		}
		return exerciseEndText
	}
	if boundary == "start" {
		return solutionStartMark
	}
	return solutionEndMark
}

// collapseSolutions replaces each solution-marked region, delimiters and all
// interior content, with the placeholder line. Regions already present in
// the source collapse the same way as ones produced by marker substitution.
func collapseSolutions(text string) string {
	return solutionRegionRe.ReplaceAllString(text, solutionPlacehold+"\n")
}
