package mdext

import (
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
)

func parseDirectives(t *testing.T, source string) []*Directive {
	t.Helper()

	md := goldmark.New(goldmark.WithExtensions(DirectiveExtension))
	doc := md.Parser().Parse(gtext.NewReader([]byte(source)))

	var found []*Directive
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if directive, ok := n.(*Directive); ok {
			found = append(found, directive)
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	return found
}

func TestDirectiveParsing(t *testing.T) {
	source := "before\n\n:::{note} Mind the gap\nbody line one\nbody line two\n:::\n\nafter\n"

	directives := parseDirectives(t, source)
	if len(directives) != 1 {
		t.Fatalf("expected 1 directive, got %d", len(directives))
	}

	d := directives[0]
	if d.Name != "note" {
		t.Fatalf("Name mismatch, got %q", d.Name)
	}
	if d.Title != "Mind the gap" {
		t.Fatalf("Title mismatch, got %q", d.Title)
	}
	if d.FenceLength != 3 {
		t.Fatalf("FenceLength mismatch, got %d", d.FenceLength)
	}
	if want := len("before\n\n"); d.Offset != want {
		t.Fatalf("Offset mismatch, got %d want %d", d.Offset, want)
	}
	if d.Lines().Len() != 2 {
		t.Fatalf("expected 2 raw body lines, got %d", d.Lines().Len())
	}
}

func TestDirectiveWithoutTitle(t *testing.T) {
	directives := parseDirectives(t, "::::{warning}\nstay alert\n::::\n")
	if len(directives) != 1 {
		t.Fatalf("expected 1 directive, got %d", len(directives))
	}
	if directives[0].Title != "" {
		t.Fatalf("expected empty title, got %q", directives[0].Title)
	}
	if directives[0].FenceLength != 4 {
		t.Fatalf("FenceLength mismatch, got %d", directives[0].FenceLength)
	}
}

func TestDirectiveUnclosedRunsToEnd(t *testing.T) {
	directives := parseDirectives(t, ":::{tip} Unclosed\nline one\nline two\n")
	if len(directives) != 1 {
		t.Fatalf("expected 1 directive, got %d", len(directives))
	}
	if directives[0].Lines().Len() != 2 {
		t.Fatalf("expected directive to swallow remaining lines, got %d", directives[0].Lines().Len())
	}
}

func TestColonRunWithoutTagIsNotADirective(t *testing.T) {
	if directives := parseDirectives(t, "::: just a paragraph\n"); len(directives) != 0 {
		t.Fatalf("expected no directives, got %d", len(directives))
	}
	if directives := parseDirectives(t, "::\ntoo short\n"); len(directives) != 0 {
		t.Fatalf("expected no directives for short fence, got %d", len(directives))
	}
}

func TestShorterInteriorFenceDoesNotClose(t *testing.T) {
	source := "::::{note} Outer\ninterior\n:::\nstill interior\n::::\n"
	directives := parseDirectives(t, source)
	if len(directives) != 1 {
		t.Fatalf("expected 1 directive, got %d", len(directives))
	}
	if directives[0].Lines().Len() != 3 {
		t.Fatalf("expected 3 interior lines, got %d", directives[0].Lines().Len())
	}
}
