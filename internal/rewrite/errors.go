package rewrite

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	codeAdmonitionEndNotFound = "ADMONITION_END_NOT_FOUND"
	codeAdmonitionBadHeader   = "ADMONITION_HEADER_MISMATCH"
	codeMarkerSequence        = "MARKER_SEQUENCE_VIOLATION"
)

// newStructuralError reports a document whose block structure cannot be
// resolved: a missing closing fence or an opening line that does not match
// the locator's contract. Structural errors abort the current document.
func newStructuralError(code, message string, meta map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryValidation).WithTextCode(code)
	if len(meta) > 0 {
		err = err.WithMetadata(meta)
	}
	return err
}

// newMarkerSequencingError reports an exercise/solution marker that violates
// the start/end alternation contract. Sequencing errors abort the current
// document; silently mismatched regions would corrupt reader-facing output
// undetectably.
func newMarkerSequencingError(message string, meta map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryValidation).WithTextCode(codeMarkerSequence)
	if len(meta) > 0 {
		err = err.WithMetadata(meta)
	}
	return err
}

// IsStructuralParseError reports whether err was raised by the admonition
// locator or rewriter while resolving block structure.
func IsStructuralParseError(err error) bool {
	return hasTextCode(err, codeAdmonitionEndNotFound) || hasTextCode(err, codeAdmonitionBadHeader)
}

// IsMarkerSequencingError reports whether err was raised by the
// exercise/solution marker state machine.
func IsMarkerSequencingError(err error) bool {
	return hasTextCode(err, codeMarkerSequence)
}

func hasTextCode(err error, code string) bool {
	var wrapped *goerrors.Error
	if !errors.As(err, &wrapped) {
		return false
	}
	return wrapped.TextCode == code
}
