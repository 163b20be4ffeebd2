package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when the source ends before a section is complete.
	ErrTruncated = errors.New("malformed or truncated layout source")
	// ErrMalformed is returned when a line does not match the expected grammar.
	ErrMalformed = errors.New("unexpected layout source line")
	// ErrUnknownModifier is returned for modifier tokens outside the known vocabulary.
	ErrUnknownModifier = errors.New("unknown modifier")
	// ErrLevelRange is returned when an activation map references a level the
	// key type does not declare.
	ErrLevelRange = errors.New("level out of range")
	// ErrKeyCount is returned when the key name table or the key map disagrees
	// with NUM_KEYS.
	ErrKeyCount = errors.New("key count mismatch")

	ErrPushBackPending   = errors.New("cursor: push back already pending")
	ErrNothingToPushBack = errors.New("cursor: no line to push back")
)

// ParseError describes where in the generated source a scanner failed.
type ParseError struct {
	Section  string
	Line     int
	Expected string
	Actual   string
	Err      error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Section, e.Err)
	if e.Line > 0 {
		msg = fmt.Sprintf("%s: line %d: %v", e.Section, e.Line, e.Err)
	}
	switch {
	case e.Expected != "":
		msg += fmt.Sprintf(": expected %s, got %q", e.Expected, e.Actual)
	case e.Actual != "":
		msg += fmt.Sprintf(": in %q", e.Actual)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Diagnostic is a tolerated anomaly found while scanning. Parsing continues
// after a diagnostic has been recorded.
type Diagnostic struct {
	Section string
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: line %d: %s", d.Section, d.Line, d.Message)
}
