// Package errdef defines the two error taxa the compiler raises: FormatError
// for YAML/schema violations and LogicError for semantic violations. Both
// carry a stable numeric code and whatever structured fields are relevant to
// the failure so a front-end can render rich diagnostics.
package errdef

import "fmt"

// FormatError signals a YAML parse or schema-validation violation.
// Codes: -1 (illegal YAML), 1 (main schema violation), 2 (imports-section
// schema violation).
type FormatError struct {
	Code    int
	Message string
	// Path is the dot-joined JSON path to the offending value, when known.
	Path string
}

func (e *FormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s; Path to error: %s", e.Message, e.Path)
	}
	return e.Message
}

// NewFormatError builds a FormatError with a formatted message.
func NewFormatError(code int, format string, args ...any) *FormatError {
	return &FormatError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// LogicError signals a semantic violation detected while compiling the plan.
// See spec catalogue: 3, 4, 7, 13, 18, 19, 21, 23, 24, 25, 26, 27, 28, 29, 30,
// 31, 40, 41, 42, 50, 60, 61, 102, 103, 108, 109, 110, 111, 112, 113 (113 is
// this implementation's own extension: a contained_in cycle, which the spec
// catalogue doesn't enumerate but §2's "no panics on valid input" requires
// detecting rather than recursing forever).
type LogicError struct {
	Code    int
	Message string

	FailedImport      string
	Implementation    string
	NodeRef           string
	SourceNodeRef     string
	TargetNodeRef     string
	RelationshipTypes []string
	Implementations   []string
}

func (e *LogicError) Error() string {
	return e.Message
}

// NewLogicError builds a LogicError with a formatted message.
func NewLogicError(code int, format string, args ...any) *LogicError {
	return &LogicError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithFailedImport attaches the failed import location and returns e for chaining.
func (e *LogicError) WithFailedImport(importURL string) *LogicError {
	e.FailedImport = importURL
	return e
}

// WithImplementation attaches the implementation name and returns e for chaining.
func (e *LogicError) WithImplementation(name string) *LogicError {
	e.Implementation = name
	return e
}

// WithNodeRef attaches the node reference and returns e for chaining.
func (e *LogicError) WithNodeRef(name string) *LogicError {
	e.NodeRef = name
	return e
}

// WithSourceTarget attaches a relationship's source/target node refs and returns e for chaining.
func (e *LogicError) WithSourceTarget(source, target string) *LogicError {
	e.SourceNodeRef = source
	e.TargetNodeRef = target
	return e
}

// WithRelationshipTypes attaches the ambiguous relationship types and returns e for chaining.
func (e *LogicError) WithRelationshipTypes(types []string) *LogicError {
	e.RelationshipTypes = types
	return e
}

// WithImplementations attaches the set of ambiguous implementation names and returns e for chaining.
func (e *LogicError) WithImplementations(names []string) *LogicError {
	e.Implementations = names
	return e
}
