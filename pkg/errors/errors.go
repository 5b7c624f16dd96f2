package errors

import (
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration issues: bad settings, malformed
// component definitions, unknown references.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExpressionError reports a colour, shadow or slot-function expression that
// could not be parsed or evaluated.
type ExpressionError struct {
	Expr    string
	Message string
	Err     error
}

// NewExpressionError constructs an ExpressionError.
func NewExpressionError(expr, message string, err error) error {
	return &ExpressionError{Expr: expr, Message: message, Err: err}
}

func (e *ExpressionError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Expr != "" {
		return fmt.Sprintf("expression error in %q: %s", e.Expr, msg)
	}
	return fmt.Sprintf("expression error: %s", msg)
}

// Unwrap exposes the underlying error.
func (e *ExpressionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConsistencyError marks a broken processing invariant inside the resolver,
// such as a virtual component resolving before its real ancestor was emitted.
type ConsistencyError struct {
	Component string
	Selector  string
	Message   string
}

// NewConsistencyError constructs a ConsistencyError.
func NewConsistencyError(component, selector, message string) error {
	return &ConsistencyError{Component: component, Selector: selector, Message: message}
}

func (e *ConsistencyError) Error() string {
	if e == nil {
		return ""
	}
	if e.Selector != "" {
		return fmt.Sprintf("consistency error [%s @ %q]: %s", e.Component, e.Selector, e.Message)
	}
	return fmt.Sprintf("consistency error [%s]: %s", e.Component, e.Message)
}

// TaskError wraps the failure of one deferred subtree expansion.
type TaskError struct {
	Path string
	Err  error
}

// NewTaskError constructs a TaskError for the component path that failed.
func NewTaskError(path string, err error) error {
	return &TaskError{Path: path, Err: err}
}

func (e *TaskError) Error() string {
	if e == nil {
		return ""
	}
	if e.Path != "" {
		return fmt.Sprintf("lazy task %s failed: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("lazy task failed: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *TaskError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
