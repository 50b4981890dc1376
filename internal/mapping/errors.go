package mapping

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorKind classifies mapping table failures
type ErrorKind int

const (
	// ErrKindRead indicates the table file could not be read
	ErrKindRead ErrorKind = iota
	// ErrKindFormat indicates an unsupported file extension
	ErrKindFormat
	// ErrKindParse indicates malformed YAML or JSON
	ErrKindParse
	// ErrKindSchema indicates well-formed data with a missing or mistyped field
	ErrKindSchema
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrKindRead:
		return "Read Error"
	case ErrKindFormat:
		return "Format Error"
	case ErrKindParse:
		return "Parse Error"
	case ErrKindSchema:
		return "Schema Error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// LoadError describes why a mapping table could not be loaded.
type LoadError struct {
	Kind    ErrorKind
	Path    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	prefix := e.Kind.String()
	if e.Path != "" {
		prefix = fmt.Sprintf("%s in %s", prefix, e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error
func (e *LoadError) Unwrap() error {
	return e.Err
}

func newSchemaError(format string, args ...any) *LoadError {
	return &LoadError{Kind: ErrKindSchema, Message: fmt.Sprintf(format, args...)}
}

// IsParseError reports whether err is a malformed-document failure
func IsParseError(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == ErrKindParse
}

// IsSchemaError reports whether err is a missing or mistyped field failure
func IsSchemaError(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == ErrKindSchema
}

// IsNotFound reports whether err was caused by a missing table file
func IsNotFound(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == ErrKindRead && errors.Is(le.Err, fs.ErrNotExist)
}
