package tokenpress

import (
	"errors"
	"fmt"
	"strings"

	"github.com/avaldez/tokenpress/pkg/tokenpress/resolve"
)

// Sentinel errors for processing.
var (
	// ErrNilContext indicates a processing method was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrNoInput indicates an Input carries neither text nor a file path.
	ErrNoInput = errors.New("input has neither text nor path")
)

// ValidationError reports that strict validation rejected a template
// before any substitution took place.
type ValidationError struct {
	// Template is the template name.
	Template string
	// Missing lists the unresolved tokens, in token order.
	Missing []resolve.Missing
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	names := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		names[i] = m.Token
	}
	return fmt.Sprintf("validation failed for %s: missing %s",
		e.Template, strings.Join(names, ", "))
}

// FileError records one template that failed inside a batch.
type FileError struct {
	// Name is the template name.
	Name string
	// Path is the source file path, empty for inline inputs.
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("process %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *FileError) Unwrap() error {
	return e.Err
}
