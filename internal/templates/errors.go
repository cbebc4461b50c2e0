package templates

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError reports that the expected template file does not exist.
// Suggestions holds close language matches from the same category, if any.
type NotFoundError struct {
	Filename    string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template '%s' not found", e.Filename)
}

// ReadError reports that a template path exists (or may exist) but could not
// be read.
type ReadError struct {
	Filename string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading '%s': %v", e.Filename, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// InvalidNameError reports a lookup whose filename would leave the templates
// directory. Nothing is read.
type InvalidNameError struct {
	Filename string
	Reason   string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("template '%s' rejected: %s", e.Filename, e.Reason)
}

// DirectoryError reports that the templates directory could not be enumerated.
type DirectoryError struct {
	Dir string
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("cannot read templates directory %s: %v", e.Dir, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// Sentinel renders err as the plain-text message returned to tool callers.
// Every result starts with "Error".
func Sentinel(err error) string {
	if err == nil {
		return ""
	}

	var (
		notFound *NotFoundError
		readErr  *ReadError
		invalid  *InvalidNameError
		dirErr   *DirectoryError
	)

	switch {
	case errors.As(err, &notFound):
		msg := fmt.Sprintf("Error: Template '%s' not found", notFound.Filename)
		if len(notFound.Suggestions) > 0 {
			msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(notFound.Suggestions, ", "))
		}
		return msg
	case errors.As(err, &readErr):
		return fmt.Sprintf("Error reading '%s': %v", readErr.Filename, readErr.Err)
	case errors.As(err, &invalid):
		return fmt.Sprintf("Error: Template '%s' rejected: %s", invalid.Filename, invalid.Reason)
	case errors.As(err, &dirErr):
		return fmt.Sprintf("Error listing templates: %v", dirErr.Err)
	default:
		return "Error: " + err.Error()
	}
}
