package custom_errors

import (
	"errors"
	"strings"
)

// FieldError ties a user-facing message to the input it concerns. Field is
// empty for checks that span several inputs.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationError collects every problem found in one pass over an input so
// callers can report them together. The first entry is the one shown to users.
type ValidationError struct {
	Errors []error `json:"errors"`
}

func (c *ValidationError) Add(err error) {
	if err == nil {
		return
	}
	c.Errors = append(c.Errors, err)
}

func (c *ValidationError) AddField(field, message string) {
	c.Add(&FieldError{Field: field, Message: message})
}

func (c *ValidationError) HasError() bool {
	return len(c.Errors) > 0
}

// First returns the message of the first collected error, without its field
// prefix, or an empty string.
func (c *ValidationError) First() string {
	if len(c.Errors) == 0 {
		return ""
	}
	var fe *FieldError
	if errors.As(c.Errors[0], &fe) {
		return fe.Message
	}
	return c.Errors[0].Error()
}

// Fields lists the inputs that failed, in the order they were reported.
func (c *ValidationError) Fields() []string {
	var fields []string
	for _, err := range c.Errors {
		var fe *FieldError
		if errors.As(err, &fe) && fe.Field != "" {
			fields = append(fields, fe.Field)
		}
	}
	return fields
}

// Err returns c when something was collected and nil otherwise, so a builder
// can end with "return v.Err()".
func (c *ValidationError) Err() error {
	if !c.HasError() {
		return nil
	}
	return c
}

func (c *ValidationError) Unwrap() []error {
	return c.Errors
}

func (c *ValidationError) Error() string {
	msgs := make([]string, len(c.Errors))
	for i, err := range c.Errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
