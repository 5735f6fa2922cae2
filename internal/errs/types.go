package errs

import (
	"encoding/json"
	"strings"
)

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "email", "error": "must be a valid email address" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// String renders the error as "<field>: <message>".
func (f FieldError) String() string {
	return f.Field + ": " + f.Error
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	// ActionTypeRedirect tells the client to navigate to Value, e.g. the
	// sign-in page after a 401.
	ActionTypeRedirect ActionType = "redirect"
)

// Action describes an optional "what the client should do next" instruction,
// e.g. redirect to sign-in.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the error half of the response envelope.
//
// It implements the `error` interface and serializes as
//
//	{
//	  "success": false,
//	  "error":   "Validation failed",
//	  "code":    "BAD_REQUEST",
//	  "status":  400,
//	  "details": ["email: must be a valid email address"],
//	  "errors":  [{"field": "email", "error": "must be a valid email address"}]
//	}
//
// Override signals that Message is safe to show to end users as-is.
type HTTPError struct {
	Code     string
	Message  string
	Status   int
	Override bool

	// Errors holds field-level validation errors.
	Errors []FieldError

	// Action is an optional client instruction (redirect, etc.).
	Action *Action
}

type envelope struct {
	Success  bool         `json:"success"`
	Error    string       `json:"error"`
	Code     string       `json:"code"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Details  []string     `json:"details,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
	Action   *Action      `json:"action,omitempty"`
}

// MarshalJSON writes the error envelope. success is always false.
func (e HTTPError) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelope{
		Success:  false,
		Error:    e.Message,
		Code:     e.Code,
		Status:   e.Status,
		Override: e.Override,
		Details:  e.Details(),
		Errors:   e.Errors,
		Action:   e.Action,
	})
}

// UnmarshalJSON reads an envelope back, mostly for tests and API clients.
func (e *HTTPError) UnmarshalJSON(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	*e = HTTPError{
		Code:     env.Code,
		Message:  env.Error,
		Status:   env.Status,
		Override: env.Override,
		Errors:   env.Errors,
		Action:   env.Action,
	}
	return nil
}

// Details returns one human-readable line per field error.
func (e *HTTPError) Details() []string {
	if len(e.Errors) == 0 {
		return nil
	}
	details := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		details = append(details, fe.String())
	}
	return details
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError. Code and status are not
// compared; use errors.As to inspect them.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
