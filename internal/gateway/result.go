package gateway

import "fmt"

type ErrorKind string

const (
	InvalidPhoneNumber ErrorKind = "invalid_phone_number"
	TransportError     ErrorKind = "transport_error"
	APIError           ErrorKind = "api_error"
	SettingsError      ErrorKind = "settings_error"
)

// Result is the outcome of one dispatch: either a success carrying the raw
// gateway response body, or a failure carrying a kind and a message.
type Result struct {
	ok      bool
	body    string
	kind    ErrorKind
	message string
}

func Success(body string) Result {
	return Result{ok: true, body: body}
}

func Failure(kind ErrorKind, message string) Result {
	return Result{kind: kind, message: message}
}

func (r Result) OK() bool        { return r.ok }
func (r Result) Body() string    { return r.body }
func (r Result) Kind() ErrorKind { return r.kind }
func (r Result) Message() string { return r.message }

// Err returns nil on success and a *DispatchError otherwise.
func (r Result) Err() error {
	if r.ok {
		return nil
	}
	return &DispatchError{Kind: r.kind, Message: r.message}
}

type DispatchError struct {
	Kind    ErrorKind
	Message string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
