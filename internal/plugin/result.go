package plugin

import (
	"encoding/json"
	"fmt"
)

// unknownErrorMessage is substituted when a load failure carries no
// usable string message. Raw non-string causes never cross the bridge.
const unknownErrorMessage = "An unknown error occurred"

// Result is the wire contract returned to the host engine for each
// plugin load: either Success or Failure with a human-readable message.
// Failures are always values, never panics, so the host's handling stays
// uniform regardless of what broke inside the load.
type Result struct {
	ok      bool
	message string
}

// Success returns the successful load result.
func Success() Result {
	return Result{ok: true}
}

// Failure returns a failed load result carrying message.
func Failure(message string) Result {
	return Result{ok: false, message: message}
}

// OK reports whether the load succeeded.
func (r Result) OK() bool {
	return r.ok
}

// Message returns the failure message, empty for successes.
func (r Result) Message() string {
	return r.message
}

// String renders the result for logs.
func (r Result) String() string {
	if r.ok {
		return "Success"
	}
	return fmt.Sprintf("Failure(%s)", r.message)
}

// resultWire is the serialized shape shared with the host engine.
type resultWire struct {
	Type   string `json:"type"`
	Field0 string `json:"field0,omitempty"`
}

// MarshalJSON encodes the result as {"type":"Success"} or
// {"type":"Failure","field0":"<message>"}. Successes never carry a
// message field; failures always do.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.ok {
		return json.Marshal(struct {
			Type string `json:"type"`
		}{Type: "Success"})
	}
	return json.Marshal(struct {
		Type   string `json:"type"`
		Field0 string `json:"field0"`
	}{Type: "Failure", Field0: r.message})
}

// UnmarshalJSON decodes the wire shape produced by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var w resultWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Type {
	case "Success":
		*r = Success()
	case "Failure":
		*r = Failure(w.Field0)
	default:
		return fmt.Errorf("unknown result type %q", w.Type)
	}
	return nil
}

// classify extracts a human-readable message from an arbitrary failure
// cause: an error or plain string with non-empty text is used verbatim,
// anything else falls back to the fixed unknown-error message. This is
// the single place load failures are turned into wire messages.
func classify(cause any) string {
	switch c := cause.(type) {
	case *LoadError:
		if c.Message != "" {
			return c.Message
		}
	case error:
		if msg := c.Error(); msg != "" {
			return msg
		}
	case string:
		if c != "" {
			return c
		}
	}
	return unknownErrorMessage
}
