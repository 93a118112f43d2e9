package submit

import (
	"encoding/json"

	"github.com/tidwall/sjson"
)

// Result is what a page shows in its result slot after a submission.
// It is either Success or Failure.
type Result interface {
	// Payload is the JSON document displayed to the user.
	Payload() json.RawMessage
	isResult()
}

// Success holds the backend payload exactly as it was received.
type Success struct {
	Data json.RawMessage
}

func (s Success) Payload() json.RawMessage {
	if len(s.Data) == 0 {
		return json.RawMessage("null")
	}
	return s.Data
}

func (Success) isResult() {}

// Failure holds the generic message shown when a submission fails.
type Failure struct {
	Message string
}

// Payload renders the failure as {"error": "<message>"}.
func (f Failure) Payload() json.RawMessage {
	out, err := sjson.SetBytes([]byte(`{}`), "error", f.Message)
	if err != nil {
		// sjson only fails on malformed paths; "error" is a constant
		return json.RawMessage(`{"error":""}`)
	}
	return out
}

func (Failure) isResult() {}

// FailureMessage is the message shown when fetching resource fails.
func FailureMessage(resource string) string {
	return "Failed to fetch " + resource
}
