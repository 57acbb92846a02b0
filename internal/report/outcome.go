package report

import (
	"encoding/json"
	"fmt"
)

// Outcome is what one audit request produced: Success or Failure.
type Outcome interface {
	isOutcome()
}

// Success carries a result whose status was "success".
type Success struct {
	Result Result
}

// Failure is a well-formed response whose status was anything else.
type Failure struct {
	Status  string
	Message string
}

func (Success) isOutcome() {}
func (Failure) isOutcome() {}

// Decode parses a response body with the built-in redaction rules.
func Decode(body []byte) (Outcome, error) {
	return DecodeWith(body, nil)
}

// DecodeWith parses a response body. Only malformed JSON is an error; a
// backend error status decodes to Failure with its message passed through sn.
func DecodeWith(body []byte, sn *Sanitizer) (Outcome, error) {
	var r Result
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("invalid audit payload: %w", err)
	}
	if r.Status != StatusSuccess {
		return Failure{Status: r.Status, Message: sn.Text(r.Message)}, nil
	}
	for i := range r.News {
		r.News[i].Link = SanitizeURL(r.News[i].Link)
	}
	return Success{Result: r}, nil
}
