package elastic

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrIndexAlreadyExists is returned by CreateIndex when the index is already
// there. Both generations signal this with an *_already_exists_exception type.
var ErrIndexAlreadyExists = errors.New("index already exists")

// Error is a structured failure from the remote service. Anything that is not
// a recognized domain condition propagates as this type unchanged.
type Error struct {
	Status int
	Type   string
	Reason string
	Body   json.RawMessage
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("elastic: [%d] %s: %s", e.Status, e.Type, e.Reason)
	}
	return fmt.Sprintf("elastic: [%d] %s", e.Status, string(e.Body))
}

// IsNotFound reports whether err is a structured 404 from the service.
func IsNotFound(err error) bool {
	return IsStatus(err, 404)
}

// IsConflict reports whether err is a structured 409 (version conflict).
func IsConflict(err error) bool {
	return IsStatus(err, 409)
}

func IsStatus(err error, status int) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Status == status
	}
	return false
}

type errorEnvelope struct {
	Error  json.RawMessage `json:"error"`
	Status int             `json:"status"`
}

type errorCause struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// parseError turns an error-status response into *Error. Both generations use
// the {"error": {...}, "status": n} envelope; bodies that do not parse keep
// the raw payload so nothing is lost.
func parseError(res *Response) *Error {
	e := &Error{Status: res.StatusCode, Body: res.Body}

	var env errorEnvelope
	if err := json.Unmarshal(res.Body, &env); err != nil {
		return e
	}
	if env.Status != 0 {
		e.Status = env.Status
	}

	var cause errorCause
	if err := json.Unmarshal(env.Error, &cause); err == nil {
		e.Type = cause.Type
		e.Reason = cause.Reason
	} else {
		// 2.x occasionally ships the error as a plain string
		var msg string
		if json.Unmarshal(env.Error, &msg) == nil {
			e.Reason = msg
		}
	}
	return e
}

func isAlreadyExists(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	if strings.Contains(e.Type, "already_exists_exception") {
		return true
	}
	// plain-string reasons from very old servers
	return strings.Contains(e.Reason, "already exists")
}
