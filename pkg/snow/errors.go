package snow

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is matched by errors.Is for a Get on a missing record.
var ErrNotFound = errors.New("record not found")

// FetchError is returned when the instance answers with a non-2xx status.
type FetchError struct {
	Op      string
	Table   string
	Status  int
	Message string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("snow.%s(%s): status %d: %s", e.Op, e.Table, e.Status, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *FetchError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Validation reports whether the instance rejected the request payload.
func (e *FetchError) Validation() bool {
	return e.Status >= http.StatusBadRequest && e.Status < http.StatusInternalServerError
}

// TransportError wraps failures that never produced an HTTP response:
// DNS, connection refused, timeouts.
type TransportError struct {
	Op    string
	Table string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("snow.%s(%s): %v", e.Op, e.Table, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not
// an HTTP failure.
func StatusCode(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Status
	}
	return 0
}

// genericMessages are used when the error body carries no message.
var genericMessages = map[string]string{
	opList:   "Failed to fetch records",
	opGet:    "Failed to fetch record",
	opCreate: "Failed to create record",
	opUpdate: "Failed to update record",
	opDelete: "Failed to delete record",
	opProbe:  "Authentication check failed",
}
