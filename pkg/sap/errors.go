package sap

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResult is returned when the service answers with the
	// canonical empty result set and the caller did not allow it.
	ErrEmptyResult = errors.New("empty result set")

	// ErrMalformedResponse is returned when the batch response cannot be
	// decomposed into the expected envelope shape.
	ErrMalformedResponse = errors.New("malformed batch response")
)

// BadStatusError reports a non-success HTTP status from the portal.
type BadStatusError struct {
	Status int
}

func (e BadStatusError) Error() string {
	return fmt.Sprintf("bad status code: %d", e.Status)
}
