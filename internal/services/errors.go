// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

// Sentinel errors raised by the services; the transport layer maps them
// to status codes / GraphQL error codes with errors.Is and errors.As.
var (
	// ErrNotFound covers unknown ids, invalid search filters and empty
	// result pages.
	ErrNotFound = errors.New("auto not found")

	// ErrVersionInvalid is raised for a malformed version token before
	// any store access happens.
	ErrVersionInvalid = errors.New("version token invalid")

	// ErrVersionOutdated is raised when a claimed version is below the
	// stored version.
	ErrVersionOutdated = errors.New("version outdated")

	// ErrUnsupportedFile is raised for an attached file whose sniffed
	// content type is neither an image nor a video.
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// FahrgestellnummerExistsError is the business-rule conflict raised when
// a create collides with an existing chassis number. It is distinct from
// a generic validation error.
type FahrgestellnummerExistsError struct {
	Fahrgestellnummer string
}

func (e *FahrgestellnummerExistsError) Error() string {
	return fmt.Sprintf("fahrgestellnummer %s already exists", e.Fahrgestellnummer)
}
