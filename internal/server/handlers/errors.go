package handlers

import "git.home.luguber.info/inful/mdwiki/internal/foundation/errors"

var (
	// ErrNotFound indicates no file exists for the request path. Paths that
	// escape the output root are reported the same way.
	ErrNotFound = errors.NotFoundError("page not found").Build()

	// ErrReadFailed indicates an existing file could not be served.
	ErrReadFailed = errors.FileSystemError("page could not be read").Build()

	// ErrMethodNotAllowed indicates a request other than GET or HEAD.
	ErrMethodNotAllowed = errors.ValidationError("method not allowed").Warning().Build()
)
