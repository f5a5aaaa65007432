package index

import "git.home.luguber.info/inful/mdwiki/internal/foundation/errors"

var (
	// ErrTemplate indicates the index template could not be read or parsed.
	ErrTemplate = errors.IndexError("index template unusable").Build()

	// ErrWrite indicates the generated index could not be written.
	ErrWrite = errors.IndexError("index page could not be written").Build()
)
