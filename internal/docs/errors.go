package docs

import "git.home.luguber.info/inful/mdwiki/internal/foundation/errors"

// Sentinel errors for document discovery. Wrapped occurrences carry the
// offending path in their context and match these with errors.Is.
var (
	// ErrNotADirectory indicates the input root is missing or is not a directory.
	ErrNotADirectory = errors.NotFoundError("input path is not a directory").Build()

	// ErrScanIO indicates traversal could not read a directory below the input root.
	ErrScanIO = errors.FileSystemError("input directory traversal failed").Fatal().Build()
)
