package pathmap

import "git.home.luguber.info/inful/mdwiki/internal/foundation/errors"

// ErrPathMapping indicates a source document has no valid output location.
// It fails the document, not the build.
var ErrPathMapping = errors.PathMappingError("source path cannot be mapped to an output path").Build()
