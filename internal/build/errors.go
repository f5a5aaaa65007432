package build

import "git.home.luguber.info/inful/mdwiki/internal/foundation/errors"

var (
	// ErrEmptyInput indicates the input tree holds no source documents.
	ErrEmptyInput = errors.ValidationError("no source documents found in input directory").Build()

	// ErrRenderIO indicates a document could not be read, rendered or written.
	// It fails the document, not the build.
	ErrRenderIO = errors.RenderError("document could not be rendered").Build()

	// ErrOutputDir indicates the output root could not be created.
	ErrOutputDir = errors.FileSystemError("output directory could not be created").Fatal().Build()

	// ErrDocumentsFailed is returned in strict mode when any document failed.
	ErrDocumentsFailed = errors.RenderError("one or more documents failed to build").Fatal().Build()
)
