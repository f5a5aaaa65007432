// Package errors provides foundational, type-safe error primitives used across mdwiki.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (scan, ledger, render, path mapping, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - HTTP and CLI adapters for error presentation
//
// Packages declare sentinels built from this package and wrap causes with the
// same category and message, so errors.Is matches the sentinel:
//
//	var ErrRenderIO = errors.RenderError("document render failed").Build()
//
//	err := errors.WrapError(cause, errors.CategoryRender, ErrRenderIO.Message()).
//		Warning().
//		WithContext("path", doc.Path).
//		Build()
package errors
