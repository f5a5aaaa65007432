// Package handlers provides the HTTP handlers of mdwiki serve: static files
// from the output root, health and build status.
package handlers
