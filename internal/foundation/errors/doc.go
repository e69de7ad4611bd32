// Package errors provides the classified error type used across venblog.
//
// Every fatal condition a build can hit is expressed as a ClassifiedError with
// a category that names the failure kind:
//   - CategoryConfig: the site config file is malformed (ConfigParseError)
//   - CategoryScan: the posts directory exists but cannot be read (SourceScanError)
//   - CategoryRender: a post could not be read or converted (PostRenderError)
//   - CategoryWrite: an output file could not be written (WriteError)
//
// Errors are constructed with the fluent builder:
//
//	err := errors.PostRenderError("markdown conversion failed").
//		WithContext("slug", slug).
//		WithCause(convErr).
//		Build()
//
// The CLI adapter maps categories to process exit codes.
package errors
