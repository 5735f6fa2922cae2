// Package errs defines custom error types and utilities.
//
// Its purpose is to create specific error structures
// (FieldError for forms, HTTPError for API responses)
// so clients receive meaningful, actionable and consistent
// error envelopes.
package errs
