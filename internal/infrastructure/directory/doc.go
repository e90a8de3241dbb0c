// Package directory provides an HTTP implementation of domain.DirectoryClient
// for the mandap company-directory API.
//
// The API is a set of PHP endpoints under a fixed base path. Reads are GETs
// with query parameters; writes are JSON POSTs. Every request carries the
// session's bearer token.
//
// A 401 or 403 response is reported as domain.ErrUpstreamUnauthorized so the
// caller can end the session. Other non-2xx responses become *domain.APIError
// carrying the "error" or "message" field of the body, and bodies that do not
// decode are reported as domain.ErrMalformedResponse.
package directory
