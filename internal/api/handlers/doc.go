// Package handlers implements the HTTP surface of the marketsync API.
//
// Health probes and mapping CRUD are plain echo handlers; quota,
// revise, sync and revision-history operations are registered through
// huma so they show up in the generated OpenAPI document.
package handlers

// ErrorResponse is the body returned by echo handlers on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the body returned by echo handlers that have no
// resource to return.
type StatusResponse struct {
	Status string `json:"status"`
}
