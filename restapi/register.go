// Package restapi serves the scheme compiler and the scheme repository over HTTP (gin).
package restapi

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// HTTPVerb enumerates supported HTTP operations.
type HTTPVerb int

const (
	// Unknown represents an unspecified HTTP verb.
	Unknown HTTPVerb = iota
	// GET lists or retrieves resources.
	GET
	// POST creates resources.
	POST
	// PUT replaces resources.
	PUT
	// DELETE removes resources.
	DELETE
)

// RestMethod describes a REST route handler.
type RestMethod struct {
	Verb    HTTPVerb
	Path    string
	Handler gin.HandlerFunc
}

func methodKey(verb HTTPVerb, path string) string {
	return fmt.Sprintf("%d_%s", verb, path)
}

// RegisterMethod adds a route below /api/v1, duplicates are rejected.
func (s *Server) RegisterMethod(verb HTTPVerb, path string, h gin.HandlerFunc) error {
	key := methodKey(verb, path)
	if _, exists := s.methods[key]; exists {
		return fmt.Errorf("can't add %s, an existing handler in REST method map exists", key)
	}
	s.methods[key] = RestMethod{
		Verb:    verb,
		Path:    path,
		Handler: h,
	}
	return nil
}

// RestMethods returns all registered RestMethod entries keyed by verb+path.
func (s *Server) RestMethods() map[string]RestMethod {
	return s.methods
}
