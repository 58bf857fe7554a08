// Package server serves greetings over HTTP.
package server

import (
	"fmt"
	"net/http"
)

const DefaultPort = 8080

// Config holds listener settings.
type Config struct {
	Port    int
	Timeout int
}

// Handler answers requests.
type Handler struct {
	*Config
	name string
}

// Greeter produces greetings.
type Greeter interface {
	fmt.Stringer

	// Greet returns a greeting for name.
	Greet(name string) (string, error)
}

// NewHandler creates a handler.
//
//go:noinline
func NewHandler(config *Config) *Handler {
	return &Handler{Config: config}
}

// ServeHTTP writes a greeting.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "Hello, World!")
}
