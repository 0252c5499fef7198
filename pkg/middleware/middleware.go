// Package middleware provides the HTTP middleware stack and common middleware
// implementations for request logging and CORS.
package middleware

import "net/http"

// Stack manages an ordered list of HTTP middleware.
type Stack struct {
	stack []func(http.Handler) http.Handler
}

// NewStack creates an empty middleware Stack.
func NewStack() *Stack {
	return &Stack{
		stack: []func(http.Handler) http.Handler{},
	}
}

// Use appends middleware to the stack.
func (s *Stack) Use(fn func(http.Handler) http.Handler) {
	s.stack = append(s.stack, fn)
}

// Apply wraps handler with the stack, outermost first.
func (s *Stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.stack) - 1; i >= 0; i-- {
		handler = s.stack[i](handler)
	}
	return handler
}
