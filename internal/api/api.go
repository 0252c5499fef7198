// Package api assembles the API module: domain systems, token verification,
// and route registration.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/campusdesk/campusdesk/internal/config"
	"github.com/campusdesk/campusdesk/internal/identity"
	"github.com/campusdesk/campusdesk/internal/infrastructure"
	"github.com/campusdesk/campusdesk/pkg/middleware"
	"github.com/campusdesk/campusdesk/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Every API route requires a verified bearer token; the authenticate
// middleware provisions first-time subjects.
func NewModule(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	verifier, err := identity.NewOIDCVerifier(ctx, cfg.Auth.Issuer, cfg.Auth.Audience)
	if err != nil {
		return nil, fmt.Errorf("auth verifier init failed: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(identity.Authenticate(verifier, domain.Identity, runtime.Logger))

	return m, nil
}
