package api

import (
	"net/http"
	"slices"

	"github.com/campusdesk/campusdesk/internal/config"
	"github.com/campusdesk/campusdesk/internal/events"
	"github.com/campusdesk/campusdesk/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, cfg *config.Config, runtime *Runtime) {
	eventsHandler := events.NewHandler(
		runtime.Events,
		originChecker(cfg),
		runtime.Logger,
	)

	routes.Register(
		mux,
		*domain.Identity.Handler().Routes(),
		*domain.Complaints.Handler().Routes(),
		*domain.Attachments.Handler().Routes(),
		*eventsHandler.Routes(),
	)
}

// originChecker gates websocket upgrades by the CORS origin allow-list.
// With CORS disabled the feed accepts any origin.
func originChecker(cfg *config.Config) func(*http.Request) bool {
	return func(r *http.Request) bool {
		if !cfg.API.CORS.Enabled {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return slices.Contains(cfg.API.CORS.Origins, origin)
	}
}
