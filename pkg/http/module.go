// Package http bundles the HTTP server with the standard health endpoints.
package http

import (
	"github.com/Sokol111/warehouse-commons/pkg/http/health"
	"github.com/Sokol111/warehouse-commons/pkg/http/server"
	"go.uber.org/fx"
)

// NewHTTPModule provides the HTTP server together with liveness and readiness
// routes. Services register their own routes on the shared *http.ServeMux.
func NewHTTPModule() fx.Option {
	return fx.Options(
		server.NewHTTPServerModule(),
		health.NewHealthRoutesModule(),
	)
}
