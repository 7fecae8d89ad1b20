package middleware

import (
	"fmt"
	"net/http"

	"gearshare/config"
	"gearshare/infras/otel"
	"gearshare/shared/cache"
	"gearshare/shared/constant"

	"github.com/go-chi/chi/v5"
)

const (
	otelHTTPScopeName = "http"
)

type AppMiddleware interface {
	Tracing(http.Handler) http.Handler
	RateLimit() func(http.Handler) http.Handler
}

type appMiddleware struct {
	otel   otel.Otel
	config *config.Config
	cache  cache.RedisCache
}

func NewAppMiddleware(otel otel.Otel, config *config.Config, cache cache.RedisCache) AppMiddleware {
	return &appMiddleware{
		otel:   otel,
		config: config,
		cache:  cache,
	}
}

func (a *appMiddleware) Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		spanName := fmt.Sprintf("%s %s", r.Method, r.URL.Path)

		ctx, scope := a.otel.NewScope(r.Context(), otelHTTPScopeName, spanName)
		defer scope.End()

		routePattern := ""
		if rctx := chi.RouteContext(ctx); rctx != nil {
			routePattern = rctx.RoutePattern()
		}

		scope.SetAttributes(map[string]any{
			"app.name":        a.config.App.Name,
			"http.path":       r.URL.Path,
			"http.route":      routePattern,
			"http.method":     r.Method,
			"http.user_agent": r.Header.Get(constant.RequestHeaderUserAgent),
			"http.host":       r.Host,
			"http.source":     a.getClientIP(r),
		})

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r.WithContext(ctx))

		scope.SetAttributes(map[string]any{
			"http.status_code": recorder.status,
		})
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
