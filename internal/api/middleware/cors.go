package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/phrazzld/rest-template/internal/api/shared"
	"github.com/phrazzld/rest-template/internal/config"
)

var (
	defaultCORSMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}
	defaultCORSHeaders = []string{
		"Accept", "Authorization", "Content-Type", shared.TraceIDHeader, RequestIDHeader,
	}
)

// CORS builds the cross-origin middleware from configuration. With no
// allowed origins configured every cross-origin request is refused.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = defaultCORSMethods
	}
	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = defaultCORSHeaders
	}

	opts := cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   methods,
		AllowedHeaders:   headers,
		ExposedHeaders:   []string{shared.TraceIDHeader, "Retry-After"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	// go-chi/cors treats an empty origin list as "*".
	if len(cfg.AllowedOrigins) == 0 {
		opts.AllowOriginFunc = func(*http.Request, string) bool { return false }
	}
	return cors.Handler(opts)
}
