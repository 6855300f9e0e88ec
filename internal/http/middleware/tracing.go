package middleware

import (
	"net/http"

	"go.opencensus.io/plugin/ochttp"
	"go.opencensus.io/trace"
)

// TracingMiddleware starts an OpenCensus span per request, named after the
// RPC route. ochttp records the response status.
func TracingMiddleware(next http.Handler) http.Handler {
	annotated := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span := trace.FromContext(r.Context())
		if span == nil {
			next.ServeHTTP(w, r)
			return
		}

		span.AddAttributes(
			trace.StringAttribute("http.route", r.URL.Path),
			trace.StringAttribute("http.user_agent", r.UserAgent()),
		)
		if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
			span.AddAttributes(trace.StringAttribute("http.request_id", requestID))
		}

		next.ServeHTTP(w, r)
	})

	return &ochttp.Handler{
		Handler: annotated,
		FormatSpanName: func(r *http.Request) string {
			return r.Method + " " + r.URL.Path
		},
		IsPublicEndpoint: true,
	}
}
