package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"turfbook/globals"

	"github.com/google/uuid"
)

// TraceLogger assigns a trace id to every request, logs it on entry and exit,
// and makes it available to handlers via the request context so error payloads
// can echo it back to the caller.
func TraceLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := uuid.NewString()
		start := time.Now()

		ctx := context.WithValue(r.Context(), globals.TraceIDKey, traceID)
		log.Printf("[%s] %s %s from %s", traceID, r.Method, r.RequestURI, r.RemoteAddr)

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Printf("[%s] %s %s done in %v", traceID, r.Method, r.RequestURI, time.Since(start))
	})
}

// TraceID returns the request's trace id, or an empty string outside TraceLogger.
func TraceID(r *http.Request) string {
	id, _ := r.Context().Value(globals.TraceIDKey).(string)
	return id
}
