package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const TimezoneHeader = "X-Timezone"

const locationKey contextKey = "location"

type contextKey string

// Timezone resolves the viewer's zone from the X-Timezone header or the tz
// query parameter. Unknown or missing zones fall back to def.
func Timezone(def *time.Location) func(http.Handler) http.Handler {
	if def == nil {
		def = time.UTC
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loc := def
			name := strings.TrimSpace(r.Header.Get(TimezoneHeader))
			if name == "" {
				name = strings.TrimSpace(r.URL.Query().Get("tz"))
			}
			if name != "" {
				if l, err := time.LoadLocation(name); err == nil {
					loc = l
				}
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), locationKey, loc)))
		})
	}
}

// Location returns the viewer's zone, or UTC outside the Timezone middleware.
func Location(ctx context.Context) *time.Location {
	if loc, ok := ctx.Value(locationKey).(*time.Location); ok {
		return loc
	}
	return time.UTC
}
