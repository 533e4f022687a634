package httpapi

import (
	"net/http"

	"github.com/go-chi/cors"
)

const (
	corsMethods = "GET, POST, OPTIONS"
	corsHeaders = "Content-Type, Authorization"
)

func originAllowed(origin string) bool {
	if len(corsAllowedOrigins) == 0 || origin == "" {
		return true
	}
	for _, o := range corsAllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

// corsMiddleware puts the permissive CORS headers on every response, echoing
// the request origin (or "*" without one). Preflights are validated by
// go-chi/cors and then passed through so the OPTIONS routes answer 204.
func corsMiddleware() func(http.Handler) http.Handler {
	preflight := cors.Handler(cors.Options{
		AllowOriginFunc:    func(_ *http.Request, origin string) bool { return originAllowed(origin) },
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:             300,
		OptionsPassthrough: true,
	})
	return func(next http.Handler) http.Handler {
		return preflight(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if originAllowed(origin) {
				if origin == "" {
					origin = "*"
				}
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", corsMethods)
				h.Set("Access-Control-Allow-Headers", corsHeaders)
			}
			next.ServeHTTP(w, r)
		}))
	}
}
