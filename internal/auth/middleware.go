package auth

import (
	"net/http"
	"strings"

	"github.com/gofrs/uuid"
)

// Middleware extracts the caller principal from the trusted gateway headers
// and attaches it to the request context. Requests without X-User-Id pass
// through unauthenticated; role-gated operations reject them downstream.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get("X-User-Id")
		if rawID == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := uuid.FromString(rawID)
		if err != nil {
			http.Error(w, "invalid X-User-Id header", http.StatusBadRequest)
			return
		}

		p := Principal{
			ID:    userID,
			Name:  r.Header.Get("X-User-Name"),
			Email: r.Header.Get("X-User-Email"),
		}
		if raw := r.Header.Get("X-User-Roles"); raw != "" {
			for _, role := range strings.Split(raw, ",") {
				if role = strings.TrimSpace(role); role != "" {
					p.Roles = append(p.Roles, strings.ToUpper(role))
				}
			}
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}
