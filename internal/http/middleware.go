package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tanvirrrhasan/TanvirEmart/internal/auth"
)

const sessionCookie = "emart_session"

// SessionIDMiddleware assigns every visitor a stable session ID carried in a
// cookie. The cart and navigation context hang off this ID, signed in or not.
func SessionIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := ""
		if cookie, err := r.Cookie(sessionCookie); err == nil {
			sessionID = cookie.Value
		}
		if sessionID == "" {
			sessionID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), "session_id", sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthMiddleware parses a bearer session token when present. Requests without
// a token pass through anonymous; handlers that need an identity check for it
// themselves.
func AuthMiddleware(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(header, "Bearer "); ok {
				if id, err := issuer.Verify(token); err == nil {
					ctx := context.WithValue(r.Context(), "identity", id)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), "request_id", requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getSessionID(ctx context.Context) string {
	if sessionID, ok := ctx.Value("session_id").(string); ok {
		return sessionID
	}
	return ""
}

func getIdentity(ctx context.Context) *auth.Identity {
	if id, ok := ctx.Value("identity").(*auth.Identity); ok {
		return id
	}
	return nil
}
