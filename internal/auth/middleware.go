package auth

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// ContextKey is the type used for context keys in this package.
type ContextKey string

const (
	// AdminIDKey is the context key for the authenticated admin's ID.
	AdminIDKey ContextKey = "admin_id"
	// AdminUsernameKey is the context key for the authenticated admin's username.
	AdminUsernameKey ContextKey = "admin_username"
)

// SessionContext describes an established admin session. Handlers receive it
// explicitly instead of reading ambient state.
type SessionContext struct {
	AdminID  int64
	Username string
}

// IsAuthorized reports whether the session context identifies an admin.
func IsAuthorized(session *SessionContext) bool {
	return session != nil && session.AdminID > 0
}

// SessionFromContext extracts the admin session from a request context.
func SessionFromContext(ctx context.Context) (*SessionContext, bool) {
	adminID, ok := ctx.Value(AdminIDKey).(int64)
	if !ok {
		return nil, false
	}
	username, _ := ctx.Value(AdminUsernameKey).(string)
	return &SessionContext{AdminID: adminID, Username: username}, true
}

// Middleware guards admin-only HTTP handlers.
type Middleware struct {
	jwtService *JWTService
	log        *zap.Logger
}

// NewMiddleware creates a new session middleware.
func NewMiddleware(jwtService *JWTService, log *zap.Logger) *Middleware {
	return &Middleware{
		jwtService: jwtService,
		log:        log,
	}
}

// RequireAdmin rejects requests without a valid admin session token.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.log.Debug("missing authorization header")
			http.Error(w, "Authorization required", http.StatusUnauthorized)
			return
		}

		tokenString := ExtractTokenFromBearer(authHeader)
		if tokenString == "" {
			m.log.Debug("invalid authorization header format")
			http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			m.log.Debug("invalid session token", zap.Error(err))
			if err == ErrExpiredToken {
				http.Error(w, "Session expired", http.StatusUnauthorized)
			} else {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
			}
			return
		}

		session := &SessionContext{AdminID: claims.AdminID, Username: claims.Username}
		if !IsAuthorized(session) {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), AdminIDKey, claims.AdminID)
		ctx = context.WithValue(ctx, AdminUsernameKey, claims.Username)

		m.log.Debug("authenticated admin",
			zap.Int64("admin_id", claims.AdminID),
			zap.String("username", claims.Username))

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// CORS adds CORS headers for the panel frontend.
func (m *Middleware) CORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowedOrigins := []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:8080",
			"http://127.0.0.1:8080",
		}

		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	}
}
