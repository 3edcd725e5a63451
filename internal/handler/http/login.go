package http

import (
	"AutosValle-Backend/internal/auth"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// LoginHandler authenticates the admin and issues session tokens.
type LoginHandler struct {
	credentials *auth.CredentialService
	jwtService  *auth.JWTService
	sessionTTL  time.Duration
	log         *zap.Logger
}

func NewLoginHandler(credentials *auth.CredentialService, jwtService *auth.JWTService, sessionTTL time.Duration, log *zap.Logger) *LoginHandler {
	return &LoginHandler{
		credentials: credentials,
		jwtService:  jwtService,
		sessionTTL:  sessionTTL,
		log:         log,
	}
}

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	Username  string `json:"username"`
}

// Login handles POST /api/admin/login. Wrong username and wrong password are
// indistinguishable in the response.
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	admin, ok := h.credentials.VerifyCredentials(r.Context(), req.Username, req.Password)
	if !ok {
		h.log.Info("failed login attempt", zap.String("username", req.Username))
		writeError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.jwtService.GenerateSessionToken(admin.ID, admin.Username)
	if err != nil {
		h.log.Error("failed to issue session token", zap.Error(err))
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info("admin logged in", zap.Int64("admin_id", admin.ID), zap.String("username", admin.Username))
	writeJSON(w, LoginResponse{
		Token:     token,
		ExpiresIn: int64(h.sessionTTL.Seconds()),
		Username:  admin.Username,
	}, http.StatusOK)
}
