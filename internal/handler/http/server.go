package http

import (
	"AutosValle-Backend/internal/analytics"
	"AutosValle-Backend/internal/auth"
	"AutosValle-Backend/internal/config"
	"AutosValle-Backend/internal/imagestore"
	"AutosValle-Backend/internal/repository"
	"AutosValle-Backend/internal/service"
	"net/http"

	"go.uber.org/zap"
)

// Server bundles the HTTP handlers and route setup.
type Server struct {
	loginHandler    *LoginHandler
	publicHandler   *PublicHandler
	adminHandler    *AdminHandler
	requestsHandler *RequestsHandler
	healthHandler   *HealthHandler
	authMiddleware  *auth.Middleware
	uploadDir       string
	log             *zap.Logger
}

// NewServer wires the handlers over the service layer.
func NewServer(
	storage repository.Storage,
	searchService *service.SearchService,
	vehicleService *service.VehicleService,
	premiumService *service.PremiumService,
	requestService *service.RequestService,
	statsService *service.StatsService,
	processor *analytics.Processor,
	credentials *auth.CredentialService,
	jwtService *auth.JWTService,
	images *imagestore.Store,
	cfg *config.Config,
	log *zap.Logger,
) *Server {
	return &Server{
		loginHandler:    NewLoginHandler(credentials, jwtService, cfg.Auth.SessionTTL, log),
		publicHandler:   NewPublicHandler(searchService, vehicleService, processor, &cfg.Marketplace, log),
		adminHandler:    NewAdminHandler(vehicleService, premiumService, statsService, searchService, images, log),
		requestsHandler: NewRequestsHandler(requestService, images, log),
		healthHandler:   NewHealthHandler(storage, processor, log),
		authMiddleware:  auth.NewMiddleware(jwtService, log),
		uploadDir:       cfg.Marketplace.UploadDir,
		log:             log,
	}
}

// SetupRoutes registers every route on a fresh mux.
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Health checks (no auth)
	mux.HandleFunc("/health", s.healthHandler.Health)
	mux.HandleFunc("/ready", s.healthHandler.Ready)

	// Public marketplace endpoints
	mux.HandleFunc("/api/vehicles", s.withCORS(s.publicHandler.Feed))
	mux.HandleFunc("/api/vehicles/most-viewed", s.withCORS(s.publicHandler.MostViewed))
	mux.HandleFunc("/api/vehicles/", s.withCORS(s.publicHandler.VehicleRoutes))
	mux.HandleFunc("/api/search", s.withCORS(s.publicHandler.QuickSearch))
	mux.HandleFunc("/api/brands", s.withCORS(s.publicHandler.Brands))
	mux.HandleFunc("/api/requests", s.withCORS(s.requestsHandler.Submit))

	// Admin session
	mux.HandleFunc("/api/admin/login", s.withCORS(s.loginHandler.Login))

	// Admin panel endpoints (session required)
	mux.HandleFunc("/api/admin/dashboard", s.withCORS(s.requireAdmin(s.adminHandler.Dashboard)))
	mux.HandleFunc("/api/admin/vehicles", s.withCORS(s.requireAdmin(s.adminHandler.Vehicles)))
	mux.HandleFunc("/api/admin/vehicles/most-viewed", s.withCORS(s.requireAdmin(s.adminHandler.MostViewed)))
	mux.HandleFunc("/api/admin/vehicles/", s.withCORS(s.requireAdmin(s.adminHandler.VehicleRoutes)))
	mux.HandleFunc("/api/admin/requests", s.withCORS(s.requireAdmin(s.requestsHandler.ListPending)))
	mux.HandleFunc("/api/admin/requests/", s.withCORS(s.requireAdmin(s.requestsHandler.Routes)))

	// Uploaded listing images
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadDir))))

	return mux
}

func (s *Server) requireAdmin(handler http.HandlerFunc) http.HandlerFunc {
	return s.authMiddleware.RequireAdmin(handler)
}

func (s *Server) withCORS(handler http.HandlerFunc) http.HandlerFunc {
	return s.authMiddleware.CORS(handler)
}
