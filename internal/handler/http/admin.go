package http

import (
	"AutosValle-Backend/internal/domain"
	"AutosValle-Backend/internal/imagestore"
	"AutosValle-Backend/internal/service"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// AdminHandler covers direct listing management and the dashboard.
type AdminHandler struct {
	vehicles *service.VehicleService
	premium  *service.PremiumService
	stats    *service.StatsService
	search   *service.SearchService
	images   *imagestore.Store
	log      *zap.Logger
}

func NewAdminHandler(
	vehicles *service.VehicleService,
	premium *service.PremiumService,
	stats *service.StatsService,
	search *service.SearchService,
	images *imagestore.Store,
	log *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		vehicles: vehicles,
		premium:  premium,
		stats:    stats,
		search:   search,
		images:   images,
		log:      log,
	}
}

// PremiumPayload is the premium-duration update payload.
type PremiumPayload struct {
	Months int `json:"months"`
}

// Dashboard handles GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.stats.Dashboard(r.Context())
	if err != nil {
		h.log.Error("failed to compute dashboard stats", zap.Error(err))
		writeError(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	writeJSON(w, stats, http.StatusOK)
}

// Vehicles dispatches /api/admin/vehicles (POST creates a listing).
func (h *AdminHandler) Vehicles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	input, err := h.decodeVehicleInput(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	vehicle, err := h.vehicles.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, vehicle, http.StatusCreated)
}

// VehicleRoutes dispatches /api/admin/vehicles/{id}[/toggle|/premium].
func (h *AdminHandler) VehicleRoutes(w http.ResponseWriter, r *http.Request) {
	id, action, ok := pathID(r.URL.Path, "/api/admin/vehicles/")
	if !ok {
		writeError(w, "Vehicle id is required", http.StatusBadRequest)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.get(w, r, id)
	case action == "" && r.Method == http.MethodPut:
		h.update(w, r, id)
	case action == "" && r.Method == http.MethodDelete:
		h.delete(w, r, id)
	case action == "toggle" && r.Method == http.MethodPost:
		h.toggle(w, r, id)
	case action == "premium" && r.Method == http.MethodPost:
		h.setPremium(w, r, id)
	default:
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AdminHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	vehicle, err := h.vehicles.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, vehicle, http.StatusOK)
}

func (h *AdminHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	input, err := h.decodeVehicleInput(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	vehicle, err := h.vehicles.Update(r.Context(), id, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, vehicle, http.StatusOK)
}

// delete removes the listing and cleans up its image files best effort.
func (h *AdminHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	refs, err := h.vehicles.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.images.DeleteAll(refs)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) toggle(w http.ResponseWriter, r *http.Request, id int64) {
	vehicle, err := h.vehicles.ToggleActive(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"vehicle_id": vehicle.ID,
		"is_active":  vehicle.IsActive,
	}, http.StatusOK)
}

func (h *AdminHandler) setPremium(w http.ResponseWriter, r *http.Request, id int64) {
	var payload PremiumPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	vehicle, err := h.premium.SetDuration(r.Context(), id, payload.Months)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"vehicle_id":         vehicle.ID,
		"premium_expires_at": vehicle.PremiumExpiresAt,
		"duration_months":    vehicle.PremiumDurationMonths,
	}, http.StatusOK)
}

// MostViewed handles GET /api/admin/vehicles/most-viewed: the admin ranking
// over all active listings, not just plus ones.
func (h *AdminHandler) MostViewed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ranked, err := h.search.MostViewed(r.Context(), false)
	if err != nil {
		h.log.Error("failed to rank most viewed vehicles", zap.Error(err))
		writeError(w, "Failed to load vehicles", http.StatusInternalServerError)
		return
	}

	type entry struct {
		Vehicle    *domain.Vehicle `json:"vehicle"`
		ViewCount  int64           `json:"view_count"`
		ClickCount int64           `json:"click_count"`
	}
	out := make([]*entry, 0, len(ranked))
	for _, rv := range ranked {
		out = append(out, &entry{Vehicle: rv.Vehicle, ViewCount: rv.ViewCount, ClickCount: rv.ClickCount})
	}

	writeJSON(w, out, http.StatusOK)
}

// decodeVehicleInput accepts either multipart form data (with image uploads)
// or a plain JSON body.
func (h *AdminHandler) decodeVehicleInput(r *http.Request) (*service.VehicleInput, error) {
	var input service.VehicleInput

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return nil, err
		}

		input.Title = r.FormValue("title")
		input.Description = r.FormValue("description")
		input.Price = formInt64(r, "price")
		input.Currency = r.FormValue("currency")
		input.Year = formIntPtr(r, "year")
		input.Brand = r.FormValue("brand")
		input.Model = r.FormValue("model")
		input.Kilometers = formIntPtr(r, "kilometers")
		input.FuelType = r.FormValue("fuel_type")
		input.Transmission = r.FormValue("transmission")
		input.Color = r.FormValue("color")
		input.WhatsAppNumber = formOptional(r, "whatsapp_number")
		input.CallNumber = formOptional(r, "call_number")
		input.IsActive = r.FormValue("is_active") != "false"
		input.IsPlus = r.FormValue("is_plus") != "false"
		if idx, err := strconv.Atoi(r.FormValue("main_image_index")); err == nil {
			input.MainImageIndex = idx
		}
		if months, err := strconv.Atoi(r.FormValue("premium_duration_months")); err == nil {
			input.PremiumDurationMonths = months
		}

		for _, header := range r.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				h.log.Warn("failed to open uploaded image", zap.String("filename", header.Filename), zap.Error(err))
				continue
			}
			ref, err := h.images.Save("vehicle_", header.Filename, file)
			file.Close()
			if err != nil {
				return nil, err
			}
			input.Images = append(input.Images, ref)
		}

		return &input, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return nil, err
	}
	return &input, nil
}
