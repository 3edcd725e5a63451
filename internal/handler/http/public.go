package http

import (
	"AutosValle-Backend/internal/analytics"
	"AutosValle-Backend/internal/config"
	"AutosValle-Backend/internal/domain"
	"AutosValle-Backend/internal/repository"
	"AutosValle-Backend/internal/service"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// PublicHandler serves the visitor-facing endpoints: the listing feed, the
// detail page, quick search, and contact-click tracking.
type PublicHandler struct {
	search    *service.SearchService
	vehicles  *service.VehicleService
	processor *analytics.Processor
	config    *config.Marketplace
	log       *zap.Logger
}

func NewPublicHandler(
	search *service.SearchService,
	vehicles *service.VehicleService,
	processor *analytics.Processor,
	cfg *config.Marketplace,
	log *zap.Logger,
) *PublicHandler {
	return &PublicHandler{
		search:    search,
		vehicles:  vehicles,
		processor: processor,
		config:    cfg,
		log:       log,
	}
}

// VehicleSummary is the public projection of a listing.
type VehicleSummary struct {
	ID              int64                  `json:"id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	FormattedPrice  string                 `json:"formatted_price"`
	Currency        string                 `json:"currency"`
	CurrencyClass   string                 `json:"currency_class"`
	Year            *int                   `json:"year,omitempty"`
	Brand           string                 `json:"brand"`
	Model           string                 `json:"model"`
	Kilometers      *int                   `json:"kilometers,omitempty"`
	FuelType        string                 `json:"fuel_type"`
	Transmission    string                 `json:"transmission"`
	Color           string                 `json:"color"`
	MainImage       *string                `json:"main_image,omitempty"`
	Images          []string               `json:"images,omitempty"`
	IsPlus          bool                   `json:"is_plus"`
	IsPremiumActive bool                   `json:"is_premium_active"`
	ContactButtons  []domain.ContactButton `json:"contact_buttons"`
	DetailURL       string                 `json:"detail_url"`
}

// FeedResponse is one page of the public feed.
type FeedResponse struct {
	Vehicles   []*VehicleSummary `json:"vehicles"`
	Page       int               `json:"page"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
	HasPrev    bool              `json:"has_prev"`
	HasNext    bool              `json:"has_next"`
	PrevPage   int               `json:"prev_page,omitempty"`
	NextPage   int               `json:"next_page,omitempty"`
}

// TrackClickRequest is the contact-click tracking payload.
type TrackClickRequest struct {
	ClickType   string `json:"click_type"`
	OfferAmount int64  `json:"offer_amount,omitempty"`
}

// TrackClickResponse carries the outbound contact link.
type TrackClickResponse struct {
	RedirectURL string `json:"redirect_url"`
}

// Feed handles GET /api/vehicles: the filtered, shuffled, paginated feed.
// Loading the first unfiltered page counts as an index page visit.
func (h *PublicHandler) Feed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	filter := repository.VehicleFilter{
		Search:       q.Get("q"),
		Brand:        q.Get("brand"),
		Location:     q.Get("location"),
		FuelType:     q.Get("fuel_type"),
		Transmission: q.Get("transmission"),
		PriceMin:     queryInt64(q, "price_min"),
		PriceMax:     queryInt64(q, "price_max"),
		YearMin:      queryInt(q, "year_min"),
		YearMax:      queryInt(q, "year_max"),
		KmMin:        queryInt(q, "km_min"),
		KmMax:        queryInt(q, "km_max"),
	}

	page := 1
	if p := queryInt(q, "page"); p != nil {
		page = *p
	}

	result, err := h.search.Search(r.Context(), filter, page)
	if err != nil {
		h.log.Error("failed to serve vehicle feed", zap.Error(err))
		writeError(w, "Failed to load vehicles", http.StatusInternalServerError)
		return
	}

	h.trackPageVisit(r)

	response := &FeedResponse{
		Vehicles:   make([]*VehicleSummary, 0, len(result.Vehicles)),
		Page:       result.Page,
		Total:      result.Total,
		TotalPages: result.TotalPages,
		HasPrev:    result.HasPrev,
		HasNext:    result.HasNext,
		PrevPage:   result.PrevPage,
		NextPage:   result.NextPage,
	}
	for _, v := range result.Vehicles {
		response.Vehicles = append(response.Vehicles, h.summarize(v))
	}

	writeJSON(w, response, http.StatusOK)
}

// VehicleRoutes dispatches /api/vehicles/{id} and /api/vehicles/{id}/click.
func (h *PublicHandler) VehicleRoutes(w http.ResponseWriter, r *http.Request) {
	id, action, ok := pathID(r.URL.Path, "/api/vehicles/")
	if !ok {
		writeError(w, "Vehicle id is required", http.StatusBadRequest)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.detail(w, r, id)
	case action == "click" && r.Method == http.MethodPost:
		h.trackClick(w, r, id)
	default:
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// detail serves the vehicle page data and records one view per load.
func (h *PublicHandler) detail(w http.ResponseWriter, r *http.Request, id int64) {
	vehicle, err := h.vehicles.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.processor.Submit(&analytics.Event{
		Kind:      analytics.EventView,
		VehicleID: vehicle.ID,
		IPAddress: clientIP(r),
		UserAgent: clientUserAgent(r),
	}); err != nil {
		h.log.Warn("failed to record vehicle view", zap.Int64("vehicle_id", id), zap.Error(err))
	}

	writeJSON(w, h.summarize(vehicle), http.StatusOK)
}

// trackClick records a contact-button activation and returns the wa.me link
// the visitor should be redirected to.
func (h *PublicHandler) trackClick(w http.ResponseWriter, r *http.Request, id int64) {
	var req TrackClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if req.ClickType == "" {
		writeError(w, "click_type is required", http.StatusBadRequest)
		return
	}

	vehicle, err := h.vehicles.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !vehicle.HasWhatsApp() {
		writeError(w, "Vehicle has no contact number", http.StatusBadRequest)
		return
	}

	if err := h.processor.Submit(&analytics.Event{
		Kind:      analytics.EventClick,
		VehicleID: vehicle.ID,
		ClickType: req.ClickType,
		IPAddress: clientIP(r),
		UserAgent: clientUserAgent(r),
	}); err != nil {
		h.log.Warn("failed to record contact click", zap.Int64("vehicle_id", id), zap.Error(err))
	}

	var message string
	switch req.ClickType {
	case domain.ClickTypeWhatsApp:
		message = vehicle.WhatsAppContactMessage(h.config.BaseURL)
	case domain.ClickTypeOffer:
		message = vehicle.WhatsAppOfferMessage(h.config.BaseURL, req.OfferAmount)
	default:
		message = fmt.Sprintf("Consulta sobre: %s", vehicle.Title)
	}

	// Only the "+" is stripped from the number before building the link.
	number := strings.ReplaceAll(*vehicle.WhatsAppNumber, "+", "")
	redirect := fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(message))

	writeJSON(w, TrackClickResponse{RedirectURL: redirect}, http.StatusOK)
}

// QuickSearch handles GET /api/search?q= for the typeahead box.
func (h *PublicHandler) QuickSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, []*service.QuickSearchItem{}, http.StatusOK)
		return
	}

	items, err := h.search.QuickSearch(r.Context(), query)
	if err != nil {
		h.log.Error("quick search failed", zap.String("query", query), zap.Error(err))
		writeError(w, "Search failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, items, http.StatusOK)
}

// Brands handles GET /api/brands for filter-control population.
func (h *PublicHandler) Brands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	brands, err := h.search.Brands(r.Context())
	if err != nil {
		h.log.Error("failed to list brands", zap.Error(err))
		writeError(w, "Failed to load brands", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string][]string{"brands": brands}, http.StatusOK)
}

// MostViewed handles GET /api/vehicles/most-viewed: the public premium
// carousel, restricted to plus listings.
func (h *PublicHandler) MostViewed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ranked, err := h.search.MostViewed(r.Context(), true)
	if err != nil {
		h.log.Error("failed to rank most viewed vehicles", zap.Error(err))
		writeError(w, "Failed to load vehicles", http.StatusInternalServerError)
		return
	}

	type rankedSummary struct {
		*VehicleSummary
		ViewCount  int64 `json:"view_count"`
		ClickCount int64 `json:"click_count"`
	}
	out := make([]*rankedSummary, 0, len(ranked))
	for _, rv := range ranked {
		out = append(out, &rankedSummary{
			VehicleSummary: h.summarize(rv.Vehicle),
			ViewCount:      rv.ViewCount,
			ClickCount:     rv.ClickCount,
		})
	}

	writeJSON(w, out, http.StatusOK)
}

func (h *PublicHandler) trackPageVisit(r *http.Request) {
	if err := h.processor.Submit(&analytics.Event{
		Kind:      analytics.EventPageVisit,
		Page:      domain.PageIndex,
		IPAddress: clientIP(r),
		UserAgent: clientUserAgent(r),
		Referrer:  clientReferrer(r),
	}); err != nil {
		h.log.Warn("failed to record page visit", zap.Error(err))
	}
}

func (h *PublicHandler) summarize(v *domain.Vehicle) *VehicleSummary {
	summary := &VehicleSummary{
		ID:              v.ID,
		Title:           v.Title,
		Description:     v.Description,
		FormattedPrice:  v.FormatPrice(),
		Currency:        v.Currency,
		CurrencyClass:   v.CurrencyClass(),
		Year:            v.Year,
		Brand:           v.Brand,
		Model:           v.Model,
		Kilometers:      v.Kilometers,
		FuelType:        v.FuelType,
		Transmission:    v.Transmission,
		Color:           v.Color,
		IsPlus:          v.IsPlus,
		IsPremiumActive: v.IsPremiumActive(),
		ContactButtons:  v.ContactButtons(),
		DetailURL:       v.DetailURL(h.config.BaseURL),
	}
	// Free publications never expose imagery.
	if v.IsPlus {
		summary.MainImage = v.MainImage()
		summary.Images = v.ImagesList()
	}
	return summary
}

func queryInt64(q url.Values, key string) *int64 {
	raw := q.Get(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func queryInt(q url.Values, key string) *int {
	raw := q.Get(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
