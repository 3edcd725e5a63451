package http

import (
	"AutosValle-Backend/internal/auth"
	"AutosValle-Backend/internal/domain"
	"AutosValle-Backend/internal/imagestore"
	"AutosValle-Backend/internal/service"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const maxUploadMemory = 32 << 20 // 32 MB

// RequestsHandler covers the publication-request workflow: the public
// submission endpoint and the admin review queue.
type RequestsHandler struct {
	requests *service.RequestService
	images   *imagestore.Store
	log      *zap.Logger
}

func NewRequestsHandler(requests *service.RequestService, images *imagestore.Store, log *zap.Logger) *RequestsHandler {
	return &RequestsHandler{
		requests: requests,
		images:   images,
		log:      log,
	}
}

// RequestSummary is the admin projection of a client request.
type RequestSummary struct {
	ID                 int64      `json:"id"`
	FullName           string     `json:"full_name"`
	DNI                string     `json:"dni"`
	PhoneNumber        string     `json:"phone_number"`
	Location           string     `json:"location"`
	Address            *string    `json:"address,omitempty"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	FormattedPrice     string     `json:"formatted_price"`
	Currency           string     `json:"currency"`
	Year               *int       `json:"year,omitempty"`
	Brand              string     `json:"brand"`
	Model              string     `json:"model"`
	Kilometers         *int       `json:"kilometers,omitempty"`
	FuelType           string     `json:"fuel_type"`
	Transmission       string     `json:"transmission"`
	Color              string     `json:"color"`
	Images             []string   `json:"images"`
	PublicationType    string     `json:"publication_type"`
	Status             string     `json:"status"`
	AdminNotes         *string    `json:"admin_notes,omitempty"`
	WhatsAppContactURL string     `json:"whatsapp_contact_url"`
	CreatedAt          time.Time  `json:"created_at"`
	ProcessedAt        *time.Time `json:"processed_at,omitempty"`
}

// ProcessRequestPayload is the approve/reject payload.
type ProcessRequestPayload struct {
	DurationMonths int `json:"duration_months"`
}

// Submit handles POST /api/requests: a visitor's publication request.
// Accepts multipart form data with image uploads or a plain JSON body.
func (h *RequestsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input service.SubmitRequestInput

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeError(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		h.fillSubmitInput(&input, r)

		refs, err := h.saveUploads(r.MultipartForm, "request")
		if err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		input.Images = refs
	} else {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, "Invalid request format", http.StatusBadRequest)
			return
		}
		// Image references cannot be injected through the JSON path; uploads
		// go through the multipart form.
		input.Images = nil
	}

	request, err := h.requests.Submit(r.Context(), &input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, h.summarize(request), http.StatusCreated)
}

// ListPending handles GET /api/admin/requests: the review queue, newest first.
func (h *RequestsHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requests, err := h.requests.ListPending(r.Context())
	if err != nil {
		h.log.Error("failed to list pending requests", zap.Error(err))
		writeError(w, "Failed to load requests", http.StatusInternalServerError)
		return
	}

	summaries := make([]*RequestSummary, 0, len(requests))
	for _, request := range requests {
		summaries = append(summaries, h.summarize(request))
	}

	writeJSON(w, map[string]interface{}{"requests": summaries}, http.StatusOK)
}

// Routes dispatches /api/admin/requests/{id}[/approve|/reject].
func (h *RequestsHandler) Routes(w http.ResponseWriter, r *http.Request) {
	id, action, ok := pathID(r.URL.Path, "/api/admin/requests/")
	if !ok {
		writeError(w, "Request id is required", http.StatusBadRequest)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.get(w, r, id)
	case action == "" && r.Method == http.MethodPut:
		h.edit(w, r, id)
	case action == "approve" && r.Method == http.MethodPost:
		h.approve(w, r, id)
	case action == "reject" && r.Method == http.MethodPost:
		h.reject(w, r, id)
	default:
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *RequestsHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	request, err := h.requests.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, h.summarize(request), http.StatusOK)
}

func (h *RequestsHandler) approve(w http.ResponseWriter, r *http.Request, id int64) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok || !auth.IsAuthorized(session) {
		writeError(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	var payload ProcessRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, "Invalid request format", http.StatusBadRequest)
		return
	}
	if payload.DurationMonths == 0 {
		payload.DurationMonths = 1
	}

	vehicle, err := h.requests.Approve(r.Context(), id, session.AdminID, payload.DurationMonths)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"request_id": id,
		"vehicle_id": vehicle.ID,
		"status":     string(domain.RequestStatusApproved),
	}, http.StatusOK)
}

func (h *RequestsHandler) reject(w http.ResponseWriter, r *http.Request, id int64) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok || !auth.IsAuthorized(session) {
		writeError(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	if err := h.requests.Reject(r.Context(), id, session.AdminID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"request_id": id,
		"status":     string(domain.RequestStatusRejected),
	}, http.StatusOK)
}

func (h *RequestsHandler) edit(w http.ResponseWriter, r *http.Request, id int64) {
	var input service.EditRequestInput

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeError(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		h.fillEditInput(&input, r)

		refs, err := h.saveUploads(r.MultipartForm, "request")
		if err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		input.Images = refs
	} else {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, "Invalid request format", http.StatusBadRequest)
			return
		}
		input.Images = nil
	}

	request, err := h.requests.Edit(r.Context(), id, &input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, h.summarize(request), http.StatusOK)
}

func (h *RequestsHandler) summarize(request *domain.ClientRequest) *RequestSummary {
	return &RequestSummary{
		ID:                 request.ID,
		FullName:           request.FullName,
		DNI:                request.DNI,
		PhoneNumber:        request.PhoneNumber,
		Location:           request.Location,
		Address:            request.Address,
		Title:              request.Title,
		Description:        request.Description,
		FormattedPrice:     request.FormatPrice(),
		Currency:           request.Currency,
		Year:               request.Year,
		Brand:              request.Brand,
		Model:              request.Model,
		Kilometers:         request.Kilometers,
		FuelType:           request.FuelType,
		Transmission:       request.Transmission,
		Color:              request.Color,
		Images:             request.ImagesList(),
		PublicationType:    request.PublicationType,
		Status:             string(request.Status),
		AdminNotes:         request.AdminNotes,
		WhatsAppContactURL: request.WhatsAppContactURL(),
		CreatedAt:          request.CreatedAt,
		ProcessedAt:        request.ProcessedAt,
	}
}

// saveUploads stores every "images" file and returns their references.
func (h *RequestsHandler) saveUploads(form *multipart.Form, prefix string) ([]string, error) {
	if form == nil {
		return nil, nil
	}

	var refs []string
	for _, header := range form.File["images"] {
		file, err := header.Open()
		if err != nil {
			h.log.Warn("failed to open uploaded image", zap.String("filename", header.Filename), zap.Error(err))
			continue
		}
		ref, err := h.images.Save(prefix+"_", header.Filename, file)
		file.Close()
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (h *RequestsHandler) fillSubmitInput(input *service.SubmitRequestInput, r *http.Request) {
	input.FullName = r.FormValue("full_name")
	input.DNI = r.FormValue("dni")
	input.PhoneNumber = r.FormValue("phone_number")
	input.Location = r.FormValue("location")
	input.Address = formOptional(r, "address")
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
	input.PublicationType = r.FormValue("publication_type")
}

func (h *RequestsHandler) fillEditInput(input *service.EditRequestInput, r *http.Request) {
	input.FullName = r.FormValue("full_name")
	input.DNI = r.FormValue("dni")
	input.PhoneNumber = r.FormValue("phone_number")
	input.Location = r.FormValue("location")
	input.Address = formOptional(r, "address")
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
	input.PublicationType = r.FormValue("publication_type")
	input.AdminNotes = formOptional(r, "admin_notes")
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func formOptional(r *http.Request, key string) *string {
	v := r.FormValue(key)
	if v == "" {
		return nil
	}
	return &v
}

func formInt64(r *http.Request, key string) int64 {
	n, _ := strconv.ParseInt(r.FormValue(key), 10, 64)
	return n
}

func formIntPtr(r *http.Request, key string) *int {
	raw := r.FormValue(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
