package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

type Handlers struct {
	Bookings *app.BookingService
	Hotels   *app.HotelService
	Rooms    *app.RoomService
	Stats    *app.StatisticsService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Identity comes from the gateway in front of this service.
const (
	headerUsername = "X-Username"
	headerRole     = "X-User-Role"
)

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1/bookings", func(r chi.Router) {
		r.Post("/", h.createBooking)
		r.Get("/", h.listMyBookings)
		r.Get("/{id}", h.getBooking)
		r.Delete("/{id}", h.cancelBooking)
	})

	s.mux.Route("/v1/hotels", func(r chi.Router) {
		r.Get("/", h.listHotels)
		r.Get("/search", h.searchHotels)
		r.Get("/{id}", h.getHotel)
		r.Post("/", h.createHotel)
		r.Put("/{id}", h.updateHotel)
		r.Delete("/{id}", h.deleteHotel)
		r.Post("/{id}/rate", h.rateHotel)
	})

	s.mux.Route("/v1/rooms", func(r chi.Router) {
		r.Get("/", h.listRooms)
		r.Get("/search", h.searchRooms)
		r.Get("/{id}", h.getRoom)
		r.Post("/", h.createRoom)
		r.Put("/{id}", h.updateRoom)
		r.Delete("/{id}", h.deleteRoom)
	})

	s.mux.Route("/v1/admin", func(r chi.Router) {
		r.Get("/bookings", h.listAllBookings)
		r.Get("/statistics", h.listStatistics)
		r.Get("/statistics/export", h.exportStatistics)
	})
}

// ---- shared plumbing ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain sentinels onto problem+json responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "unexpected error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func identity(r *http.Request) (username string, role domain.Role) {
	username = r.Header.Get(headerUsername)
	if r.Header.Get(headerRole) == string(domain.RoleAdmin) {
		return username, domain.RoleAdmin
	}
	return username, domain.RoleUser
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, domain.Role, bool) {
	username, role := identity(r)
	if username == "" {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing identity")
		return "", "", false
	}
	return username, role, true
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	_, role := identity(r)
	if role != domain.RoleAdmin {
		writeProblem(w, http.StatusForbidden, "Forbidden", "admin role required")
		return false
	}
	return true
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func pageQuery(r *http.Request) domain.PageQuery {
	q := domain.PageQuery{}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		q.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil {
		q.Size = v
	}
	return q.Normalize()
}

type pageResponse[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

func toPageResponse[D, T any](p domain.Page[D], conv func(D) T) pageResponse[T] {
	items := make([]T, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, conv(it))
	}
	return pageResponse[T]{Items: items, Page: p.Page, Size: p.Size, TotalItems: p.TotalItems, TotalPages: p.TotalPages}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// ---- bookings ----

type bookingRequest struct {
	RoomID       int64  `json:"roomId"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
}

type bookingResponse struct {
	ID           int64  `json:"id"`
	RoomID       int64  `json:"roomId"`
	UserID       int64  `json:"userId"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:           b.ID,
		RoomID:       b.RoomID,
		UserID:       b.UserID,
		CheckInDate:  b.CheckInDate.Format(domain.DateLayout),
		CheckOutDate: b.CheckOutDate.Format(domain.DateLayout),
	}
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	username, _, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	checkIn, err := time.Parse(domain.DateLayout, req.CheckInDate)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "checkInDate must be YYYY-MM-DD")
		return
	}
	checkOut, err := time.Parse(domain.DateLayout, req.CheckOutDate)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "checkOutDate must be YYYY-MM-DD")
		return
	}

	b, err := h.Bookings.Create(r.Context(), username, req.RoomID, checkIn, checkOut)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			observability.ObserveAdmission("conflict")
		case errors.Is(err, domain.ErrValidation):
			observability.ObserveAdmission("rejected")
		}
		writeError(w, err)
		return
	}
	observability.ObserveAdmission("admitted")
	writeJSON(w, http.StatusCreated, toBookingResponse(b))
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	username, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a number")
		return
	}
	b, err := h.Bookings.GetByID(r.Context(), username, role, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(b))
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	username, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a number")
		return
	}
	if err := h.Bookings.Cancel(r.Context(), username, role, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listMyBookings(w http.ResponseWriter, r *http.Request) {
	username, _, ok := requireUser(w, r)
	if !ok {
		return
	}
	page, err := h.Bookings.ListForUser(r.Context(), username, pageQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page, toBookingResponse))
}

func (h *Handlers) listAllBookings(w http.ResponseWriter, r *http.Request) {
	_, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	page, err := h.Bookings.ListAll(r.Context(), role, pageQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page, toBookingResponse))
}

// ---- hotels ----

type hotelRequest struct {
	Name               string   `json:"name"`
	Title              string   `json:"title"`
	City               string   `json:"city"`
	Address            string   `json:"address"`
	DistanceFromCenter *float64 `json:"distanceFromCenter,omitempty"`
}

type hotelResponse struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Title              string   `json:"title"`
	City               string   `json:"city"`
	Address            string   `json:"address"`
	DistanceFromCenter *float64 `json:"distanceFromCenter,omitempty"`
	Rating             float64  `json:"rating"`
	NumberOfRatings    int      `json:"numberOfRatings"`
}

func toHotelResponse(h domain.Hotel) hotelResponse {
	return hotelResponse{
		ID:                 h.ID,
		Name:               h.Name,
		Title:              h.Title,
		City:               h.City,
		Address:            h.Address,
		DistanceFromCenter: h.DistanceFromCenter,
		Rating:             h.Rating,
		NumberOfRatings:    h.NumberOfRatings,
	}
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var req hotelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	created, err := h.Hotels.Create(r.Context(), domain.Hotel{
		Name: req.Name, Title: req.Title, City: req.City, Address: req.Address,
		DistanceFromCenter: req.DistanceFromCenter,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHotelResponse(created))
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a number")
		return
	}
	hotel, err := h.Hotels.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	etag, body := calcETagAndBody(toHotelResponse(hotel))
	// If the client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getHotel body")
	}
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a number")
		return
	}
	var req hotelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.Hotels.Update(r.Context(), domain.Hotel{
		ID: id, Name: req.Name, Title: req.Title, City: req.City, Address: req.Address,
		DistanceFromCenter: req.DistanceFromCenter,
	}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a number")
		return
	}
	if err := h.Hotels.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	page, err := h.Hotels.List(r.Context(), pageQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page, toHotelResponse))
}

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	c, err := parseHotelCriteria(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	page, err := h.Hotels.Search(r.Context(), c, pageQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page, toHotelResponse))
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

func (h *Handlers) rateHotel(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := requireUser(w, r); !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a number")
		return
	}
	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	updated, err := h.Hotels.Rate(r.Context(), id, req.Rating)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHotelResponse(updated))
}

// ---- rooms ----

type roomRequest struct {
	HotelID     int64  `json:"hotelId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Number      string `json:"number"`
	PriceCents  int64  `json:"priceCents"`
	MaxGuests   int    `json:"maxGuests"`
}

type roomResponse struct {
	ID          int64  `json:"id"`
	HotelID     int64  `json:"hotelId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Number      string `json:"number"`
	PriceCents  int64  `json:"priceCents"`
	MaxGuests   int    `json:"maxGuests"`
}

func toRoomResponse(rm domain.Room) roomResponse {
	return roomResponse{
		ID: rm.ID, HotelID: rm.HotelID, Name: rm.Name, Description: rm.Description,
		Number: rm.Number, PriceCents: rm.PriceCents, MaxGuests: rm.MaxGuests,
	}
}

func (req roomRequest) toDomain(id int64) domain.Room {
	return domain.Room{
		ID: id, HotelID: req.HotelID, Name: req.Name, Description: req.Description,
		Number: req.Number, PriceCents: req.PriceCents, MaxGuests: req.MaxGuests,
	}
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	created, err := h.Rooms.Create(r.Context(), req.toDomain(0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoomResponse(created))
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a number")
		return
	}
	rm, err := h.Rooms.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomResponse(rm))
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a number")
		return
	}
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.Rooms.Update(r.Context(), req.toDomain(id)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "id must be a number")
		return
	}
	if err := h.Rooms.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	page, err := h.Rooms.List(r.Context(), pageQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page, toRoomResponse))
}

func (h *Handlers) searchRooms(w http.ResponseWriter, r *http.Request) {
	c, err := parseRoomCriteria(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	page, err := h.Rooms.Search(r.Context(), c, pageQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(page, toRoomResponse))
}

// ---- statistics ----

type statisticsResponse struct {
	ID         string         `json:"id"`
	EventType  string         `json:"eventType"`
	UserID     int64          `json:"userId"`
	OccurredAt time.Time      `json:"occurredAt"`
	Data       map[string]any `json:"data,omitempty"`
}

func (h *Handlers) listStatistics(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	recs, err := h.Stats.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]statisticsResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, statisticsResponse{
			ID: rec.ID, EventType: rec.EventType, UserID: rec.UserID,
			OccurredAt: rec.OccurredAt, Data: rec.Data,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) exportStatistics(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="statistics.csv"`)
	if err := h.Stats.ExportCSV(r.Context(), w); err != nil {
		log.Error().Err(err).Msg("statistics export failed")
	}
}
