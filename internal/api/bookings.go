package api

import (
	"net/http"

	models "github.com/chrisdamba/flighttrouble/internal"
	"github.com/chrisdamba/flighttrouble/internal/ports"
	"github.com/chrisdamba/flighttrouble/internal/utils"
	"github.com/chrisdamba/flighttrouble/internal/validator"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type BookingHandler struct {
	service   ports.BookingService
	validator *validator.CustomValidator
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{
		service:   service,
		validator: validator.NewCustomValidator(),
	}
}

func (h *BookingHandler) Register(r chi.Router) {
	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.listByUser)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.amend)
		r.Post("/{id}/cancel", h.cancel)
	})
}

func (h *BookingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := utils.JsonDecodeBody(r, &req); err != nil {
		ae := utils.NewBadRequest("error json decoding body")
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		ae := utils.NewBadRequest(err.Error())
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), &req)
	if err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusCreated, booking)
}

func (h *BookingHandler) amend(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req models.AmendBookingRequest
	if err := utils.JsonDecodeBody(r, &req); err != nil {
		ae := utils.NewBadRequest("error json decoding body")
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		ae := utils.NewBadRequest(err.Error())
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}

	booking, err := h.service.AmendBooking(r.Context(), id, models.ToPassengers(req.Passengers))
	if err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusOK, booking)
}

func (h *BookingHandler) cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), id)
	if err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusOK, booking)
}

func (h *BookingHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(r.Context(), id)
	if err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusOK, booking)
}

func (h *BookingHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		ae := utils.NewBadRequest("valid user_id query parameter required")
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}

	bookings, err := h.service.BookingsByUser(r.Context(), userID)
	if err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusOK, map[string]interface{}{"bookings": bookings})
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		ae := utils.NewBadRequest("invalid id")
		utils.RenderResponse(w, ae.StatusCode, ae)
		return uuid.Nil, false
	}
	return id, true
}
