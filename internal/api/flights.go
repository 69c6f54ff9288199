package api

import (
	"net/http"

	models "github.com/chrisdamba/flighttrouble/internal"
	"github.com/chrisdamba/flighttrouble/internal/ports"
	"github.com/chrisdamba/flighttrouble/internal/utils"
	"github.com/chrisdamba/flighttrouble/internal/validator"
	"github.com/go-chi/chi/v5"
)

type FlightHandler struct {
	service   ports.FlightService
	validator *validator.CustomValidator
}

func NewFlightHandler(service ports.FlightService) *FlightHandler {
	return &FlightHandler{
		service:   service,
		validator: validator.NewCustomValidator(),
	}
}

func (h *FlightHandler) Register(r chi.Router) {
	r.Route("/flights", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Post("/{id}/cancel", h.cancel)
	})
	r.Route("/aircraft", func(r chi.Router) {
		r.Post("/", h.createAircraft)
		r.Get("/", h.listAircraft)
		r.Get("/{id}", h.getAircraft)
	})
}

func (h *FlightHandler) create(w http.ResponseWriter, r *http.Request) {
	var req models.FlightRequest
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

	flight, err := h.service.CreateFlight(r.Context(), &req)
	if err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusCreated, flight)
}

func (h *FlightHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req models.FlightUpdateRequest
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

	flight, err := h.service.UpdateFlight(r.Context(), id, &req)
	if err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusOK, flight)
}

func (h *FlightHandler) cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	flight, err := h.service.CancelFlight(r.Context(), id)
	if err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusOK, flight)
}

func (h *FlightHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	flight, err := h.service.GetFlight(r.Context(), id)
	if err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusOK, flight)
}

func (h *FlightHandler) list(w http.ResponseWriter, r *http.Request) {
	scheduledOnly := r.URL.Query().Get("scheduled") == "true"

	flights, err := h.service.ListFlights(r.Context(), scheduledOnly)
	if err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusOK, map[string]interface{}{"flights": flights})
}

func (h *FlightHandler) createAircraft(w http.ResponseWriter, r *http.Request) {
	var req models.AircraftRequest
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

	aircraft, err := h.service.CreateAircraft(r.Context(), &req)
	if err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusCreated, aircraft)
}

func (h *FlightHandler) getAircraft(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	aircraft, err := h.service.GetAircraft(r.Context(), id)
	if err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusOK, aircraft)
}

func (h *FlightHandler) listAircraft(w http.ResponseWriter, r *http.Request) {
	fleet, err := h.service.ListAircraft(r.Context())
	if err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusOK, map[string]interface{}{"aircraft": fleet})
}
