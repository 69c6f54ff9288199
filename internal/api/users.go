package api

import (
	"net/http"

	models "github.com/chrisdamba/flighttrouble/internal"
	"github.com/chrisdamba/flighttrouble/internal/ports"
	"github.com/chrisdamba/flighttrouble/internal/utils"
	"github.com/chrisdamba/flighttrouble/internal/validator"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	service   ports.UserService
	validator *validator.CustomValidator
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{
		service:   service,
		validator: validator.NewCustomValidator(),
	}
}

func (h *UserHandler) Register(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
	})
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.list)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *UserHandler) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
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

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusCreated, user)
}

func (h *UserHandler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
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

	user, err := h.service.Login(r.Context(), &req)
	if err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusOK, user)
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req models.UserUpdateRequest
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

	user, err := h.service.UpdateUser(r.Context(), id, &req)
	if err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusOK, user)
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusNoContent, nil)
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		ae := apiErrorFrom(err)
		utils.RenderResponse(w, ae.StatusCode, ae)
		return
	}
	utils.RenderResponse(w, http.StatusOK, map[string]interface{}{"users": users})
}
