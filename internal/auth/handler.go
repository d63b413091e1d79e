package auth

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

type registerRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	NombreCompleto string `json:"nombre_completo"`
	Rol            string `json:"rol" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Mensaje string    `json:"mensaje"`
	Token   string    `json:"token"`
	Usuario userBrief `json:"usuario"`
}

type userBrief struct {
	Nombre string `json:"nombre"`
	Rol    string `json:"rol"`
}

// Handler exposes the /api/auth endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the auth handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes attaches auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Cuerpo inválido.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Faltan datos.")
		return
	}

	if _, err := h.service.Register(r.Context(), req.Email, req.Password, req.NombreCompleto, req.Rol); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Msg(w, http.StatusCreated, fmt.Sprintf("Usuario %s registrado.", req.Email))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Cuerpo inválido.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, h.logger, ErrInvalidCredentials)
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	httpx.JSON(w, http.StatusOK, loginResponse{
		Mensaje: "Login exitoso",
		Token:   token,
		Usuario: userBrief{Nombre: user.FullName, Rol: user.Rol},
	})
}
