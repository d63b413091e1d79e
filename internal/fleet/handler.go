package fleet

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

// Handler exposes the /api/transporte endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the fleet handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes attaches fleet routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/todos", h.list)
	r.Post("/nuevo", h.create)
	r.Put("/editar/{id}", h.update)
	r.Get("/vencimientos", h.expiries)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if vehicles == nil {
		vehicles = []Vehicle{}
	}
	httpx.JSON(w, http.StatusOK, vehicles)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req UpsertRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Cuerpo inválido.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "La placa es obligatoria")
		return
	}

	if _, err := h.service.Create(r.Context(), req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Msg(w, http.StatusCreated, "Vehículo registrado con éxito")
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Msg(w, http.StatusBadRequest, "ID inválido.")
		return
	}

	var req UpsertRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Cuerpo inválido.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "La placa es obligatoria")
		return
	}

	if err := h.service.Update(r.Context(), id, req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Msg(w, http.StatusOK, "Vehículo actualizado correctamente")
}

func (h *Handler) expiries(w http.ResponseWriter, r *http.Request) {
	rowsOut, err := h.service.Expiries(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if rowsOut == nil {
		rowsOut = []ExpiryRow{}
	}
	httpx.JSON(w, http.StatusOK, rowsOut)
}
