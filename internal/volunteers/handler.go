package volunteers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

// Handler exposes the /api/voluntarios endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the volunteers handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes attaches volunteer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/todos", h.list)
	r.Post("/nuevo", h.create)
	r.Put("/editar/{id}", h.update)
	r.Delete("/eliminar/{id}", h.remove)
	r.Get("/buscar", h.quickSearch)
	r.Get("/hoy", h.birthdaysToday)
	r.Get("/proximos", h.birthdaysUpcoming)
	r.Get("/resumen", h.summary)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	items, pagination, err := h.service.List(r.Context(), ListRequest{
		Page:   page,
		Limit:  limit,
		Search: q.Get("search"),
	})
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if items == nil {
		items = []Volunteer{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": pagination,
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req UpsertRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Cuerpo inválido.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "El nombre es obligatorio.")
		return
	}

	if _, err := h.service.Create(r.Context(), req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Msg(w, http.StatusCreated, "Voluntario registrado")
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
		httpx.Msg(w, http.StatusBadRequest, "El nombre es obligatorio.")
		return
	}

	if err := h.service.Update(r.Context(), id, req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Msg(w, http.StatusOK, "Voluntario actualizado")
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Msg(w, http.StatusBadRequest, "ID inválido.")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Msg(w, http.StatusOK, "Voluntario eliminado")
}

func (h *Handler) quickSearch(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.QuickSearch(r.Context(), r.URL.Query().Get("nombre"))
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, results)
}

func (h *Handler) birthdaysToday(w http.ResponseWriter, r *http.Request) {
	rowsOut, err := h.service.BirthdaysToday(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if rowsOut == nil {
		rowsOut = []BirthdayRow{}
	}
	httpx.JSON(w, http.StatusOK, rowsOut)
}

func (h *Handler) birthdaysUpcoming(w http.ResponseWriter, r *http.Request) {
	rowsOut, err := h.service.BirthdaysUpcoming(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if rowsOut == nil {
		rowsOut = []UpcomingRow{}
	}
	httpx.JSON(w, http.StatusOK, rowsOut)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.service.Summary(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sum)
}
