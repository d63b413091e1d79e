package benefactors

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

// Handler exposes the /api/benefactores endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the benefactors handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches benefactor routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/nuevo", h.create)
	r.Get("/todos", h.list)
	r.Get("/buscar", h.quickSearch)
	r.Get("/detalle/{id}", h.detail)
	r.Put("/editar/{id}", h.smartUpdate)
	r.Delete("/eliminar/{id}", h.remove)
	r.Get("/hoy", h.birthdaysToday)
	r.Get("/pagos", h.paymentsDueSoon)
	r.Get("/resumen", h.summary)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var p Payload
	if err := httpx.DecodeJSON(r, &p); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Cuerpo inválido.")
		return
	}

	id, err := h.service.Create(r.Context(), p)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"mensaje": "Benefactor registrado con éxito.",
		"id":      id,
	})
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
		items = []Benefactor{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": pagination,
	})
}

func (h *Handler) quickSearch(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.QuickSearch(r.Context(), r.URL.Query().Get("nombre"))
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, results)
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Msg(w, http.StatusBadRequest, "ID inválido.")
		return
	}

	detail, err := h.service.Detail(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, detail)
}

func (h *Handler) smartUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Msg(w, http.StatusBadRequest, "ID inválido.")
		return
	}

	var p Payload
	if err := httpx.DecodeJSON(r, &p); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Cuerpo inválido.")
		return
	}

	if err := h.service.SmartUpdate(r.Context(), id, p); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Msg(w, http.StatusOK, "Benefactor actualizado correctamente.")
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
	httpx.Msg(w, http.StatusOK, "Benefactor eliminado junto con sus donaciones.")
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

func (h *Handler) paymentsDueSoon(w http.ResponseWriter, r *http.Request) {
	rowsOut, err := h.service.PaymentsDueSoon(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if rowsOut == nil {
		rowsOut = []PaymentRow{}
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
