package inventory

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

// Handler exposes the /api/inventario endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the inventory handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/todos", h.list)
	r.Get("/siguiente-codigo/{categoria}", h.peekNextCode)
	r.Post("/nuevo", h.create)
	r.Put("/editar/{id}", h.update)
	r.Delete("/eliminar/{id}", h.remove)
	r.Get("/resumen", h.summary)
	r.Get("/export", h.export)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if items == nil {
		items = []Item{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) peekNextCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.service.PeekNextCode(r.Context(), chi.URLParam(r, "categoria"))
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"siguienteCodigo": code})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Cuerpo inválido.")
		return
	}

	item, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{
		"mensaje":      fmt.Sprintf("Item registrado con éxito. Código: %s", item.CodigoSerie),
		"codigo_serie": item.CodigoSerie,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Msg(w, http.StatusBadRequest, "ID inválido.")
		return
	}

	var req UpdateItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Msg(w, http.StatusBadRequest, "Cuerpo inválido.")
		return
	}

	if err := h.service.Update(r.Context(), id, req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Msg(w, http.StatusOK, "Item actualizado correctamente")
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
	httpx.Msg(w, http.StatusOK, "Item eliminado")
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Summary(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if counts == nil {
		counts = []CategoryCount{}
	}
	httpx.JSON(w, http.StatusOK, counts)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	book, err := buildWorkbook(items)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	defer func() { _ = book.Close() }()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="inventario.xlsx"`)
	if err := book.Write(w); err != nil {
		h.logger.Error("write inventory export", slog.Any("error", err))
	}
}
