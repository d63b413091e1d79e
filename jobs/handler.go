package jobs

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"

	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

// Handler exposes HTTP endpoints for job observability and the manual
// email test.
type Handler struct {
	client    *Client
	inspector *asynq.Inspector
	logger    *slog.Logger
}

// NewHandler constructs an HTTP handler for job endpoints. client and
// inspector may be nil when redis is unavailable.
func NewHandler(client *Client, inspector *asynq.Inspector, logger *slog.Logger) *Handler {
	return &Handler{client: client, inspector: inspector, logger: logger}
}

// MountRoutes attaches job routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/test-email-hoy", h.testEmailToday)
	r.Get("/jobs/health", h.health)
}

// testEmailToday fires the volunteers-today check ad hoc so staff can
// verify the mail pipeline without waiting for the morning cron.
func (h *Handler) testEmailToday(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		httpx.Msg(w, http.StatusServiceUnavailable, "Cola de tareas no disponible.")
		return
	}
	if _, err := h.client.Enqueue(r.Context(), TaskVolunteerBirthdaysToday); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Msg(w, http.StatusOK, "Test de email iniciado. Revisa consola.")
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.inspector == nil {
		httpx.JSON(w, http.StatusOK, map[string]any{"queue": QueueDefault, "pending": 0})
		return
	}
	info, err := h.inspector.GetQueueInfo(QueueDefault)
	if err != nil {
		h.logger.Warn("jobs health", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	pending := 0
	queueName := QueueDefault
	if info != nil {
		pending = int(info.Pending)
		queueName = info.Queue
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"queue":"` + queueName + `","pending":` + strconv.Itoa(pending) + `}`))
}
