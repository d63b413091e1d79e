package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/fundacion-saciar/saciar-api/internal/benefactors"
	"github.com/fundacion-saciar/saciar-api/internal/fleet"
	"github.com/fundacion-saciar/saciar-api/internal/volunteers"
)

const (
	paymentWindowDays = 7
	expiryWindowDays  = 30
)

// Mailer is the delivery side of the reminders. Configured reports
// whether credentials are present; unconfigured delivery is skipped
// with a log line instead of failing the task.
type Mailer interface {
	Configured() bool
	Send(ctx context.Context, subject, textContent string) error
}

// VolunteerSource supplies the volunteer birthday queries.
type VolunteerSource interface {
	BirthdaysOn(ctx context.Context, daysAhead int) ([]volunteers.BirthdayRow, error)
}

// BenefactorSource supplies the benefactor birthday and payment queries.
type BenefactorSource interface {
	BirthdaysOn(ctx context.Context, daysAhead int) ([]benefactors.BirthdayRow, error)
	PaymentsDueSoon(ctx context.Context, days int) ([]benefactors.PaymentRow, error)
}

// FleetSource supplies the vehicle document expiry query.
type FleetSource interface {
	ExpiringWithin(ctx context.Context, days int) ([]fleet.ExpiryRow, error)
}

// Reminders owns the reminder task handlers.
type Reminders struct {
	logger      *slog.Logger
	mailer      Mailer
	volunteers  VolunteerSource
	benefactors BenefactorSource
	fleet       FleetSource
}

// NewReminders constructs the reminder handlers.
func NewReminders(logger *slog.Logger, m Mailer, v VolunteerSource, b BenefactorSource, f FleetSource) *Reminders {
	return &Reminders{logger: logger, mailer: m, volunteers: v, benefactors: b, fleet: f}
}

// TaskHandlers lists every reminder handler keyed by task type.
func (r *Reminders) TaskHandlers() []TaskHandler {
	return []TaskHandler{
		{Type: TaskVolunteerBirthdaysSoon, Handler: r.volunteerBirthdaysSoon},
		{Type: TaskVolunteerBirthdaysToday, Handler: r.volunteerBirthdaysToday},
		{Type: TaskBenefactorBirthdaysSoon, Handler: r.benefactorBirthdaysSoon},
		{Type: TaskBenefactorBirthdaysToday, Handler: r.benefactorBirthdaysToday},
		{Type: TaskPaymentsDue, Handler: r.paymentsDue},
		{Type: TaskVehicleExpiries, Handler: r.vehicleExpiries},
	}
}

func (r *Reminders) volunteerBirthdaysSoon(ctx context.Context, _ *asynq.Task) error {
	rows, err := r.volunteers.BirthdaysOn(ctx, birthdayLookaheadDays)
	if err != nil {
		return fmt.Errorf("volunteer birthdays soon: %w", err)
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.NombreCompleto)
	}
	return r.send(ctx, "🔔 Alerta: Cumpleaños Voluntarios (4 días)",
		"¡Hola! \n\nCumplen años en 4 días:\n\n"+bulleted(names), names)
}

func (r *Reminders) volunteerBirthdaysToday(ctx context.Context, _ *asynq.Task) error {
	rows, err := r.volunteers.BirthdaysOn(ctx, 0)
	if err != nil {
		return fmt.Errorf("volunteer birthdays today: %w", err)
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.NombreCompleto)
	}
	return r.send(ctx, "🎂 ¡Feliz Cumpleaños Voluntario!",
		"¡Hola! \n\nCumplen años HOY:\n\n"+bulleted(names)+"\n\n¡Felicítalos!", names)
}

func (r *Reminders) benefactorBirthdaysSoon(ctx context.Context, _ *asynq.Task) error {
	rows, err := r.benefactors.BirthdaysOn(ctx, birthdayLookaheadDays)
	if err != nil {
		return fmt.Errorf("benefactor birthdays soon: %w", err)
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.NombreCompleto)
	}
	return r.send(ctx, "🔔 Alerta: Cumpleaños Benefactores (4 días)",
		"¡Hola! \n\nCumplen años en 4 días:\n\n"+bulleted(names), names)
}

func (r *Reminders) benefactorBirthdaysToday(ctx context.Context, _ *asynq.Task) error {
	rows, err := r.benefactors.BirthdaysOn(ctx, 0)
	if err != nil {
		return fmt.Errorf("benefactor birthdays today: %w", err)
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.NombreCompleto)
	}
	return r.send(ctx, "🎂 ¡Feliz Cumpleaños Benefactor!",
		"¡Hola! \n\nCumplen años HOY:\n\n"+bulleted(names)+"\n\n¡Felicítalos!", names)
}

func (r *Reminders) paymentsDue(ctx context.Context, _ *asynq.Task) error {
	rows, err := r.benefactors.PaymentsDueSoon(ctx, paymentWindowDays)
	if err != nil {
		return fmt.Errorf("payments due: %w", err)
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s (vence %s, estado %s)", row.NombreCompleto, row.FechaProximoPago, row.EstadoPago))
	}
	return r.send(ctx, "💰 Pagos de benefactores próximos a vencer",
		"¡Hola! \n\nPagos que vencen en los próximos 7 días:\n\n"+bulleted(lines), lines)
}

func (r *Reminders) vehicleExpiries(ctx context.Context, _ *asynq.Task) error {
	rows, err := r.fleet.ExpiringWithin(ctx, expiryWindowDays)
	if err != nil {
		return fmt.Errorf("vehicle expiries: %w", err)
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s (SOAT %s, tecnomecánica %s, licencia %s)",
			row.Placa, orNone(row.VencimientoSOAT), orNone(row.VencimientoTecno), orNone(row.VencimientoLicencia)))
	}
	return r.send(ctx, "🚛 Documentos de vehículos próximos a vencer",
		"¡Hola! \n\nVehículos con documentos que vencen en los próximos 30 días:\n\n"+bulleted(lines), lines)
}

// send delivers the summary unless there is nothing to report or the
// mailer has no credentials.
func (r *Reminders) send(ctx context.Context, subject, body string, items []string) error {
	if len(items) == 0 {
		return nil
	}
	if r.mailer == nil || !r.mailer.Configured() {
		r.logger.Warn("reminder skipped, mailer not configured", slog.String("subject", subject))
		return nil
	}
	if err := r.mailer.Send(ctx, subject, body); err != nil {
		return fmt.Errorf("send %q: %w", subject, err)
	}
	r.logger.Info("reminder sent", slog.String("subject", subject), slog.Int("items", len(items)))
	return nil
}

func bulleted(items []string) string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = "- " + item
	}
	return strings.Join(out, "\n")
}

func orNone(s string) string {
	if s == "" {
		return "sin fecha"
	}
	return s
}
