package jobs

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fundacion-saciar/saciar-api/internal/benefactors"
	"github.com/fundacion-saciar/saciar-api/internal/fleet"
	"github.com/fundacion-saciar/saciar-api/internal/volunteers"
)

type fakeMailer struct {
	configured bool
	subjects   []string
	bodies     []string
}

func (m *fakeMailer) Configured() bool { return m.configured }

func (m *fakeMailer) Send(ctx context.Context, subject, textContent string) error {
	m.subjects = append(m.subjects, subject)
	m.bodies = append(m.bodies, textContent)
	return nil
}

type fakeSources struct {
	volunteerRows  map[int][]volunteers.BirthdayRow
	benefactorRows map[int][]benefactors.BirthdayRow
	payments       []benefactors.PaymentRow
	expiries       []fleet.ExpiryRow
}

func (f *fakeSources) BirthdaysOn(ctx context.Context, daysAhead int) ([]volunteers.BirthdayRow, error) {
	return f.volunteerRows[daysAhead], nil
}

type benefactorFake fakeSources

func (f *benefactorFake) BirthdaysOn(ctx context.Context, daysAhead int) ([]benefactors.BirthdayRow, error) {
	return f.benefactorRows[daysAhead], nil
}

func (f *benefactorFake) PaymentsDueSoon(ctx context.Context, days int) ([]benefactors.PaymentRow, error) {
	return f.payments, nil
}

type fleetFake fakeSources

func (f *fleetFake) ExpiringWithin(ctx context.Context, days int) ([]fleet.ExpiryRow, error) {
	return f.expiries, nil
}

func newTestReminders(m Mailer, src *fakeSources) *Reminders {
	return NewReminders(slog.Default(), m, src, (*benefactorFake)(src), (*fleetFake)(src))
}

func TestVolunteerBirthdaysTodaySendsSummary(t *testing.T) {
	mail := &fakeMailer{configured: true}
	r := newTestReminders(mail, &fakeSources{
		volunteerRows: map[int][]volunteers.BirthdayRow{
			0: {{NombreCompleto: "Ana"}, {NombreCompleto: "Luis"}},
		},
	})

	require.NoError(t, r.volunteerBirthdaysToday(context.Background(), nil))
	require.Len(t, mail.subjects, 1)
	require.Equal(t, "🎂 ¡Feliz Cumpleaños Voluntario!", mail.subjects[0])
	require.Contains(t, mail.bodies[0], "- Ana\n- Luis")
	require.Contains(t, mail.bodies[0], "¡Felicítalos!")
}

func TestFourDayLookaheadUsesOffsetQuery(t *testing.T) {
	mail := &fakeMailer{configured: true}
	r := newTestReminders(mail, &fakeSources{
		volunteerRows: map[int][]volunteers.BirthdayRow{
			4: {{NombreCompleto: "Carla"}},
		},
	})

	require.NoError(t, r.volunteerBirthdaysSoon(context.Background(), nil))
	require.Len(t, mail.subjects, 1)
	require.Contains(t, mail.bodies[0], "en 4 días")
	require.Contains(t, mail.bodies[0], "- Carla")
}

func TestNoMatchesSendsNothing(t *testing.T) {
	mail := &fakeMailer{configured: true}
	r := newTestReminders(mail, &fakeSources{})

	require.NoError(t, r.volunteerBirthdaysToday(context.Background(), nil))
	require.NoError(t, r.benefactorBirthdaysSoon(context.Background(), nil))
	require.NoError(t, r.paymentsDue(context.Background(), nil))
	require.NoError(t, r.vehicleExpiries(context.Background(), nil))
	require.Empty(t, mail.subjects)
}

func TestUnconfiguredMailerSkipsWithoutError(t *testing.T) {
	mail := &fakeMailer{configured: false}
	r := newTestReminders(mail, &fakeSources{
		volunteerRows: map[int][]volunteers.BirthdayRow{
			0: {{NombreCompleto: "Ana"}},
		},
	})

	require.NoError(t, r.volunteerBirthdaysToday(context.Background(), nil))
	require.Empty(t, mail.subjects)
}

func TestPaymentsDueSummary(t *testing.T) {
	mail := &fakeMailer{configured: true}
	r := newTestReminders(mail, &fakeSources{
		payments: []benefactors.PaymentRow{
			{NombreCompleto: "Panadería La Espiga", FechaProximoPago: "2026-09-05", EstadoPago: "Pendiente"},
		},
	})

	require.NoError(t, r.paymentsDue(context.Background(), nil))
	require.Len(t, mail.subjects, 1)
	require.Contains(t, mail.bodies[0], "Panadería La Espiga (vence 2026-09-05, estado Pendiente)")
}

func TestVehicleExpiriesSummary(t *testing.T) {
	mail := &fakeMailer{configured: true}
	r := newTestReminders(mail, &fakeSources{
		expiries: []fleet.ExpiryRow{
			{Placa: "ABC123", VencimientoSOAT: "2026-09-20"},
		},
	})

	require.NoError(t, r.vehicleExpiries(context.Background(), nil))
	require.Len(t, mail.subjects, 1)
	require.Contains(t, mail.bodies[0], "ABC123 (SOAT 2026-09-20, tecnomecánica sin fecha, licencia sin fecha)")
}
