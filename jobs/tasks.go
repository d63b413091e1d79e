// Package jobs runs the daily reminder emails on an Asynq worker with a
// cron scheduler pinned to America/Bogota.
package jobs

import "github.com/hibiken/asynq"

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	TaskVolunteerBirthdaysSoon   = "recordatorios:voluntarios:cuatro-dias"
	TaskVolunteerBirthdaysToday  = "recordatorios:voluntarios:hoy"
	TaskBenefactorBirthdaysSoon  = "recordatorios:benefactores:cuatro-dias"
	TaskBenefactorBirthdaysToday = "recordatorios:benefactores:hoy"
	TaskPaymentsDue              = "recordatorios:pagos"
	TaskVehicleExpiries          = "recordatorios:vehiculos"
)

// birthdayLookaheadDays is how far ahead the early-warning birthday
// reminders look.
const birthdayLookaheadDays = 4

// NewTask builds an empty-payload task for one of the reminder types.
// The reminders re-query the database when they run, so no payload is
// carried.
func NewTask(taskType string) *asynq.Task {
	return asynq.NewTask(taskType, nil)
}
