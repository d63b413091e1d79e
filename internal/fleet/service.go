package fleet

import (
	"context"

	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

// expiryWindowDays bounds the document-expiry report and the daily
// reminder.
const expiryWindowDays = 30

// Service implements the fleet use cases.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns vehicles, optionally filtered by plate/description.
func (s *Service) List(ctx context.Context, search string) ([]Vehicle, error) {
	return s.repo.List(ctx, search)
}

// Create registers a vehicle. The plate is the only required field.
func (s *Service) Create(ctx context.Context, req UpsertRequest) (int64, error) {
	if req.Placa == "" {
		return 0, httpx.Invalid("La placa es obligatoria")
	}
	return s.repo.Insert(ctx, Vehicle{
		Placa:               req.Placa,
		Descripcion:         req.Descripcion,
		ConductorAsignado:   req.ConductorAsignado,
		VencimientoSOAT:     req.VencimientoSOAT,
		VencimientoTecno:    req.VencimientoTecno,
		VencimientoLicencia: req.VencimientoLicencia,
	})
}

// Update replaces the whole record, full-replace semantics.
func (s *Service) Update(ctx context.Context, id int64, req UpsertRequest) error {
	if req.Placa == "" {
		return httpx.Invalid("La placa es obligatoria")
	}
	return s.repo.Update(ctx, Vehicle{
		ID:                  id,
		Placa:               req.Placa,
		Descripcion:         req.Descripcion,
		ConductorAsignado:   req.ConductorAsignado,
		VencimientoSOAT:     req.VencimientoSOAT,
		VencimientoTecno:    req.VencimientoTecno,
		VencimientoLicencia: req.VencimientoLicencia,
	})
}

// Expiries lists vehicles with documents due within the next 30 days.
func (s *Service) Expiries(ctx context.Context) ([]ExpiryRow, error) {
	return s.repo.ExpiringWithin(ctx, expiryWindowDays)
}
