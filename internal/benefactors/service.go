package benefactors

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/fundacion-saciar/saciar-api/internal/platform/cache"
	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

const (
	summaryCacheKey = "benefactores:resumen"

	// paymentWindowDays bounds the "due soon" queries behind the
	// notification bell and the daily reminder.
	paymentWindowDays = 7

	quickSearchLimit = 10
)

// Service implements the benefactor use cases, including the smart
// partial-update merge.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService constructs a Service. cache may be nil.
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// Create registers a benefactor together with its first donation row in
// one transaction. Payment status starts as Pendiente.
func (s *Service) Create(ctx context.Context, p Payload) (int64, error) {
	if p.NombreCompleto == "" {
		return 0, httpx.Invalid("El nombre es obligatorio.")
	}

	b := Benefactor{EstadoPago: PagoPendiente}.merged(p)

	var id int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var err error
		id, err = tx.Insert(ctx, b)
		if err != nil {
			return err
		}
		return tx.InsertDonation(ctx, Donation{
			BenefactorID:     id,
			TipoDonacion:     p.TipoDonacion,
			Procedencia:      p.Procedencia,
			Procedencia2:     p.Procedencia2,
			DetallesDonacion: p.DetallesDonacion,
			FechaDonacion:    p.FechaDonacion,
			Observaciones:    p.Observaciones,
		})
	})
	if err != nil {
		return 0, err
	}

	s.invalidateSummary(ctx)
	return id, nil
}

// SmartUpdate merges the payload over the stored record: fields the
// payload leaves empty keep their current values. The benefactor row and
// its latest donation are read, merged and written inside one
// transaction, so a failure on either side rolls back both.
//
// When the benefactor has no donation history, a new donation is created
// only if the payload carries tipo_donacion; otherwise the donation side
// is a no-op.
func (s *Service) SmartUpdate(ctx context.Context, id int64, p Payload) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Update(ctx, current.merged(p)); err != nil {
			return err
		}

		latest, err := tx.LatestDonation(ctx, id)
		if err != nil {
			return fmt.Errorf("latest donation: %w", err)
		}
		switch {
		case latest != nil:
			return tx.UpdateDonation(ctx, latest.merged(p))
		case p.TipoDonacion != "":
			return tx.InsertDonation(ctx, donationFromPayload(id, p))
		default:
			return nil
		}
	})
	if err != nil {
		return err
	}

	s.invalidateSummary(ctx)
	return nil
}

// Delete removes a benefactor and every donation it owns atomically.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.DeleteDonations(ctx, id); err != nil {
			return fmt.Errorf("delete donations: %w", err)
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.invalidateSummary(ctx)
	return nil
}

// List returns one page of benefactors plus pagination metadata.
func (s *Service) List(ctx context.Context, req ListRequest) ([]Benefactor, Pagination, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	items, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, Pagination{}, err
	}
	pages := (total + req.Limit - 1) / req.Limit
	return items, Pagination{Page: req.Page, Limit: req.Limit, TotalItems: total, TotalPages: pages}, nil
}

// Detail returns the benefactor merged with its latest donation, the
// shape the edit form consumes.
func (s *Service) Detail(ctx context.Context, id int64) (map[string]any, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	out := map[string]any{
		"id": b.ID, "cod_1_tipo": b.Cod1Tipo, "naturaleza": b.Naturaleza,
		"tipo_documento": b.TipoDocumento, "numero_documento": b.NumeroDocumento,
		"nombre_benefactor": b.NombreBenefactor, "nombre_contactado": b.NombreContactado,
		"numero_contacto": b.NumeroContacto, "correo": b.Correo,
		"fecha_fundacion_o_cumpleanos": b.FechaFundacion, "direccion": b.Direccion,
		"departamento": b.Departamento, "ciudad": b.Ciudad, "empresa": b.Empresa,
		"cargo": b.Cargo, "estado_civil": b.EstadoCivil, "conyuge": b.Conyuge,
		"protocolo": b.Protocolo, "contacto_saciar": b.ContactoSaciar, "estado": b.Estado,
		"autorizacion_datos": b.AutorizacionDatos, "fecha_rut_actualizado": b.FechaRutActualizado,
		"certificado_donacion": b.CertificadoDonacion, "certificado_donacion_detalle": b.CertificadoDonacionDetalle,
		"fecha_actualizacion_clinton": b.FechaActualizacionClinton,
		"antecedentes_judiciales":     b.AntecedentesJudiciales,
		"encuesta_satisfaccion":       b.EncuestaSatisfaccion,
		"estado_pago":                 b.EstadoPago, "fecha_proximo_pago": b.FechaProximoPago,
	}

	d, err := s.repo.LatestDonation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("latest donation: %w", err)
	}
	if d != nil {
		out["donacion_id"] = d.ID
		out["tipo_donacion"] = d.TipoDonacion
		out["procedencia"] = d.Procedencia
		out["procedencia_2"] = d.Procedencia2
		out["detalles_donacion"] = d.DetallesDonacion
		out["fecha_donacion"] = d.FechaDonacion
		out["observaciones"] = d.Observaciones
	}
	return out, nil
}

// QuickSearch matches benefactor names accent-insensitively for the
// header typeahead, so "jose" finds "José".
func (s *Service) QuickSearch(ctx context.Context, nombre string) ([]SearchResult, error) {
	term := foldAccents(nombre)
	if term == "" {
		return []SearchResult{}, nil
	}

	candidates, err := s.repo.SearchCandidates(ctx)
	if err != nil {
		return nil, err
	}

	var out []SearchResult
	for _, c := range candidates {
		if strings.Contains(foldAccents(c.NombreCompleto), term) || strings.Contains(foldAccents(c.Empresa), term) {
			out = append(out, c)
			if len(out) == quickSearchLimit {
				break
			}
		}
	}
	if out == nil {
		out = []SearchResult{}
	}
	return out, nil
}

// BirthdaysToday lists benefactors whose anniversary falls today.
func (s *Service) BirthdaysToday(ctx context.Context) ([]BirthdayRow, error) {
	return s.repo.BirthdaysOn(ctx, 0)
}

// PaymentsDueSoon lists benefactors with pending or overdue payments due
// within the notification window.
func (s *Service) PaymentsDueSoon(ctx context.Context) ([]PaymentRow, error) {
	return s.repo.PaymentsDueSoon(ctx, paymentWindowDays)
}

// Summary returns the counters behind the notification bell, cached
// briefly. Both counts run concurrently.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var sum Summary
	err := s.cache.FetchJSON(ctx, summaryCacheKey, &sum, func(ctx context.Context) (any, error) {
		var fresh Summary
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			fresh.Hoy, err = s.repo.CountBirthdaysToday(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			fresh.Proximos, err = s.repo.CountPaymentsDueSoon(ctx, paymentWindowDays)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

func (s *Service) invalidateSummary(ctx context.Context) {
	invCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	_ = s.cache.Invalidate(invCtx, summaryCacheKey)
}

// foldAccents lowercases and strips combining marks. Transformers carry
// state, so each call builds its own chain.
func foldAccents(s string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(folder, s)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return strings.ToLower(strings.TrimSpace(out))
}
