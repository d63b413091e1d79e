package volunteers

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fundacion-saciar/saciar-api/internal/platform/cache"
	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

const (
	summaryCacheKey  = "voluntarios:resumen"
	quickSearchLimit = 10
)

// Service implements the volunteer use cases.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService constructs a Service. cache may be nil.
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// Create registers a volunteer. Status defaults to Activo.
func (s *Service) Create(ctx context.Context, req UpsertRequest) (int64, error) {
	if req.NombreCompleto == "" {
		return 0, httpx.Invalid("El nombre es obligatorio.")
	}
	estado := req.Estado
	if estado == "" {
		estado = EstadoActivo
	}

	id, err := s.repo.Insert(ctx, Volunteer{
		NombreCompleto:  req.NombreCompleto,
		FechaNacimiento: req.FechaNacimiento,
		Telefono:        req.Telefono,
		Correo:          req.Correo,
		Estado:          estado,
	})
	if err != nil {
		return 0, err
	}
	s.invalidateSummary(ctx)
	return id, nil
}

// Update replaces the whole record with the request, empty fields
// included. This path deliberately offers no merge.
func (s *Service) Update(ctx context.Context, id int64, req UpsertRequest) error {
	if req.NombreCompleto == "" {
		return httpx.Invalid("El nombre es obligatorio.")
	}

	err := s.repo.Update(ctx, Volunteer{
		ID:              id,
		NombreCompleto:  req.NombreCompleto,
		FechaNacimiento: req.FechaNacimiento,
		Telefono:        req.Telefono,
		Correo:          req.Correo,
		Estado:          req.Estado,
	})
	if err != nil {
		return err
	}
	s.invalidateSummary(ctx)
	return nil
}

// Delete removes a volunteer.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateSummary(ctx)
	return nil
}

// List returns one page of volunteers plus pagination metadata.
func (s *Service) List(ctx context.Context, req ListRequest) ([]Volunteer, Pagination, error) {
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

// QuickSearch matches volunteer names accent-insensitively for the
// header typeahead.
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
		if strings.Contains(foldAccents(c.NombreCompleto), term) {
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

// BirthdaysToday lists volunteers whose birthday falls today.
func (s *Service) BirthdaysToday(ctx context.Context) ([]BirthdayRow, error) {
	return s.repo.BirthdaysOn(ctx, 0)
}

// BirthdaysUpcoming lists birthdays in the next seven days.
func (s *Service) BirthdaysUpcoming(ctx context.Context) ([]UpcomingRow, error) {
	return s.repo.BirthdaysUpcoming(ctx)
}

// Summary returns the notification counters, cached briefly.
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
			fresh.Proximos, err = s.repo.CountBirthdaysUpcoming(ctx)
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
