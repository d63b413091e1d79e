package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fundacion-saciar/saciar-api/internal/platform/cache"
	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

const summaryCacheKey = "inventario:resumen"

// Service implements the inventory use cases, including the serial code
// allocator.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

// NewService constructs a Service. cache may be nil.
func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// List returns inventory items, optionally filtered by code/description.
func (s *Service) List(ctx context.Context, search string) ([]Item, error) {
	return s.repo.List(ctx, search)
}

// PeekNextCode previews the code the next registration in the category
// would receive. The read takes no lock, so the result is advisory only:
// a concurrent insert can make it stale, and callers must never treat it
// as a reservation.
func (s *Service) PeekNextCode(ctx context.Context, categoria string) (string, error) {
	if categoria == "" {
		return "", httpx.Invalid("La categoría es obligatoria.")
	}
	last, err := s.repo.LastCode(ctx, categoria)
	if err != nil && !errors.Is(err, ErrNoCodes) {
		return "", fmt.Errorf("peek next code: %w", err)
	}
	return nextCode(categoria, last), nil
}

// Create registers a new item, allocating its serial code inside the
// same transaction as the insert. The category's advisory lock blocks
// concurrent allocations until this transaction ends, and a blocked
// allocator re-reads the maximum after the lock is granted, so two
// inserts can never observe the same last code. A uniqueness violation
// (possible only against rows seeded outside the allocator) surfaces as
// a conflict and rolls back; it is not retried.
func (s *Service) Create(ctx context.Context, req CreateItemRequest) (*Item, error) {
	if req.Categoria == "" {
		return nil, httpx.Invalid("La categoría es obligatoria.")
	}

	estado := req.Estado
	if estado == "" {
		estado = EstadoSinPrioridad
	}

	item := Item{
		Categoria:       req.Categoria,
		CentroOperacion: req.CentroOperacion,
		AreaPrincipal:   req.AreaPrincipal,
		TipoProducto:    req.TipoProducto,
		Descripcion:     req.Descripcion,
		AreaAsignada:    req.AreaAsignada,
		SubAreaAsignada: req.SubAreaAsignada,
		CargoAsignado:   req.CargoAsignado,
		Estado:          estado,
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		last, err := tx.LastCodeForUpdate(ctx, req.Categoria)
		if err != nil && !errors.Is(err, ErrNoCodes) {
			return fmt.Errorf("lock last code: %w", err)
		}
		item.CodigoSerie = nextCode(req.Categoria, last)

		id, err := tx.Insert(ctx, item)
		if err != nil {
			return err
		}
		item.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSummary(ctx)
	return &item, nil
}

// Update replaces an item's descriptive fields. Code and category are
// immutable post-creation.
func (s *Service) Update(ctx context.Context, id int64, req UpdateItemRequest) error {
	return s.repo.Update(ctx, id, req)
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateSummary(ctx)
	return nil
}

// Summary returns per-category item counts, cached briefly.
func (s *Service) Summary(ctx context.Context) ([]CategoryCount, error) {
	var counts []CategoryCount
	err := s.cache.FetchJSON(ctx, summaryCacheKey, &counts, func(ctx context.Context) (any, error) {
		return s.repo.Summary(ctx)
	})
	return counts, err
}

func (s *Service) invalidateSummary(ctx context.Context) {
	invCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	_ = s.cache.Invalidate(invCtx, summaryCacheKey)
}
