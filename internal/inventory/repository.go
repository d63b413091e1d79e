package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fundacion-saciar/saciar-api/internal/platform/db"
	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

// ErrNoCodes indicates that a category has no allocated codes yet.
var ErrNoCodes = errors.New("inventory: no codes for category")

// lastCodeQuery orders the category's codes by their numeric suffix so
// the largest sequence wins even when its width has outgrown the padded
// four digits. Non-numeric suffixes sort last and are handled by the
// caller's parse fallback.
const lastCodeQuery = `
	SELECT codigo_serie
	FROM inventario
	WHERE categoria = $1
	ORDER BY NULLIF(regexp_replace(substr(codigo_serie, char_length($1) + 1), '[^0-9]', '', 'g'), '')::bigint DESC NULLS LAST
	LIMIT 1
`

// categoryLockQuery serializes allocations per category. The advisory
// lock is transaction-scoped, so it is released at commit or rollback,
// and it covers categories that have no rows yet, which a row lock
// cannot. The allocator transaction runs at ReadCommitted so the max
// read issued after the lock is granted sees rows committed while this
// transaction waited.
const categoryLockQuery = `SELECT pg_advisory_xact_lock(hashtext('inventario:' || $1))`

// Repository defines persistence operations for the inventory module.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context, search string) ([]Item, error)
	LastCode(ctx context.Context, categoria string) (string, error)
	Update(ctx context.Context, id int64, req UpdateItemRequest) error
	Delete(ctx context.Context, id int64) error
	Summary(ctx context.Context) ([]CategoryCount, error)
}

// TxRepository exposes the operations that must share the allocator's
// transaction.
type TxRepository interface {
	// LastCodeForUpdate acquires the category's advisory lock, then
	// reads the current maximum. Concurrent allocators for the same
	// category block on the lock until this transaction ends.
	LastCodeForUpdate(ctx context.Context, categoria string) (string, error)
	Insert(ctx context.Context, item Item) (int64, error)
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithReadCommittedTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) List(ctx context.Context, search string) ([]Item, error) {
	query := `
		SELECT id, codigo_serie, categoria, centro_operacion, area_principal, tipo_producto,
		       descripcion, area_asignada, sub_area_asignada, cargo_asignado, estado
		FROM inventario
	`
	var args []any
	if search != "" {
		query += ` WHERE codigo_serie ILIKE $1 OR descripcion ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY codigo_serie ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.CodigoSerie, &it.Categoria, &it.CentroOperacion, &it.AreaPrincipal,
			&it.TipoProducto, &it.Descripcion, &it.AreaAsignada, &it.SubAreaAsignada,
			&it.CargoAsignado, &it.Estado,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// LastCode is the advisory, non-locking variant used by the preview
// endpoint. It may race with concurrent inserts.
func (r *repository) LastCode(ctx context.Context, categoria string) (string, error) {
	return r.lastCode(ctx, categoria)
}

func (r *repository) LastCodeForUpdate(ctx context.Context, categoria string) (string, error) {
	if _, err := r.db.Exec(ctx, categoryLockQuery, categoria); err != nil {
		return "", err
	}
	return r.lastCode(ctx, categoria)
}

func (r *repository) lastCode(ctx context.Context, categoria string) (string, error) {
	var code string
	if err := r.db.QueryRow(ctx, lastCodeQuery, categoria).Scan(&code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNoCodes
		}
		return "", err
	}
	return code, nil
}

func (r *repository) Insert(ctx context.Context, item Item) (int64, error) {
	const query = `
		INSERT INTO inventario (
			codigo_serie, categoria, centro_operacion, area_principal, tipo_producto,
			descripcion, area_asignada, sub_area_asignada, cargo_asignado, estado
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query,
		item.CodigoSerie, item.Categoria, item.CentroOperacion, item.AreaPrincipal,
		item.TipoProducto, item.Descripcion, item.AreaAsignada, item.SubAreaAsignada,
		item.CargoAsignado, item.Estado,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, httpx.Conflict(fmt.Sprintf("El código %s ya existe.", item.CodigoSerie))
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, req UpdateItemRequest) error {
	const query = `
		UPDATE inventario SET
			centro_operacion = $1, area_principal = $2, tipo_producto = $3,
			descripcion = $4, area_asignada = $5, sub_area_asignada = $6,
			cargo_asignado = $7, estado = $8
		WHERE id = $9
	`
	tag, err := r.db.Exec(ctx, query,
		req.CentroOperacion, req.AreaPrincipal, req.TipoProducto, req.Descripcion,
		req.AreaAsignada, req.SubAreaAsignada, req.CargoAsignado, req.Estado, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("Item no encontrado.")
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventario WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("Item no encontrado.")
	}
	return nil
}

func (r *repository) Summary(ctx context.Context) ([]CategoryCount, error) {
	const query = `
		SELECT categoria, COUNT(*) AS total
		FROM inventario
		GROUP BY categoria
		ORDER BY total DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Categoria, &c.Total); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
