package fleet

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

const vehicleColumns = `
	id, placa, COALESCE(descripcion, ''), COALESCE(conductor_asignado, ''),
	COALESCE(to_char(fecha_vencimiento_soat, 'YYYY-MM-DD'), ''),
	COALESCE(to_char(fecha_vencimiento_tecnomecanica, 'YYYY-MM-DD'), ''),
	COALESCE(to_char(fecha_vencimiento_licencia, 'YYYY-MM-DD'), '')
`

// Repository defines persistence operations for the fleet module.
type Repository interface {
	List(ctx context.Context, search string) ([]Vehicle, error)
	Insert(ctx context.Context, v Vehicle) (int64, error)
	Update(ctx context.Context, v Vehicle) error
	ExpiringWithin(ctx context.Context, days int) ([]ExpiryRow, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, search string) ([]Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehiculos`
	var args []any
	if search != "" {
		query += ` WHERE placa ILIKE $1 OR descripcion ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY placa ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(
			&v.ID, &v.Placa, &v.Descripcion, &v.ConductorAsignado,
			&v.VencimientoSOAT, &v.VencimientoTecno, &v.VencimientoLicencia,
		); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *repository) Insert(ctx context.Context, v Vehicle) (int64, error) {
	const query = `
		INSERT INTO vehiculos (
			placa, descripcion, conductor_asignado,
			fecha_vencimiento_soat, fecha_vencimiento_tecnomecanica, fecha_vencimiento_licencia
		) VALUES ($1, $2, $3, NULLIF($4, '')::date, NULLIF($5, '')::date, NULLIF($6, '')::date)
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		v.Placa, v.Descripcion, v.ConductorAsignado,
		v.VencimientoSOAT, v.VencimientoTecno, v.VencimientoLicencia,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, httpx.Conflict("Ya existe un vehículo con esa placa.")
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, v Vehicle) error {
	const query = `
		UPDATE vehiculos SET
			placa = $1, descripcion = $2, conductor_asignado = $3,
			fecha_vencimiento_soat = NULLIF($4, '')::date,
			fecha_vencimiento_tecnomecanica = NULLIF($5, '')::date,
			fecha_vencimiento_licencia = NULLIF($6, '')::date
		WHERE id = $7
	`
	tag, err := r.pool.Exec(ctx, query,
		v.Placa, v.Descripcion, v.ConductorAsignado,
		v.VencimientoSOAT, v.VencimientoTecno, v.VencimientoLicencia, v.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return httpx.Conflict("Ya existe un vehículo con esa placa.")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("Vehículo no encontrado.")
	}
	return nil
}

// ExpiringWithin lists vehicles with any document expiring inside the
// window, ordered by their earliest expiry.
func (r *repository) ExpiringWithin(ctx context.Context, days int) ([]ExpiryRow, error) {
	const query = `
		SELECT placa, COALESCE(descripcion, ''), COALESCE(conductor_asignado, ''),
		       COALESCE(to_char(fecha_vencimiento_soat, 'YYYY-MM-DD'), ''),
		       COALESCE(to_char(fecha_vencimiento_tecnomecanica, 'YYYY-MM-DD'), ''),
		       COALESCE(to_char(fecha_vencimiento_licencia, 'YYYY-MM-DD'), '')
		FROM vehiculos
		WHERE fecha_vencimiento_soat <= CURRENT_DATE + $1::int
		   OR fecha_vencimiento_tecnomecanica <= CURRENT_DATE + $1::int
		   OR fecha_vencimiento_licencia <= CURRENT_DATE + $1::int
		ORDER BY LEAST(
			COALESCE(fecha_vencimiento_soat, DATE '9999-12-31'),
			COALESCE(fecha_vencimiento_tecnomecanica, DATE '9999-12-31'),
			COALESCE(fecha_vencimiento_licencia, DATE '9999-12-31')
		) ASC
	`
	rows, err := r.pool.Query(ctx, query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExpiryRow
	for rows.Next() {
		var er ExpiryRow
		if err := rows.Scan(
			&er.Placa, &er.Descripcion, &er.ConductorAsignado,
			&er.VencimientoSOAT, &er.VencimientoTecno, &er.VencimientoLicencia,
		); err != nil {
			return nil, err
		}
		out = append(out, er)
	}
	return out, rows.Err()
}
