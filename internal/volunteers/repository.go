package volunteers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

const volunteerColumns = `
	id, COALESCE(nombre_completo, ''), COALESCE(to_char(fecha_nacimiento, 'YYYY-MM-DD'), ''),
	COALESCE(telefono, ''), COALESCE(correo, ''), COALESCE(estado, '')
`

// nextBirthdayQuery projects each birthday onto its next occurrence: the
// day-of-year offset lands it in the current year, and past dates roll
// over to the next one.
const nextBirthdayExpr = `
	CASE WHEN cumple_este_ano < CURRENT_DATE
	     THEN (cumple_este_ano + interval '1 year')::date
	     ELSE cumple_este_ano END
`

// Repository defines persistence operations for the volunteers module.
type Repository interface {
	List(ctx context.Context, req ListRequest) ([]Volunteer, int, error)
	SearchCandidates(ctx context.Context) ([]SearchResult, error)
	Insert(ctx context.Context, v Volunteer) (int64, error)
	Update(ctx context.Context, v Volunteer) error
	Delete(ctx context.Context, id int64) error
	BirthdaysOn(ctx context.Context, daysAhead int) ([]BirthdayRow, error)
	BirthdaysUpcoming(ctx context.Context) ([]UpcomingRow, error)
	CountBirthdaysToday(ctx context.Context) (int64, error)
	CountBirthdaysUpcoming(ctx context.Context) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]Volunteer, int, error) {
	where := ``
	args := []any{}
	if req.Search != "" {
		where = ` WHERE nombre_completo ILIKE $1 OR correo ILIKE $1`
		args = append(args, "%"+req.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM voluntarios`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (req.Page - 1) * req.Limit
	query := `SELECT ` + volunteerColumns + ` FROM voluntarios` + where + fmt.Sprintf(
		` ORDER BY nombre_completo ASC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, req.Limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Volunteer
	for rows.Next() {
		var v Volunteer
		if err := rows.Scan(&v.ID, &v.NombreCompleto, &v.FechaNacimiento, &v.Telefono, &v.Correo, &v.Estado); err != nil {
			return nil, 0, err
		}
		out = append(out, v)
	}
	return out, total, rows.Err()
}

func (r *repository) SearchCandidates(ctx context.Context) ([]SearchResult, error) {
	const query = `
		SELECT id, COALESCE(nombre_completo, ''), COALESCE(to_char(fecha_nacimiento, 'YYYY-MM-DD'), '')
		FROM voluntarios
		ORDER BY nombre_completo ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var sr SearchResult
		if err := rows.Scan(&sr.ID, &sr.NombreCompleto, &sr.FechaNacimiento); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

func (r *repository) Insert(ctx context.Context, v Volunteer) (int64, error) {
	const query = `
		INSERT INTO voluntarios (nombre_completo, fecha_nacimiento, telefono, correo, estado)
		VALUES ($1, NULLIF($2, '')::date, $3, $4, $5)
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		v.NombreCompleto, v.FechaNacimiento, v.Telefono, v.Correo, v.Estado,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, httpx.Conflict("Ya existe un voluntario con ese correo.")
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, v Volunteer) error {
	const query = `
		UPDATE voluntarios SET
			nombre_completo = $1, fecha_nacimiento = NULLIF($2, '')::date,
			telefono = $3, correo = $4, estado = $5
		WHERE id = $6
	`
	tag, err := r.pool.Exec(ctx, query,
		v.NombreCompleto, v.FechaNacimiento, v.Telefono, v.Correo, v.Estado, v.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("Voluntario no encontrado.")
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM voluntarios WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("Voluntario no encontrado.")
	}
	return nil
}

func (r *repository) BirthdaysOn(ctx context.Context, daysAhead int) ([]BirthdayRow, error) {
	const query = `
		SELECT COALESCE(nombre_completo, ''), to_char(fecha_nacimiento, 'YYYY-MM-DD')
		FROM voluntarios
		WHERE fecha_nacimiento IS NOT NULL
		  AND EXTRACT(MONTH FROM fecha_nacimiento) = EXTRACT(MONTH FROM CURRENT_DATE + $1::int)
		  AND EXTRACT(DAY FROM fecha_nacimiento) = EXTRACT(DAY FROM CURRENT_DATE + $1::int)
		ORDER BY nombre_completo ASC
	`
	rows, err := r.pool.Query(ctx, query, daysAhead)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BirthdayRow
	for rows.Next() {
		var br BirthdayRow
		if err := rows.Scan(&br.NombreCompleto, &br.FechaNacimiento); err != nil {
			return nil, err
		}
		out = append(out, br)
	}
	return out, rows.Err()
}

func (r *repository) BirthdaysUpcoming(ctx context.Context) ([]UpcomingRow, error) {
	query := `
		WITH cumpleanos AS (
			SELECT nombre_completo, fecha_nacimiento,
			       (date_trunc('year', CURRENT_DATE)::date + (EXTRACT(DOY FROM fecha_nacimiento)::int - 1)) AS cumple_este_ano
			FROM voluntarios
			WHERE fecha_nacimiento IS NOT NULL
		)
		SELECT COALESCE(nombre_completo, ''), to_char(fecha_nacimiento, 'YYYY-MM-DD'),
		       to_char(` + nextBirthdayExpr + `, 'YYYY-MM-DD') AS proxima_fecha
		FROM cumpleanos
		WHERE ` + nextBirthdayExpr + ` BETWEEN CURRENT_DATE + 1 AND CURRENT_DATE + 7
		ORDER BY proxima_fecha ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UpcomingRow
	for rows.Next() {
		var ur UpcomingRow
		if err := rows.Scan(&ur.NombreCompleto, &ur.FechaNacimiento, &ur.ProximaFecha); err != nil {
			return nil, err
		}
		out = append(out, ur)
	}
	return out, rows.Err()
}

func (r *repository) CountBirthdaysToday(ctx context.Context) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM voluntarios
		WHERE fecha_nacimiento IS NOT NULL
		  AND EXTRACT(MONTH FROM fecha_nacimiento) = EXTRACT(MONTH FROM CURRENT_DATE)
		  AND EXTRACT(DAY FROM fecha_nacimiento) = EXTRACT(DAY FROM CURRENT_DATE)
	`
	var n int64
	err := r.pool.QueryRow(ctx, query).Scan(&n)
	return n, err
}

func (r *repository) CountBirthdaysUpcoming(ctx context.Context) (int64, error) {
	query := `
		WITH cumpleanos AS (
			SELECT (date_trunc('year', CURRENT_DATE)::date + (EXTRACT(DOY FROM fecha_nacimiento)::int - 1)) AS cumple_este_ano
			FROM voluntarios
			WHERE fecha_nacimiento IS NOT NULL
		)
		SELECT COUNT(*)
		FROM cumpleanos
		WHERE ` + nextBirthdayExpr + ` BETWEEN CURRENT_DATE + 1 AND CURRENT_DATE + 7
	`
	var n int64
	err := r.pool.QueryRow(ctx, query).Scan(&n)
	return n, err
}
