package benefactors

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

// Date columns come back as "YYYY-MM-DD" strings and go in through
// NULLIF(...)::date so "" round-trips as NULL.
const benefactorColumns = `
	id, COALESCE(cod_1_tipo, ''), COALESCE(naturaleza, ''), COALESCE(tipo_documento, ''),
	COALESCE(numero_documento, ''), COALESCE(nombre_benefactor, ''), COALESCE(nombre_contactado, ''),
	COALESCE(numero_contacto, ''), COALESCE(correo, ''),
	COALESCE(to_char(fecha_fundacion_o_cumpleanos, 'YYYY-MM-DD'), ''),
	COALESCE(direccion, ''), COALESCE(departamento, ''), COALESCE(ciudad, ''),
	COALESCE(empresa, ''), COALESCE(cargo, ''), COALESCE(estado_civil, ''), COALESCE(conyuge, ''),
	COALESCE(protocolo, ''), COALESCE(contacto_saciar, ''), COALESCE(estado, ''),
	COALESCE(autorizacion_datos, ''), COALESCE(fecha_rut_actualizado, ''),
	COALESCE(certificado_donacion, ''), COALESCE(certificado_donacion_detalle, ''),
	COALESCE(to_char(fecha_actualizacion_clinton, 'YYYY-MM-DD'), ''),
	COALESCE(antecedentes_judiciales, ''), COALESCE(encuesta_satisfaccion, ''),
	COALESCE(estado_pago, ''), COALESCE(to_char(fecha_proximo_pago, 'YYYY-MM-DD'), '')
`

// Repository defines persistence operations for the benefactors module.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context, req ListRequest) ([]Benefactor, int, error)
	SearchCandidates(ctx context.Context) ([]SearchResult, error)
	Get(ctx context.Context, id int64) (*Benefactor, error)
	LatestDonation(ctx context.Context, benefactorID int64) (*Donation, error)
	BirthdaysOn(ctx context.Context, daysAhead int) ([]BirthdayRow, error)
	PaymentsDueSoon(ctx context.Context, days int) ([]PaymentRow, error)
	CountBirthdaysToday(ctx context.Context) (int64, error)
	CountPaymentsDueSoon(ctx context.Context, days int) (int64, error)
}

// TxRepository exposes the writes that must share the smart edit's (and
// the cascade delete's) transaction.
type TxRepository interface {
	Get(ctx context.Context, id int64) (*Benefactor, error)
	LatestDonation(ctx context.Context, benefactorID int64) (*Donation, error)
	Insert(ctx context.Context, b Benefactor) (int64, error)
	InsertDonation(ctx context.Context, d Donation) error
	Update(ctx context.Context, b Benefactor) error
	UpdateDonation(ctx context.Context, d Donation) error
	DeleteDonations(ctx context.Context, benefactorID int64) error
	Delete(ctx context.Context, id int64) error
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
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func scanBenefactor(row pgx.Row) (*Benefactor, error) {
	var b Benefactor
	err := row.Scan(
		&b.ID, &b.Cod1Tipo, &b.Naturaleza, &b.TipoDocumento, &b.NumeroDocumento,
		&b.NombreBenefactor, &b.NombreContactado, &b.NumeroContacto, &b.Correo,
		&b.FechaFundacion, &b.Direccion, &b.Departamento, &b.Ciudad, &b.Empresa,
		&b.Cargo, &b.EstadoCivil, &b.Conyuge, &b.Protocolo, &b.ContactoSaciar,
		&b.Estado, &b.AutorizacionDatos, &b.FechaRutActualizado, &b.CertificadoDonacion,
		&b.CertificadoDonacionDetalle, &b.FechaActualizacionClinton,
		&b.AntecedentesJudiciales, &b.EncuestaSatisfaccion, &b.EstadoPago, &b.FechaProximoPago,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]Benefactor, int, error) {
	where := ``
	args := []any{}
	if req.Search != "" {
		where = ` WHERE nombre_benefactor ILIKE $1 OR numero_documento ILIKE $1`
		args = append(args, "%"+req.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM benefactores`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (req.Page - 1) * req.Limit
	query := `SELECT ` + benefactorColumns + ` FROM benefactores` + where + fmt.Sprintf(
		` ORDER BY nombre_benefactor ASC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, req.Limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Benefactor
	for rows.Next() {
		b, err := scanBenefactor(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *b)
	}
	return out, total, rows.Err()
}

// SearchCandidates returns the slim projection the header quick-search
// filters in memory; accent folding happens in the service.
func (r *repository) SearchCandidates(ctx context.Context) ([]SearchResult, error) {
	const query = `
		SELECT id, COALESCE(nombre_benefactor, ''), COALESCE(empresa, ''),
		       COALESCE(to_char(fecha_fundacion_o_cumpleanos, 'YYYY-MM-DD'), '')
		FROM benefactores
		ORDER BY nombre_benefactor ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var sr SearchResult
		if err := rows.Scan(&sr.ID, &sr.NombreCompleto, &sr.Empresa, &sr.FechaNacimiento); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Benefactor, error) {
	query := `SELECT ` + benefactorColumns + ` FROM benefactores WHERE id = $1`
	b, err := scanBenefactor(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("Benefactor no encontrado.")
	}
	return b, err
}

// LatestDonation returns the donation with the highest id for the
// benefactor, or nil when none exists.
func (r *repository) LatestDonation(ctx context.Context, benefactorID int64) (*Donation, error) {
	const query = `
		SELECT id, benefactor_id, COALESCE(tipo_donacion, ''), COALESCE(procedencia, ''),
		       COALESCE(procedencia_2, ''), COALESCE(detalles_donacion, ''),
		       COALESCE(to_char(fecha_donacion, 'YYYY-MM-DD'), ''), COALESCE(observaciones, '')
		FROM donaciones
		WHERE benefactor_id = $1
		ORDER BY id DESC
		LIMIT 1
	`
	var d Donation
	err := r.db.QueryRow(ctx, query, benefactorID).Scan(
		&d.ID, &d.BenefactorID, &d.TipoDonacion, &d.Procedencia, &d.Procedencia2,
		&d.DetallesDonacion, &d.FechaDonacion, &d.Observaciones,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) Insert(ctx context.Context, b Benefactor) (int64, error) {
	const query = `
		INSERT INTO benefactores (
			cod_1_tipo, naturaleza, tipo_documento, numero_documento, nombre_benefactor,
			nombre_contactado, numero_contacto, correo, fecha_fundacion_o_cumpleanos,
			direccion, departamento, ciudad, empresa, cargo, estado_civil, conyuge,
			protocolo, contacto_saciar, estado, autorizacion_datos, fecha_rut_actualizado,
			certificado_donacion, certificado_donacion_detalle, fecha_actualizacion_clinton,
			antecedentes_judiciales, encuesta_satisfaccion, estado_pago, fecha_proximo_pago
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::date,
			$10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23,
			NULLIF($24, '')::date, $25, $26, $27, NULLIF($28, '')::date
		)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query,
		b.Cod1Tipo, b.Naturaleza, b.TipoDocumento, b.NumeroDocumento, b.NombreBenefactor,
		b.NombreContactado, b.NumeroContacto, b.Correo, b.FechaFundacion,
		b.Direccion, b.Departamento, b.Ciudad, b.Empresa, b.Cargo, b.EstadoCivil, b.Conyuge,
		b.Protocolo, b.ContactoSaciar, b.Estado, b.AutorizacionDatos, b.FechaRutActualizado,
		b.CertificadoDonacion, b.CertificadoDonacionDetalle, b.FechaActualizacionClinton,
		b.AntecedentesJudiciales, b.EncuestaSatisfaccion, b.EstadoPago, b.FechaProximoPago,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, httpx.Conflict("Ya existe un benefactor con ese número de documento.")
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) InsertDonation(ctx context.Context, d Donation) error {
	const query = `
		INSERT INTO donaciones (
			benefactor_id, tipo_donacion, procedencia, procedencia_2,
			detalles_donacion, fecha_donacion, observaciones
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::date, $7)
	`
	_, err := r.db.Exec(ctx, query,
		d.BenefactorID, d.TipoDonacion, d.Procedencia, d.Procedencia2,
		d.DetallesDonacion, d.FechaDonacion, d.Observaciones,
	)
	return err
}

func (r *repository) Update(ctx context.Context, b Benefactor) error {
	const query = `
		UPDATE benefactores SET
			cod_1_tipo = $1, naturaleza = $2, tipo_documento = $3, numero_documento = $4,
			nombre_benefactor = $5, nombre_contactado = $6, numero_contacto = $7, correo = $8,
			fecha_fundacion_o_cumpleanos = NULLIF($9, '')::date, direccion = $10,
			departamento = $11, ciudad = $12, empresa = $13, cargo = $14, estado_civil = $15,
			conyuge = $16, protocolo = $17, contacto_saciar = $18, estado = $19,
			autorizacion_datos = $20, fecha_rut_actualizado = $21, certificado_donacion = $22,
			certificado_donacion_detalle = $23, fecha_actualizacion_clinton = NULLIF($24, '')::date,
			antecedentes_judiciales = $25, encuesta_satisfaccion = $26,
			estado_pago = $27, fecha_proximo_pago = NULLIF($28, '')::date
		WHERE id = $29
	`
	tag, err := r.db.Exec(ctx, query,
		b.Cod1Tipo, b.Naturaleza, b.TipoDocumento, b.NumeroDocumento, b.NombreBenefactor,
		b.NombreContactado, b.NumeroContacto, b.Correo, b.FechaFundacion,
		b.Direccion, b.Departamento, b.Ciudad, b.Empresa, b.Cargo, b.EstadoCivil, b.Conyuge,
		b.Protocolo, b.ContactoSaciar, b.Estado, b.AutorizacionDatos, b.FechaRutActualizado,
		b.CertificadoDonacion, b.CertificadoDonacionDetalle, b.FechaActualizacionClinton,
		b.AntecedentesJudiciales, b.EncuestaSatisfaccion, b.EstadoPago, b.FechaProximoPago,
		b.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("Benefactor no encontrado.")
	}
	return nil
}

func (r *repository) UpdateDonation(ctx context.Context, d Donation) error {
	const query = `
		UPDATE donaciones SET
			tipo_donacion = $1, procedencia = $2, procedencia_2 = $3,
			detalles_donacion = $4, fecha_donacion = NULLIF($5, '')::date, observaciones = $6
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query,
		d.TipoDonacion, d.Procedencia, d.Procedencia2,
		d.DetallesDonacion, d.FechaDonacion, d.Observaciones, d.ID,
	)
	return err
}

func (r *repository) DeleteDonations(ctx context.Context, benefactorID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM donaciones WHERE benefactor_id = $1`, benefactorID)
	return err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM benefactores WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.NotFound("Benefactor no encontrado.")
	}
	return nil
}

// BirthdaysOn matches anniversaries falling daysAhead days from today.
// daysAhead 0 is today's list; the reminder jobs also look 4 days out.
func (r *repository) BirthdaysOn(ctx context.Context, daysAhead int) ([]BirthdayRow, error) {
	const query = `
		SELECT COALESCE(nombre_benefactor, ''), to_char(fecha_fundacion_o_cumpleanos, 'YYYY-MM-DD')
		FROM benefactores
		WHERE fecha_fundacion_o_cumpleanos IS NOT NULL
		  AND EXTRACT(MONTH FROM fecha_fundacion_o_cumpleanos) = EXTRACT(MONTH FROM CURRENT_DATE + $1::int)
		  AND EXTRACT(DAY FROM fecha_fundacion_o_cumpleanos) = EXTRACT(DAY FROM CURRENT_DATE + $1::int)
		ORDER BY nombre_benefactor ASC
	`
	rows, err := r.db.Query(ctx, query, daysAhead)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BirthdayRow
	for rows.Next() {
		var br BirthdayRow
		if err := rows.Scan(&br.NombreCompleto, &br.FechaFundacion); err != nil {
			return nil, err
		}
		out = append(out, br)
	}
	return out, rows.Err()
}

func (r *repository) PaymentsDueSoon(ctx context.Context, days int) ([]PaymentRow, error) {
	const query = `
		SELECT id, COALESCE(nombre_benefactor, ''), to_char(fecha_proximo_pago, 'YYYY-MM-DD'),
		       COALESCE(estado_pago, '')
		FROM benefactores
		WHERE fecha_proximo_pago IS NOT NULL
		  AND estado_pago IN ('Pendiente', 'Vencido')
		  AND fecha_proximo_pago <= CURRENT_DATE + $1::int
		ORDER BY fecha_proximo_pago ASC
	`
	rows, err := r.db.Query(ctx, query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PaymentRow
	for rows.Next() {
		var pr PaymentRow
		if err := rows.Scan(&pr.ID, &pr.NombreCompleto, &pr.FechaProximoPago, &pr.EstadoPago); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

func (r *repository) CountBirthdaysToday(ctx context.Context) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM benefactores
		WHERE fecha_fundacion_o_cumpleanos IS NOT NULL
		  AND EXTRACT(MONTH FROM fecha_fundacion_o_cumpleanos) = EXTRACT(MONTH FROM CURRENT_DATE)
		  AND EXTRACT(DAY FROM fecha_fundacion_o_cumpleanos) = EXTRACT(DAY FROM CURRENT_DATE)
	`
	var n int64
	err := r.db.QueryRow(ctx, query).Scan(&n)
	return n, err
}

func (r *repository) CountPaymentsDueSoon(ctx context.Context, days int) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM benefactores
		WHERE fecha_proximo_pago IS NOT NULL
		  AND estado_pago IN ('Pendiente', 'Vencido')
		  AND fecha_proximo_pago <= CURRENT_DATE + $1::int
	`
	var n int64
	err := r.db.QueryRow(ctx, query, days).Scan(&n)
	return n, err
}
