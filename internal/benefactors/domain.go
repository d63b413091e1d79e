// Package benefactors manages donor records, their donation history and
// the "smart edit" partial-update merge.
package benefactors

// Payment status values tracked for each benefactor. The transitions
// between them are driven externally; this service only stores the
// field.
const (
	PagoPendiente = "Pendiente"
	PagoVencido   = "Vencido"
	PagoPagado    = "Pagado"
)

// Benefactor is a donor record. Date fields travel as "YYYY-MM-DD"
// strings with "" meaning NULL; NumeroContacto and Correo hold
// JSON-serialized arrays exactly as stored.
type Benefactor struct {
	ID                         int64  `json:"id"`
	Cod1Tipo                   string `json:"cod_1_tipo"`
	Naturaleza                 string `json:"naturaleza"`
	TipoDocumento              string `json:"tipo_documento"`
	NumeroDocumento            string `json:"numero_documento"`
	NombreBenefactor           string `json:"nombre_benefactor"`
	NombreContactado           string `json:"nombre_contactado"`
	NumeroContacto             string `json:"numero_contacto"`
	Correo                     string `json:"correo"`
	FechaFundacion             string `json:"fecha_fundacion_o_cumpleanos"`
	Direccion                  string `json:"direccion"`
	Departamento               string `json:"departamento"`
	Ciudad                     string `json:"ciudad"`
	Empresa                    string `json:"empresa"`
	Cargo                      string `json:"cargo"`
	EstadoCivil                string `json:"estado_civil"`
	Conyuge                    string `json:"conyuge"`
	Protocolo                  string `json:"protocolo"`
	ContactoSaciar             string `json:"contacto_saciar"`
	Estado                     string `json:"estado"`
	AutorizacionDatos          string `json:"autorizacion_datos"`
	FechaRutActualizado        string `json:"fecha_rut_actualizado"`
	CertificadoDonacion        string `json:"certificado_donacion"`
	CertificadoDonacionDetalle string `json:"certificado_donacion_detalle"`
	FechaActualizacionClinton  string `json:"fecha_actualizacion_clinton"`
	AntecedentesJudiciales     string `json:"antecedentes_judiciales"`
	EncuestaSatisfaccion       string `json:"encuesta_satisfaccion"`
	EstadoPago                 string `json:"estado_pago"`
	FechaProximoPago           string `json:"fecha_proximo_pago"`
}

// Donation belongs to one benefactor. The API only ever edits the
// "current" donation: the one with the highest id for the benefactor.
type Donation struct {
	ID               int64  `json:"id"`
	BenefactorID     int64  `json:"benefactor_id"`
	TipoDonacion     string `json:"tipo_donacion"`
	Procedencia      string `json:"procedencia"`
	Procedencia2     string `json:"procedencia_2"`
	DetallesDonacion string `json:"detalles_donacion"`
	FechaDonacion    string `json:"fecha_donacion"`
	Observaciones    string `json:"observaciones"`
}

// Payload is the incoming create/smart-edit body. Empty string or empty
// array means "field not supplied" under the merge rules.
type Payload struct {
	Cod1Tipo                   string   `json:"cod_1_tipo"`
	Naturaleza                 string   `json:"naturaleza"`
	TipoDocumento              string   `json:"tipo_documento"`
	NumeroDocumento            string   `json:"numero_documento"`
	NombreCompleto             string   `json:"nombre_completo"`
	NombreContactado           string   `json:"nombre_contactado"`
	Telefonos                  []string `json:"telefonos"`
	Correos                    []string `json:"correos"`
	FechaFundacion             string   `json:"fecha_fundacion_o_cumpleanos"`
	Direccion                  string   `json:"direccion"`
	Departamento               string   `json:"departamento"`
	Ciudad                     string   `json:"ciudad"`
	Empresa                    string   `json:"empresa"`
	Cargo                      string   `json:"cargo"`
	EstadoCivil                string   `json:"estado_civil"`
	Conyuge                    string   `json:"conyuge"`
	Protocolo                  string   `json:"protocolo"`
	ContactoSaciar             string   `json:"contacto_saciar"`
	Estado                     string   `json:"estado"`
	AutorizacionDatos          string   `json:"autorizacion_datos"`
	FechaRutActualizado        string   `json:"fecha_rut_actualizado"`
	CertificadoDonacion        string   `json:"certificado_donacion"`
	CertificadoDonacionDetalle string   `json:"certificado_donacion_detalle"`
	FechaActualizacionClinton  string   `json:"fecha_actualizacion_clinton"`
	AntecedentesJudiciales     string   `json:"antecedentes_judiciales"`
	EncuestaSatisfaccion       string   `json:"encuesta_satisfaccion"`

	TipoDonacion     string `json:"tipo_donacion"`
	Procedencia      string `json:"procedencia"`
	Procedencia2     string `json:"procedencia_2"`
	DetallesDonacion string `json:"detalles_donacion"`
	FechaDonacion    string `json:"fecha_donacion"`
	Observaciones    string `json:"observaciones"`
}

// SearchResult is one row of the header quick-search.
type SearchResult struct {
	ID              int64  `json:"id"`
	NombreCompleto  string `json:"nombre_completo"`
	Empresa         string `json:"empresa"`
	FechaNacimiento string `json:"fecha_nacimiento"`
}

// BirthdayRow is one benefactor whose anniversary falls today.
type BirthdayRow struct {
	NombreCompleto string `json:"nombre_completo"`
	FechaFundacion string `json:"fecha_fundacion_o_cumpleanos"`
}

// PaymentRow is one benefactor with a payment due soon.
type PaymentRow struct {
	ID               int64  `json:"id"`
	NombreCompleto   string `json:"nombre_completo"`
	FechaProximoPago string `json:"fecha_proximo_pago"`
	EstadoPago       string `json:"estado_pago"`
}

// Summary feeds the notification bell: birthdays today and payments due
// within the next week.
type Summary struct {
	Hoy      int64 `json:"hoy"`
	Proximos int64 `json:"proximos"`
}

// ListRequest filters the paginated listing.
type ListRequest struct {
	Page   int
	Limit  int
	Search string
}

// Pagination describes one page of the listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}
