// Package fleet manages the foundation's vehicles and their document
// expiry tracking (SOAT, tecnomecánica, driver license).
package fleet

// Vehicle is one fleet entry. Expiry dates travel as "YYYY-MM-DD" with
// "" meaning NULL.
type Vehicle struct {
	ID                  int64  `json:"id"`
	Placa               string `json:"placa"`
	Descripcion         string `json:"descripcion"`
	ConductorAsignado   string `json:"conductor_asignado"`
	VencimientoSOAT     string `json:"fecha_vencimiento_soat"`
	VencimientoTecno    string `json:"fecha_vencimiento_tecnomecanica"`
	VencimientoLicencia string `json:"fecha_vencimiento_licencia"`
}

// UpsertRequest is the create/edit body.
type UpsertRequest struct {
	Placa               string `json:"placa" validate:"required"`
	Descripcion         string `json:"descripcion"`
	ConductorAsignado   string `json:"conductor_asignado"`
	VencimientoSOAT     string `json:"fecha_vencimiento_soat"`
	VencimientoTecno    string `json:"fecha_vencimiento_tecnomecanica"`
	VencimientoLicencia string `json:"fecha_vencimiento_licencia"`
}

// ExpiryRow is one vehicle with at least one document expiring within
// the lookahead window.
type ExpiryRow struct {
	Placa               string `json:"placa"`
	Descripcion         string `json:"descripcion"`
	ConductorAsignado   string `json:"conductor_asignado"`
	VencimientoSOAT     string `json:"fecha_vencimiento_soat"`
	VencimientoTecno    string `json:"fecha_vencimiento_tecnomecanica"`
	VencimientoLicencia string `json:"fecha_vencimiento_licencia"`
}
