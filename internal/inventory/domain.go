// Package inventory manages the donated-goods inventory and the
// per-category serial code allocation.
package inventory

// EstadoSinPrioridad is the status assigned to items registered without
// an explicit one.
const EstadoSinPrioridad = "Sin Prioridad"

// Item is a registered inventory asset. CodigoSerie and Categoria are
// immutable after creation; every other field is descriptive.
type Item struct {
	ID              int64  `json:"id"`
	CodigoSerie     string `json:"codigo_serie"`
	Categoria       string `json:"categoria"`
	CentroOperacion string `json:"centro_operacion"`
	AreaPrincipal   string `json:"area_principal"`
	TipoProducto    string `json:"tipo_producto"`
	Descripcion     string `json:"descripcion"`
	AreaAsignada    string `json:"area_asignada"`
	SubAreaAsignada string `json:"sub_area_asignada"`
	CargoAsignado   string `json:"cargo_asignado"`
	Estado          string `json:"estado"`
}

// CategoryCount is one row of the per-category summary.
type CategoryCount struct {
	Categoria string `json:"categoria"`
	Total     int64  `json:"total"`
}

// CreateItemRequest is the payload for registering an item. The serial
// code is never client-supplied; it is allocated server-side.
type CreateItemRequest struct {
	Categoria       string `json:"categoria" validate:"required"`
	CentroOperacion string `json:"centro_operacion"`
	AreaPrincipal   string `json:"area_principal"`
	TipoProducto    string `json:"tipo_producto"`
	Descripcion     string `json:"descripcion"`
	AreaAsignada    string `json:"area_asignada"`
	SubAreaAsignada string `json:"sub_area_asignada"`
	CargoAsignado   string `json:"cargo_asignado"`
	Estado          string `json:"estado"`
}

// UpdateItemRequest replaces the descriptive fields of an item verbatim.
type UpdateItemRequest struct {
	CentroOperacion string `json:"centro_operacion"`
	AreaPrincipal   string `json:"area_principal"`
	TipoProducto    string `json:"tipo_producto"`
	Descripcion     string `json:"descripcion"`
	AreaAsignada    string `json:"area_asignada"`
	SubAreaAsignada string `json:"sub_area_asignada"`
	CargoAsignado   string `json:"cargo_asignado"`
	Estado          string `json:"estado"`
}
