// Package volunteers manages the volunteer roster and its birthday
// queries. Unlike benefactors, edits here are full replacements: the
// payload is written field by field with no merge.
package volunteers

// EstadoActivo is the default status for new volunteers.
const EstadoActivo = "Activo"

// Volunteer is one roster entry. FechaNacimiento travels as
// "YYYY-MM-DD" with "" meaning NULL.
type Volunteer struct {
	ID              int64  `json:"id"`
	NombreCompleto  string `json:"nombre_completo"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	Telefono        string `json:"telefono"`
	Correo          string `json:"correo"`
	Estado          string `json:"estado"`
}

// UpsertRequest is the create/edit body. Edits take it at face value:
// empty fields overwrite stored data.
type UpsertRequest struct {
	NombreCompleto  string `json:"nombre_completo" validate:"required"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	Telefono        string `json:"telefono"`
	Correo          string `json:"correo"`
	Estado          string `json:"estado"`
}

// SearchResult is one row of the header quick-search.
type SearchResult struct {
	ID              int64  `json:"id"`
	NombreCompleto  string `json:"nombre_completo"`
	FechaNacimiento string `json:"fecha_nacimiento"`
}

// BirthdayRow is one volunteer whose birthday falls on the queried day.
type BirthdayRow struct {
	NombreCompleto  string `json:"nombre_completo"`
	FechaNacimiento string `json:"fecha_nacimiento"`
}

// UpcomingRow is a birthday in the next seven days.
type UpcomingRow struct {
	NombreCompleto  string `json:"nombre_completo"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	ProximaFecha    string `json:"proxima_fecha"`
}

// Summary feeds the notification bell.
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
