package benefactors

import "encoding/json"

// resolve keeps the stored value whenever the incoming one is empty.
// Every field of the smart edit goes through this rule, so sending the
// same payload twice leaves the record unchanged.
func resolve(incoming, existing string) string {
	if incoming == "" {
		return existing
	}
	return incoming
}

// serializeList renders a contact list for storage. An empty list means
// the caller did not supply the field, so the stored serialization is
// kept verbatim rather than re-encoded.
func serializeList(incoming []string, existing string) string {
	if len(incoming) == 0 {
		return existing
	}
	out, err := json.Marshal(incoming)
	if err != nil {
		return existing
	}
	return string(out)
}

// merged applies the smart-edit rules to a stored record. EstadoPago and
// FechaProximoPago are not part of the payload and pass through
// untouched.
func (b Benefactor) merged(p Payload) Benefactor {
	b.Cod1Tipo = resolve(p.Cod1Tipo, b.Cod1Tipo)
	b.Naturaleza = resolve(p.Naturaleza, b.Naturaleza)
	b.TipoDocumento = resolve(p.TipoDocumento, b.TipoDocumento)
	b.NumeroDocumento = resolve(p.NumeroDocumento, b.NumeroDocumento)
	b.NombreBenefactor = resolve(p.NombreCompleto, b.NombreBenefactor)
	b.NombreContactado = resolve(p.NombreContactado, b.NombreContactado)
	b.NumeroContacto = serializeList(p.Telefonos, b.NumeroContacto)
	b.Correo = serializeList(p.Correos, b.Correo)
	b.FechaFundacion = resolve(p.FechaFundacion, b.FechaFundacion)
	b.Direccion = resolve(p.Direccion, b.Direccion)
	b.Departamento = resolve(p.Departamento, b.Departamento)
	b.Ciudad = resolve(p.Ciudad, b.Ciudad)
	b.Empresa = resolve(p.Empresa, b.Empresa)
	b.Cargo = resolve(p.Cargo, b.Cargo)
	b.EstadoCivil = resolve(p.EstadoCivil, b.EstadoCivil)
	b.Conyuge = resolve(p.Conyuge, b.Conyuge)
	b.Protocolo = resolve(p.Protocolo, b.Protocolo)
	b.ContactoSaciar = resolve(p.ContactoSaciar, b.ContactoSaciar)
	b.Estado = resolve(p.Estado, b.Estado)
	b.AutorizacionDatos = resolve(p.AutorizacionDatos, b.AutorizacionDatos)
	b.FechaRutActualizado = resolve(p.FechaRutActualizado, b.FechaRutActualizado)
	b.CertificadoDonacion = resolve(p.CertificadoDonacion, b.CertificadoDonacion)
	b.CertificadoDonacionDetalle = resolve(p.CertificadoDonacionDetalle, b.CertificadoDonacionDetalle)
	b.FechaActualizacionClinton = resolve(p.FechaActualizacionClinton, b.FechaActualizacionClinton)
	b.AntecedentesJudiciales = resolve(p.AntecedentesJudiciales, b.AntecedentesJudiciales)
	b.EncuestaSatisfaccion = resolve(p.EncuestaSatisfaccion, b.EncuestaSatisfaccion)
	return b
}

// merged applies the smart-edit rules to the current donation.
func (d Donation) merged(p Payload) Donation {
	d.TipoDonacion = resolve(p.TipoDonacion, d.TipoDonacion)
	d.Procedencia = resolve(p.Procedencia, d.Procedencia)
	d.Procedencia2 = resolve(p.Procedencia2, d.Procedencia2)
	d.DetallesDonacion = resolve(p.DetallesDonacion, d.DetallesDonacion)
	d.FechaDonacion = resolve(p.FechaDonacion, d.FechaDonacion)
	d.Observaciones = resolve(p.Observaciones, d.Observaciones)
	return d
}

// donationFromPayload builds a brand-new donation row from an edit that
// arrives when the benefactor has no donation history yet. Type and
// primary origin fall back to Desconocido; the secondary origin stays
// empty when not supplied.
func donationFromPayload(benefactorID int64, p Payload) Donation {
	d := Donation{
		BenefactorID:     benefactorID,
		TipoDonacion:     p.TipoDonacion,
		Procedencia:      p.Procedencia,
		Procedencia2:     p.Procedencia2,
		DetallesDonacion: p.DetallesDonacion,
		FechaDonacion:    p.FechaDonacion,
		Observaciones:    p.Observaciones,
	}
	if d.TipoDonacion == "" {
		d.TipoDonacion = "Desconocido"
	}
	if d.Procedencia == "" {
		d.Procedencia = "Desconocido"
	}
	return d
}
