package inventory

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{
	"Código", "Categoría", "Centro de Operación", "Área Principal", "Tipo de Producto",
	"Descripción", "Área Asignada", "Sub-Área Asignada", "Cargo Asignado", "Estado",
}

// buildWorkbook renders the inventory listing as a spreadsheet for the
// back-office staff.
func buildWorkbook(items []Item) (*excelize.File, error) {
	book := excelize.NewFile()
	const sheet = "Inventario"
	if err := book.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("inventory: rename sheet: %w", err)
	}

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := book.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for row, it := range items {
		values := []any{
			it.CodigoSerie, it.Categoria, it.CentroOperacion, it.AreaPrincipal,
			it.TipoProducto, it.Descripcion, it.AreaAsignada, it.SubAreaAsignada,
			it.CargoAsignado, it.Estado,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := book.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return book, nil
}
