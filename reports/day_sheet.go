// Package reports renders reservation exports.
package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"github.com/yeremiapane/reservation-app/models"
)

const sheetName = "Reservations"

var dayHeaders = []string{"ID", "Time", "Name", "Mobile", "People", "Status"}

// DaySheet builds a workbook listing the given reservations for one date.
func DaySheet(date string, reservations []models.Reservation) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Reservations for %s", date))
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range dayHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, r := range reservations {
		row := i + 3
		values := []interface{}{
			r.ReservationID,
			r.ReservationTime,
			r.FullName(),
			r.MobileNumber,
			r.People,
			string(r.ReservationStatus),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}

	_ = f.SetColWidth(sheetName, "A", "B", 12)
	_ = f.SetColWidth(sheetName, "C", "D", 24)
	_ = f.SetColWidth(sheetName, "E", "F", 12)
	return f, nil
}

// WriteDaySheet streams the workbook built by DaySheet to w.
func WriteDaySheet(w io.Writer, date string, reservations []models.Reservation) error {
	f, err := DaySheet(date, reservations)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
