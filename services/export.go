package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/garage-works/garage-orders-api/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportSheet = "Orders"

var orderExportHeaders = []string{
	"Order ID", "Token", "Created", "Status", "Customer", "Email",
	"Vehicle", "Employee", "Total", "Estimated Completion", "Completed", "Services",
}

// ExportOrders writes every order matching term, newest first, to a
// workbook. The caller closes the returned file.
func (s *OrderService) ExportOrders(ctx context.Context, term string) (*excelize.File, string, error) {
	views, err := s.orders.ListAll(ctx, term)
	if err != nil {
		s.log.Error("Failed to load orders for export", zap.Error(err))
		return nil, "", err
	}

	f, err := buildOrderWorkbook(views)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("orders_%s.xlsx", s.now().Format("20060102_150405"))
	s.log.Info("Orders exported", zap.Int("orders", len(views)), zap.String("search", term))
	return f, filename, nil
}

func buildOrderWorkbook(views []models.OrderView) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, h := range orderExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, h)
		f.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}

	for i, v := range views {
		row := []interface{}{
			v.OrderID,
			v.Token,
			v.CreatedAt.Format("2006-01-02 15:04"),
			v.Status.String(),
			strings.TrimSpace(v.Customer.FirstName + " " + v.Customer.LastName),
			v.Customer.Email,
			vehicleLabel(v.Vehicle),
			employeeLabel(v.Employee),
			v.TotalPrice.StringFixed(2),
			formatDate(v.EstimatedCompletion),
			formatDate(v.CompletionDate),
			serviceNames(v.Services),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	colWidths := []float64{10, 36, 18, 12, 24, 28, 24, 20, 10, 20, 20, 48}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(exportSheet, col, col, w)
	}
	return f, nil
}

func vehicleLabel(v *models.VehicleRef) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model))
}

func employeeLabel(e *models.EmployeeRef) string {
	if e == nil {
		return ""
	}
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func serviceNames(lines []models.ServiceLineView) string {
	names := make([]string, len(lines))
	for i, l := range lines {
		names[i] = fmt.Sprintf("%s (%s)", l.Name, l.Status)
	}
	return strings.Join(names, ", ")
}
