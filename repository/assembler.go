package repository

import (
	"fmt"
	"sort"

	"github.com/garage-works/garage-orders-api/models"
)

// assembleOrders folds header rows and service-line rows into views,
// keeping the order of rows. A header without its info or status row
// is reported as a data-integrity error.
func assembleOrders(rows []orderRow, lines []serviceLineRow) ([]models.OrderView, error) {
	byOrder := make(map[uint][]models.ServiceLineView, len(rows))
	for _, line := range lines {
		byOrder[line.OrderID] = append(byOrder[line.OrderID], models.ServiceLineView{
			ServiceID:   line.ServiceID,
			Name:        deref(line.Name),
			Description: deref(line.Description),
			Completed:   line.Completed,
			Status:      models.ServiceStatus(line.Status),
			Notes:       line.Notes,
		})
	}

	views := make([]models.OrderView, 0, len(rows))
	for i := range rows {
		view, err := toView(&rows[i])
		if err != nil {
			return nil, err
		}

		services := byOrder[view.OrderID]
		if services == nil {
			services = []models.ServiceLineView{}
		}
		sortServiceLines(services)
		view.Services = services

		views = append(views, view)
	}
	return views, nil
}

func toView(row *orderRow) (models.OrderView, error) {
	if err := checkIntegrity(row); err != nil {
		return models.OrderView{}, err
	}

	view := models.OrderView{
		OrderID:             row.OrderID,
		Token:               row.Hash,
		CreatedAt:           row.OrderDate,
		Active:              row.Active,
		Status:              models.OrderStatus(*row.Status),
		Description:         row.AdditionalRequest,
		TotalPrice:          row.TotalPrice.Decimal,
		EstimatedCompletion: row.EstimatedCompletion,
		CompletionDate:      row.CompletionDate,
		InternalNotes:       row.InternalNotes,
		CustomerNotes:       row.CustomerNotes,
		Customer: models.CustomerRef{
			ID:        row.CustomerID,
			FirstName: deref(row.CustomerFirstName),
			LastName:  deref(row.CustomerLastName),
			Email:     deref(row.CustomerEmail),
			Phone:     deref(row.CustomerPhone),
		},
	}

	if row.VehicleID != nil {
		view.Vehicle = &models.VehicleRef{
			ID:    *row.VehicleID,
			Make:  deref(row.VehicleMake),
			Model: deref(row.VehicleModel),
			VIN:   deref(row.VehicleSerial),
		}
		if row.VehicleYear != nil {
			view.Vehicle.Year = *row.VehicleYear
		}
	}

	if row.EmployeeID != nil {
		view.Employee = &models.EmployeeRef{
			ID:        *row.EmployeeID,
			FirstName: deref(row.EmployeeFirstName),
			LastName:  deref(row.EmployeeLastName),
		}
	}

	return view, nil
}

func summarize(row *orderRow) (models.OrderSummary, error) {
	if err := checkIntegrity(row); err != nil {
		return models.OrderSummary{}, err
	}
	return models.OrderSummary{
		OrderID:             row.OrderID,
		Token:               row.Hash,
		CreatedAt:           row.OrderDate,
		Status:              models.OrderStatus(*row.Status),
		TotalPrice:          row.TotalPrice.Decimal,
		EstimatedCompletion: row.EstimatedCompletion,
	}, nil
}

func checkIntegrity(row *orderRow) error {
	if row.InfoOrderID == nil {
		return fmt.Errorf("%w: order %d has no info row", ErrDataIntegrity, row.OrderID)
	}
	if row.StatusOrderID == nil || row.Status == nil {
		return fmt.Errorf("%w: order %d has no status row", ErrDataIntegrity, row.OrderID)
	}
	return nil
}

// sortServiceLines orders lines by catalog name, then service id
func sortServiceLines(lines []models.ServiceLineView) {
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].ServiceID < lines[j].ServiceID
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
