package testutil

import (
	"fmt"
	"testing"

	"github.com/garage-works/garage-orders-api/models"
	"gorm.io/gorm"
)

// Catalog is a small set of reference rows orders can point at
type Catalog struct {
	Customer  models.Customer
	Vehicle   models.Vehicle
	Employee  models.Employee
	OilChange models.CommonService
	Brakes    models.CommonService
	Alignment models.CommonService
}

// CreateCustomer inserts a customer with its info row
func CreateCustomer(t testing.TB, db *gorm.DB, firstName, lastName, email string) models.Customer {
	t.Helper()

	customer := models.Customer{Email: email, PhoneNumber: "555-0100"}
	mustCreate(t, db, &customer)
	mustCreate(t, db, &models.CustomerInfo{
		CustomerID: customer.ID,
		FirstName:  firstName,
		LastName:   lastName,
		Active:     true,
	})
	return customer
}

// CreateVehicle inserts a vehicle owned by customerID
func CreateVehicle(t testing.TB, db *gorm.DB, customerID uint, make, model string, year int) models.Vehicle {
	t.Helper()

	vehicle := models.Vehicle{
		CustomerID: customerID,
		Year:       year,
		Make:       make,
		Model:      model,
		Type:       "Sedan",
		Mileage:    42000,
		Tag:        "ABC-123",
		Serial:     fmt.Sprintf("VIN%d%s", customerID, model),
		Color:      "Blue",
	}
	mustCreate(t, db, &vehicle)
	return vehicle
}

// CreateEmployee inserts an active employee with its info row
func CreateEmployee(t testing.TB, db *gorm.DB, firstName, lastName, email string) models.Employee {
	t.Helper()

	employee := models.Employee{Email: email, Active: true}
	mustCreate(t, db, &employee)
	mustCreate(t, db, &models.EmployeeInfo{
		EmployeeID: employee.ID,
		FirstName:  firstName,
		LastName:   lastName,
	})
	return employee
}

// CreateService inserts a catalog service
func CreateService(t testing.TB, db *gorm.DB, name, description string) models.CommonService {
	t.Helper()

	service := models.CommonService{Name: name, Description: description}
	mustCreate(t, db, &service)
	return service
}

// SeedCatalog inserts one customer, vehicle, employee and three services
func SeedCatalog(t testing.TB, db *gorm.DB) Catalog {
	t.Helper()

	customer := CreateCustomer(t, db, "Ada", "Lovelace", "ada@example.com")
	return Catalog{
		Customer:  customer,
		Vehicle:   CreateVehicle(t, db, customer.ID, "Toyota", "Corolla", 2018),
		Employee:  CreateEmployee(t, db, "Grace", "Hopper", "grace@garage.test"),
		OilChange: CreateService(t, db, "Oil Change", "Replace engine oil and filter"),
		Brakes:    CreateService(t, db, "Brake Inspection", "Inspect pads and rotors"),
		Alignment: CreateService(t, db, "Wheel Alignment", "Four wheel alignment"),
	}
}

func mustCreate(t testing.TB, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("Failed to create %T: %v", value, err)
	}
}
