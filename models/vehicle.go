package models

// Vehicle is a customer's car as recorded by the vehicle module
type Vehicle struct {
	ID         uint   `gorm:"column:vehicle_id;primaryKey" json:"vehicle_id"`
	CustomerID uint   `gorm:"column:customer_id;not null;index" json:"customer_id"`
	Year       int    `gorm:"column:vehicle_year" json:"vehicle_year"`
	Make       string `gorm:"column:vehicle_make" json:"vehicle_make"`
	Model      string `gorm:"column:vehicle_model" json:"vehicle_model"`
	Type       string `gorm:"column:vehicle_type" json:"vehicle_type"`
	Mileage    int    `gorm:"column:vehicle_mileage" json:"vehicle_mileage"`
	Tag        string `gorm:"column:vehicle_tag" json:"vehicle_tag"`
	Serial     string `gorm:"column:vehicle_serial" json:"vehicle_serial"` // VIN
	Color      string `gorm:"column:vehicle_color" json:"vehicle_color"`
}

// TableName specifies the table name for the Vehicle model
func (Vehicle) TableName() string {
	return "customer_vehicle_info"
}
