package models

import "time"

// Customer is the identifier row of a garage customer
type Customer struct {
	ID          uint      `gorm:"column:customer_id;primaryKey" json:"customer_id"`
	Email       string    `gorm:"column:customer_email;uniqueIndex;not null" json:"customer_email"`
	PhoneNumber string    `gorm:"column:customer_phone_number" json:"customer_phone_number"`
	AddedDate   time.Time `gorm:"column:customer_added_date;autoCreateTime" json:"customer_added_date"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customer_identifier"
}

// CustomerInfo holds the customer's name and activity flag
type CustomerInfo struct {
	ID         uint   `gorm:"column:customer_info_id;primaryKey" json:"customer_info_id"`
	CustomerID uint   `gorm:"column:customer_id;uniqueIndex;not null" json:"customer_id"`
	FirstName  string `gorm:"column:customer_first_name;not null" json:"customer_first_name"`
	LastName   string `gorm:"column:customer_last_name;not null" json:"customer_last_name"`
	Active     bool   `gorm:"column:active_customer_status;not null" json:"active_customer_status"`
}

// TableName specifies the table name for the CustomerInfo model
func (CustomerInfo) TableName() string {
	return "customer_info"
}
