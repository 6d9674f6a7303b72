package models

import "time"

// Employee is the identifier row of a staff member
type Employee struct {
	ID        uint      `gorm:"column:employee_id;primaryKey" json:"employee_id"`
	Email     string    `gorm:"column:employee_email;uniqueIndex;not null" json:"employee_email"`
	Active    bool      `gorm:"column:active_employee;not null" json:"active_employee"`
	AddedDate time.Time `gorm:"column:added_date;autoCreateTime" json:"added_date"`
}

// TableName specifies the table name for the Employee model
func (Employee) TableName() string {
	return "employee"
}

// EmployeeInfo holds the employee's name and phone number
type EmployeeInfo struct {
	ID          uint   `gorm:"column:employee_info_id;primaryKey" json:"employee_info_id"`
	EmployeeID  uint   `gorm:"column:employee_id;uniqueIndex;not null" json:"employee_id"`
	FirstName   string `gorm:"column:employee_first_name;not null" json:"employee_first_name"`
	LastName    string `gorm:"column:employee_last_name;not null" json:"employee_last_name"`
	PhoneNumber string `gorm:"column:employee_phone" json:"employee_phone"`
}

// TableName specifies the table name for the EmployeeInfo model
func (EmployeeInfo) TableName() string {
	return "employee_info"
}
