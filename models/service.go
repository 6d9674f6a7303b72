package models

// CommonService is an entry of the garage's service catalog
type CommonService struct {
	ID          uint   `gorm:"column:service_id;primaryKey" json:"service_id"`
	Name        string `gorm:"column:service_name;not null" json:"service_name"`
	Description string `gorm:"column:service_description;type:text" json:"service_description"`
}

// TableName specifies the table name for the CommonService model
func (CommonService) TableName() string {
	return "common_services"
}
