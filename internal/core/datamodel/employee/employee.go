package employee

import "time"

// Employee is one row per human staff member. EmployeeID is the external
// identifier assigned by HR; ADUsername joins the row to the directory entry
// and to session identity.
type Employee struct {
	EmployeeID string    `gorm:"column:employee_id;primaryKey"`
	FullArName string    `gorm:"column:full_ar_name;not null"`
	FullEnName string    `gorm:"column:full_en_name;not null"`
	JobTitle   string    `gorm:"column:job_title"`
	Department string    `gorm:"column:department"`
	NationalID string    `gorm:"column:national_id;uniqueIndex;not null"`
	HiringDate time.Time `gorm:"column:hiring_date;type:date"`
	ADUsername string    `gorm:"column:ad_username;uniqueIndex;not null"`
	IsActive   bool      `gorm:"column:is_active;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt  time.Time `gorm:"column:updated_at;default:now()"`
}

func (Employee) TableName() string {
	return "employees"
}
