package dbmodels

import (
	"fmt"
	"hr-pipeline-backend/models"
)

type Candidate struct {
	BaseModel
	FirstName string `gorm:"type:varchar(150)"`
	LastName  string `gorm:"type:varchar(150)"`
	Email     string `gorm:"type:varchar(255)"`
	Phone     string `gorm:"type:varchar(50)"`
}

func (r Candidate) GetFullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}

type StaffUser struct {
	BaseModel
	FirstName string          `gorm:"type:varchar(150)"`
	LastName  string          `gorm:"type:varchar(150)"`
	Email     string          `gorm:"type:varchar(255);uniqueIndex"`
	Role      models.UserRole `gorm:"type:varchar(50)"`
	Password  string          `gorm:"type:varchar(255)"`
	IsActive  bool
}

func (r StaffUser) GetFullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}

type JobPosition struct {
	BaseModel
	Title      string `gorm:"type:varchar(255)"`
	Department string `gorm:"type:varchar(255)"`
	IsOpen     bool
}
