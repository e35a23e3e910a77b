package dbmodels

import (
	"fmt"
	"time"

	"hiring-compliance-backend/models"
)

type Organization struct {
	BaseModel
	Name             string `gorm:"type:varchar(255)"`
	LegalName        string `gorm:"type:varchar(255)"`
	Website          string `gorm:"type:varchar(255)"`
	EmployeeCount    int
	BillingPlan      string `gorm:"type:varchar(50)"` // plan slug from billing provider
	BillingActiveTo  time.Time
	IsActive         bool
	PrimaryState     string `gorm:"type:varchar(100)"` // main hiring jurisdiction
	ContactEmail     string `gorm:"type:varchar(255)"`
	NotificationsOff bool
}

type OrgUser struct {
	BaseModel
	OrganizationID string `gorm:"type:varchar(36);index"`
	Password       string `gorm:"type:varchar(128)"`
	FirstName      string `gorm:"type:varchar(150)"`
	LastName       string `gorm:"type:varchar(150)"`
	Email          string `gorm:"type:varchar(255);index"`
	IsActive       bool
	Role           models.UserRole `gorm:"type:varchar(50)"`
	LastLogin      time.Time
}

func (r OrgUser) GetFullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}
