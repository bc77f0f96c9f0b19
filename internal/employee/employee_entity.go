package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_employees_tenant_email"`

	Name  string `gorm:"type:varchar(200);not null"`
	Email string `gorm:"type:varchar(255);not null;uniqueIndex:uq_employees_tenant_email"`

	// StaffNumber is generated per tenant from an atomic counter, e.g.
	// EMP-000042.
	StaffNumber string `gorm:"type:varchar(20);not null;index"`

	LevelID       *uuid.UUID `gorm:"type:uuid;index"`
	LineManagerID *uuid.UUID `gorm:"type:uuid;index"`

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}
