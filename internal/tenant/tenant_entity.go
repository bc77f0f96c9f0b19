package tenant

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tenant struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name  string    `gorm:"type:varchar(150);not null;uniqueIndex"`
	Email string    `gorm:"type:varchar(255);index"`

	// BrandName is what outbound mail templates display; defaults to Name.
	BrandName string `gorm:"type:varchar(150)"`
	IsActive  bool   `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Tenant) TableName() string {
	return "tenants"
}
