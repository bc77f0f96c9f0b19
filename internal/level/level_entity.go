package level

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Level is an organizational grade (e.g. junior, senior, management).
// Leave types may be scoped to a level; employees belong to at most one.
type Level struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"type:varchar(100);not null"`
	Rank     int       `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Level) TableName() string {
	return "levels"
}
