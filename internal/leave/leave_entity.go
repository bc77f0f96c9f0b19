package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// LeaveType is the per-tenant catalog entry for a leave category.
// Name is stored lower-cased; uniqueness is per tenant and level.
type LeaveType struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_types_tenant_name"`
	Name     string    `gorm:"type:varchar(100);not null;index:idx_leave_types_tenant_name"`

	// LevelID scopes the type to one organizational level; nil means
	// tenant-global.
	LevelID        *uuid.UUID `gorm:"type:uuid;index"`
	DefaultBalance int        `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveType) TableName() string {
	return "leave_types"
}

// LeaveBalance is one ledger row: remaining entitlement for one
// employee/leave-type pair. Balance never goes below zero; the debit path
// enforces that with a conditional update, not a read-then-write.
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_owner"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_owner"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_owner"`
	Balance     int       `gorm:"type:int;not null;check:balance >= 0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_tenant_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`

	// LineManagerID is snapshotted at creation; later manager changes do
	// not move approval rights on an open request.
	LineManagerID uuid.UUID `gorm:"type:uuid;not null;index"`
	LeaveTypeID   uuid.UUID `gorm:"type:uuid;not null"`

	StartDate      time.Time `gorm:"type:date;not null"`
	ResumptionDate time.Time `gorm:"type:date;not null"`
	Duration       int       `gorm:"type:int;not null"`
	Description    string    `gorm:"type:text"`

	Status     string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_tenant_status"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	RejectedBy *uuid.UUID `gorm:"type:uuid"`
	Reason     string     `gorm:"type:text"` // rejection reason

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
