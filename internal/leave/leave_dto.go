package leave

import "time"

const dateLayout = "2006-01-02"

type CreateLeaveTypeRequest struct {
	Name           string  `json:"name" binding:"required,min=2,max=100"`
	LevelID        *string `json:"level_id" binding:"omitempty,uuid"`
	DefaultBalance int     `json:"default_balance" binding:"required,gte=0"`
}

type UpdateLeaveTypeRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=2,max=100"`
	DefaultBalance *int    `json:"default_balance" binding:"omitempty,gte=0"`
}

type LeaveTypeResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	LevelID        *string   `json:"level_id,omitempty"`
	DefaultBalance int       `json:"default_balance"`
	CreatedAt      time.Time `json:"created_at"`
}

type CreateLeaveRequest struct {
	LeaveTypeID    string `json:"leave_type_id" binding:"required,uuid"`
	StartDate      string `json:"start_date" binding:"required,datetime=2006-01-02"`
	ResumptionDate string `json:"resumption_date" binding:"required,datetime=2006-01-02"`
	Duration       int    `json:"duration" binding:"required,gt=0"`
	Description    string `json:"description" binding:"max=1000"`
}

type TransitionLeaveRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
	Reason string `json:"reason" binding:"max=1000"`
}

type ListLeaveRequestsQuery struct {
	EmployeeID    string `form:"employee_id" binding:"omitempty,uuid"`
	LineManagerID string `form:"line_manager_id" binding:"omitempty,uuid"`
	Status        string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Search        string `form:"search"`
}

type LeaveRequestResponse struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employee_id"`
	LineManagerID  string    `json:"line_manager_id"`
	LeaveTypeID    string    `json:"leave_type_id"`
	StartDate      string    `json:"start_date"`
	ResumptionDate string    `json:"resumption_date"`
	Duration       int       `json:"duration"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	ApprovedBy     *string   `json:"approved_by,omitempty"`
	RejectedBy     *string   `json:"rejected_by,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type LeaveBalanceResponse struct {
	LeaveTypeID string `json:"leave_type_id"`
	Balance     int    `json:"balance"`
}
