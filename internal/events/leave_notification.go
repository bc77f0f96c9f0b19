package events

import "time"

const LeaveNotificationTopic = "hr.leave.notification.v1"

const (
	LeaveEventRequested = "leave_requested"
	LeaveEventApproved  = "leave_approved"
	LeaveEventRejected  = "leave_rejected"
)

// LeaveNotificationEvent carries everything the mail consumer needs as a
// flat field set; the consumer never queries the database.
type LeaveNotificationEvent struct {
	EventType string `json:"event_type"`
	RequestID string `json:"request_id,omitempty"`

	TenantID   string `json:"tenant_id"`
	TenantName string `json:"tenant_name"`

	LeaveRequestID string `json:"leave_request_id"`
	LeaveTypeName  string `json:"leave_type_name"`

	EmployeeName  string `json:"employee_name"`
	EmployeeEmail string `json:"employee_email"`
	ManagerName   string `json:"manager_name"`
	ManagerEmail  string `json:"manager_email"`

	StartDate      string `json:"start_date"`
	ResumptionDate string `json:"resumption_date"`
	Duration       int    `json:"duration"`
	Description    string `json:"description,omitempty"`

	// RejectionReason is set only on leave_rejected events.
	RejectionReason string `json:"rejection_reason,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}
