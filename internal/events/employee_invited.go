package events

import "time"

const EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"

const EmployeeEventInvited = "employee_invited"

type EmployeeInvitedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	EmployeeID    string    `json:"employee_id"`
	TenantID      string    `json:"tenant_id"`
	TenantName    string    `json:"tenant_name"`
	EmployeeName  string    `json:"employee_name"`
	EmployeeEmail string    `json:"employee_email"`
	OccurredAt    time.Time `json:"occurred_at"`
}
