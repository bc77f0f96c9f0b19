package employee

import "time"

type CreateEmployeeRequest struct {
	Name          string  `json:"name" binding:"required,min=2,max=200"`
	Email         string  `json:"email" binding:"required,email"`
	LevelID       *string `json:"level_id" binding:"omitempty,uuid"`
	LineManagerID *string `json:"line_manager_id" binding:"omitempty,uuid"`
}

type UpdateEmployeeRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=200"`
	LevelID  *string `json:"level_id" binding:"omitempty,uuid"`
	IsActive *bool   `json:"is_active"`
}

type AssignManagerRequest struct {
	LineManagerID string `json:"line_manager_id" binding:"required,uuid"`
}

type EmployeeResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	StaffNumber   string    `json:"staff_number"`
	LevelID       *string   `json:"level_id,omitempty"`
	LineManagerID *string   `json:"line_manager_id,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}
