package auth

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// RegisterTenantRequest onboards a new tenant together with its first
// admin. The admin gets an employee record and a TENANT_ADMIN login.
type RegisterTenantRequest struct {
	TenantName  string `json:"tenant_name" binding:"required,min=2,max=150"`
	TenantEmail string `json:"tenant_email" binding:"required,email"`
	BrandName   string `json:"brand_name" binding:"omitempty,max=150"`

	AdminName     string `json:"admin_name" binding:"required,min=2,max=200"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
}

type RegisterEmployeeUserRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
}

type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	TenantID   string `json:"tenant_id"`
	EmployeeID string `json:"employee_id"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        UserResponse `json:"user"`
}
