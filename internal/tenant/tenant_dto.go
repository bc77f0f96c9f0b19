package tenant

type UpdateTenantRequest struct {
	Name      string `json:"name"`
	BrandName string `json:"brand_name"`
	IsActive  *bool  `json:"is_active"`
}

type TenantResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	BrandName string `json:"brand_name"`
	IsActive  bool   `json:"is_active"`
}
