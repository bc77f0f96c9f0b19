package level

type CreateLevelRequest struct {
	Name string `json:"name" binding:"required"`
	Rank int    `json:"rank"`
}

type UpdateLevelRequest struct {
	Name string `json:"name"`
	Rank *int   `json:"rank"`
}

type LevelResponse struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Rank     int    `json:"rank"`
}
