package employee

import (
	"context"
	"database/sql"
	"time"

	"hrcore/internal/shared/pagination"
	"hrcore/internal/shared/response"
	"hrcore/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindByIDAndTenant(ctx context.Context, tenantID, id string) (*Employee, error)
	FindByEmailAndTenant(ctx context.Context, tenantID, email string) (*Employee, error)
	List(ctx context.Context, tenantID, search string, p pagination.Params) ([]Employee, response.PaginationMeta, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, tenantID, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// exec routes writes through the active transaction when one is set,
// otherwise through the pool. Statements use $n placeholders so both
// paths take them verbatim.
func (r *repository) exec(ctx context.Context, query string, args ...interface{}) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, query, args...)
		return err
	}
	return r.db.WithContext(ctx).Exec(query, args...).Error
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	return r.exec(ctx, `
		INSERT INTO employees (
			id, tenant_id, name, email, staff_number,
			level_id, line_manager_id, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`, e.ID, e.TenantID, e.Name, e.Email, e.StaffNumber,
		e.LevelID, e.LineManagerID, e.IsActive, now)
}

func (r *repository) FindByIDAndTenant(ctx context.Context, tenantID, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByEmailAndTenant(ctx context.Context, tenantID, email string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&e, "lower(email) = lower(?)", email).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) List(ctx context.Context, tenantID, search string, p pagination.Params) ([]Employee, response.PaginationMeta, error) {
	q := r.db.WithContext(ctx).
		Model(&Employee{}).
		Scopes(tenant.Scope(tenantID))
	if search != "" {
		q = q.Where("name ILIKE ? OR email ILIKE ? OR staff_number ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	var employees []Employee
	meta, err := pagination.Paginate(q, p, &employees)
	return employees, meta, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.exec(ctx, `
		UPDATE employees
		SET name = $3, email = $4, staff_number = $5, level_id = $6,
		    line_manager_id = $7, is_active = $8, updated_at = now()
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL
	`, e.TenantID, e.ID, e.Name, e.Email, e.StaffNumber,
		e.LevelID, e.LineManagerID, e.IsActive)
}

func (r *repository) Delete(ctx context.Context, tenantID, id string) error {
	return r.exec(ctx, `
		UPDATE employees
		SET deleted_at = now()
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL
	`, tenantID, id)
}
