package tenant

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetByName(ctx context.Context, name string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
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

func (r *repository) Create(ctx context.Context, t *Tenant) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	return r.exec(ctx, `
		INSERT INTO tenants (id, name, email, brand_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, t.ID, t.Name, t.Email, t.BrandName, t.IsActive, now)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	var t Tenant
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) GetByName(ctx context.Context, name string) (*Tenant, error) {
	var t Tenant
	err := r.db.WithContext(ctx).First(&t, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) Update(ctx context.Context, t *Tenant) error {
	return r.exec(ctx, `
		UPDATE tenants
		SET name = $2, email = $3, brand_name = $4, is_active = $5, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, t.ID, t.Name, t.Email, t.BrandName, t.IsActive)
}
