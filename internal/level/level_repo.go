package level

import (
	"context"
	"database/sql"

	"hrcore/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Level) error
	FindAllByTenant(ctx context.Context, tenantID string) ([]Level, error)
	FindByIDAndTenant(ctx context.Context, tenantID, id string) (*Level, error)
	FindByNameAndTenant(ctx context.Context, tenantID, name string) (*Level, error)
	Update(ctx context.Context, l *Level) error
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

func (r *repository) Create(ctx context.Context, l *Level) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAllByTenant(ctx context.Context, tenantID string) ([]Level, error) {
	var levels []Level
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("rank ASC").
		Find(&levels).Error
	return levels, err
}

func (r *repository) FindByIDAndTenant(ctx context.Context, tenantID, id string) (*Level, error) {
	var l Level
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByNameAndTenant(ctx context.Context, tenantID, name string) (*Level, error) {
	var l Level
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&l, "lower(name) = lower(?)", name).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) Update(ctx context.Context, l *Level) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&Level{}, "id = ?", id).Error
}
