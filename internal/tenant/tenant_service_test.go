package tenant

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	tenanterrors "hrcore/internal/tenant/errors"
)

type fakeRepo struct {
	createFn    func(ctx context.Context, t *Tenant) error
	getByIDFn   func(ctx context.Context, id uuid.UUID) (*Tenant, error)
	getByNameFn func(ctx context.Context, name string) (*Tenant, error)
	updateFn    func(ctx context.Context, t *Tenant) error
}

func (f *fakeRepo) WithTx(_ *sql.Tx) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, t *Tenant) error { return f.createFn(ctx, t) }

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeRepo) GetByName(ctx context.Context, name string) (*Tenant, error) {
	return f.getByNameFn(ctx, name)
}

func (f *fakeRepo) Update(ctx context.Context, t *Tenant) error { return f.updateFn(ctx, t) }

func TestGetByIDFallsBackToNameForBranding(t *testing.T) {
	id := uuid.New()
	repo := &fakeRepo{
		getByIDFn: func(_ context.Context, got uuid.UUID) (*Tenant, error) {
			assert.Equal(t, id, got)
			return &Tenant{ID: id, Name: "Acme Corp", IsActive: true}, nil
		},
	}

	resp, err := NewService(repo).GetByID(context.Background(), id.String())
	assert.NoError(t, err)
	assert.Equal(t, "Acme Corp", resp.BrandName)
}

func TestGetByIDRejectsMalformedID(t *testing.T) {
	_, err := NewService(&fakeRepo{}).GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, tenanterrors.ErrInvalidTenantID)
}

func TestGetByIDMapsMissingTenant(t *testing.T) {
	repo := &fakeRepo{
		getByIDFn: func(_ context.Context, _ uuid.UUID) (*Tenant, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	_, err := NewService(repo).GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, tenanterrors.ErrTenantNotFound)
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	id := uuid.New()
	var saved *Tenant
	repo := &fakeRepo{
		getByIDFn: func(_ context.Context, _ uuid.UUID) (*Tenant, error) {
			return &Tenant{ID: id, Name: "Acme Corp", Email: "ops@acme.test", IsActive: true}, nil
		},
		updateFn: func(_ context.Context, t *Tenant) error {
			saved = t
			return nil
		},
	}

	inactive := false
	resp, err := NewService(repo).Update(context.Background(), id.String(), UpdateTenantRequest{
		BrandName: "Acme HR",
		IsActive:  &inactive,
	})
	assert.NoError(t, err)
	assert.NotNil(t, saved)
	assert.Equal(t, "Acme Corp", saved.Name)
	assert.Equal(t, "Acme HR", saved.BrandName)
	assert.False(t, saved.IsActive)
	assert.Equal(t, "Acme HR", resp.BrandName)
}
