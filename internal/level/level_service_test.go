package level

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	levelerrors "hrcore/internal/level/errors"
)

type fakeRepo struct {
	createFn     func(ctx context.Context, l *Level) error
	findAllFn    func(ctx context.Context, tenantID string) ([]Level, error)
	findByIDFn   func(ctx context.Context, tenantID, id string) (*Level, error)
	findByNameFn func(ctx context.Context, tenantID, name string) (*Level, error)
	updateFn     func(ctx context.Context, l *Level) error
	deleteFn     func(ctx context.Context, tenantID, id string) error
}

func (f *fakeRepo) WithTx(_ *sql.Tx) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, l *Level) error { return f.createFn(ctx, l) }

func (f *fakeRepo) FindAllByTenant(ctx context.Context, tenantID string) ([]Level, error) {
	return f.findAllFn(ctx, tenantID)
}

func (f *fakeRepo) FindByIDAndTenant(ctx context.Context, tenantID, id string) (*Level, error) {
	return f.findByIDFn(ctx, tenantID, id)
}

func (f *fakeRepo) FindByNameAndTenant(ctx context.Context, tenantID, name string) (*Level, error) {
	return f.findByNameFn(ctx, tenantID, name)
}

func (f *fakeRepo) Update(ctx context.Context, l *Level) error { return f.updateFn(ctx, l) }

func (f *fakeRepo) Delete(ctx context.Context, tenantID, id string) error {
	return f.deleteFn(ctx, tenantID, id)
}

func TestCreateLevel(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New().String()

	t.Run("creates a level", func(t *testing.T) {
		var created *Level
		repo := &fakeRepo{
			findByNameFn: func(_ context.Context, _, _ string) (*Level, error) {
				return nil, gorm.ErrRecordNotFound
			},
			createFn: func(_ context.Context, l *Level) error {
				created = l
				return nil
			},
		}

		svc := NewService(repo, zap.NewNop())
		resp, err := svc.Create(ctx, tenantID, CreateLevelRequest{Name: "Senior", Rank: 3})

		assert.NoError(t, err)
		assert.Equal(t, "Senior", created.Name)
		assert.Equal(t, 3, created.Rank)
		assert.Equal(t, tenantID, resp.TenantID)
	})

	t.Run("duplicate name in the tenant", func(t *testing.T) {
		repo := &fakeRepo{
			findByNameFn: func(_ context.Context, _, _ string) (*Level, error) {
				return &Level{}, nil
			},
		}

		svc := NewService(repo, zap.NewNop())
		_, err := svc.Create(ctx, tenantID, CreateLevelRequest{Name: "Senior", Rank: 3})
		assert.ErrorIs(t, err, levelerrors.ErrLevelNameTaken)
	})
}

func TestGetLevel(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New().String()

	t.Run("unknown id", func(t *testing.T) {
		repo := &fakeRepo{
			findByIDFn: func(_ context.Context, _, _ string) (*Level, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}

		svc := NewService(repo, zap.NewNop())
		_, err := svc.GetByID(ctx, tenantID, uuid.New().String())
		assert.ErrorIs(t, err, levelerrors.ErrLevelNotFound)
	})
}
