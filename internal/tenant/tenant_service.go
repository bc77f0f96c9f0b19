package tenant

import (
	"context"
	"errors"

	tenanterrors "hrcore/internal/tenant/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	GetByID(ctx context.Context, id string) (*TenantResponse, error)
	Update(ctx context.Context, id string, req UpdateTenantRequest) (*TenantResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*TenantResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, tenanterrors.ErrInvalidTenantID
	}

	t, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tenanterrors.ErrTenantNotFound
		}
		return nil, err
	}

	return mapToResponse(t), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateTenantRequest) (*TenantResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, tenanterrors.ErrInvalidTenantID
	}

	t, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tenanterrors.ErrTenantNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		t.Name = req.Name
	}
	if req.BrandName != "" {
		t.BrandName = req.BrandName
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	return mapToResponse(t), nil
}

func mapToResponse(t *Tenant) *TenantResponse {
	brand := t.BrandName
	if brand == "" {
		brand = t.Name
	}
	return &TenantResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		Email:     t.Email,
		BrandName: brand,
		IsActive:  t.IsActive,
	}
}
