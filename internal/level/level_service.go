package level

import (
	"context"
	"errors"

	levelerrors "hrcore/internal/level/errors"
	"hrcore/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, tenantID string, req CreateLevelRequest) (LevelResponse, error)
	GetAll(ctx context.Context, tenantID string) ([]LevelResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (LevelResponse, error)
	Update(ctx context.Context, tenantID, id string, req UpdateLevelRequest) (LevelResponse, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("level.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("level.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, tenantID string, req CreateLevelRequest) (LevelResponse, error) {
	tid, err := uuid.Parse(tenantID)
	if err != nil {
		return LevelResponse{}, apperror.InvalidField("tenant_id")
	}

	if _, err := s.repo.FindByNameAndTenant(ctx, tenantID, req.Name); err == nil {
		return LevelResponse{}, levelerrors.ErrLevelNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return LevelResponse{}, err
	}

	l := &Level{
		ID:       uuid.New(),
		TenantID: tid,
		Name:     req.Name,
		Rank:     req.Rank,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("create level persist failed", zap.Error(err))
		return LevelResponse{}, err
	}

	s.logger.Info("level created",
		zap.String("level_id", l.ID.String()),
		zap.String("tenant_id", tenantID),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, tenantID string) ([]LevelResponse, error) {
	levels, err := s.repo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	resp := make([]LevelResponse, len(levels))
	for i, l := range levels {
		resp[i] = mapToResponse(l)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (LevelResponse, error) {
	l, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LevelResponse{}, levelerrors.ErrLevelNotFound
		}
		return LevelResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) Update(ctx context.Context, tenantID, id string, req UpdateLevelRequest) (LevelResponse, error) {
	l, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LevelResponse{}, levelerrors.ErrLevelNotFound
		}
		return LevelResponse{}, err
	}

	if req.Name != "" {
		l.Name = req.Name
	}
	if req.Rank != nil {
		l.Rank = *req.Rank
	}

	if err := s.repo.Update(ctx, l); err != nil {
		return LevelResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindByIDAndTenant(ctx, tenantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return levelerrors.ErrLevelNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, tenantID, id)
}

func mapToResponse(l Level) LevelResponse {
	return LevelResponse{
		ID:       l.ID.String(),
		TenantID: l.TenantID.String(),
		Name:     l.Name,
		Rank:     l.Rank,
	}
}
