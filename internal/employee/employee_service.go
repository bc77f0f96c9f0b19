package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	employeeerrors "hrcore/internal/employee/errors"
	"hrcore/internal/events"
	"hrcore/internal/level"
	"hrcore/internal/messaging/kafka"
	"hrcore/internal/shared/apperror"
	"hrcore/internal/shared/contextutil"
	"hrcore/internal/shared/counter"
	"hrcore/internal/shared/pagination"
	"hrcore/internal/shared/response"
	"hrcore/internal/tenant"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const staffNumberCounter = "staff_number"

type Service interface {
	Create(ctx context.Context, tenantID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, tenantID, search string, p pagination.Params) ([]EmployeeResponse, response.PaginationMeta, error)
	GetByID(ctx context.Context, tenantID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, tenantID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	AssignManager(ctx context.Context, tenantID, id string, req AssignManagerRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type service struct {
	repo        Repository
	counterRepo counter.Repository
	levelRepo   level.Repository
	tenantRepo  tenant.Repository
	outbox      kafka.OutboxRepository
	logger      *zap.Logger
}

func NewService(
	repo Repository,
	counterRepo counter.Repository,
	levelRepo level.Repository,
	tenantRepo tenant.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		repo:        repo,
		counterRepo: counterRepo,
		levelRepo:   levelRepo,
		tenantRepo:  tenantRepo,
		outbox:      outbox,
		logger:      l,
	}
}

func (s *service) Create(ctx context.Context, tenantID string, req CreateEmployeeRequest) (EmployeeResponse, error) {
	tid, err := uuid.Parse(tenantID)
	if err != nil {
		return EmployeeResponse{}, apperror.InvalidField("tenant_id")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.FindByEmailAndTenant(ctx, tenantID, email); err == nil {
		return EmployeeResponse{}, employeeerrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return EmployeeResponse{}, err
	}

	e := &Employee{
		ID:       uuid.New(),
		TenantID: tid,
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		IsActive: true,
	}

	if req.LevelID != nil {
		id, err := s.resolveLevel(ctx, tenantID, *req.LevelID)
		if err != nil {
			return EmployeeResponse{}, err
		}
		e.LevelID = id
	}
	if req.LineManagerID != nil {
		id, err := s.resolveManager(ctx, tenantID, e.ID.String(), *req.LineManagerID)
		if err != nil {
			return EmployeeResponse{}, err
		}
		e.LineManagerID = id
	}

	next, err := s.counterRepo.GetNextValue(ctx, tenantID, staffNumberCounter)
	if err != nil {
		return EmployeeResponse{}, err
	}
	e.StaffNumber = fmt.Sprintf("EMP-%06d", next)

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("employee created",
		zap.String("employee_id", e.ID.String()),
		zap.String("tenant_id", tenantID),
		zap.String("staff_number", e.StaffNumber),
	)

	s.enqueueInvite(ctx, e)
	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context, tenantID, search string, p pagination.Params) ([]EmployeeResponse, response.PaginationMeta, error) {
	employees, meta, err := s.repo.List(ctx, tenantID, search, p)
	if err != nil {
		return nil, response.PaginationMeta{}, err
	}

	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp, meta, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (EmployeeResponse, error) {
	e, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, tenantID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	e, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	if req.Name != nil {
		e.Name = strings.TrimSpace(*req.Name)
	}
	if req.LevelID != nil {
		levelID, err := s.resolveLevel(ctx, tenantID, *req.LevelID)
		if err != nil {
			return EmployeeResponse{}, err
		}
		e.LevelID = levelID
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) AssignManager(ctx context.Context, tenantID, id string, req AssignManagerRequest) (EmployeeResponse, error) {
	e, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	managerID, err := s.resolveManager(ctx, tenantID, id, req.LineManagerID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	e.LineManagerID = managerID

	if err := s.repo.Update(ctx, e); err != nil {
		return EmployeeResponse{}, err
	}

	s.logger.Info("line manager assigned",
		zap.String("employee_id", id),
		zap.String("line_manager_id", managerID.String()),
		zap.String("tenant_id", tenantID),
	)
	return mapToResponse(*e), nil
}

func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindByIDAndTenant(ctx, tenantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return employeeerrors.ErrEmployeeNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, tenantID, id)
}

func (s *service) resolveLevel(ctx context.Context, tenantID, levelID string) (*uuid.UUID, error) {
	l, err := s.levelRepo.FindByIDAndTenant(ctx, tenantID, levelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrLevelNotFound
		}
		return nil, err
	}
	return &l.ID, nil
}

// resolveManager checks the manager lives in the same tenant and is not
// the employee themselves.
func (s *service) resolveManager(ctx context.Context, tenantID, employeeID, managerID string) (*uuid.UUID, error) {
	if managerID == employeeID {
		return nil, employeeerrors.ErrSelfManagement
	}
	m, err := s.repo.FindByIDAndTenant(ctx, tenantID, managerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrManagerNotFound
		}
		return nil, err
	}
	return &m.ID, nil
}

// enqueueInvite writes the welcome-mail event to the outbox; failures are
// logged and do not fail employee creation.
func (s *service) enqueueInvite(ctx context.Context, e *Employee) {
	t, err := s.tenantRepo.GetByID(ctx, e.TenantID)
	if err != nil {
		s.logger.Warn("invite notification skipped: tenant lookup failed", zap.Error(err))
		return
	}
	tenantName := t.BrandName
	if tenantName == "" {
		tenantName = t.Name
	}

	event := events.EmployeeInvitedEvent{
		EventType:     events.EmployeeEventInvited,
		RequestID:     contextutil.GetRequestID(ctx),
		EmployeeID:    e.ID.String(),
		TenantID:      e.TenantID.String(),
		TenantName:    tenantName,
		EmployeeName:  e.Name,
		EmployeeEmail: e.Email,
		OccurredAt:    time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("invite notification skipped: marshal failed", zap.Error(err))
		return
	}

	err = s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "employee",
		AggregateID:   e.ID.String(),
		EventType:     events.EmployeeEventInvited,
		Topic:         events.EmployeeLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		s.logger.Warn("invite notification enqueue failed",
			zap.String("employee_id", e.ID.String()),
			zap.Error(err),
		)
	}
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:          e.ID.String(),
		Name:        e.Name,
		Email:       e.Email,
		StaffNumber: e.StaffNumber,
		IsActive:    e.IsActive,
		CreatedAt:   e.CreatedAt,
	}
	if e.LevelID != nil {
		id := e.LevelID.String()
		resp.LevelID = &id
	}
	if e.LineManagerID != nil {
		id := e.LineManagerID.String()
		resp.LineManagerID = &id
	}
	return resp
}
