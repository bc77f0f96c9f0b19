package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	employeeerrors "hrcore/internal/employee/errors"
	"hrcore/internal/events"
	leaveerrors "hrcore/internal/leave/errors"
	"hrcore/internal/messaging/kafka"
	"hrcore/internal/shared/apperror"
	"hrcore/internal/shared/contextutil"
	"hrcore/internal/shared/pagination"
	"hrcore/internal/shared/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	AddType(ctx context.Context, tenantID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetTypes(ctx context.Context, tenantID, search string, p pagination.Params) ([]LeaveTypeResponse, response.PaginationMeta, error)
	UpdateType(ctx context.Context, tenantID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	DeleteType(ctx context.Context, tenantID, id string) error

	Request(ctx context.Context, tenantID, employeeID string, req CreateLeaveRequest) (LeaveRequestResponse, error)
	Transition(ctx context.Context, tenantID, requestID, actorEmployeeID string, actorIsAdmin bool, req TransitionLeaveRequest) (LeaveRequestResponse, error)
	Delete(ctx context.Context, tenantID, id string) error
	GetAll(ctx context.Context, tenantID string, q ListLeaveRequestsQuery, p pagination.Params) ([]LeaveRequestResponse, response.PaginationMeta, error)
	GetByID(ctx context.Context, tenantID, id string) (LeaveRequestResponse, error)
	GetBalances(ctx context.Context, tenantID, employeeID string) ([]LeaveBalanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l}
}

func (s *service) AddType(ctx context.Context, tenantID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	tid, err := uuid.Parse(tenantID)
	if err != nil {
		return LeaveTypeResponse{}, apperror.InvalidField("tenant_id")
	}

	name := strings.ToLower(strings.TrimSpace(req.Name))

	var levelID *uuid.UUID
	if req.LevelID != nil {
		id, err := uuid.Parse(*req.LevelID)
		if err != nil {
			return LeaveTypeResponse{}, leaveerrors.ErrInvalidLeaveTypeID
		}
		levelID = &id
	}

	if _, err := s.repo.FindTypeByNameAndLevel(ctx, tenantID, name, levelID); err == nil {
		return LeaveTypeResponse{}, leaveerrors.ErrLeaveTypeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return LeaveTypeResponse{}, err
	}

	lt := &LeaveType{
		ID:             uuid.New(),
		TenantID:       tid,
		Name:           name,
		LevelID:        levelID,
		DefaultBalance: req.DefaultBalance,
	}
	if err := s.repo.CreateType(ctx, lt); err != nil {
		s.logger.Error("create leave type persist failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	// Eager seeding is an optimization only; employees missed here get a
	// row lazily on their first request.
	seeded, err := s.repo.SeedBalancesForType(ctx, tenantID, lt)
	if err != nil {
		s.logger.Warn("seeding balances for new leave type failed",
			zap.String("leave_type_id", lt.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("leave type created",
		zap.String("leave_type_id", lt.ID.String()),
		zap.String("tenant_id", tenantID),
		zap.Int64("balances_seeded", seeded),
	)
	return mapTypeToResponse(*lt), nil
}

func (s *service) GetTypes(ctx context.Context, tenantID, search string, p pagination.Params) ([]LeaveTypeResponse, response.PaginationMeta, error) {
	types, meta, err := s.repo.ListTypes(ctx, tenantID, search, p)
	if err != nil {
		return nil, response.PaginationMeta{}, err
	}

	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapTypeToResponse(lt)
	}
	return resp, meta, nil
}

func (s *service) UpdateType(ctx context.Context, tenantID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	lt, err := s.repo.FindTypeByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leaveerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}

	if req.Name != nil {
		name := strings.ToLower(strings.TrimSpace(*req.Name))
		if name != lt.Name {
			if _, err := s.repo.FindTypeByNameAndLevel(ctx, tenantID, name, lt.LevelID); err == nil {
				return LeaveTypeResponse{}, leaveerrors.ErrLeaveTypeExists
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return LeaveTypeResponse{}, err
			}
			lt.Name = name
		}
	}

	reseed := req.DefaultBalance != nil && *req.DefaultBalance != lt.DefaultBalance
	if reseed {
		lt.DefaultBalance = *req.DefaultBalance
	}

	if err := s.repo.UpdateType(ctx, lt); err != nil {
		return LeaveTypeResponse{}, err
	}

	if reseed {
		// Changing the entitlement replaces every balance outright; spent
		// days are not carried into the new figure.
		affected, err := s.repo.ReseedBalancesForType(ctx, tenantID, id, lt.DefaultBalance)
		if err != nil {
			s.logger.Error("reseed balances failed",
				zap.String("leave_type_id", id),
				zap.Error(err),
			)
			return LeaveTypeResponse{}, err
		}
		s.logger.Info("leave balances reseeded",
			zap.String("leave_type_id", id),
			zap.Int("new_balance", lt.DefaultBalance),
			zap.Int64("balances_updated", affected),
		)
	}

	return mapTypeToResponse(*lt), nil
}

func (s *service) DeleteType(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindTypeByIDAndTenant(ctx, tenantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveTypeNotFound
		}
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.DeleteType(ctx, tenantID, id); err != nil {
		return err
	}
	removed, err := qtx.DeleteBalancesForType(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("leave type deleted",
		zap.String("leave_type_id", id),
		zap.String("tenant_id", tenantID),
		zap.Int64("balances_removed", removed),
	)
	return nil
}

func (s *service) Request(ctx context.Context, tenantID, employeeID string, req CreateLeaveRequest) (LeaveRequestResponse, error) {
	tid, err := uuid.Parse(tenantID)
	if err != nil {
		return LeaveRequestResponse{}, apperror.InvalidField("tenant_id")
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidDateRange
	}
	resumption, err := time.Parse(dateLayout, req.ResumptionDate)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidDateRange
	}
	if !resumption.After(start) {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidDateRange
	}

	// The resumption date is the first day back, so the leave spans
	// [start, resumption) and the stated duration must match it.
	if computed := int(resumption.Sub(start).Hours() / 24); req.Duration != computed {
		return LeaveRequestResponse{}, leaveerrors.ErrDurationMismatch
	}

	emp, err := s.repo.FindEmployeeRef(ctx, tenantID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if emp.LineManagerID == nil {
		return LeaveRequestResponse{}, leaveerrors.ErrNoLineManager
	}

	lt, err := s.repo.FindTypeByIDAndTenant(ctx, tenantID, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveTypeNotFound
		}
		return LeaveRequestResponse{}, err
	}

	overlap, err := s.repo.HasOpenOverlap(ctx, tenantID, employeeID, start, resumption)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if overlap {
		return LeaveRequestResponse{}, leaveerrors.ErrOverlappingRequest
	}

	// Lazy seeding: an employee hired after the type was added gets their
	// ledger row on first use.
	if _, err := s.repo.FindBalance(ctx, tenantID, employeeID, req.LeaveTypeID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, err
		}
		if err := s.repo.EnsureBalance(ctx, tenantID, employeeID, req.LeaveTypeID, lt.DefaultBalance); err != nil {
			return LeaveRequestResponse{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	debited, err := qtx.DebitBalance(ctx, tenantID, employeeID, req.LeaveTypeID, req.Duration)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if !debited {
		return LeaveRequestResponse{}, leaveerrors.ErrInsufficientBalance
	}

	lr := &LeaveRequest{
		ID:             uuid.New(),
		TenantID:       tid,
		EmployeeID:     emp.ID,
		LineManagerID:  *emp.LineManagerID,
		LeaveTypeID:    lt.ID,
		StartDate:      start,
		ResumptionDate: resumption,
		Duration:       req.Duration,
		Description:    req.Description,
		Status:         StatusPending,
	}
	if err := qtx.CreateRequest(ctx, lr); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave requested",
		zap.String("leave_request_id", lr.ID.String()),
		zap.String("tenant_id", tenantID),
		zap.String("employee_id", employeeID),
		zap.Int("duration", lr.Duration),
	)

	s.enqueueNotification(ctx, events.LeaveEventRequested, lr, lt.Name, "")
	return mapRequestToResponse(*lr), nil
}

func (s *service) Transition(ctx context.Context, tenantID, requestID, actorEmployeeID string, actorIsAdmin bool, req TransitionLeaveRequest) (LeaveRequestResponse, error) {
	actorID, err := uuid.Parse(actorEmployeeID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrNotRequestManager
	}

	lr, err := s.repo.FindRequestByIDAndTenant(ctx, tenantID, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	// Approval rights follow the manager snapshotted at creation, not the
	// employee's current manager.
	if !actorIsAdmin && lr.LineManagerID != actorID {
		return LeaveRequestResponse{}, leaveerrors.ErrNotRequestManager
	}
	if lr.Status != StatusPending {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	switch req.Status {
	case StatusApproved:
		lr.Status = StatusApproved
		lr.ApprovedBy = &actorID
	case StatusRejected:
		if strings.TrimSpace(req.Reason) == "" {
			return LeaveRequestResponse{}, leaveerrors.ErrReasonRequired
		}
		lr.Status = StatusRejected
		lr.RejectedBy = &actorID
		lr.Reason = req.Reason
	default:
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidTargetStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	moved, err := qtx.TransitionRequest(ctx, lr)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if !moved {
		// Lost the race against another decision on the same request.
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	if lr.Status == StatusRejected {
		if err := qtx.CreditBalance(ctx, tenantID, lr.EmployeeID.String(), lr.LeaveTypeID.String(), lr.Duration); err != nil {
			return LeaveRequestResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request decided",
		zap.String("leave_request_id", lr.ID.String()),
		zap.String("tenant_id", tenantID),
		zap.String("status", lr.Status),
		zap.String("actor_employee_id", actorEmployeeID),
	)

	eventType := events.LeaveEventApproved
	if lr.Status == StatusRejected {
		eventType = events.LeaveEventRejected
	}
	s.enqueueNotification(ctx, eventType, lr, s.typeNameOf(ctx, tenantID, lr.LeaveTypeID), lr.Reason)

	return mapRequestToResponse(*lr), nil
}

func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	lr, err := s.repo.FindRequestByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrRequestNotFound
		}
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Removing a request that is still pending hands the debited days
	// back; decided requests leave the ledger as the decision set it.
	if lr.Status == StatusPending {
		if err := qtx.CreditBalance(ctx, tenantID, lr.EmployeeID.String(), lr.LeaveTypeID.String(), lr.Duration); err != nil {
			return err
		}
	}
	if err := qtx.DeleteRequest(ctx, tenantID, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("leave request deleted",
		zap.String("leave_request_id", id),
		zap.String("tenant_id", tenantID),
		zap.String("status_at_delete", lr.Status),
	)
	return nil
}

func (s *service) GetAll(ctx context.Context, tenantID string, q ListLeaveRequestsQuery, p pagination.Params) ([]LeaveRequestResponse, response.PaginationMeta, error) {
	f := RequestFilter{
		EmployeeID:    q.EmployeeID,
		LineManagerID: q.LineManagerID,
		Status:        q.Status,
		Search:        q.Search,
	}
	requests, meta, err := s.repo.ListRequests(ctx, tenantID, f, p)
	if err != nil {
		return nil, response.PaginationMeta{}, err
	}

	resp := make([]LeaveRequestResponse, len(requests))
	for i, lr := range requests {
		resp[i] = mapRequestToResponse(lr)
	}
	return resp, meta, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (LeaveRequestResponse, error) {
	lr, err := s.repo.FindRequestByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	return mapRequestToResponse(*lr), nil
}

func (s *service) GetBalances(ctx context.Context, tenantID, employeeID string) ([]LeaveBalanceResponse, error) {
	balances, err := s.repo.ListBalancesByEmployee(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]LeaveBalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = LeaveBalanceResponse{
			LeaveTypeID: b.LeaveTypeID.String(),
			Balance:     b.Balance,
		}
	}
	return resp, nil
}

func (s *service) typeNameOf(ctx context.Context, tenantID string, leaveTypeID uuid.UUID) string {
	lt, err := s.repo.FindTypeByIDAndTenant(ctx, tenantID, leaveTypeID.String())
	if err != nil {
		return ""
	}
	return lt.Name
}

// enqueueNotification writes a mail event to the outbox after the fact.
// Notifications are best effort: any failure here is logged and the
// already committed leave operation stands.
func (s *service) enqueueNotification(ctx context.Context, eventType string, lr *LeaveRequest, leaveTypeName, reason string) {
	emp, err := s.repo.FindEmployeeRef(ctx, lr.TenantID.String(), lr.EmployeeID.String())
	if err != nil {
		s.logger.Warn("leave notification skipped: employee lookup failed", zap.Error(err))
		return
	}
	mgr, err := s.repo.FindEmployeeRef(ctx, lr.TenantID.String(), lr.LineManagerID.String())
	if err != nil {
		s.logger.Warn("leave notification skipped: manager lookup failed", zap.Error(err))
		return
	}
	brand, err := s.repo.FindTenantBrand(ctx, lr.TenantID.String())
	if err != nil {
		s.logger.Warn("leave notification skipped: tenant lookup failed", zap.Error(err))
		return
	}
	tenantName := brand.BrandName
	if tenantName == "" {
		tenantName = brand.Name
	}

	event := events.LeaveNotificationEvent{
		EventType:       eventType,
		RequestID:       contextutil.GetRequestID(ctx),
		TenantID:        lr.TenantID.String(),
		TenantName:      tenantName,
		LeaveRequestID:  lr.ID.String(),
		LeaveTypeName:   leaveTypeName,
		EmployeeName:    emp.Name,
		EmployeeEmail:   emp.Email,
		ManagerName:     mgr.Name,
		ManagerEmail:    mgr.Email,
		StartDate:       lr.StartDate.Format(dateLayout),
		ResumptionDate:  lr.ResumptionDate.Format(dateLayout),
		Duration:        lr.Duration,
		Description:     lr.Description,
		RejectionReason: reason,
		OccurredAt:      time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("leave notification skipped: marshal failed", zap.Error(err))
		return
	}

	err = s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "leave_request",
		AggregateID:   lr.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveNotificationTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		s.logger.Warn("leave notification enqueue failed",
			zap.String("leave_request_id", lr.ID.String()),
			zap.Error(err),
		)
	}
}

func mapTypeToResponse(lt LeaveType) LeaveTypeResponse {
	resp := LeaveTypeResponse{
		ID:             lt.ID.String(),
		Name:           lt.Name,
		DefaultBalance: lt.DefaultBalance,
		CreatedAt:      lt.CreatedAt,
	}
	if lt.LevelID != nil {
		id := lt.LevelID.String()
		resp.LevelID = &id
	}
	return resp
}

func mapRequestToResponse(lr LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:             lr.ID.String(),
		EmployeeID:     lr.EmployeeID.String(),
		LineManagerID:  lr.LineManagerID.String(),
		LeaveTypeID:    lr.LeaveTypeID.String(),
		StartDate:      lr.StartDate.Format(dateLayout),
		ResumptionDate: lr.ResumptionDate.Format(dateLayout),
		Duration:       lr.Duration,
		Description:    lr.Description,
		Status:         lr.Status,
		Reason:         lr.Reason,
		CreatedAt:      lr.CreatedAt,
	}
	if lr.ApprovedBy != nil {
		id := lr.ApprovedBy.String()
		resp.ApprovedBy = &id
	}
	if lr.RejectedBy != nil {
		id := lr.RejectedBy.String()
		resp.RejectedBy = &id
	}
	return resp
}
