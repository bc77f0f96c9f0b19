package leave

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	employeeerrors "hrcore/internal/employee/errors"
	leaveerrors "hrcore/internal/leave/errors"
	"hrcore/internal/messaging/kafka"
	"hrcore/internal/shared/apperror"
	"hrcore/internal/shared/pagination"
	"hrcore/internal/shared/response"
)

type fakeRepo struct {
	createTypeFn             func(ctx context.Context, lt *LeaveType) error
	findTypeByIDFn           func(ctx context.Context, tenantID, id string) (*LeaveType, error)
	findTypeByNameAndLevelFn func(ctx context.Context, tenantID, name string, levelID *uuid.UUID) (*LeaveType, error)
	updateTypeFn             func(ctx context.Context, lt *LeaveType) error
	deleteTypeFn             func(ctx context.Context, tenantID, id string) error
	listTypesFn              func(ctx context.Context, tenantID, search string, p pagination.Params) ([]LeaveType, response.PaginationMeta, error)

	findBalanceFn           func(ctx context.Context, tenantID, employeeID, leaveTypeID string) (*LeaveBalance, error)
	ensureBalanceFn         func(ctx context.Context, tenantID, employeeID, leaveTypeID string, seed int) error
	debitBalanceFn          func(ctx context.Context, tenantID, employeeID, leaveTypeID string, amount int) (bool, error)
	creditBalanceFn         func(ctx context.Context, tenantID, employeeID, leaveTypeID string, amount int) error
	seedBalancesFn          func(ctx context.Context, tenantID string, lt *LeaveType) (int64, error)
	reseedBalancesFn        func(ctx context.Context, tenantID, leaveTypeID string, newBalance int) (int64, error)
	deleteBalancesFn        func(ctx context.Context, tenantID, leaveTypeID string) (int64, error)
	listBalancesByEmployee  func(ctx context.Context, tenantID, employeeID string) ([]LeaveBalance, error)

	createRequestFn     func(ctx context.Context, lr *LeaveRequest) error
	findRequestByIDFn   func(ctx context.Context, tenantID, id string) (*LeaveRequest, error)
	transitionRequestFn func(ctx context.Context, lr *LeaveRequest) (bool, error)
	deleteRequestFn     func(ctx context.Context, tenantID, id string) error
	listRequestsFn      func(ctx context.Context, tenantID string, f RequestFilter, p pagination.Params) ([]LeaveRequest, response.PaginationMeta, error)
	hasOpenOverlapFn    func(ctx context.Context, tenantID, employeeID string, start, resumption time.Time) (bool, error)

	findEmployeeRefFn func(ctx context.Context, tenantID, employeeID string) (*EmployeeRef, error)
	findTenantBrandFn func(ctx context.Context, tenantID string) (*TenantBrand, error)
}

func (f *fakeRepo) WithTx(_ *sql.Tx) Repository { return f }

func (f *fakeRepo) CreateType(ctx context.Context, lt *LeaveType) error {
	return f.createTypeFn(ctx, lt)
}

func (f *fakeRepo) FindTypeByIDAndTenant(ctx context.Context, tenantID, id string) (*LeaveType, error) {
	return f.findTypeByIDFn(ctx, tenantID, id)
}

func (f *fakeRepo) FindTypeByNameAndLevel(ctx context.Context, tenantID, name string, levelID *uuid.UUID) (*LeaveType, error) {
	return f.findTypeByNameAndLevelFn(ctx, tenantID, name, levelID)
}

func (f *fakeRepo) UpdateType(ctx context.Context, lt *LeaveType) error {
	return f.updateTypeFn(ctx, lt)
}

func (f *fakeRepo) DeleteType(ctx context.Context, tenantID, id string) error {
	return f.deleteTypeFn(ctx, tenantID, id)
}

func (f *fakeRepo) ListTypes(ctx context.Context, tenantID, search string, p pagination.Params) ([]LeaveType, response.PaginationMeta, error) {
	return f.listTypesFn(ctx, tenantID, search, p)
}

func (f *fakeRepo) FindBalance(ctx context.Context, tenantID, employeeID, leaveTypeID string) (*LeaveBalance, error) {
	return f.findBalanceFn(ctx, tenantID, employeeID, leaveTypeID)
}

func (f *fakeRepo) EnsureBalance(ctx context.Context, tenantID, employeeID, leaveTypeID string, seed int) error {
	return f.ensureBalanceFn(ctx, tenantID, employeeID, leaveTypeID, seed)
}

func (f *fakeRepo) DebitBalance(ctx context.Context, tenantID, employeeID, leaveTypeID string, amount int) (bool, error) {
	return f.debitBalanceFn(ctx, tenantID, employeeID, leaveTypeID, amount)
}

func (f *fakeRepo) CreditBalance(ctx context.Context, tenantID, employeeID, leaveTypeID string, amount int) error {
	return f.creditBalanceFn(ctx, tenantID, employeeID, leaveTypeID, amount)
}

func (f *fakeRepo) SeedBalancesForType(ctx context.Context, tenantID string, lt *LeaveType) (int64, error) {
	return f.seedBalancesFn(ctx, tenantID, lt)
}

func (f *fakeRepo) ReseedBalancesForType(ctx context.Context, tenantID, leaveTypeID string, newBalance int) (int64, error) {
	return f.reseedBalancesFn(ctx, tenantID, leaveTypeID, newBalance)
}

func (f *fakeRepo) DeleteBalancesForType(ctx context.Context, tenantID, leaveTypeID string) (int64, error) {
	return f.deleteBalancesFn(ctx, tenantID, leaveTypeID)
}

func (f *fakeRepo) ListBalancesByEmployee(ctx context.Context, tenantID, employeeID string) ([]LeaveBalance, error) {
	return f.listBalancesByEmployee(ctx, tenantID, employeeID)
}

func (f *fakeRepo) CreateRequest(ctx context.Context, lr *LeaveRequest) error {
	return f.createRequestFn(ctx, lr)
}

func (f *fakeRepo) FindRequestByIDAndTenant(ctx context.Context, tenantID, id string) (*LeaveRequest, error) {
	return f.findRequestByIDFn(ctx, tenantID, id)
}

func (f *fakeRepo) TransitionRequest(ctx context.Context, lr *LeaveRequest) (bool, error) {
	return f.transitionRequestFn(ctx, lr)
}

func (f *fakeRepo) DeleteRequest(ctx context.Context, tenantID, id string) error {
	return f.deleteRequestFn(ctx, tenantID, id)
}

func (f *fakeRepo) ListRequests(ctx context.Context, tenantID string, fl RequestFilter, p pagination.Params) ([]LeaveRequest, response.PaginationMeta, error) {
	return f.listRequestsFn(ctx, tenantID, fl, p)
}

func (f *fakeRepo) HasOpenOverlap(ctx context.Context, tenantID, employeeID string, start, resumption time.Time) (bool, error) {
	return f.hasOpenOverlapFn(ctx, tenantID, employeeID, start, resumption)
}

func (f *fakeRepo) FindEmployeeRef(ctx context.Context, tenantID, employeeID string) (*EmployeeRef, error) {
	return f.findEmployeeRefFn(ctx, tenantID, employeeID)
}

func (f *fakeRepo) FindTenantBrand(ctx context.Context, tenantID string) (*TenantBrand, error) {
	return f.findTenantBrandFn(ctx, tenantID)
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
	err     error
}

func (f *fakeOutbox) WithTx(_ *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(_ context.Context, event kafka.OutboxEvent) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutbox) ListPending(_ context.Context, _ int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(_ context.Context, _ string) error           { return nil }
func (f *fakeOutbox) MarkFailed(_ context.Context, _ string, _ string) error { return nil }

var (
	testTenantID   = uuid.New()
	testEmployeeID = uuid.New()
	testManagerID  = uuid.New()
	testTypeID     = uuid.New()
)

func testEmployeeRef() *EmployeeRef {
	managerID := testManagerID
	return &EmployeeRef{
		ID:            testEmployeeID,
		Name:          "Ada Obi",
		Email:         "ada@acme.test",
		LineManagerID: &managerID,
	}
}

func testManagerRef() *EmployeeRef {
	return &EmployeeRef{
		ID:    testManagerID,
		Name:  "Bola Eze",
		Email: "bola@acme.test",
	}
}

// repoForRequest wires the happy path for Request; tests override the
// pieces they exercise.
func repoForRequest(balance int) *fakeRepo {
	return &fakeRepo{
		findEmployeeRefFn: func(_ context.Context, _, employeeID string) (*EmployeeRef, error) {
			if employeeID == testManagerID.String() {
				return testManagerRef(), nil
			}
			return testEmployeeRef(), nil
		},
		findTypeByIDFn: func(_ context.Context, _, _ string) (*LeaveType, error) {
			return &LeaveType{ID: testTypeID, TenantID: testTenantID, Name: "annual", DefaultBalance: 14}, nil
		},
		hasOpenOverlapFn: func(_ context.Context, _, _ string, _, _ time.Time) (bool, error) {
			return false, nil
		},
		findBalanceFn: func(_ context.Context, _, _, _ string) (*LeaveBalance, error) {
			return &LeaveBalance{
				ID:          uuid.New(),
				TenantID:    testTenantID,
				EmployeeID:  testEmployeeID,
				LeaveTypeID: testTypeID,
				Balance:     balance,
			}, nil
		},
		debitBalanceFn: func(_ context.Context, _, _, _ string, _ int) (bool, error) {
			return true, nil
		},
		createRequestFn: func(_ context.Context, _ *LeaveRequest) error { return nil },
		findTenantBrandFn: func(_ context.Context, _ string) (*TenantBrand, error) {
			return &TenantBrand{Name: "Acme", BrandName: "Acme HR"}, nil
		},
	}
}

func newServiceForTest(t *testing.T, repo Repository, outbox kafka.OutboxRepository) (Service, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	svc := NewService(db, repo, outbox, zap.NewNop())
	return svc, mock, func() { db.Close() }
}

func validCreateRequest() CreateLeaveRequest {
	return CreateLeaveRequest{
		LeaveTypeID:    testTypeID.String(),
		StartDate:      "2026-09-07",
		ResumptionDate: "2026-09-12",
		Duration:       5,
		Description:    "family time",
	}
}

func TestRequestLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed tenant id is rejected, not a panic", func(t *testing.T) {
		svc, _, closeDB := newServiceForTest(t, repoForRequest(14), &fakeOutbox{})
		defer closeDB()

		_, err := svc.Request(ctx, "not-a-uuid", testEmployeeID.String(), validCreateRequest())

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	})

	t.Run("debits balance and snapshots the line manager", func(t *testing.T) {
		repo := repoForRequest(14)

		var debited int
		repo.debitBalanceFn = func(_ context.Context, _, employeeID, leaveTypeID string, amount int) (bool, error) {
			assert.Equal(t, testEmployeeID.String(), employeeID)
			assert.Equal(t, testTypeID.String(), leaveTypeID)
			debited = amount
			return true, nil
		}

		var created *LeaveRequest
		repo.createRequestFn = func(_ context.Context, lr *LeaveRequest) error {
			created = lr
			return nil
		}

		outbox := &fakeOutbox{}
		svc, mock, closeDB := newServiceForTest(t, repo, outbox)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Request(ctx, testTenantID.String(), testEmployeeID.String(), validCreateRequest())

		assert.NoError(t, err)
		assert.Equal(t, 5, debited)
		assert.NotNil(t, created)
		assert.Equal(t, testManagerID, created.LineManagerID)
		assert.Equal(t, StatusPending, created.Status)
		assert.Equal(t, StatusPending, resp.Status)
		assert.Equal(t, testManagerID.String(), resp.LineManagerID)
		assert.NoError(t, mock.ExpectationsWereMet())

		if assert.Len(t, outbox.created, 1) {
			assert.Equal(t, "leave_requested", outbox.created[0].EventType)
		}
	})

	t.Run("insufficient balance rolls the request back", func(t *testing.T) {
		repo := repoForRequest(3)
		repo.debitBalanceFn = func(_ context.Context, _, _, _ string, _ int) (bool, error) {
			return false, nil
		}

		var created bool
		repo.createRequestFn = func(_ context.Context, _ *LeaveRequest) error {
			created = true
			return nil
		}

		outbox := &fakeOutbox{}
		svc, mock, closeDB := newServiceForTest(t, repo, outbox)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Request(ctx, testTenantID.String(), testEmployeeID.String(), validCreateRequest())

		assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
		assert.False(t, created)
		assert.Empty(t, outbox.created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lazily seeds a missing balance from the type default", func(t *testing.T) {
		repo := repoForRequest(0)
		repo.findBalanceFn = func(_ context.Context, _, _, _ string) (*LeaveBalance, error) {
			return nil, gorm.ErrRecordNotFound
		}

		var seeded int
		repo.ensureBalanceFn = func(_ context.Context, _, _, _ string, seed int) error {
			seeded = seed
			return nil
		}

		svc, mock, closeDB := newServiceForTest(t, repo, &fakeOutbox{})
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectCommit()

		_, err := svc.Request(ctx, testTenantID.String(), testEmployeeID.String(), validCreateRequest())

		assert.NoError(t, err)
		assert.Equal(t, 14, seeded)
	})

	t.Run("rejects an employee without a line manager", func(t *testing.T) {
		repo := repoForRequest(14)
		repo.findEmployeeRefFn = func(_ context.Context, _, _ string) (*EmployeeRef, error) {
			return &EmployeeRef{ID: testEmployeeID, Name: "Ada Obi", Email: "ada@acme.test"}, nil
		}

		svc, _, closeDB := newServiceForTest(t, repo, &fakeOutbox{})
		defer closeDB()

		_, err := svc.Request(ctx, testTenantID.String(), testEmployeeID.String(), validCreateRequest())
		assert.ErrorIs(t, err, leaveerrors.ErrNoLineManager)
	})

	t.Run("unknown employee", func(t *testing.T) {
		repo := repoForRequest(14)
		repo.findEmployeeRefFn = func(_ context.Context, _, _ string) (*EmployeeRef, error) {
			return nil, gorm.ErrRecordNotFound
		}

		svc, _, closeDB := newServiceForTest(t, repo, &fakeOutbox{})
		defer closeDB()

		_, err := svc.Request(ctx, testTenantID.String(), testEmployeeID.String(), validCreateRequest())
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("unknown leave type", func(t *testing.T) {
		repo := repoForRequest(14)
		repo.findTypeByIDFn = func(_ context.Context, _, _ string) (*LeaveType, error) {
			return nil, gorm.ErrRecordNotFound
		}

		svc, _, closeDB := newServiceForTest(t, repo, &fakeOutbox{})
		defer closeDB()

		_, err := svc.Request(ctx, testTenantID.String(), testEmployeeID.String(), validCreateRequest())
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveTypeNotFound)
	})

	t.Run("duration must match the date range", func(t *testing.T) {
		repo := repoForRequest(14)
		svc, _, closeDB := newServiceForTest(t, repo, &fakeOutbox{})
		defer closeDB()

		req := validCreateRequest()
		req.Duration = 3 // range is 5 days

		_, err := svc.Request(ctx, testTenantID.String(), testEmployeeID.String(), req)
		assert.ErrorIs(t, err, leaveerrors.ErrDurationMismatch)
	})

	t.Run("resumption before start", func(t *testing.T) {
		repo := repoForRequest(14)
		svc, _, closeDB := newServiceForTest(t, repo, &fakeOutbox{})
		defer closeDB()

		req := validCreateRequest()
		req.StartDate = "2026-09-12"
		req.ResumptionDate = "2026-09-07"

		_, err := svc.Request(ctx, testTenantID.String(), testEmployeeID.String(), req)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("overlapping open request", func(t *testing.T) {
		repo := repoForRequest(14)
		repo.hasOpenOverlapFn = func(_ context.Context, _, _ string, _, _ time.Time) (bool, error) {
			return true, nil
		}

		svc, _, closeDB := newServiceForTest(t, repo, &fakeOutbox{})
		defer closeDB()

		_, err := svc.Request(ctx, testTenantID.String(), testEmployeeID.String(), validCreateRequest())
		assert.ErrorIs(t, err, leaveerrors.ErrOverlappingRequest)
	})

	t.Run("notification failure does not fail the request", func(t *testing.T) {
		repo := repoForRequest(14)
		outbox := &fakeOutbox{err: assert.AnError}

		svc, mock, closeDB := newServiceForTest(t, repo, outbox)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectCommit()

		_, err := svc.Request(ctx, testTenantID.String(), testEmployeeID.String(), validCreateRequest())
		assert.NoError(t, err)
	})
}

func pendingRequest() *LeaveRequest {
	return &LeaveRequest{
		ID:             uuid.New(),
		TenantID:       testTenantID,
		EmployeeID:     testEmployeeID,
		LineManagerID:  testManagerID,
		LeaveTypeID:    testTypeID,
		StartDate:      time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		ResumptionDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Duration:       5,
		Status:         StatusPending,
	}
}

func repoForTransition(lr *LeaveRequest) *fakeRepo {
	return &fakeRepo{
		findRequestByIDFn: func(_ context.Context, _, _ string) (*LeaveRequest, error) {
			return lr, nil
		},
		transitionRequestFn: func(_ context.Context, _ *LeaveRequest) (bool, error) {
			return true, nil
		},
		creditBalanceFn: func(_ context.Context, _, _, _ string, _ int) error { return nil },
		findTypeByIDFn: func(_ context.Context, _, _ string) (*LeaveType, error) {
			return &LeaveType{ID: testTypeID, Name: "annual", DefaultBalance: 14}, nil
		},
		findEmployeeRefFn: func(_ context.Context, _, employeeID string) (*EmployeeRef, error) {
			if employeeID == testManagerID.String() {
				return testManagerRef(), nil
			}
			return testEmployeeRef(), nil
		},
		findTenantBrandFn: func(_ context.Context, _ string) (*TenantBrand, error) {
			return &TenantBrand{Name: "Acme"}, nil
		},
	}
}

func TestTransitionLeaveRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("line manager approves", func(t *testing.T) {
		lr := pendingRequest()
		repo := repoForTransition(lr)

		var credited bool
		repo.creditBalanceFn = func(_ context.Context, _, _, _ string, _ int) error {
			credited = true
			return nil
		}

		outbox := &fakeOutbox{}
		svc, mock, closeDB := newServiceForTest(t, repo, outbox)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Transition(ctx, testTenantID.String(), lr.ID.String(), testManagerID.String(), false,
			TransitionLeaveRequest{Status: StatusApproved})

		assert.NoError(t, err)
		assert.Equal(t, StatusApproved, resp.Status)
		if assert.NotNil(t, resp.ApprovedBy) {
			assert.Equal(t, testManagerID.String(), *resp.ApprovedBy)
		}
		assert.False(t, credited, "approval must not touch the ledger")
		assert.NoError(t, mock.ExpectationsWereMet())

		if assert.Len(t, outbox.created, 1) {
			assert.Equal(t, "leave_approved", outbox.created[0].EventType)
		}
	})

	t.Run("rejection credits the debited days back", func(t *testing.T) {
		lr := pendingRequest()
		repo := repoForTransition(lr)

		var credited int
		repo.creditBalanceFn = func(_ context.Context, _, employeeID, leaveTypeID string, amount int) error {
			assert.Equal(t, testEmployeeID.String(), employeeID)
			assert.Equal(t, testTypeID.String(), leaveTypeID)
			credited = amount
			return nil
		}

		outbox := &fakeOutbox{}
		svc, mock, closeDB := newServiceForTest(t, repo, outbox)
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Transition(ctx, testTenantID.String(), lr.ID.String(), testManagerID.String(), false,
			TransitionLeaveRequest{Status: StatusRejected, Reason: "short staffed"})

		assert.NoError(t, err)
		assert.Equal(t, StatusRejected, resp.Status)
		assert.Equal(t, 5, credited)
		assert.Equal(t, "short staffed", resp.Reason)

		if assert.Len(t, outbox.created, 1) {
			assert.Equal(t, "leave_rejected", outbox.created[0].EventType)
		}
	})

	t.Run("rejection requires a reason", func(t *testing.T) {
		lr := pendingRequest()
		svc, _, closeDB := newServiceForTest(t, repoForTransition(lr), &fakeOutbox{})
		defer closeDB()

		_, err := svc.Transition(ctx, testTenantID.String(), lr.ID.String(), testManagerID.String(), false,
			TransitionLeaveRequest{Status: StatusRejected})
		assert.ErrorIs(t, err, leaveerrors.ErrReasonRequired)
	})

	t.Run("a non-manager cannot decide", func(t *testing.T) {
		lr := pendingRequest()
		svc, _, closeDB := newServiceForTest(t, repoForTransition(lr), &fakeOutbox{})
		defer closeDB()

		stranger := uuid.New().String()
		_, err := svc.Transition(ctx, testTenantID.String(), lr.ID.String(), stranger, false,
			TransitionLeaveRequest{Status: StatusApproved})
		assert.ErrorIs(t, err, leaveerrors.ErrNotRequestManager)
	})

	t.Run("an admin who is not the manager can decide", func(t *testing.T) {
		lr := pendingRequest()
		svc, mock, closeDB := newServiceForTest(t, repoForTransition(lr), &fakeOutbox{})
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectCommit()

		admin := uuid.New().String()
		_, err := svc.Transition(ctx, testTenantID.String(), lr.ID.String(), admin, true,
			TransitionLeaveRequest{Status: StatusApproved})
		assert.NoError(t, err)
	})

	t.Run("decided requests are terminal", func(t *testing.T) {
		lr := pendingRequest()
		lr.Status = StatusRejected

		svc, _, closeDB := newServiceForTest(t, repoForTransition(lr), &fakeOutbox{})
		defer closeDB()

		_, err := svc.Transition(ctx, testTenantID.String(), lr.ID.String(), testManagerID.String(), false,
			TransitionLeaveRequest{Status: StatusApproved})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	})

	t.Run("losing the decision race", func(t *testing.T) {
		lr := pendingRequest()
		repo := repoForTransition(lr)
		repo.transitionRequestFn = func(_ context.Context, _ *LeaveRequest) (bool, error) {
			return false, nil
		}

		svc, mock, closeDB := newServiceForTest(t, repo, &fakeOutbox{})
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Transition(ctx, testTenantID.String(), lr.ID.String(), testManagerID.String(), false,
			TransitionLeaveRequest{Status: StatusApproved})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown request", func(t *testing.T) {
		repo := repoForTransition(nil)
		repo.findRequestByIDFn = func(_ context.Context, _, _ string) (*LeaveRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		svc, _, closeDB := newServiceForTest(t, repo, &fakeOutbox{})
		defer closeDB()

		_, err := svc.Transition(ctx, testTenantID.String(), uuid.New().String(), testManagerID.String(), false,
			TransitionLeaveRequest{Status: StatusApproved})
		assert.ErrorIs(t, err, leaveerrors.ErrRequestNotFound)
	})
}

func TestDeleteLeaveRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting a pending request credits the days back", func(t *testing.T) {
		lr := pendingRequest()
		repo := repoForTransition(lr)

		var credited int
		repo.creditBalanceFn = func(_ context.Context, _, _, _ string, amount int) error {
			credited = amount
			return nil
		}
		repo.deleteRequestFn = func(_ context.Context, _, _ string) error { return nil }

		svc, mock, closeDB := newServiceForTest(t, repo, &fakeOutbox{})
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := svc.Delete(ctx, testTenantID.String(), lr.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, 5, credited)
	})

	t.Run("deleting a decided request leaves the ledger alone", func(t *testing.T) {
		lr := pendingRequest()
		lr.Status = StatusApproved
		repo := repoForTransition(lr)

		var credited bool
		repo.creditBalanceFn = func(_ context.Context, _, _, _ string, _ int) error {
			credited = true
			return nil
		}
		repo.deleteRequestFn = func(_ context.Context, _, _ string) error { return nil }

		svc, mock, closeDB := newServiceForTest(t, repo, &fakeOutbox{})
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := svc.Delete(ctx, testTenantID.String(), lr.ID.String())
		assert.NoError(t, err)
		assert.False(t, credited)
	})
}

func TestLeaveTypes(t *testing.T) {
	ctx := context.Background()

	t.Run("add seeds balances for existing employees", func(t *testing.T) {
		var created *LeaveType
		var seededFor *LeaveType

		repo := &fakeRepo{
			findTypeByNameAndLevelFn: func(_ context.Context, _, _ string, _ *uuid.UUID) (*LeaveType, error) {
				return nil, gorm.ErrRecordNotFound
			},
			createTypeFn: func(_ context.Context, lt *LeaveType) error {
				created = lt
				return nil
			},
			seedBalancesFn: func(_ context.Context, _ string, lt *LeaveType) (int64, error) {
				seededFor = lt
				return 7, nil
			},
		}

		svc, _, closeDB := newServiceForTest(t, repo, &fakeOutbox{})
		defer closeDB()

		resp, err := svc.AddType(ctx, testTenantID.String(), CreateLeaveTypeRequest{
			Name:           "  Annual ",
			DefaultBalance: 14,
		})

		assert.NoError(t, err)
		assert.Equal(t, "annual", resp.Name, "names are stored lower-cased")
		assert.Equal(t, created, seededFor)
		assert.Equal(t, 14, resp.DefaultBalance)
	})

	t.Run("duplicate name on the same level", func(t *testing.T) {
		repo := &fakeRepo{
			findTypeByNameAndLevelFn: func(_ context.Context, _, _ string, _ *uuid.UUID) (*LeaveType, error) {
				return &LeaveType{}, nil
			},
		}

		svc, _, closeDB := newServiceForTest(t, repo, &fakeOutbox{})
		defer closeDB()

		_, err := svc.AddType(ctx, testTenantID.String(), CreateLeaveTypeRequest{Name: "annual", DefaultBalance: 14})
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveTypeExists)
	})

	t.Run("default change overwrites every balance", func(t *testing.T) {
		repo := &fakeRepo{
			findTypeByIDFn: func(_ context.Context, _, _ string) (*LeaveType, error) {
				return &LeaveType{ID: testTypeID, TenantID: testTenantID, Name: "annual", DefaultBalance: 10}, nil
			},
			updateTypeFn: func(_ context.Context, _ *LeaveType) error { return nil },
		}

		var reseededTo int
		repo.reseedBalancesFn = func(_ context.Context, _, _ string, newBalance int) (int64, error) {
			reseededTo = newBalance
			return 12, nil
		}

		svc, _, closeDB := newServiceForTest(t, repo, &fakeOutbox{})
		defer closeDB()

		newDefault := 12
		resp, err := svc.UpdateType(ctx, testTenantID.String(), testTypeID.String(),
			UpdateLeaveTypeRequest{DefaultBalance: &newDefault})

		assert.NoError(t, err)
		// An employee who had spent 2 of 10 now holds 12, not 10+2.
		assert.Equal(t, 12, reseededTo)
		assert.Equal(t, 12, resp.DefaultBalance)
	})

	t.Run("name-only change does not touch balances", func(t *testing.T) {
		repo := &fakeRepo{
			findTypeByIDFn: func(_ context.Context, _, _ string) (*LeaveType, error) {
				return &LeaveType{ID: testTypeID, TenantID: testTenantID, Name: "annual", DefaultBalance: 10}, nil
			},
			findTypeByNameAndLevelFn: func(_ context.Context, _, _ string, _ *uuid.UUID) (*LeaveType, error) {
				return nil, gorm.ErrRecordNotFound
			},
			updateTypeFn: func(_ context.Context, _ *LeaveType) error { return nil },
			reseedBalancesFn: func(_ context.Context, _, _ string, _ int) (int64, error) {
				t.Fatal("reseed must not run for a name change")
				return 0, nil
			},
		}

		svc, _, closeDB := newServiceForTest(t, repo, &fakeOutbox{})
		defer closeDB()

		name := "annual renamed"
		_, err := svc.UpdateType(ctx, testTenantID.String(), testTypeID.String(),
			UpdateLeaveTypeRequest{Name: &name})
		assert.NoError(t, err)
	})

	t.Run("delete cascades to balances", func(t *testing.T) {
		repo := &fakeRepo{
			findTypeByIDFn: func(_ context.Context, _, _ string) (*LeaveType, error) {
				return &LeaveType{ID: testTypeID, TenantID: testTenantID, Name: "annual"}, nil
			},
			deleteTypeFn: func(_ context.Context, _, _ string) error { return nil },
		}

		var removed bool
		repo.deleteBalancesFn = func(_ context.Context, _, leaveTypeID string) (int64, error) {
			assert.Equal(t, testTypeID.String(), leaveTypeID)
			removed = true
			return 4, nil
		}

		svc, mock, closeDB := newServiceForTest(t, repo, &fakeOutbox{})
		defer closeDB()

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := svc.DeleteType(ctx, testTenantID.String(), testTypeID.String())
		assert.NoError(t, err)
		assert.True(t, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
