package leave

import (
	"context"
	"database/sql"
	"time"

	"hrcore/internal/shared/pagination"
	"hrcore/internal/shared/response"
	"hrcore/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeRef is the slice of an employee row the leave flows need:
// identity for notifications, level for balance seeding, and the line
// manager that gets snapshotted onto a request.
type EmployeeRef struct {
	ID            uuid.UUID
	Name          string
	Email         string
	LevelID       *uuid.UUID
	LineManagerID *uuid.UUID
}

// TenantBrand carries the tenant display fields used in outgoing
// notifications.
type TenantBrand struct {
	Name      string
	BrandName string
}

type RequestFilter struct {
	EmployeeID    string
	LineManagerID string
	Status        string
	Search        string
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository

	// leave types
	CreateType(ctx context.Context, lt *LeaveType) error
	FindTypeByIDAndTenant(ctx context.Context, tenantID, id string) (*LeaveType, error)
	FindTypeByNameAndLevel(ctx context.Context, tenantID, name string, levelID *uuid.UUID) (*LeaveType, error)
	UpdateType(ctx context.Context, lt *LeaveType) error
	DeleteType(ctx context.Context, tenantID, id string) error
	ListTypes(ctx context.Context, tenantID, search string, p pagination.Params) ([]LeaveType, response.PaginationMeta, error)

	// ledger
	FindBalance(ctx context.Context, tenantID, employeeID, leaveTypeID string) (*LeaveBalance, error)
	EnsureBalance(ctx context.Context, tenantID, employeeID, leaveTypeID string, seed int) error
	DebitBalance(ctx context.Context, tenantID, employeeID, leaveTypeID string, amount int) (bool, error)
	CreditBalance(ctx context.Context, tenantID, employeeID, leaveTypeID string, amount int) error
	SeedBalancesForType(ctx context.Context, tenantID string, lt *LeaveType) (int64, error)
	ReseedBalancesForType(ctx context.Context, tenantID, leaveTypeID string, newBalance int) (int64, error)
	DeleteBalancesForType(ctx context.Context, tenantID, leaveTypeID string) (int64, error)
	ListBalancesByEmployee(ctx context.Context, tenantID, employeeID string) ([]LeaveBalance, error)

	// leave requests
	CreateRequest(ctx context.Context, lr *LeaveRequest) error
	FindRequestByIDAndTenant(ctx context.Context, tenantID, id string) (*LeaveRequest, error)
	TransitionRequest(ctx context.Context, lr *LeaveRequest) (bool, error)
	DeleteRequest(ctx context.Context, tenantID, id string) error
	ListRequests(ctx context.Context, tenantID string, f RequestFilter, p pagination.Params) ([]LeaveRequest, response.PaginationMeta, error)
	HasOpenOverlap(ctx context.Context, tenantID, employeeID string, start, resumption time.Time) (bool, error)

	// cross-feature reads
	FindEmployeeRef(ctx context.Context, tenantID, employeeID string) (*EmployeeRef, error)
	FindTenantBrand(ctx context.Context, tenantID string) (*TenantBrand, error)
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

// exec runs a write statement on the active transaction when one is set,
// otherwise directly on the connection pool. Statements use positional
// ($n) placeholders so both paths take them verbatim.
func (r *repository) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}
	res := r.db.WithContext(ctx).Exec(query, args...)
	return res.RowsAffected, res.Error
}

func (r *repository) CreateType(ctx context.Context, lt *LeaveType) error {
	return r.db.WithContext(ctx).Create(lt).Error
}

func (r *repository) FindTypeByIDAndTenant(ctx context.Context, tenantID, id string) (*LeaveType, error) {
	var lt LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&lt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *repository) FindTypeByNameAndLevel(ctx context.Context, tenantID, name string, levelID *uuid.UUID) (*LeaveType, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("lower(name) = lower(?)", name)
	if levelID != nil {
		q = q.Where("level_id = ?", *levelID)
	} else {
		q = q.Where("level_id IS NULL")
	}

	var lt LeaveType
	if err := q.First(&lt).Error; err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *repository) UpdateType(ctx context.Context, lt *LeaveType) error {
	return r.db.WithContext(ctx).Save(lt).Error
}

func (r *repository) DeleteType(ctx context.Context, tenantID, id string) error {
	_, err := r.exec(ctx, `
		DELETE FROM leave_types
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id)
	return err
}

func (r *repository) ListTypes(ctx context.Context, tenantID, search string, p pagination.Params) ([]LeaveType, response.PaginationMeta, error) {
	q := r.db.WithContext(ctx).
		Model(&LeaveType{}).
		Scopes(tenant.Scope(tenantID))
	if search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}

	var types []LeaveType
	meta, err := pagination.Paginate(q, p, &types)
	return types, meta, err
}

func (r *repository) FindBalance(ctx context.Context, tenantID, employeeID, leaveTypeID string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ? AND leave_type_id = ?", employeeID, leaveTypeID).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) EnsureBalance(ctx context.Context, tenantID, employeeID, leaveTypeID string, seed int) error {
	_, err := r.exec(ctx, `
		INSERT INTO leave_balances (id, tenant_id, employee_id, leave_type_id, balance, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, now(), now())
		ON CONFLICT (tenant_id, employee_id, leave_type_id) DO NOTHING
	`, tenantID, employeeID, leaveTypeID, seed)
	return err
}

// DebitBalance takes amount off the ledger row only if enough balance
// remains. The guard lives in the WHERE clause so two concurrent debits
// cannot both pass a stale read; a false return means the row was not
// touched.
func (r *repository) DebitBalance(ctx context.Context, tenantID, employeeID, leaveTypeID string, amount int) (bool, error) {
	affected, err := r.exec(ctx, `
		UPDATE leave_balances
		SET balance = balance - $4, updated_at = now()
		WHERE tenant_id = $1 AND employee_id = $2 AND leave_type_id = $3
		  AND balance >= $4
	`, tenantID, employeeID, leaveTypeID, amount)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) CreditBalance(ctx context.Context, tenantID, employeeID, leaveTypeID string, amount int) error {
	_, err := r.exec(ctx, `
		UPDATE leave_balances
		SET balance = balance + $4, updated_at = now()
		WHERE tenant_id = $1 AND employee_id = $2 AND leave_type_id = $3
	`, tenantID, employeeID, leaveTypeID, amount)
	return err
}

// SeedBalancesForType inserts a ledger row for every employee the type
// applies to. Employees that already hold a row keep it untouched.
func (r *repository) SeedBalancesForType(ctx context.Context, tenantID string, lt *LeaveType) (int64, error) {
	return r.exec(ctx, `
		INSERT INTO leave_balances (id, tenant_id, employee_id, leave_type_id, balance, created_at, updated_at)
		SELECT gen_random_uuid(), e.tenant_id, e.id, $2, $4, now(), now()
		FROM employees e
		WHERE e.tenant_id = $1
		  AND e.deleted_at IS NULL
		  AND ($3::uuid IS NULL OR e.level_id = $3)
		ON CONFLICT (tenant_id, employee_id, leave_type_id) DO NOTHING
	`, tenantID, lt.ID, lt.LevelID, lt.DefaultBalance)
}

// ReseedBalancesForType overwrites every balance of the type with the new
// default. Deliberately not a delta: a changed entitlement replaces
// whatever employees had left.
func (r *repository) ReseedBalancesForType(ctx context.Context, tenantID, leaveTypeID string, newBalance int) (int64, error) {
	return r.exec(ctx, `
		UPDATE leave_balances
		SET balance = $3, updated_at = now()
		WHERE tenant_id = $1 AND leave_type_id = $2
	`, tenantID, leaveTypeID, newBalance)
}

func (r *repository) DeleteBalancesForType(ctx context.Context, tenantID, leaveTypeID string) (int64, error) {
	return r.exec(ctx, `
		DELETE FROM leave_balances
		WHERE tenant_id = $1 AND leave_type_id = $2
	`, tenantID, leaveTypeID)
}

func (r *repository) ListBalancesByEmployee(ctx context.Context, tenantID, employeeID string) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ?", employeeID).
		Order("created_at ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) CreateRequest(ctx context.Context, lr *LeaveRequest) error {
	_, err := r.exec(ctx, `
		INSERT INTO leave_requests (
			id, tenant_id, employee_id, line_manager_id, leave_type_id,
			start_date, resumption_date, duration, description, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
	`,
		lr.ID, lr.TenantID, lr.EmployeeID, lr.LineManagerID, lr.LeaveTypeID,
		lr.StartDate, lr.ResumptionDate, lr.Duration, lr.Description, lr.Status,
	)
	return err
}

func (r *repository) FindRequestByIDAndTenant(ctx context.Context, tenantID, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&lr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

// TransitionRequest moves a request out of PENDING. The status guard in
// the WHERE clause makes the transition one-shot: a request that has
// already been decided reports false instead of being overwritten.
func (r *repository) TransitionRequest(ctx context.Context, lr *LeaveRequest) (bool, error) {
	affected, err := r.exec(ctx, `
		UPDATE leave_requests
		SET status = $3, approved_by = $4, rejected_by = $5, reason = $6, updated_at = now()
		WHERE tenant_id = $1 AND id = $2
		  AND status = $7 AND deleted_at IS NULL
	`, lr.TenantID, lr.ID, lr.Status, lr.ApprovedBy, lr.RejectedBy, lr.Reason, StatusPending)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) DeleteRequest(ctx context.Context, tenantID, id string) error {
	_, err := r.exec(ctx, `
		UPDATE leave_requests
		SET deleted_at = now()
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL
	`, tenantID, id)
	return err
}

func (r *repository) ListRequests(ctx context.Context, tenantID string, f RequestFilter, p pagination.Params) ([]LeaveRequest, response.PaginationMeta, error) {
	q := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(tenantID))
	if f.EmployeeID != "" {
		q = q.Where("employee_id = ?", f.EmployeeID)
	}
	if f.LineManagerID != "" {
		q = q.Where("line_manager_id = ?", f.LineManagerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		q = q.Where("description ILIKE ? OR status ILIKE ?", "%"+f.Search+"%", "%"+f.Search+"%")
	}

	var requests []LeaveRequest
	meta, err := pagination.Paginate(q, p, &requests)
	return requests, meta, err
}

func (r *repository) HasOpenOverlap(ctx context.Context, tenantID, employeeID string, start, resumption time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("start_date < ? AND resumption_date > ?", resumption, start).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) FindEmployeeRef(ctx context.Context, tenantID, employeeID string) (*EmployeeRef, error) {
	var ref EmployeeRef
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("id, name, email, level_id, line_manager_id").
		Where("tenant_id = ? AND id = ? AND deleted_at IS NULL", tenantID, employeeID).
		Take(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *repository) FindTenantBrand(ctx context.Context, tenantID string) (*TenantBrand, error) {
	var tb TenantBrand
	err := r.db.WithContext(ctx).
		Table("tenants").
		Select("name, brand_name").
		Where("id = ?", tenantID).
		Take(&tb).Error
	if err != nil {
		return nil, err
	}
	return &tb, nil
}
