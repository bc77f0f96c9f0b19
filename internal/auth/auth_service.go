package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	autherrors "hrcore/internal/auth/errors"
	"hrcore/internal/employee"
	"hrcore/internal/middleware"
	"hrcore/internal/rbac"
	"hrcore/internal/shared/counter"
	"hrcore/internal/tenant"
	tenanterrors "hrcore/internal/tenant/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

type Service interface {
	Login(ctx context.Context, req LoginRequest) (AuthResponse, error)
	RegisterTenant(ctx context.Context, req RegisterTenantRequest) (AuthResponse, error)
	Refresh(ctx context.Context, userID string) (AuthResponse, error)
	GetMe(ctx context.Context, userID string) (UserResponse, error)
	RegisterEmployeeUser(ctx context.Context, tenantID, employeeID, email, password string) (UserResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	tenantRepo   tenant.Repository
	counterRepo  counter.Repository
	rbacService  rbac.Service
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	tenantRepo tenant.Repository,
	counterRepo counter.Repository,
	rbacService rbac.Service,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		tenantRepo:   tenantRepo,
		counterRepo:  counterRepo,
		rbacService:  rbacService,
		logger:       l,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrInvalidCredentials
		}
		return AuthResponse{}, err
	}
	if !u.IsActive {
		return AuthResponse{}, autherrors.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	// Warm the enforcer so the first authorized call after login does not
	// pay the policy load.
	if err := s.rbacService.LoadTenantPolicy(u.TenantID.String()); err != nil {
		s.logger.Warn("tenant policy preload failed",
			zap.String("tenant_id", u.TenantID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("user logged in",
		zap.String("user_id", u.ID.String()),
		zap.String("tenant_id", u.TenantID.String()),
	)
	return s.issueToken(u)
}

func (s *service) RegisterTenant(ctx context.Context, req RegisterTenantRequest) (AuthResponse, error) {
	if _, err := s.tenantRepo.GetByName(ctx, req.TenantName); err == nil {
		return AuthResponse{}, tenanterrors.ErrTenantNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AuthResponse{}, err
	}

	adminEmail := strings.ToLower(strings.TrimSpace(req.AdminEmail))
	if _, err := s.repo.FindByEmail(ctx, adminEmail); err == nil {
		return AuthResponse{}, autherrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AuthResponse{}, err
	}

	t := &tenant.Tenant{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.TenantName),
		Email:     strings.ToLower(strings.TrimSpace(req.TenantEmail)),
		BrandName: strings.TrimSpace(req.BrandName),
		IsActive:  true,
	}

	// The counter is an atomic upsert outside the transaction; a failed
	// onboarding burns a staff number, which is fine.
	next, err := s.counterRepo.GetNextValue(ctx, t.ID.String(), "staff_number")
	if err != nil {
		return AuthResponse{}, err
	}

	e := &employee.Employee{
		ID:          uuid.New(),
		TenantID:    t.ID,
		Name:        strings.TrimSpace(req.AdminName),
		Email:       adminEmail,
		StaffNumber: fmt.Sprintf("EMP-%06d", next),
		IsActive:    true,
	}

	// Tenant, admin employee and login land together or not at all; a
	// half-onboarded tenant would hold its name against every retry.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AuthResponse{}, err
	}
	defer tx.Rollback()

	if err := s.tenantRepo.WithTx(tx).Create(ctx, t); err != nil {
		s.logger.Error("tenant onboarding: tenant persist failed", zap.Error(err))
		return AuthResponse{}, err
	}
	if err := s.employeeRepo.WithTx(tx).Create(ctx, e); err != nil {
		s.logger.Error("tenant onboarding: admin employee persist failed", zap.Error(err))
		return AuthResponse{}, err
	}

	user, err := s.createUser(ctx, s.repo.WithTx(tx), t.ID, e.ID, adminEmail, req.AdminPassword, middleware.RoleTenantAdmin)
	if err != nil {
		return AuthResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AuthResponse{}, err
	}

	s.logger.Info("tenant onboarded",
		zap.String("tenant_id", t.ID.String()),
		zap.String("admin_user_id", user.ID.String()),
	)
	return s.issueToken(user)
}

// RegisterEmployeeUser creates a login for an existing employee. Used by
// the admin flow that activates invited employees.
func (s *service) RegisterEmployeeUser(ctx context.Context, tenantID, employeeID, email, password string) (UserResponse, error) {
	e, err := s.employeeRepo.FindByIDAndTenant(ctx, tenantID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, autherrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return UserResponse{}, autherrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return UserResponse{}, err
	}

	u, err := s.createUser(ctx, s.repo, e.TenantID, e.ID, strings.ToLower(email), password, middleware.RoleEmployee)
	if err != nil {
		return UserResponse{}, err
	}
	return mapUserToResponse(u), nil
}

func (s *service) Refresh(ctx context.Context, userID string) (AuthResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrUserNotFound
		}
		return AuthResponse{}, err
	}
	if !u.IsActive {
		return AuthResponse{}, autherrors.ErrUserInactive
	}
	return s.issueToken(u)
}

func (s *service) GetMe(ctx context.Context, userID string) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, autherrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapUserToResponse(u), nil
}

func (s *service) createUser(ctx context.Context, repo Repository, tenantID, employeeID uuid.UUID, email, password, role string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		EmployeeID:   employeeID,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := repo.Create(ctx, u); err != nil {
		s.logger.Error("create user persist failed", zap.Error(err))
		return nil, err
	}
	return u, nil
}

func (s *service) issueToken(u *User) (AuthResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":     u.ID.String(),
		"tenant_id":   u.TenantID.String(),
		"employee_id": u.EmployeeID.String(),
		"role":        u.Role,
		"iat":         now.Unix(),
		"exp":         now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(tokenTTL.Seconds()),
		User:        mapUserToResponse(u),
	}, nil
}

func mapUserToResponse(u *User) UserResponse {
	return UserResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		Role:       u.Role,
		TenantID:   u.TenantID.String(),
		EmployeeID: u.EmployeeID.String(),
	}
}
