package rbac

import (
	"errors"
	"sync"

	"hrcore/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	LoadTenantPolicy(tenantID string) error
	Enforce(req domain.EnforceRequest) (bool, error)

	ListRoles(tenantID string) ([]domain.RoleResponse, error)
	CreateRole(tenantID string, req domain.CreateRoleRequest) (*domain.RoleResponse, error)
	UpdateRole(tenantID, roleID string, req domain.UpdateRoleRequest) (*domain.RoleResponse, error)
	DeleteRole(tenantID, roleID string) error
	AssignRole(tenantID, employeeID, roleID string) error
	ListPermissions() ([]domain.PermissionResponse, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) LoadTenantPolicy(tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadTenantPolicyUnlocked(tenantID)
}

func (s *service) loadTenantPolicyUnlocked(tenantID string) error {
	s.enforcer.ClearPolicy()

	employeeRoles, err := s.repo.GetEmployeeRoles(tenantID)
	if err != nil {
		return err
	}

	for _, er := range employeeRoles {
		if _, err := s.enforcer.AddGroupingPolicy(er.EmployeeID, er.RoleID, tenantID); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(tenantID)
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, tenantID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.logger.Debug("tenant policy loaded",
		zap.String("tenant_id", tenantID),
		zap.Int("employee_roles", len(employeeRoles)),
		zap.Int("role_permissions", len(rolePerms)),
	)

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadTenantPolicyUnlocked(req.TenantID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(
		req.EmployeeID,
		req.TenantID,
		req.Resource,
		req.Action,
	)
	if err != nil {
		return false, err
	}

	s.logger.Debug("enforce result",
		zap.String("employee_id", req.EmployeeID),
		zap.String("tenant_id", req.TenantID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)

	return allowed, nil
}

func (s *service) ListRoles(tenantID string) ([]domain.RoleResponse, error) {
	rows, err := s.repo.ListRoles(tenantID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.RoleResponse, 0, len(rows))
	for _, row := range rows {
		perms, err := s.repo.GetPermissionsByRoleID(row.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, mapRoleResponse(row, perms))
	}
	return result, nil
}

func (s *service) CreateRole(tenantID string, req domain.CreateRoleRequest) (*domain.RoleResponse, error) {
	if existing, err := s.repo.GetRoleByName(tenantID, req.Name); err == nil && existing != nil {
		return nil, errors.New("role name already exists for this tenant")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := &RoleRow{
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.CreateRole(row); err != nil {
		return nil, err
	}

	if len(req.Permissions) > 0 {
		if err := s.repo.UpdateRolePermissions(row.ID, req.Permissions); err != nil {
			return nil, err
		}
	}

	perms, err := s.repo.GetPermissionsByRoleID(row.ID)
	if err != nil {
		return nil, err
	}
	resp := mapRoleResponse(*row, perms)
	return &resp, nil
}

func (s *service) UpdateRole(tenantID, roleID string, req domain.UpdateRoleRequest) (*domain.RoleResponse, error) {
	row, err := s.repo.GetRoleByID(roleID)
	if err != nil {
		return nil, err
	}
	if row.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}

	if req.Name != "" {
		row.Name = req.Name
	}
	if req.Description != "" {
		row.Description = req.Description
	}
	if err := s.repo.UpdateRole(row); err != nil {
		return nil, err
	}

	if req.Permissions != nil {
		if err := s.repo.UpdateRolePermissions(roleID, req.Permissions); err != nil {
			return nil, err
		}
	}

	perms, err := s.repo.GetPermissionsByRoleID(roleID)
	if err != nil {
		return nil, err
	}
	resp := mapRoleResponse(*row, perms)
	return &resp, nil
}

func (s *service) DeleteRole(tenantID, roleID string) error {
	row, err := s.repo.GetRoleByID(roleID)
	if err != nil {
		return err
	}
	if row.TenantID != tenantID {
		return gorm.ErrRecordNotFound
	}
	return s.repo.DeleteRole(roleID)
}

func (s *service) AssignRole(tenantID, employeeID, roleID string) error {
	row, err := s.repo.GetRoleByID(roleID)
	if err != nil {
		return err
	}
	if row.TenantID != tenantID {
		return gorm.ErrRecordNotFound
	}
	return s.repo.AssignEmployeeRole(employeeID, roleID)
}

func (s *service) ListPermissions() ([]domain.PermissionResponse, error) {
	rows, err := s.repo.ListPermissions()
	if err != nil {
		return nil, err
	}

	result := make([]domain.PermissionResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.PermissionResponse{
			ID:       row.ID,
			Resource: row.Resource,
			Action:   row.Action,
			Label:    row.Label,
			Category: row.Category,
		})
	}
	return result, nil
}

func mapRoleResponse(row RoleRow, perms []PermissionRow) domain.RoleResponse {
	permIDs := make([]string, 0, len(perms))
	for _, p := range perms {
		permIDs = append(permIDs, p.ID)
	}
	return domain.RoleResponse{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Permissions: permIDs,
	}
}
