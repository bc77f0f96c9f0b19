package leave

import (
	"encoding/json"
	"net/http"
	"time"

	"hrcore/internal/middleware"
	"hrcore/internal/shared/apperror"
	"hrcore/internal/shared/pagination"
	"hrcore/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyCacheTTL = 24 * time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	mapped := apperror.ToHTTP(apperror.MapValidationError(err))
	response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
}

func isAdmin(c *gin.Context) bool {
	role := c.GetString("role")
	return role == middleware.RoleTenantAdmin || role == middleware.RoleSuperAdmin
}

func (h *Handler) AddType(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	var req CreateLeaveTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.AddType(c.Request.Context(), tenantID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetTypes(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	p := pagination.FromQuery(c, "created_at DESC")

	resp, meta, err := h.service.GetTypes(c.Request.Context(), tenantID, c.Query("search"), p)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) UpdateType(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	var req UpdateLeaveTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.UpdateType(c.Request.Context(), tenantID, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DeleteType(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	if err := h.service.DeleteType(c.Request.Context(), tenantID, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) Request(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	employeeID := c.GetString("employee_id")

	// The idempotency middleware took a lock for this key; release it on
	// the way out so a failed attempt can be retried immediately.
	if h.rdb != nil {
		if lk := c.GetString("idempotency_lock_key"); lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Request(c.Request.Context(), tenantID, employeeID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck := c.GetString("idempotency_cache_key"); ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, idempotencyCacheTTL).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Transition(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	actorEmployeeID := c.GetString("employee_id")

	var req TransitionLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Transition(
		c.Request.Context(), tenantID, c.Param("id"), actorEmployeeID, isAdmin(c), req,
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	if err := h.service.Delete(c.Request.Context(), tenantID, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	var q ListLeaveRequestsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeBindError(c, err)
		return
	}

	// Plain employees see their own requests, or their reports' when the
	// line-manager filter names themselves. Any other filter is dropped
	// and the list is pinned to the caller.
	callerID := c.GetString("employee_id")
	if !isAdmin(c) && q.LineManagerID != callerID {
		q.LineManagerID = ""
		q.EmployeeID = callerID
	}

	p := pagination.FromQuery(c, "created_at DESC")
	resp, meta, err := h.service.GetAll(c.Request.Context(), tenantID, q, p)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	resp, err := h.service.GetByID(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetBalances(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	employeeID := c.Param("employeeId")
	if employeeID == "" {
		employeeID = c.GetString("employee_id")
	}

	resp, err := h.service.GetBalances(c.Request.Context(), tenantID, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
