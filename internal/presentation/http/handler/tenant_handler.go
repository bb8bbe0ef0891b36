package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rkstores/billing-api/internal/application/service"
	"github.com/rkstores/billing-api/internal/domain/entity"
	"github.com/rkstores/billing-api/internal/presentation/http/dto/request"
	"github.com/rkstores/billing-api/internal/presentation/http/dto/response"
	"github.com/rkstores/billing-api/internal/presentation/http/middleware"
)

// TenantHandler handles tenant configuration requests
type TenantHandler struct {
	tenantService *service.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// GetConfig returns the current tenant and its billing settings
func (h *TenantHandler) GetConfig(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == uuid.Nil {
		response.BadRequest(c, "No active tenant")
		return
	}

	tenant, err := h.tenantService.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tenant retrieved successfully", gin.H{
		"tenant": tenant,
	})
}

// UpdateConfig updates the current tenant's billing settings
func (h *TenantHandler) UpdateConfig(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	if tenantID == uuid.Nil {
		response.BadRequest(c, "No active tenant")
		return
	}

	var req request.UpdateTenantConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	tenant, err := h.tenantService.UpdateSettings(c.Request.Context(), tenantID, entity.TenantConfig{
		StoreName:      req.StoreName,
		Currency:       req.Currency,
		Gstin:          req.Gstin,
		ApproverPhone:  req.ApproverPhone,
		NotifyCustomer: req.NotifyCustomer,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tenant updated successfully", gin.H{
		"tenant": tenant,
	})
}
