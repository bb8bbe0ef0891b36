package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rkstores/billing-api/internal/application/service"
	"github.com/rkstores/billing-api/internal/presentation/http/dto/request"
	"github.com/rkstores/billing-api/internal/presentation/http/dto/response"
	"github.com/rkstores/billing-api/internal/presentation/http/middleware"
)

// DiscountHandler handles discount approval requests
type DiscountHandler struct {
	discountService *service.DiscountService
}

// NewDiscountHandler creates a new discount handler
func NewDiscountHandler(discountService *service.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// SendOtp dispatches an approval code to the tenant's approver
func (h *DiscountHandler) SendOtp(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	if tenant == nil {
		response.BadRequest(c, "No active tenant")
		return
	}

	var req request.SendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.discountService.SendOtp(c.Request.Context(), tenant, req.AttemptID); err != nil {
		respondServiceError(c, err)
		return
	}

	response.OK(c, "Approval code sent", gin.H{
		"attempt_id": req.AttemptID,
	})
}

// VerifyOtp checks a submitted approver code
func (h *DiscountHandler) VerifyOtp(c *gin.Context) {
	var req request.VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	auth, err := h.discountService.VerifyOtp(c.Request.Context(), req.AttemptID, req.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.OK(c, "Discount approved", gin.H{
		"attempt_id": auth.AttemptID(),
		"verified":   true,
	})
}
