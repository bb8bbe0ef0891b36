package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rkstores/billing-api/internal/application/service"
	"github.com/rkstores/billing-api/internal/domain/enum"
	"github.com/rkstores/billing-api/internal/domain/repository"
	"github.com/rkstores/billing-api/internal/presentation/http/dto/request"
	"github.com/rkstores/billing-api/internal/presentation/http/dto/response"
	"github.com/rkstores/billing-api/internal/presentation/http/middleware"
	"github.com/rkstores/billing-api/pkg/pagination"
)

// TransactionHandler handles document posting and lookup requests
type TransactionHandler struct {
	postingService *service.PostingService
	queryService   *service.TransactionQueryService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(postingService *service.PostingService, queryService *service.TransactionQueryService) *TransactionHandler {
	return &TransactionHandler{
		postingService: postingService,
		queryService:   queryService,
	}
}

// Post commits a new document with its lines and tenders
func (h *TransactionHandler) Post(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	if tenant == nil {
		response.BadRequest(c, "No active tenant")
		return
	}

	var req request.PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		response.BadRequest(c, "Invalid document date, expected YYYY-MM-DD")
		return
	}

	doc, err := h.postingService.Post(c.Request.Context(), tenant, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Created(c, "Document posted successfully", gin.H{
		"document": doc,
	})
}

// Get returns a posted document with its lines
func (h *TransactionHandler) Get(c *gin.Context) {
	documentNumber := c.Param("number")
	if documentNumber == "" {
		response.BadRequest(c, "Document number is required")
		return
	}

	doc, err := h.queryService.GetByNumber(c.Request.Context(), documentNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Document retrieved successfully", gin.H{
		"document": doc,
	})
}

// List returns posted documents with page-based pagination and filters
func (h *TransactionHandler) List(c *gin.Context) {
	var pageParams pagination.PaginationParams
	if err := c.ShouldBindQuery(&pageParams); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	params := &repository.TransactionFilterParams{
		Pagination: &pageParams,
		PartyCode:  c.Query("party_code"),
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if typeParam := c.Query("type"); typeParam != "" {
		docType, ok := parseDocumentType(typeParam)
		if !ok {
			response.BadRequest(c, "Invalid document type")
			return
		}
		params.Type = &docType
	}
	if startDate := c.Query("start_date"); startDate != "" {
		t, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		params.StartDate = &t
	}
	if endDate := c.Query("end_date"); endDate != "" {
		t, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		params.EndDate = &t
	}

	result, err := h.queryService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Documents retrieved successfully", result)
}

// ListWithCursor returns posted documents with cursor-based pagination
func (h *TransactionHandler) ListWithCursor(c *gin.Context) {
	var cursorParams pagination.CursorParams
	if err := c.ShouldBindQuery(&cursorParams); err != nil {
		response.BadRequest(c, "Invalid cursor parameters")
		return
	}

	params := &repository.TransactionCursorFilterParams{
		Cursor:    &cursorParams,
		PartyCode: c.Query("party_code"),
		Search:    c.Query("search"),
	}

	if typeParam := c.Query("type"); typeParam != "" {
		docType, ok := parseDocumentType(typeParam)
		if !ok {
			response.BadRequest(c, "Invalid document type")
			return
		}
		params.Type = &docType
	}

	result, err := h.queryService.ListWithCursor(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithCursor(c, 200, "Documents retrieved successfully", result)
}

func parseDocumentType(s string) (enum.DocumentType, bool) {
	switch s {
	case "SaleBill":
		return enum.DocumentTypeSaleBill, true
	case "PurchaseBill":
		return enum.DocumentTypePurchaseBill, true
	case "SaleOrder":
		return enum.DocumentTypeSaleOrder, true
	case "PurchaseOrder":
		return enum.DocumentTypePurchaseOrder, true
	case "SaleReturn":
		return enum.DocumentTypeSaleReturn, true
	case "PurchaseReturn":
		return enum.DocumentTypePurchaseReturn, true
	}
	return enum.DocumentTypeSaleBill, false
}
