package request

// UpdateTenantConfigRequest updates the store's billing settings
type UpdateTenantConfigRequest struct {
	StoreName      string `json:"store_name" binding:"required,max=255"`
	Currency       string `json:"currency" binding:"required,len=3"`
	Gstin          string `json:"gstin" binding:"omitempty,max=15"`
	ApproverPhone  string `json:"approver_phone" binding:"omitempty,max=30"`
	NotifyCustomer bool   `json:"notify_customer"`
}
