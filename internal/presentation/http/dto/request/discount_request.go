package request

// SendOtpRequest asks for an approval code for a discount attempt
type SendOtpRequest struct {
	AttemptID string `json:"attempt_id" binding:"required,max=100"`
}

// VerifyOtpRequest submits the approver code for a discount attempt
type VerifyOtpRequest struct {
	AttemptID string `json:"attempt_id" binding:"required,max=100"`
	Code      string `json:"code" binding:"required,len=6"`
}
