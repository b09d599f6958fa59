package request

// RecordPaymentRequest represents the request body for recording a coupon payment.
// paidAmount is a decimal string; when omitted the coupon's net amount is recorded.
type RecordPaymentRequest struct {
	PaymentDate string `json:"paymentDate"`
	PaidAmount  string `json:"paidAmount,omitempty"`
}
