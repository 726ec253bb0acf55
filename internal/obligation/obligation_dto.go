package obligation

import "github.com/shopspring/decimal"

type CreateObligationRequest struct {
	EmployeeID  string          `json:"employee_id" binding:"required,uuid"`
	Kind        string          `json:"kind" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

type SettleManuallyRequest struct {
	Period string `json:"period" binding:"required"`
}

type ObligationResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	Status        string          `json:"status"`
	PayRecordID   *string         `json:"pay_record_id,omitempty"`
	SettledPeriod *string         `json:"settled_period,omitempty"`
	CreatedAt     string          `json:"created_at"`
}
