package payrun

import "go-payday/internal/payrecord"

// Per-employee failure codes. A failed employee never aborts the batch; the
// caller receives the code and a human-readable reason per employee.
const (
	FailureNotEligible          = "NOT_ELIGIBLE"
	FailureAlreadyProcessed     = "ALREADY_PROCESSED"
	FailureMissingRates         = "MISSING_RATE_CONFIGURATION"
	FailurePersistence          = "PERSISTENCE_FAILURE"
	FailureObligationSettlement = "OBLIGATION_SETTLEMENT_FAILURE"
)

type RunPayrollRequest struct {
	Period string `json:"period" binding:"required"`
	// Empty means every active employee in the company
	EmployeeIDs []string `json:"employee_ids"`
}

type RunFailure struct {
	EmployeeID string `json:"employee_id"`
	Code       string `json:"code"`
	Reason     string `json:"reason"`
}

type RunPayrollResponse struct {
	Period    string                        `json:"period"`
	Processed []payrecord.PayRecordResponse `json:"processed"`
	Failures  []RunFailure                  `json:"failures"`
	Succeeded int                           `json:"succeeded"`
	Failed    int                           `json:"failed"`
}
