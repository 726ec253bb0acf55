package events

import "time"

const PayrunRequestedTopic = "hr.payrun.requested.v1"

// PayrunRequestedEvent asks the background consumer to execute a payroll run
// for a period. An empty EmployeeIDs list means every active employee.
type PayrunRequestedEvent struct {
	EventType   string    `json:"event_type"`
	CompanyID   string    `json:"company_id"`
	Period      string    `json:"period"`
	EmployeeIDs []string  `json:"employee_ids,omitempty"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
