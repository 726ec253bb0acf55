package events

import "time"

const PayRecordFinalizedTopic = "hr.payrun.record.finalized.v1"

// PayRecordFinalizedEvent announces that a pay record was written and its
// obligations settled. Consumed by the accounting-sync collaborator.
type PayRecordFinalizedEvent struct {
	EventType    string    `json:"event_type"`
	PayRecordID  string    `json:"pay_record_id"`
	CompanyID    string    `json:"company_id"`
	EmployeeID   string    `json:"employee_id"`
	Period       string    `json:"period"`
	NetPay       string    `json:"net_pay"`
	ProcessedBy  string    `json:"processed_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}
