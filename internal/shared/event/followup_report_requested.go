package event

const FollowupReportRequestedDestination string = "followup_report_requested"
const FollowupReportRequestedConsumerFollowup string = "followup_report_requested_followup"

// FollowupReportRequestedMessage asks for a daily preset to be run for Date
// (YYYY-MM-DD, empty means today).
type FollowupReportRequestedMessage struct {
	Variant string `json:"variant"`
	Date    string `json:"date,omitempty"`
}
