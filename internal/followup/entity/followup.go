package entity

// DateLayout is the wire format of customer due dates and report dates.
const DateLayout = "2006-01-02"

// UserRecord is a worker account as read from the store. Email is empty when
// the record has none.
type UserRecord struct {
	ID        string
	Email     string
	Customers []CustomerRecord
}

type CustomerRecord struct {
	Name    string
	Address string
	DueDate string
}

// DueItem is a customer record selected for a report, tagged with the worker
// that owns it.
type DueItem struct {
	Name        string
	Address     string
	DueDate     string
	WorkerEmail string
}

// MailDocument is the document appended to the mail collection. The external
// dispatcher sends it to To.
type MailDocument struct {
	To      string
	Message MailMessage
}

type MailMessage struct {
	Subject string
	HTML    string
}

// ReportResult is returned to on-demand callers.
type ReportResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ScanStats summarizes one pass over the user collection.
type ScanStats struct {
	Users   int
	Skipped int
	Items   int
}

// RunResult summarizes one pipeline run.
type RunResult struct {
	Variant Variant
	Items   int
	Mails   int
	Skipped int
	MailIDs []string
}

// MailQueued describes a mail document that was just appended.
type MailQueued struct {
	MailID    string
	To        string
	Variant   Variant
	ItemCount int
	Date      string
}
