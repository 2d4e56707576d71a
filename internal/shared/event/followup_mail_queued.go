package event

const FollowupMailQueuedDestination string = "followup_mail_queued"

type FollowupMailQueuedMessage struct {
	MailID    string `json:"mail_id"`
	To        string `json:"to"`
	Variant   string `json:"variant"`
	ItemCount int    `json:"item_count"`
	Date      string `json:"date"`
}
