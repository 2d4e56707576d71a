package inbound

type OverdueReportResponse struct {
	Success bool   `json:"success"`
	Detail  string `json:"message"`
}

func (r OverdueReportResponse) Message() string { return r.Detail }
