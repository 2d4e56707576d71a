package inbound

import "github.com/shandysiswandi/followup/internal/pkg/router"

type HTTPEndpoint struct {
	uc uc
}

// OverdueReport emails every overdue follow-up to the central recipient.
// @Summary Send overdue report
// @Description Collects follow-ups past their due date across all workers and queues one report mail to the central recipient.
// @Tags Followup
// @Security BearerAuth
// @Produce json
// @Success 200 {object} OverdueReportResponse
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/followup/reports/overdue [post]
func (h *HTTPEndpoint) OverdueReport(r *router.Request) (any, error) {
	res, err := h.uc.OverdueReport(r.Context())
	if err != nil {
		return nil, err
	}

	return OverdueReportResponse{Success: res.Success, Detail: res.Message}, nil
}
