package inbound

import "github.com/shandysiswandi/followup/internal/pkg/router"

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/followup/reports/overdue", end.OverdueReport)
}
