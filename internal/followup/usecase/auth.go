package usecase

import (
	"context"

	"github.com/shandysiswandi/followup/internal/pkg/goerror"
	"github.com/shandysiswandi/followup/internal/pkg/jwt"
)

func (s *Usecase) requireAuth(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if !clm.HasIdentity() {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	return clm, nil
}
