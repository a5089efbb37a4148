package usecases

import (
	"context"

	apperrors "github.com/orris-inc/plansearch/internal/shared/errors"
	"github.com/orris-inc/plansearch/internal/shared/logger"
)

// CheckStoreHealthUseCase pings the KV store. It says nothing about whether
// queries return correct results.
type CheckStoreHealthUseCase struct {
	pinger StorePinger
	logger logger.Interface
}

func NewCheckStoreHealthUseCase(pinger StorePinger, logger logger.Interface) *CheckStoreHealthUseCase {
	return &CheckStoreHealthUseCase{pinger: pinger, logger: logger}
}

func (uc *CheckStoreHealthUseCase) Execute(ctx context.Context) error {
	if err := uc.pinger.Ping(ctx); err != nil {
		uc.logger.Warnw("store health check failed", "error", err)
		return apperrors.NewServiceUnavailableError("store unreachable", err.Error())
	}
	return nil
}
