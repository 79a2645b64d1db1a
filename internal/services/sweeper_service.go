package services

import (
	"context"
	"time"

	"github.com/anuruddha96/hotelcare-backend/internal/config"
	"github.com/anuruddha96/hotelcare-backend/internal/repositories"
	"github.com/anuruddha96/hotelcare-backend/internal/utils"
)

// SweeperService administratively cancels assignments left over from
// previous work dates. Cancellation from any state is always a legal
// override, so the sweep needs no guard evaluation.
type SweeperService struct {
	cfg        *config.Config
	assignRepo repositories.AssignmentRepository
}

func NewSweeperService(cfg *config.Config, assignRepo repositories.AssignmentRepository) *SweeperService {
	return &SweeperService{cfg: cfg, assignRepo: assignRepo}
}

// RunNightlySweep is triggered shortly after hotel-local midnight. It
// cancels every assignment from earlier work dates still sitting in
// assigned or in_progress.
func (s *SweeperService) RunNightlySweep(ctx context.Context) error {
	localNow := time.Now().In(s.cfg.HotelLocation())
	today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, time.UTC)

	swept, err := s.assignRepo.CancelStaleBefore(ctx, today)
	if err != nil {
		utils.Logger.WithError(err).Error("Nightly sweep failed")
		return err
	}

	utils.Logger.Infof("Nightly sweep cancelled %d stale assignment(s) before %s",
		swept, today.Format("2006-01-02"))
	return nil
}
