package view

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/domain/view"
	"github.com/khoahotran/folio/pkg/logger"
)

// ProcessViewEventUseCase stores views consumed from the event stream.
type ProcessViewEventUseCase struct {
	viewRepo view.Repository
	logger   logger.Logger
}

func NewProcessViewEventUseCase(repo view.Repository, log logger.Logger) *ProcessViewEventUseCase {
	return &ProcessViewEventUseCase{viewRepo: repo, logger: log}
}

// Execute is safe to repeat for the same event: the store ignores duplicates.
// Malformed events are skipped without error so they are not redelivered.
func (uc *ProcessViewEventUseCase) Execute(ctx context.Context, v view.View) error {
	if v.ProfileID == uuid.Nil || v.VisitorID == "" {
		uc.logger.Warn("Skipping malformed view event", zap.String("profile_id", v.ProfileID.String()))
		return nil
	}
	if err := uc.viewRepo.Record(ctx, v); err != nil {
		return fmt.Errorf("record view for profile %s failed: %w", v.ProfileID, err)
	}
	return nil
}
