package scheduler

import (
	"context"

	"github.com/linguahub/linguahub/internal/clock"
	quotedomain "github.com/linguahub/linguahub/internal/quote/domain"
	"go.uber.org/zap"
)

// PurgeExpiredQuotesJob deletes quotes created before the retention cutoff.
func (s *Scheduler) PurgeExpiredQuotesJob(ctx context.Context) (int, error) {
	retentionDays := s.cfg.QuoteRetentionDays
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := clock.DaysBefore(ctx, s.clock, retentionDays)
	result := s.db.WithContext(ctx).Delete(&quotedomain.PriceQuote{}, "created_at < ?", cutoff)
	if result.Error != nil {
		return 0, result.Error
	}

	deleted := int(result.RowsAffected)
	if deleted > 0 {
		s.log.Info("purged expired quotes", zap.Time("cutoff", cutoff), zap.Int("deleted", deleted))
	}
	return deleted, nil
}
