package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Notifuse/campaign-builder/internal/domain"
	"github.com/Notifuse/campaign-builder/pkg/logger"
)

const pruneTimeout = 5 * time.Minute

// RetentionService periodically deletes old campaign revisions
type RetentionService struct {
	repo     domain.CampaignRepository
	keep     int
	schedule string
	logger   logger.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

func NewRetentionService(repo domain.CampaignRepository, keep int, schedule string, logger logger.Logger) *RetentionService {
	return &RetentionService{
		repo:     repo,
		keep:     keep,
		schedule: schedule,
		logger:   logger,
	}
}

// Prune deletes all but the newest revisions of every campaign
func (s *RetentionService) Prune(ctx context.Context) (int64, error) {
	deleted, err := s.repo.PruneRevisions(ctx, s.keep)
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to prune revisions")
		return 0, fmt.Errorf("failed to prune revisions: %w", err)
	}
	if deleted > 0 {
		s.logger.WithFields(map[string]interface{}{
			"deleted": deleted,
			"keep":    s.keep,
		}).Info("Pruned campaign revisions")
	}
	return deleted, nil
}

// Start schedules Prune. A keep of zero disables retention.
func (s *RetentionService) Start() error {
	if s.keep <= 0 {
		s.logger.Info("Revision retention disabled")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
		defer cancel()
		_, _ = s.Prune(ctx)
	}); err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", s.schedule, err)
	}
	c.Start()
	s.cron = c

	s.logger.WithField("schedule", s.schedule).Info("Revision retention scheduled")
	return nil
}

// Stop waits for a running prune to finish or ctx to expire
func (s *RetentionService) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
}
