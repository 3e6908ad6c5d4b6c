package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"kopiscan/api/internal/repository"
	"kopiscan/api/internal/storage"
)

// Record creation writes the artifact before the ledger row, so a failed
// classification or insert leaves an object nobody references. The sweeper
// reclaims those nightly. Objects younger than the grace window are skipped:
// their row insert may still be in flight.
const orphanGrace = time.Hour

type Scheduler struct {
	cron        *cron.Cron
	predictions *repository.PredictionRepository
	store       *storage.ObjectStore
	log         zerolog.Logger
}

func NewScheduler(predictions *repository.PredictionRepository, store *storage.ObjectStore, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		predictions: predictions,
		store:       store,
		log:         log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("30 3 * * *", s.sweepOrphans); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sweepOrphans() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var checked, removed int
	err := s.store.List(ctx, func(key string, lastModified time.Time) error {
		if time.Since(lastModified) < orphanGrace {
			return nil
		}
		checked++

		exists, err := s.predictions.ExistsByObjectKey(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		if err := s.store.Remove(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("object_key", key).Msg("orphan removal failed")
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Msg("orphan sweep failed")
		return
	}

	s.log.Info().Int("checked", checked).Int("removed", removed).Msg("orphan sweep finished")
}
