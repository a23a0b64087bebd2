package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/trendscope/trends-data-service/internal/common"
	"github.com/trendscope/trends-data-service/internal/trends"
)

// Scheduler triggers ingestion runs on a cron cadence.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *trends.Service
	spec      string
}

// New creates a Scheduler firing on the given cron expression.
func New(spec string, service *trends.Service) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		spec:      spec,
	}
}

// Start schedules the ingestion job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Cron(s.spec).Do(func() {
		log.Println("scheduler: running scheduled ingest")

		// A whole fleet of countries at concurrency 2 can take a while;
		// the timeout only bounds a wedged provider, not normal runs.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		runID, summaries := s.service.RunIngest(ctx, common.TodayStr(), "scheduled")
		log.Printf("scheduler: ingest %s finished with %d summaries", runID, len(summaries))
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs. A job already in
// flight runs to completion.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
