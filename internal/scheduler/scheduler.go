package scheduler

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is a named unit of periodic work
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler runs its jobs once at startup and then on a cron schedule.
// Runs never overlap: a tick that fires while a run is in progress is skipped.
type Scheduler struct {
	cron     *cron.Cron
	jobs     []Job
	logger   *logrus.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	jobMutex sync.Mutex
	stopOnce sync.Once
}

// NewScheduler creates a scheduler for a standard cron spec or descriptor
// such as "@every 6h". An empty spec runs the jobs at startup only.
func NewScheduler(spec string, logger *logrus.Logger, jobs ...Job) (*Scheduler, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		jobs:   jobs,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	if spec != "" {
		if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(s.ctx) }); err != nil {
			cancel()
			return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
		}
	}
	return s, nil
}

// Start runs the jobs once in the background and starts the cron ticks.
// A Stop issued before the startup run reaches a job cancels it.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Info("Running startup jobs")
		s.RunOnce(s.ctx)
	}()
	s.cron.Start()
}

// RunOnce runs every job sequentially. A failing job does not stop the rest.
// It reports false when another run was already in progress.
func (s *Scheduler) RunOnce(ctx context.Context) bool {
	if !s.jobMutex.TryLock() {
		s.logger.Debug("Skipping scheduled jobs while a run is in progress")
		return false
	}
	defer s.jobMutex.Unlock()

	for _, job := range s.jobs {
		if ctx.Err() != nil {
			return true
		}

		start := time.Now()
		s.logger.WithField("job", job.Name).Debug("Starting job")

		if err := job.Run(ctx); err != nil {
			s.logger.WithError(err).WithField("job", job.Name).Error("Job failed")
			continue
		}
		s.logger.WithFields(logrus.Fields{
			"job":      job.Name,
			"duration": time.Since(start).String(),
		}).Info("Job completed successfully")
	}
	return true
}

// Stop cancels a running job and waits for every run to return
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.cron.Stop().Done()
	})
	s.wg.Wait()
}
