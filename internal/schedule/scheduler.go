// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package schedule runs maintenance jobs on cron specs inside the server.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler runs jobs until stopped.
type Scheduler struct {
	cron    *cron.Cron
	entries map[string]cron.EntryID
	ctx     context.Context
}

// cronLogger routes cron's own messages to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron_"+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron_"+msg, append(keysAndValues, "error", err)...)
}

// New creates a scheduler accepting standard five-field cron specs and
// descriptors such as "@every 1m". A run is skipped while the previous run
// of the same job is still going, and panics are recovered.
func New() *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	logger := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		entries: make(map[string]cron.EntryID),
		ctx:     context.Background(),
	}
}

// AddJob registers job under spec, replacing a job of the same name.
func (s *Scheduler) AddJob(job Job, spec string) error {
	logger := slog.With("job", job.Name(), "spec", spec)

	id, err := s.cron.AddFunc(spec, s.wrap(job))
	if err != nil {
		logger.Error("job_schedule_failed", "error", err)
		return err
	}

	if old, ok := s.entries[job.Name()]; ok {
		s.cron.Remove(old)
	}

	s.entries[job.Name()] = id
	logger.Info("job_scheduled")
	return nil
}

// Start runs the scheduler in the background. Jobs receive ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	return len(s.entries)
}

// wrap binds job to the scheduler context.
func (s *Scheduler) wrap(job Job) func() {
	return func() {
		runJob(s.ctx, job)
	}
}

func runJob(ctx context.Context, job Job) {
	start := time.Now()
	err := job.Run(ctx)
	elapsed := time.Since(start)

	if err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "job_finished",
			slog.String("job", job.Name()),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()),
		)
		return
	}
	slog.LogAttrs(ctx, slog.LevelDebug, "job_finished",
		slog.String("job", job.Name()),
		slog.Duration("duration", elapsed),
	)
}
