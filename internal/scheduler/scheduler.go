package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler is a thin facade over gocron for the bot's background jobs.
type Scheduler struct {
	sched gocron.Scheduler
}

func New() *Scheduler {
	sched, err := gocron.NewScheduler()
	if err != nil {
		slog.Error("error while creating gocron scheduler", slog.String("err", err.Error()))
		panic(err)
	}

	return &Scheduler{sched: sched}
}

func (s *Scheduler) NewIntervalJob(name string, task func(ctx context.Context), interval time.Duration, runImmediately bool) {
	opts := []gocron.JobOption{gocron.WithName(name)}
	if runImmediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			task(context.Background())
		}),
		opts...,
	)
	if err != nil {
		slog.Error(
			"error while creating interval job",
			slog.String("name", name),
			slog.String("err", err.Error()),
		)
		panic(err)
	}

	slog.Info("interval job registered", slog.String("name", name), slog.Duration("interval", interval))
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

func (s *Scheduler) Stop() {
	if err := s.sched.Shutdown(); err != nil {
		slog.Error("error while stopping scheduler", slog.String("err", err.Error()))
	}
}
