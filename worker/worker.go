package worker

import (
	"context"
	"sync/atomic"

	"github.com/robfig/cron/v3"
)

// Worker long running loop, returns when ctx is done
type Worker interface {
	Run(ctx context.Context) error
}

// OnWork one round of a periodic job
type OnWork func() error

// BaseJob periodic job driven by cron, a round is skipped while the previous one runs
type BaseJob struct {
	Cron    *cron.Cron
	OnWork  OnWork
	running int32
}

// NewBaseJob job running onWork on spec, like "@every 30s"
func NewBaseJob(spec string, onWork OnWork) (*BaseJob, error) {
	job := &BaseJob{
		Cron:   cron.New(),
		OnWork: onWork,
	}

	if _, err := job.Cron.AddFunc(spec, job.Tick); err != nil {
		return nil, err
	}

	return job, nil
}

// Tick runs one round unless one is in progress
func (job *BaseJob) Tick() {
	if !atomic.CompareAndSwapInt32(&job.running, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&job.running, 0)

	_ = job.OnWork()
}

// Run starts the cron and stops it when ctx is done
func (job *BaseJob) Run(ctx context.Context) error {
	job.Cron.Start()
	<-ctx.Done()
	<-job.Cron.Stop().Done()
	return nil
}
