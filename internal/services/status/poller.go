package status

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

// cronLogger adapts arbor to cron.Logger
type cronLogger struct {
	logger arbor.ILogger
	name   string
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Str("poller", l.name).Str("details", fmt.Sprint(keysAndValues...)).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Str("poller", l.name).Str("details", fmt.Sprint(keysAndValues...)).Msg("cron: " + msg)
}

// Poller runs poll on a fixed interval with its own cron instance.
// At most one poll is in flight: scheduled ticks and manual triggers share one SkipIfStillRunning wrapper.
type Poller struct {
	name     string
	interval time.Duration
	poll     func(ctx context.Context) error
	limiter  *rate.Limiter
	logger   arbor.ILogger

	mu      sync.Mutex
	cron    *cron.Cron
	job     cron.Job
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
}

// NewPoller creates a stopped poller. Manual triggers are limited to one per second.
func NewPoller(name string, interval time.Duration, poll func(ctx context.Context) error, logger arbor.ILogger) *Poller {
	return &Poller{
		name:     name,
		interval: interval,
		poll:     poll,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		logger:   logger,
	}
}

// Start schedules the poller and runs the first poll immediately
func (p *Poller) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}

	l := cronLogger{logger: p.logger, name: p.name}
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.cron = cron.New(cron.WithLogger(l))
	p.job = cron.NewChain(cron.Recover(l), cron.SkipIfStillRunning(l)).Then(cron.FuncJob(p.run))
	p.cron.Schedule(cron.Every(p.interval), p.job)
	p.cron.Start()
	p.running = true
	job := p.job
	p.mu.Unlock()

	p.logger.Debug().Str("poller", p.name).Dur("interval", p.interval).Msg("Poller started")
	go job.Run()
}

// Stop cancels any in-flight poll and removes the schedule. Safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	p.running = false
	p.cancel()
	p.cron.Stop()

	p.logger.Debug().Str("poller", p.name).Msg("Poller stopped")
}

// Trigger runs a poll now. Returns false when stopped or throttled.
// A trigger landing while a poll is in flight is skipped by the shared wrapper.
func (p *Poller) Trigger() bool {
	p.mu.Lock()
	running := p.running
	job := p.job
	p.mu.Unlock()

	if !running {
		return false
	}
	if !p.limiter.Allow() {
		p.logger.Debug().Str("poller", p.name).Msg("Manual refresh throttled")
		return false
	}

	go job.Run()
	return true
}

// Running reports whether the poller is scheduled
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller) run() {
	p.mu.Lock()
	ctx := p.ctx
	running := p.running
	p.mu.Unlock()

	if !running || ctx.Err() != nil {
		return
	}

	if err := p.poll(ctx); err != nil {
		p.logger.Debug().Str("poller", p.name).Err(err).Msg("Poll failed, keeping last snapshot")
	}
}
