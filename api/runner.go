// Package api serialises crawler runs triggered from several places, such
// as the cache and config watchers of render --watch, and keeps the stats
// of the last run. Requests arriving during a run are coalesced into one
// follow-up run.
package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/devsidequests/participants/internal/crawler"
	"github.com/devsidequests/participants/pkg/log"
)

// RunStats describes the current or last run.
type RunStats struct {
	Mode         string
	IsRunning    bool
	StartTime    time.Time
	Duration     time.Duration
	Runs         int
	Coalesced    int
	Participants int
	Failures     int
	LastError    string
}

type Runner struct {
	Logger log.Logger

	mu      sync.Mutex
	crawler crawler.Crawler
	mode    string
	pending bool
	stats   RunStats
}

func NewRunner(logger log.Logger, mode string, c crawler.Crawler) (*Runner, error) {
	if c == nil {
		return nil, errors.New("runner needs a crawler")
	}
	return &Runner{Logger: logger, crawler: c, mode: mode, stats: RunStats{Mode: mode}}, nil
}

// SetCrawler swaps the crawler used by the next run, e.g. after a config
// reload.
func (r *Runner) SetCrawler(c crawler.Crawler) {
	r.mu.Lock()
	r.crawler = c
	r.mu.Unlock()
}

// Run executes one crawl. When a crawl is already running, Run only marks
// that another one is needed and returns nil; the running call then crawls
// again, with the current crawler, once it is done. The returned error is
// the one of the last crawl this call performed.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.stats.IsRunning {
		r.pending = true
		r.stats.Coalesced++
		r.mu.Unlock()
		r.Logger.Debug(ctx, "%s run in progress, another one is queued", r.mode)
		return nil
	}
	r.stats.IsRunning = true
	r.mu.Unlock()

	for {
		r.mu.Lock()
		c := r.crawler
		r.pending = false
		r.stats.StartTime = time.Now()
		r.mu.Unlock()

		err := r.crawlOnce(ctx, c)

		r.mu.Lock()
		if !r.pending || ctx.Err() != nil {
			r.stats.IsRunning = false
			r.pending = false
			r.mu.Unlock()
			return err
		}
		r.mu.Unlock()
	}
}

func (r *Runner) crawlOnce(ctx context.Context, c crawler.Crawler) error {
	info, err := c.Crawl(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Runs++
	r.stats.Duration = time.Since(r.stats.StartTime)
	if err != nil {
		r.stats.LastError = err.Error()
		r.Logger.Error(ctx, "%s run failed: %v", r.mode, err)
		return err
	}
	r.stats.LastError = ""
	r.stats.Participants = info.Participants
	r.stats.Failures = info.Report.Len()
	return nil
}

// Stats returns a copy of the run stats.
func (r *Runner) Stats() RunStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := r.stats
	if stats.IsRunning {
		stats.Duration = time.Since(stats.StartTime)
	}
	return stats
}
