// Package examples runs the code examples embedded in reference pages in
// external worker processes and reconciles the images they produce.
package examples

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
)

// Result aggregates the outcome of all workers.
type Result struct {
	Succeeded []string
	Failed    []string
}

// OK reports whether no work item failed.
func (r Result) OK() bool {
	return len(r.Failed) == 0
}

// Coordinator distributes work items over worker processes and collects
// their results. It is the only writer of the result sets.
type Coordinator struct {
	command      []string
	workers      int
	pollInterval time.Duration
	log          *logrus.Logger
}

// NewCoordinator creates a Coordinator running command with up to workers
// processes, checking their liveness every pollInterval.
func NewCoordinator(command []string, workers int, pollInterval time.Duration, log *logrus.Logger) *Coordinator {
	if workers < 1 {
		workers = 1
	}
	return &Coordinator{
		command:      command,
		workers:      workers,
		pollInterval: pollInterval,
		log:          log,
	}
}

// Run executes work and blocks until every worker has exited. Example
// failures are reported in the Result; the error is reserved for a
// coordinator that cannot run at all.
func (c *Coordinator) Run(ctx context.Context, work []domain.WorkItem) (Result, error) {
	var result Result
	if len(work) == 0 {
		return result, nil
	}
	if len(c.command) == 0 {
		return result, domain.NewError("examples", "", 0, "no example runner command configured", nil)
	}

	parts := Partition(work, c.workers)
	trackers := make([]*Tracker, len(parts))
	procs := make([]*worker, len(parts))
	events := make(chan workerEvent)
	var g errgroup.Group

	for i, part := range parts {
		trackers[i] = NewTracker(i, part, c.log)
		p, err := startWorker(ctx, i, c.command, part, c.log)
		if err != nil {
			c.log.WithError(err).WithField("worker", i).Error("failed to start example worker")
			trackers[i].Finish(err)
			continue
		}
		c.log.WithField("worker", i).Debugf("started worker with %d work item(s)", len(part))
		procs[i] = p
		g.Go(func() error {
			p.pump(events)
			return nil
		})
	}

	active := 0
	for _, p := range procs {
		if p != nil {
			active++
		}
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for active > 0 {
		select {
		case we := <-events:
			trackers[we.worker].Handle(we.event)
		case <-ticker.C:
			for i, p := range procs {
				if p == nil {
					continue
				}
				exited, err := p.poll()
				if !exited {
					continue
				}
				trackers[i].Finish(err)
				procs[i] = nil
				active--
			}
		}
	}

	if err := g.Wait(); err != nil {
		return result, err
	}

	for _, t := range trackers {
		result.Succeeded = append(result.Succeeded, t.Succeeded()...)
		result.Failed = append(result.Failed, t.Failed()...)
	}
	c.log.Infof("examples: %d succeeded, %d failed", len(result.Succeeded), len(result.Failed))
	if ctx.Err() != nil {
		return result, fmt.Errorf("example run interrupted: %w", ctx.Err())
	}
	return result, nil
}
