package jobs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloo-solutions/tryonadmin/internal/domain"
	"github.com/cloo-solutions/tryonadmin/internal/telemetry"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Poll outcomes reported to a PollObserver.
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeDiscarded = "discarded"
)

// LogSource fetches the full log collection.
type LogSource interface {
	GetAllLogs(ctx context.Context) ([]domain.LogRecord, error)
}

// LogTable accepts sequenced replacements.
type LogTable interface {
	ReplaceAllSeq(seq uint64, records []domain.LogRecord) bool
}

// PollObserver receives the outcome and duration of each poll.
type PollObserver interface {
	ObservePoll(outcome string, d time.Duration)
}

type noopPollObserver struct{}

func (noopPollObserver) ObservePoll(string, time.Duration) {}

// PollStatus is what the console shows about the poller. Errors never
// touch the log collection; they surface here instead.
type PollStatus struct {
	LastAttempt         time.Time `json:"lastAttempt,omitzero"`
	LastSuccess         time.Time `json:"lastSuccess,omitzero"`
	LastError           string    `json:"lastError,omitempty"`
	LastErrorAt         time.Time `json:"lastErrorAt,omitzero"`
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastSequence        uint64    `json:"lastSequence"`
	LastCount           int       `json:"lastCount"`
	Polls               uint64    `json:"polls"`
}

// Healthy reports whether the most recent poll succeeded.
func (s PollStatus) Healthy() bool {
	return s.ConsecutiveFailures == 0
}

// PollResult describes one completed poll.
type PollResult struct {
	Sequence uint64 `json:"sequence"`
	Count    int    `json:"count"`
	Applied  bool   `json:"applied"`
}

// LogPoller replaces the log table with the platform's collection on every
// run. Each run takes a sequence number so a slow response can never
// overwrite a newer one.
type LogPoller struct {
	source   LogSource
	table    LogTable
	observer PollObserver
	logger   logrus.FieldLogger

	seq   atomic.Uint64
	group singleflight.Group

	mu     sync.RWMutex
	status PollStatus
}

// PollerOption configures a LogPoller.
type PollerOption func(*LogPoller)

// WithPollObserver reports poll outcomes to o.
func WithPollObserver(o PollObserver) PollerOption {
	return func(p *LogPoller) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithPollLogger sets the poller's logger.
func WithPollLogger(logger logrus.FieldLogger) PollerOption {
	return func(p *LogPoller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewLogPoller creates a LogPoller
func NewLogPoller(source LogSource, table LogTable, opts ...PollerOption) *LogPoller {
	p := &LogPoller{
		source:   source,
		table:    table,
		observer: noopPollObserver{},
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessJobs implements the JobProcessor interface
func (p *LogPoller) ProcessJobs(ctx context.Context) error {
	_, err := p.Refresh(ctx)
	return err
}

// Refresh polls now. Concurrent callers share one in-flight request, which
// runs detached from any single caller's cancellation and is bounded by the
// source's own timeout. A caller whose ctx ends stops waiting; the shared
// poll still completes for the others.
func (p *LogPoller) Refresh(ctx context.Context) (PollResult, error) {
	if err := ctx.Err(); err != nil {
		return PollResult{}, err
	}

	ch := p.group.DoChan("poll", func() (interface{}, error) {
		return p.poll(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return PollResult{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return PollResult{}, res.Err
		}
		return res.Val.(PollResult), nil
	}
}

// Status returns a copy of the poll status.
func (p *LogPoller) Status() PollStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

func (p *LogPoller) poll(ctx context.Context) (PollResult, error) {
	seq := p.seq.Add(1)

	ctx, span := telemetry.StartSpan(ctx, "logs.poll", telemetry.SpanAttributes{
		Sequence:  seq,
		Operation: "getAllLogs",
	})
	defer span.End()

	start := time.Now()
	records, err := p.source.GetAllLogs(ctx)
	elapsed := time.Since(start)

	if err != nil {
		p.recordFailure(seq, start, err)
		p.observer.ObservePoll(OutcomeError, elapsed)
		span.SetError(err)
		telemetry.CaptureError(ctx, err)
		p.logger.WithFields(logrus.Fields{
			"sequence": seq,
			"duration": elapsed.String(),
		}).WithError(err).Warn("log poll failed")
		return PollResult{}, fmt.Errorf("failed to fetch logs: %w", err)
	}

	applied := p.table.ReplaceAllSeq(seq, records)
	result := PollResult{Sequence: seq, Count: len(records), Applied: applied}
	p.recordSuccess(result, start)

	outcome := OutcomeSuccess
	if !applied {
		outcome = OutcomeDiscarded
		span.SetAborted()
	}
	p.observer.ObservePoll(outcome, elapsed)
	p.logger.WithFields(logrus.Fields{
		"sequence": seq,
		"count":    len(records),
		"applied":  applied,
		"duration": elapsed.String(),
	}).Debug("log poll completed")

	return result, nil
}

func (p *LogPoller) recordFailure(seq uint64, at time.Time, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.Polls++
	p.status.LastAttempt = at
	p.status.LastError = err.Error()
	p.status.LastErrorAt = at
	p.status.ConsecutiveFailures++
	p.status.LastSequence = seq
}

func (p *LogPoller) recordSuccess(result PollResult, at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.Polls++
	p.status.LastAttempt = at
	p.status.LastSequence = result.Sequence
	if !result.Applied {
		return
	}
	p.status.LastSuccess = at
	p.status.LastCount = result.Count
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
}
