package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tessera-labs/design-notify/internal/channel"
	"github.com/tessera-labs/design-notify/internal/domain"
	"github.com/tessera-labs/design-notify/internal/metrics"
)

// deliveryJob is one channel attempt for one matched subscription.
type deliveryJob struct {
	subscriptionID string
	channel        domain.Channel
	endpoint       string
}

// Dispatcher fans a notification out to every channel of every matched
// subscription through a bounded pool of workers. Failures are isolated
// per attempt and aggregated into the report; dispatch completes only once
// every attempt has resolved.
type Dispatcher struct {
	adapters   map[domain.Channel]channel.Adapter
	numWorkers int
	timeout    time.Duration
	logger     *slog.Logger
}

func NewDispatcher(adapters map[domain.Channel]channel.Adapter, numWorkers int, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Dispatcher{
		adapters:   adapters,
		numWorkers: numWorkers,
		timeout:    timeout,
		logger:     logger,
	}
}

// Dispatch attempts delivery on every configured channel of every matched
// subscription. Delivered/Failed count channel attempts; a subscription
// with a succeeding and a failing channel contributes to both.
func (d *Dispatcher) Dispatch(ctx context.Context, n domain.Notification, matched []domain.Subscription) domain.DispatchReport {
	var jobs []deliveryJob
	for _, sub := range matched {
		for _, ch := range sub.Channels {
			jobs = append(jobs, deliveryJob{
				subscriptionID: sub.ID,
				channel:        ch,
				endpoint:       sub.ChannelEndpoints[ch],
			})
		}
	}

	report := domain.DispatchReport{
		Matched:  len(matched),
		Outcomes: []domain.DeliveryOutcome{},
	}
	if len(jobs) == 0 {
		return report
	}

	workers := d.numWorkers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	jobCh := make(chan deliveryJob)
	outcomeCh := make(chan domain.DeliveryOutcome, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				outcomeCh <- d.attempt(ctx, n, job)
			}
		}()
	}

	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()
	close(outcomeCh)

	for outcome := range outcomeCh {
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Success {
			report.Delivered++
		} else {
			report.Failed++
		}
	}

	d.logger.Info("dispatch complete",
		"notification_id", n.ID,
		"matched", report.Matched,
		"delivered", report.Delivered,
		"failed", report.Failed,
	)
	return report
}

// attempt runs a single channel delivery with a bounded timeout. Panics
// from an adapter are converted into failed outcomes so one misbehaving
// channel can never abort sibling deliveries.
func (d *Dispatcher) attempt(ctx context.Context, n domain.Notification, job deliveryJob) (outcome domain.DeliveryOutcome) {
	outcome = domain.DeliveryOutcome{
		SubscriptionID: job.subscriptionID,
		Channel:        job.channel,
	}

	defer func() {
		if r := recover(); r != nil {
			outcome.Success = false
			outcome.ErrorDetail = fmt.Sprintf("adapter panic: %v", r)
			d.recordOutcome(n, job, outcome)
		}
	}()

	adapter, ok := d.adapters[job.channel]
	if !ok {
		outcome.ErrorDetail = fmt.Sprintf("no adapter for channel %s", job.channel)
		d.recordOutcome(n, job, outcome)
		return outcome
	}

	attemptCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := adapter.Send(attemptCtx, job.endpoint, n); err != nil {
		derr := &domain.DeliveryError{Channel: job.channel, Endpoint: job.endpoint, Err: err}
		outcome.ErrorDetail = derr.Error()
	} else {
		outcome.Success = true
	}

	d.recordOutcome(n, job, outcome)
	return outcome
}

func (d *Dispatcher) recordOutcome(n domain.Notification, job deliveryJob, outcome domain.DeliveryOutcome) {
	status := "success"
	if !outcome.Success {
		status = "failed"
	}
	metrics.Deliveries.WithLabelValues(string(job.channel), status).Inc()

	if outcome.Success {
		d.logger.Info("delivery successful",
			"notification_id", n.ID,
			"subscription_id", job.subscriptionID,
			"channel", job.channel,
		)
	} else {
		d.logger.Warn("delivery failed",
			"notification_id", n.ID,
			"subscription_id", job.subscriptionID,
			"channel", job.channel,
			"error", outcome.ErrorDetail,
		)
	}
}
