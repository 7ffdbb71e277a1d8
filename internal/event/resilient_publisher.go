package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/osse101/CampusQuest_Go/internal/logger"
)

var errShutdown = errors.New("publisher shut down")

type retryEntry struct {
	event       Event
	attempt     int
	nextAttempt time.Time
	lastErr     error
}

// ResilientPublisher wraps a Bus with a background retry queue. Failed events
// are retried with exponential backoff and end up in the dead-letter file once
// retries are exhausted.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter

	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// NewResilientPublisher creates a publisher and starts its retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	rp.wg.Add(1)
	go rp.retryWorker()

	return rp, nil
}

// PublishWithRetry publishes synchronously once and queues the event for
// background retry on failure. It never returns an error to the caller.
func (rp *ResilientPublisher) PublishWithRetry(ctx context.Context, evt Event) {
	err := rp.bus.Publish(ctx, evt)
	if err == nil {
		return
	}

	logger.FromContext(ctx).Warn(LogMsgEventPublishFailed,
		"event_type", evt.Type,
		"error", err)

	rp.enqueue(retryEntry{
		event:       evt,
		attempt:     1,
		nextAttempt: time.Now().Add(CalculateRetryDelay(rp.retryDelay, 1)),
		lastErr:     err,
	})
}

// Subscribe delegates to the inner bus
func (rp *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	rp.bus.Subscribe(eventType, handler)
}

func (rp *ResilientPublisher) enqueue(entry retryEntry) {
	select {
	case <-rp.shutdown:
		rp.writeDeadLetter(entry, DeadLetterReasonShutdown)
		return
	default:
	}

	select {
	case rp.retryQueue <- entry:
	default:
		rp.writeDeadLetter(entry, DeadLetterReasonQueueFull)
	}
}

func (rp *ResilientPublisher) retryWorker() {
	defer rp.wg.Done()

	for {
		select {
		case <-rp.shutdown:
			rp.drain()
			return
		case entry := <-rp.retryQueue:
			rp.process(entry)
		}
	}
}

func (rp *ResilientPublisher) process(entry retryEntry) {
	if wait := time.Until(entry.nextAttempt); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-rp.shutdown:
			// Final attempt happens right away during shutdown
			timer.Stop()
		}
	}

	log := logger.FromContext(context.Background())

	err := rp.bus.Publish(context.Background(), entry.event)
	if err == nil {
		log.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempt", entry.attempt)
		return
	}
	entry.lastErr = err

	if entry.attempt >= rp.maxRetries {
		rp.writeDeadLetter(entry, DeadLetterReasonExhausted)
		return
	}

	entry.attempt++
	entry.nextAttempt = time.Now().Add(CalculateRetryDelay(rp.retryDelay, entry.attempt))
	log.Warn(LogMsgEventRetryFailed,
		"event_type", entry.event.Type,
		"attempt", entry.attempt,
		"error", err)
	rp.enqueue(entry)
}

// drain gives every queued event one last attempt
func (rp *ResilientPublisher) drain() {
	drained := 0
	for {
		select {
		case entry := <-rp.retryQueue:
			drained++
			if err := rp.bus.Publish(context.Background(), entry.event); err != nil {
				entry.lastErr = err
				rp.writeDeadLetter(entry, DeadLetterReasonShutdown)
			}
		default:
			if drained > 0 {
				logger.FromContext(context.Background()).Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

func (rp *ResilientPublisher) writeDeadLetter(entry retryEntry, reason string) {
	log := logger.FromContext(context.Background())
	log.Warn(LogMsgEventDeadLettered, "event_type", entry.event.Type, "reason", reason, "attempts", entry.attempt+1)

	lastErr := entry.lastErr
	if lastErr == nil {
		lastErr = errShutdown
	}
	err := rp.deadLetter.Write(DeadLetterEntry{
		Reason:    reason,
		Attempts:  entry.attempt + 1,
		LastError: lastErr.Error(),
		Event:     entry.event,
	})
	if err != nil {
		log.Error(LogMsgDeadLetterWriteFailed, "event_type", entry.event.Type, "error", err)
	}
}

// Shutdown stops the retry worker after draining the queue, then closes the dead-letter file
func (rp *ResilientPublisher) Shutdown(ctx context.Context) error {
	rp.shutdownOnce.Do(func() { close(rp.shutdown) })

	done := make(chan struct{})
	go func() {
		rp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return rp.deadLetter.Close()
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
