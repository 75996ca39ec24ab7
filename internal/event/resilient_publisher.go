package event

import (
	"context"
	"sync"
	"time"

	"github.com/emberfall-studios/skillforge/internal/logger"
)

// ResilientConfig configures the ResilientPublisher
type ResilientConfig struct {
	MaxRetries     int
	RetryDelay     time.Duration
	DeadLetterPath string
}

// ResilientPublisher wraps an event Bus with retry logic and a
// dead-letter file for events that never get through.
type ResilientPublisher struct {
	inner  Bus
	config ResilientConfig
	mu     sync.Mutex // Serializes dead-letter writes
}

// NewResilientPublisher creates a new ResilientPublisher
func NewResilientPublisher(inner Bus, config ResilientConfig) *ResilientPublisher {
	return &ResilientPublisher{
		inner:  inner,
		config: config,
	}
}

// Publish attempts to publish an event. On failure it hands the event
// to a background retry loop and still returns nil: callers on the
// grant-xp and tick paths must not block on event delivery.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return nil
	}

	logger.Warn(LogMsgEventPublishFailed,
		"event_type", event.Type,
		"error", err,
		"retries", p.config.MaxRetries)

	// Background retry on a detached context; the original request
	// context may already be cancelled.
	go p.retryLoop(event)

	return nil
}

func (p *ResilientPublisher) retryLoop(event Event) {
	ctx := context.Background()

	var lastErr error
	for i := 1; i <= p.config.MaxRetries; i++ {
		time.Sleep(p.config.RetryDelay * time.Duration(i)) // Simple linear backoff for now

		lastErr = p.inner.Publish(ctx, event)
		if lastErr == nil {
			logger.Info(LogMsgEventRetrySucceeded,
				"event_type", event.Type,
				"attempt", i)
			return
		}

		logger.Warn(LogMsgEventRetryFailed,
			"event_type", event.Type,
			"attempt", i,
			"error", lastErr)
	}

	p.writeToDeadLetter(event, lastErr)
}

func (p *ResilientPublisher) writeToDeadLetter(event Event, lastErr error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	writer, err := NewDeadLetterWriter(p.config.DeadLetterPath)
	if err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "error", err, "path", p.config.DeadLetterPath)
		return
	}
	defer writer.Close()

	if err := writer.Write(event, p.config.MaxRetries, lastErr); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "error", err)
		return
	}
	logger.Info(LogMsgEventRetryExhausted, "event_type", event.Type)
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}
