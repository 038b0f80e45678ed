// Package notify sends internal notifications (new enquiries, bookings).
// Delivery is fire-and-forget: a failed send is logged, never surfaced to
// the request that triggered it.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Message is a templated notification.
type Message struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

// Notifier delivers one message.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// LogNotifier writes messages to the log instead of a mail relay.
type LogNotifier struct {
	Logger *zap.SugaredLogger
}

func (n LogNotifier) Notify(_ context.Context, msg Message) error {
	n.Logger.Infow("notification", "to", msg.To, "subject", msg.Subject, "template", msg.Template, "data", msg.Data)
	return nil
}

// DefaultTimeout bounds one detached delivery.
const DefaultTimeout = 10 * time.Second

// Dispatcher runs deliveries in the background on a detached context.
type Dispatcher struct {
	notifier Notifier
	logger   *zap.SugaredLogger
	to       string
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher sends to `to` when a message carries no recipient.
func NewDispatcher(n Notifier, logger *zap.SugaredLogger, to string) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Dispatcher{notifier: n, logger: logger, to: to, timeout: DefaultTimeout}
}

// Send queues msg and returns immediately.
func (d *Dispatcher) Send(msg Message) {
	if d == nil || d.notifier == nil {
		return
	}
	if msg.To == "" {
		msg.To = d.to
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.notifier.Notify(ctx, msg); err != nil {
			d.logger.Warnw("notification failed", "template", msg.Template, "err", err)
		}
	}()
}

// Wait blocks until in-flight deliveries finish or ctx ends.
func (d *Dispatcher) Wait(ctx context.Context) error {
	if d == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
