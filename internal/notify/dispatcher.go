package notify

import (
	"context"
	"sync"
	"time"

	"invest_platform/internal/metrics"

	"github.com/sirupsen/logrus"
)

// Dispatcher sends notifications on detached goroutines so callers never wait on the relay
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	metrics  *metrics.Metrics
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. m may be nil.
func NewDispatcher(n Notifier, timeout time.Duration, m *metrics.Metrics) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{notifier: n, timeout: timeout, metrics: m}
}

// Dispatch returns immediately. A failed send is logged and counted, never returned.
func (d *Dispatcher) Dispatch(text string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		err := d.notifier.Notify(ctx, text)
		result := "ok"
		if err != nil {
			result = "error"
			logrus.WithError(err).Warn("Operator notification failed")
		}
		if d.metrics != nil {
			d.metrics.Notifications.WithLabelValues(result).Inc()
		}
	}()
}

// Wait blocks until every dispatched notification has finished
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
