// Package dispatch fans a confirmed order out to every registered driver and
// reports failed deliveries to the admin.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ridehub/taxi-bot/internal/metrics"
	"github.com/ridehub/taxi-bot/internal/models"
)

const DefaultTimeout = 10 * time.Second

var ErrSendTimeout = errors.New("send timed out")

// Sender delivers a text message to a Telegram chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// DriverSource lists driver chats in registry order.
type DriverSource interface {
	List() []int64
}

// FailureSink is told about dispatches that did not reach every driver.
type FailureSink interface {
	NotifyDispatchFailure(ctx context.Context, order models.Order, report Report)
}

// Report is the outcome of one dispatch.
type Report struct {
	OrderID       string
	Attempted     int
	FailedDrivers []int64 // in registry order
}

func (r Report) Failed() int {
	return len(r.FailedDrivers)
}

func (r Report) Delivered() int {
	return r.Attempted - r.Failed()
}

// NeedsAttention is true when nobody could be tried or some send failed.
func (r Report) NeedsAttention() bool {
	return r.Attempted == 0 || r.Failed() > 0
}

type Config struct {
	Timeout time.Duration // per driver send
}

type Dispatcher struct {
	drivers DriverSource
	sender  Sender
	sink    FailureSink
	timeout time.Duration
	logger  zerolog.Logger
}

func New(cfg Config, drivers DriverSource, sender Sender, sink FailureSink, logger zerolog.Logger) *Dispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		drivers: drivers,
		sender:  sender,
		sink:    sink,
		timeout: timeout,
		logger:  logger.With().Str("component", "dispatch").Logger(),
	}
}

// HandleOrder lets the conversation hand confirmed orders straight to dispatch.
func (d *Dispatcher) HandleOrder(ctx context.Context, order models.Order) {
	metrics.RecordOrderConfirmed()
	d.Dispatch(ctx, order)
}

// Dispatch sends the order to all drivers concurrently and waits for every
// attempt. It is not cancelled by ctx; each send is bounded by the timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, order models.Order) Report {
	ctx = context.WithoutCancel(ctx)
	drivers := d.drivers.List()
	text := RenderOrder(order)

	failed := make([]bool, len(drivers))
	var g errgroup.Group
	for i, chatID := range drivers {
		i, chatID := i, chatID
		g.Go(func() error {
			if err := d.send(ctx, chatID, text); err != nil {
				d.logger.Error().Err(err).Int64("driver", chatID).Str("order", order.ShortID()).
					Msg("Failed to send order to driver")
				failed[i] = true
			}
			metrics.RecordDriverDelivery(!failed[i])
			return nil
		})
	}
	_ = g.Wait()

	report := Report{OrderID: order.ShortID(), Attempted: len(drivers)}
	for i, chatID := range drivers {
		if failed[i] {
			report.FailedDrivers = append(report.FailedDrivers, chatID)
		}
	}

	d.logger.Info().Str("order", report.OrderID).Int("attempted", report.Attempted).
		Int("failed", report.Failed()).Msg("order dispatched")

	if report.NeedsAttention() && d.sink != nil {
		d.notify(ctx, order, report)
	}
	return report
}

// notify hands the report to the sink and waits at most one timeout for it.
func (d *Dispatcher) notify(ctx context.Context, order models.Order, report Report) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.sink.NotifyDispatchFailure(ctx, order, report)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		d.logger.Error().Str("order", report.OrderID).Dur("timeout", d.timeout).
			Msg("Admin notification timed out")
	}
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, text string) error {
	if err := SendWithin(ctx, d.sender, chatID, text, d.timeout); err != nil {
		return fmt.Errorf("send to driver %d: %w", chatID, err)
	}
	return nil
}

// SendWithin bounds a single delivery by timeout even if the sender ignores
// ctx. A sender still running when the timeout fires is abandoned.
func SendWithin(ctx context.Context, sender Sender, chatID int64, text string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sender.Send(ctx, chatID, text)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ErrSendTimeout
	}
}
