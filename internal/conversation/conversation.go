// Package conversation runs the passenger order dialogue: one state machine
// per passenger, each holding at most one draft order.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ridehub/taxi-bot/internal/models"
)

var (
	// ErrValueRequired means the awaited field got empty input.
	ErrValueRequired = errors.New("value is required")
	// ErrUnexpectedInput means the input kind is not accepted at the current step.
	ErrUnexpectedInput = errors.New("unexpected input")
	// ErrNothingToConfirm is returned for a confirm outside the confirmation step.
	ErrNothingToConfirm = errors.New("nothing to confirm")
	// ErrNoActiveOrder is returned for field input from an idle passenger.
	ErrNoActiveOrder = errors.New("no order in progress")
)

// OrderHandler receives every confirmed order. It must not report delivery
// problems back to the passenger.
type OrderHandler interface {
	HandleOrder(ctx context.Context, order models.Order)
}

// Passenger identifies who sent an input.
type Passenger struct {
	ID       int64
	ChatID   int64
	Username string
}

// Reply describes the result of one input. Step is the step after the input,
// Order a snapshot of the draft (or of the confirmed order when Step is Done).
type Reply struct {
	Step  Step
	Order models.Order
}

type session struct {
	step      Step
	draft     *models.Order
	updatedAt time.Time
	// set while the confirmed order is with the handler
	handingOff bool
}

// Machine owns all passenger sessions.
type Machine struct {
	mu       sync.Mutex
	sessions map[int64]*session
	handler  OrderHandler
	logger   zerolog.Logger
	now      func() time.Time
}

func New(handler OrderHandler, logger zerolog.Logger) *Machine {
	return &Machine{
		sessions: make(map[int64]*session),
		handler:  handler,
		logger:   logger.With().Str("component", "conversation").Logger(),
		now:      time.Now,
	}
}

// Handle applies one input. On error the session is left untouched and the
// returned Reply carries the current step so the caller can re-prompt.
func (m *Machine) Handle(ctx context.Context, p Passenger, in Input) (Reply, error) {
	// confirm manages the lock itself so the handoff runs unlocked
	if in == TriggerConfirm {
		return m.confirm(ctx, p.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := in.(Trigger); ok && t.control() {
		switch t {
		case TriggerStart:
			return m.start(p), nil
		case TriggerCancel:
			return m.cancel(p.ID), nil
		}
	}

	s, ok := m.sessions[p.ID]
	if !ok {
		return Reply{Step: StepIdle}, ErrNoActiveOrder
	}
	if s.handingOff {
		return reply(s), ErrUnexpectedInput
	}

	next, err := m.advance(s, in)
	if err != nil {
		m.logger.Debug().Int64("passenger", p.ID).Str("step", s.step.String()).Err(err).Msg("input rejected")
		return reply(s), err
	}

	m.logger.Debug().Int64("passenger", p.ID).
		Str("from", s.step.String()).Str("to", next.String()).Msg("step")
	s.step = next
	s.updatedAt = m.now()
	s.draft.UpdatedAt = s.updatedAt
	if next == StepAwaitConfirm {
		s.draft.MarkAwaitingConfirmation()
	}
	return reply(s), nil
}

// advance computes the next step for a field input and stores the value.
func (m *Machine) advance(s *session, in Input) (Step, error) {
	d := s.draft

	switch s.step {
	case StepAwaitName:
		text, err := requireText(in)
		if err != nil {
			return s.step, err
		}
		d.Name = text
		return StepAwaitPhone, nil

	case StepAwaitPhone:
		if c, ok := in.(SharedContact); ok {
			if c.Phone == "" {
				return s.step, fmt.Errorf("%w: contact has no phone number", ErrValueRequired)
			}
			d.Phone = models.SharedPhone(c.Phone)
			return StepAwaitPickup, nil
		}
		text, err := requireText(in)
		if err != nil {
			return s.step, err
		}
		d.Phone = models.TypedPhone(text)
		return StepAwaitPickup, nil

	case StepAwaitPickup:
		if l, ok := in.(SharedLocation); ok {
			d.Pickup = models.SharedPlace(l.Lat, l.Lon)
			return StepAwaitDropoff, nil
		}
		text, err := requireText(in)
		if err != nil {
			return s.step, err
		}
		d.Pickup = models.TypedPlace(text)
		return StepAwaitDropoff, nil

	case StepAwaitDropoff:
		text, err := requireText(in)
		if err != nil {
			return s.step, err
		}
		d.Dropoff = text
		return StepAwaitCommentDecision, nil

	case StepAwaitCommentDecision:
		switch v := in.(type) {
		case Trigger:
			switch v {
			case TriggerAddComment:
				return StepAwaitCommentText, nil
			case TriggerSkipComment:
				d.Comment = ""
				return StepAwaitConfirm, nil
			}
		case Text:
			// typed straight away instead of pressing "add comment"
			d.Comment = v.trimmed()
			return StepAwaitConfirm, nil
		}
		return s.step, ErrUnexpectedInput

	case StepAwaitCommentText:
		switch v := in.(type) {
		case Text:
			d.Comment = v.trimmed()
			return StepAwaitConfirm, nil
		case Trigger:
			if v == TriggerSkipComment {
				d.Comment = ""
				return StepAwaitConfirm, nil
			}
		}
		return s.step, ErrUnexpectedInput

	case StepAwaitConfirm:
		if t, ok := in.(Trigger); ok {
			switch t {
			case TriggerEdit:
				d.Reset()
				return StepAwaitName, nil
			case TriggerAddComment:
				return StepAwaitCommentText, nil
			}
		}
		return s.step, ErrUnexpectedInput
	}

	return s.step, ErrUnexpectedInput
}

func (m *Machine) start(p Passenger) Reply {
	if old, ok := m.sessions[p.ID]; ok {
		m.logger.Info().Int64("passenger", p.ID).Str("order", old.draft.ShortID()).Msg("draft replaced by new order")
	}
	s := &session{
		step:      StepAwaitName,
		draft:     models.NewDraft(p.ID, p.ChatID, p.Username),
		updatedAt: m.now(),
	}
	m.sessions[p.ID] = s
	m.logger.Debug().Int64("passenger", p.ID).Str("order", s.draft.ShortID()).Msg("order started")
	return reply(s)
}

func (m *Machine) cancel(passengerID int64) Reply {
	if s, ok := m.sessions[passengerID]; ok {
		m.logger.Info().Int64("passenger", passengerID).Str("order", s.draft.ShortID()).Msg("order cancelled")
		delete(m.sessions, passengerID)
	}
	return Reply{Step: StepCancelled}
}

// confirm hands the order over without holding m.mu, so a slow handler does
// not stall other passengers or the purge job. The session stays in
// StepAwaitConfirm until the handler returns.
func (m *Machine) confirm(ctx context.Context, passengerID int64) (Reply, error) {
	m.mu.Lock()
	s, ok := m.sessions[passengerID]
	if !ok {
		m.mu.Unlock()
		return Reply{Step: StepIdle}, ErrNothingToConfirm
	}
	if s.step != StepAwaitConfirm || s.handingOff {
		r := reply(s)
		m.mu.Unlock()
		return r, ErrNothingToConfirm
	}
	if err := s.draft.Confirm(); err != nil {
		r := reply(s)
		m.mu.Unlock()
		return r, err
	}
	s.handingOff = true
	order := s.draft.Snapshot()
	m.mu.Unlock()

	m.logger.Info().Int64("passenger", passengerID).Str("order", order.ShortID()).Msg("order confirmed")
	if m.handler != nil {
		m.handler.HandleOrder(ctx, order)
	}

	m.mu.Lock()
	// a /order or /cancel during the handoff already replaced or dropped it
	if m.sessions[passengerID] == s {
		delete(m.sessions, passengerID)
	}
	m.mu.Unlock()

	return Reply{Step: StepDone, Order: order}, nil
}

// Step returns the stored step for a passenger, StepIdle when there is none.
func (m *Machine) Step(passengerID int64) Step {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[passengerID]; ok {
		return s.step
	}
	return StepIdle
}

// Draft returns a copy of the passenger's draft.
func (m *Machine) Draft(passengerID int64) (models.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[passengerID]
	if !ok {
		return models.Order{}, false
	}
	return s.draft.Snapshot(), true
}

// Active returns the number of drafts in progress.
func (m *Machine) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// PurgeStale drops drafts untouched for longer than olderThan and returns
// how many were dropped.
func (m *Machine) PurgeStale(olderThan time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-olderThan)
	purged := 0
	for id, s := range m.sessions {
		if s.updatedAt.Before(cutoff) {
			delete(m.sessions, id)
			purged++
		}
	}
	return purged
}

func reply(s *session) Reply {
	return Reply{Step: s.step, Order: s.draft.Snapshot()}
}

func requireText(in Input) (string, error) {
	t, ok := in.(Text)
	if !ok {
		return "", ErrUnexpectedInput
	}
	text := t.trimmed()
	if text == "" {
		return "", ErrValueRequired
	}
	return text, nil
}
