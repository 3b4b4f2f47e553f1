package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusDraft                OrderStatus = "draft"
	StatusAwaitingConfirmation OrderStatus = "awaiting_confirmation"
	StatusConfirmed            OrderStatus = "confirmed"
)

// Source tells whether a field came from a Telegram share button or was typed.
type Source int

const (
	SourceTyped Source = iota
	SourceShared
)

// ErrOrderIncomplete is returned by Confirm when a required field is missing.
var ErrOrderIncomplete = errors.New("order is incomplete")

// ErrOrderConfirmed is returned when a confirmed order is modified or confirmed twice.
var ErrOrderConfirmed = errors.New("order is already confirmed")

// Phone is either a shared Telegram contact or a number typed by the passenger.
type Phone struct {
	Source Source
	Number string
}

func SharedPhone(number string) Phone { return Phone{Source: SourceShared, Number: number} }
func TypedPhone(number string) Phone  { return Phone{Source: SourceTyped, Number: number} }

func (p Phone) IsZero() bool { return strings.TrimSpace(p.Number) == "" }

func (p Phone) String() string { return p.Number }

// Place is either a shared location (coordinates) or a typed address.
type Place struct {
	Source  Source
	Address string  // typed address, empty for shared locations
	Lat     float64 // set only for shared locations
	Lon     float64
}

func SharedPlace(lat, lon float64) Place { return Place{Source: SourceShared, Lat: lat, Lon: lon} }
func TypedPlace(address string) Place    { return Place{Source: SourceTyped, Address: address} }

func (p Place) IsZero() bool {
	if p.Source == SourceShared {
		return false
	}
	return strings.TrimSpace(p.Address) == ""
}

func (p Place) String() string {
	if p.Source == SourceShared {
		return fmt.Sprintf("📍 Location: %v, %v", p.Lat, p.Lon)
	}
	return p.Address
}

// Order is a taxi order collected from a passenger. It is a draft until
// Confirm succeeds; after that it is only passed around by value.
type Order struct {
	ID                uuid.UUID
	PassengerID       int64  // Telegram user ID
	ChatID            int64  // chat the passenger talks to us in
	PassengerUsername string // Telegram @handle without the @, may be empty
	Name              string
	Phone             Phone
	Pickup            Place
	Dropoff           string
	Comment           string // optional
	Status            OrderStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ConfirmedAt       *time.Time
}

// NewDraft starts an empty order for a passenger.
func NewDraft(passengerID, chatID int64, username string) *Order {
	now := time.Now()
	return &Order{
		ID:                uuid.New(),
		PassengerID:       passengerID,
		ChatID:            chatID,
		PassengerUsername: username,
		Status:            StatusDraft,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// ShortID is the first block of the order UUID, used in chat messages.
func (o *Order) ShortID() string {
	return strings.SplitN(o.ID.String(), "-", 2)[0]
}

// Missing lists the required fields that are still empty.
func (o *Order) Missing() []string {
	var missing []string
	if strings.TrimSpace(o.Name) == "" {
		missing = append(missing, "name")
	}
	if o.Phone.IsZero() {
		missing = append(missing, "phone")
	}
	if o.Pickup.IsZero() {
		missing = append(missing, "pickup")
	}
	if strings.TrimSpace(o.Dropoff) == "" {
		missing = append(missing, "dropoff")
	}
	return missing
}

// Reset clears the collected fields but keeps the order identity.
func (o *Order) Reset() {
	o.Name = ""
	o.Phone = Phone{}
	o.Pickup = Place{}
	o.Dropoff = ""
	o.Comment = ""
	o.Status = StatusDraft
	o.UpdatedAt = time.Now()
}

// MarkAwaitingConfirmation flags a draft whose required fields are all set.
func (o *Order) MarkAwaitingConfirmation() {
	if o.Status == StatusDraft {
		o.Status = StatusAwaitingConfirmation
		o.UpdatedAt = time.Now()
	}
}

// Confirm marks the order confirmed. The comment never blocks confirmation.
func (o *Order) Confirm() error {
	if o.Status == StatusConfirmed {
		return ErrOrderConfirmed
	}
	if missing := o.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrOrderIncomplete, strings.Join(missing, ", "))
	}
	now := time.Now()
	o.Status = StatusConfirmed
	o.UpdatedAt = now
	o.ConfirmedAt = &now
	return nil
}

// Snapshot returns a copy that shares no pointers with the draft.
func (o *Order) Snapshot() Order {
	cp := *o
	if o.ConfirmedAt != nil {
		t := *o.ConfirmedAt
		cp.ConfirmedAt = &t
	}
	return cp
}
