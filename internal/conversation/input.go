package conversation

import "strings"

// Input is one passenger action. It is one of Text, SharedContact,
// SharedLocation or Trigger.
type Input interface {
	isInput()
}

// Text is anything the passenger typed.
type Text string

// SharedContact is a contact sent with the "share contact" button.
type SharedContact struct {
	Phone string
}

// SharedLocation is a location sent with the "send location" button.
type SharedLocation struct {
	Lat float64
	Lon float64
}

// Trigger is a reserved control action from a command or button.
type Trigger int

const (
	TriggerStart Trigger = iota + 1
	TriggerCancel
	TriggerConfirm
	TriggerEdit
	TriggerAddComment
	TriggerSkipComment
)

func (Text) isInput()           {}
func (SharedContact) isInput()  {}
func (SharedLocation) isInput() {}
func (Trigger) isInput()        {}

func (t Text) trimmed() string { return strings.TrimSpace(string(t)) }

func (t Trigger) String() string {
	switch t {
	case TriggerStart:
		return "start"
	case TriggerCancel:
		return "cancel"
	case TriggerConfirm:
		return "confirm"
	case TriggerEdit:
		return "edit"
	case TriggerAddComment:
		return "add_comment"
	case TriggerSkipComment:
		return "skip_comment"
	default:
		return "unknown"
	}
}

// control reports whether the trigger overrides whatever field is awaited.
func (t Trigger) control() bool {
	return t == TriggerStart || t == TriggerCancel || t == TriggerConfirm
}
