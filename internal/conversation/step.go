package conversation

// Step is where a passenger is in the order dialogue.
//
//	Idle ─start─> AwaitName ─> AwaitPhone ─> AwaitPickup ─> AwaitDropoff
//	  ─> AwaitCommentDecision ─┬─ add ─> AwaitCommentText ─┐
//	                           └─ skip ────────────────────┴─> AwaitConfirm ─confirm─> Done
//
// Cancel from any step goes to Cancelled and the passenger is Idle again.
// Done and Cancelled are only ever reported in a Reply; they are never stored.
type Step int

const (
	StepIdle Step = iota
	StepAwaitName
	StepAwaitPhone
	StepAwaitPickup
	StepAwaitDropoff
	StepAwaitCommentDecision
	StepAwaitCommentText
	StepAwaitConfirm
	StepDone
	StepCancelled
)

var stepNames = map[Step]string{
	StepIdle:                 "idle",
	StepAwaitName:            "await_name",
	StepAwaitPhone:           "await_phone",
	StepAwaitPickup:          "await_pickup",
	StepAwaitDropoff:         "await_dropoff",
	StepAwaitCommentDecision: "await_comment_decision",
	StepAwaitCommentText:     "await_comment_text",
	StepAwaitConfirm:         "await_confirm",
	StepDone:                 "done",
	StepCancelled:            "cancelled",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the step ends the conversation.
func (s Step) Terminal() bool {
	return s == StepDone || s == StepCancelled
}
