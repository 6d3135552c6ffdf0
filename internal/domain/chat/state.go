package chat

import "errors"

// TurnState represents where a conversation's active turn sits in its
// lifecycle.
type TurnState string

const (
	// TurnIdle means no turn is in flight.
	TurnIdle TurnState = "idle"
	// TurnSending covers persisting the user message and opening the stream.
	TurnSending TurnState = "sending"
	// TurnStreaming means chunks are being applied to the placeholder.
	TurnStreaming TurnState = "streaming"
	// TurnFinalizing covers enrichment and durable persistence of the answer.
	TurnFinalizing TurnState = "finalizing"
	// TurnErrored means the turn ended on a transport or persistence error.
	TurnErrored TurnState = "errored"
)

// ErrInvalidTransition is returned when a turn state transition is not allowed.
var ErrInvalidTransition = errors.New("invalid turn state transition")

// IsActive returns true while a turn occupies the conversation.
func (s TurnState) IsActive() bool {
	return s == TurnSending || s == TurnStreaming || s == TurnFinalizing
}

// String returns the string representation of the state.
func (s TurnState) String() string {
	return string(s)
}

// ValidTurnTransitions defines allowed turn state transitions.
var ValidTurnTransitions = map[TurnState][]TurnState{
	TurnIdle:       {TurnSending},
	TurnSending:    {TurnStreaming, TurnErrored},
	TurnStreaming:  {TurnFinalizing, TurnErrored},
	TurnFinalizing: {TurnIdle, TurnErrored},
	TurnErrored:    {TurnIdle},
}

// CanTransitionTo checks if a transition from the current state to target is valid.
func (s TurnState) CanTransitionTo(target TurnState) bool {
	validTargets, ok := ValidTurnTransitions[s]
	if !ok {
		return false
	}
	for _, t := range validTargets {
		if t == target {
			return true
		}
	}
	return false
}

// TransitionTo attempts to transition to the target state and returns an
// error if the transition is invalid.
func (s TurnState) TransitionTo(target TurnState) (TurnState, error) {
	if !s.CanTransitionTo(target) {
		return s, ErrInvalidTransition
	}
	return target, nil
}
