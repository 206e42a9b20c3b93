package events

import (
	"errors"

	"github.com/smazurov/colornode/internal/colors"
	"github.com/smazurov/colornode/internal/hex"
)

// Event type constants for kelindar/event.
const (
	TypeColorApplied uint32 = iota + 1
	TypeColorRejected
	TypeRequestServed
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// Sources of a color change.
const (
	SourceForm = "form"
	SourceAPI  = "api"
	SourceBoot = "boot"
)

// ColorAppliedEvent is published after a color was written to every position and pushed.
type ColorAppliedEvent struct {
	Color     colors.Color `json:"color" doc:"Applied color channels"`
	Hex       string       `json:"hex" example:"00FF00" doc:"Applied color in wire format"`
	Positions int          `json:"positions" example:"16" doc:"Number of LED positions written"`
	Source    string       `json:"source" example:"form" doc:"What triggered the change: form, api or boot"`
	Timestamp string       `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ColorAppliedEvent.
func (e ColorAppliedEvent) Type() uint32 { return TypeColorApplied }

// ColorRejectedEvent is published when a submitted color could not be decoded or applied.
type ColorRejectedEvent struct {
	Input     string `json:"input" example:"ZZ" doc:"Raw submitted value"`
	Reason    string `json:"reason" example:"malformed" doc:"Failure kind: malformed, invalid_digit or device"`
	Error     string `json:"error" doc:"Detailed error description"`
	Source    string `json:"source" example:"form" doc:"Where the value was submitted"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ColorRejectedEvent.
func (e ColorRejectedEvent) Type() uint32 { return TypeColorRejected }

// RequestServedEvent is published for every request handled by the dispatcher.
type RequestServedEvent struct {
	Method    string `json:"method" example:"GET"`
	Path      string `json:"path" example:"/index.html"`
	Status    int    `json:"status" example:"200"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z"`
}

// Type returns the event type identifier for RequestServedEvent.
func (e RequestServedEvent) Type() uint32 { return TypeRequestServed }

// Rejection reasons.
const (
	ReasonMalformed    = "malformed"
	ReasonInvalidDigit = "invalid_digit"
	ReasonDevice       = "device"
)

// RejectReason classifies a decode or apply error.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, hex.ErrInvalidDigit):
		return ReasonInvalidDigit
	case errors.Is(err, colors.ErrMalformed):
		return ReasonMalformed
	default:
		return ReasonDevice
	}
}
