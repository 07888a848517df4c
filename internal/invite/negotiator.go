// Package invite owns the invitation protocol: at most one invitation is active
// for a decision and each one resolves exactly once.
package invite

import (
	"errors"

	"github.com/DoyleJ11/connect4-client/internal/types"
)

var (
	ErrSelf         = errors.New("cannot invite yourself")
	ErrNoOpponent   = errors.New("no opponent selected")
	ErrBusy         = errors.New("an invitation is already in progress")
	ErrNoInvitation = errors.New("no invitation awaiting a decision")
)

type State int

const (
	None State = iota
	OutboundPending
	InboundPending
)

func (s State) String() string {
	switch s {
	case OutboundPending:
		return "outbound_pending"
	case InboundPending:
		return "inbound_pending"
	default:
		return "none"
	}
}

type Invitation struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Prompt      string `json:"prompt,omitempty"`
}

// Outcome is what an inbound invite-response means for the local inviter.
type Outcome int

const (
	Ignored Outcome = iota
	Accepted
	Rejected
)

type Negotiator struct {
	self    string
	state   State
	current Invitation
}

func New(self string) *Negotiator {
	return &Negotiator{self: self}
}

func (n *Negotiator) State() State { return n.state }

// Current returns the active invitation, if any.
func (n *Negotiator) Current() (Invitation, bool) {
	if n.state == None {
		return Invitation{}, false
	}
	return n.current, true
}

// Send starts an outbound invitation to destination.
func (n *Negotiator) Send(destination, prompt string) (types.Intent, error) {
	switch {
	case destination == "":
		return nil, ErrNoOpponent
	case destination == n.self:
		return nil, ErrSelf
	case n.state != None:
		return nil, ErrBusy
	}
	n.state = OutboundPending
	n.current = Invitation{Origin: n.self, Destination: destination, Prompt: prompt}
	return types.SendInvite{Destination: destination, Message: prompt}, nil
}

// Receive registers an inbound invitation. It returns false, leaving everything as
// it was, when another invitation is active or the origin is unusable; surplus
// invitations are dropped, never queued.
func (n *Negotiator) Receive(origin, prompt string) bool {
	if n.state != None || origin == "" || origin == n.self {
		return false
	}
	n.state = InboundPending
	n.current = Invitation{Origin: origin, Destination: n.self, Prompt: prompt}
	return true
}

// Accept resolves the inbound invitation positively and returns the response to
// send together with the inviter's name.
func (n *Negotiator) Accept() (types.Intent, string, error) {
	if n.state != InboundPending {
		return nil, "", ErrNoInvitation
	}
	origin := n.current.Origin
	n.Reset()
	return types.RespondInvite{Destination: origin, Accepted: true}, origin, nil
}

// Reject resolves the inbound invitation negatively.
func (n *Negotiator) Reject() (types.Intent, error) {
	if n.state != InboundPending {
		return nil, ErrNoInvitation
	}
	origin := n.current.Origin
	n.Reset()
	return types.RespondInvite{Destination: origin, Accepted: false}, nil
}

// Dismiss closes the decision without an explicit choice, which counts as a rejection.
func (n *Negotiator) Dismiss() (types.Intent, error) {
	return n.Reject()
}

// Respond applies an inbound invite-response. Only a response from the player we
// invited counts.
func (n *Negotiator) Respond(origin string, accepted bool) Outcome {
	if n.state != OutboundPending || origin != n.current.Destination {
		return Ignored
	}
	n.Reset()
	if accepted {
		return Accepted
	}
	return Rejected
}

// Reset abandons whatever is in flight without emitting anything.
func (n *Negotiator) Reset() {
	n.state = None
	n.current = Invitation{}
}
