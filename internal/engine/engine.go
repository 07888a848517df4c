package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/DoyleJ11/connect4-client/internal/board"
)

var ErrInvalidTransition = errors.New("invalid phase transition")
var ErrAlreadyFinished = errors.New("match already finished")
var ErrNotConfirmed = errors.New("pairing not confirmed")

// Phase is the lifecycle stage of a match. Each concrete phase carries only the
// fields that are meaningful in it.
type Phase interface {
	isPhase()
	Name() string
}

type Direction string

const (
	Outbound Direction = "outbound"
	Inbound  Direction = "inbound"
)

// Idle is a match that has not started browsing yet.
type Idle struct{}

// AwaitingRoster is roster browsing: the client is waiting for or looking at the
// list of inviteable players.
type AwaitingRoster struct{}

// InvitationPending is an invitation awaiting a decision, either ours (Outbound)
// or the peer's (Inbound).
type InvitationPending struct {
	Direction Direction
	Peer      string
}

// Paired means an opponent is chosen. Confirmed is false while an inviter is still
// waiting for the invite response.
type Paired struct {
	Opponent  string
	Inviter   bool
	Confirmed bool
}

// CountdownActive holds the last countdown value the server sent.
type CountdownActive struct {
	Value int
}

// Playing is an actionable match. LocalTurn is only meaningful here.
type Playing struct {
	LocalTurn bool
}

// Finished is terminal for the match instance. Highlight is the advisory
// four-in-a-row, nil when the local scan found none.
type Finished struct {
	Result    Result
	Highlight []board.Pos
}

func (Idle) isPhase()              {}
func (AwaitingRoster) isPhase()    {}
func (InvitationPending) isPhase() {}
func (Paired) isPhase()            {}
func (CountdownActive) isPhase()   {}
func (Playing) isPhase()           {}
func (Finished) isPhase()          {}

func (Idle) Name() string           { return "idle" }
func (AwaitingRoster) Name() string { return "awaiting_roster" }
func (p InvitationPending) Name() string {
	return "invitation_pending_" + string(p.Direction)
}
func (Paired) Name() string          { return "paired" }
func (CountdownActive) Name() string { return "countdown" }
func (Playing) Name() string         { return "playing" }
func (Finished) Name() string        { return "finished" }

type ResultKind string

const (
	ResultWin  ResultKind = "win"
	ResultDraw ResultKind = "draw"
)

type Result struct {
	Kind   ResultKind `json:"kind"`
	Winner string     `json:"winner,omitempty"`
}

func Win(winner string) Result { return Result{Kind: ResultWin, Winner: winner} }
func Draw() Result             { return Result{Kind: ResultDraw} }

// Match is the single source of truth for one match instance. It is owned by the
// session goroutine; everything else sees View copies.
type Match struct {
	ID          uuid.UUID
	LocalPlayer string
	Opponent    string
	IsInviter   bool
	// Role is the server-assigned color of the local player, "" until resolved.
	Role  string
	Board board.Board
	Phase Phase
}

func NewMatch(localPlayer string) *Match {
	return &Match{
		ID:          uuid.New(),
		LocalPlayer: localPlayer,
		Phase:       Idle{},
	}
}

func (m *Match) invalid(to string) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.Phase.Name(), to)
}

// Browse enters roster browsing. An inbound invitation that was declined and a
// non-optimistic outbound invitation that was rejected both come back here.
func (m *Match) Browse() error {
	switch m.Phase.(type) {
	case Idle, AwaitingRoster, InvitationPending:
		m.Phase = AwaitingRoster{}
		return nil
	default:
		return m.invalid("awaiting_roster")
	}
}

func (m *Match) AwaitInvitation(dir Direction, peer string) error {
	if _, ok := m.Phase.(AwaitingRoster); !ok {
		return m.invalid("invitation_pending")
	}
	m.Phase = InvitationPending{Direction: dir, Peer: peer}
	return nil
}

// Pair starts a brand-new match instance against opponent. Nothing but the local
// player carries over from the receiver.
func (m *Match) Pair(opponent string, inviter, confirmed bool) (*Match, error) {
	switch m.Phase.(type) {
	case AwaitingRoster, InvitationPending:
	default:
		return nil, m.invalid("paired")
	}
	next := NewMatch(m.LocalPlayer)
	next.Opponent = opponent
	next.IsInviter = inviter
	next.Phase = Paired{Opponent: opponent, Inviter: inviter, Confirmed: confirmed}
	return next, nil
}

// Confirm marks the pairing as accepted by both sides.
func (m *Match) Confirm(opponent string) error {
	p, ok := m.Phase.(Paired)
	if !ok {
		return m.invalid("paired")
	}
	if opponent != "" {
		m.Opponent = opponent
		p.Opponent = opponent
	}
	p.Confirmed = true
	m.Phase = p
	return nil
}

func (m *Match) Confirmed() bool {
	switch p := m.Phase.(type) {
	case Paired:
		return p.Confirmed
	case CountdownActive, Playing, Finished:
		return true
	default:
		return false
	}
}

// Countdown enters or updates the countdown. Only a confirmed pairing may start it.
func (m *Match) Countdown(value int) error {
	switch p := m.Phase.(type) {
	case Paired:
		if !p.Confirmed {
			return ErrNotConfirmed
		}
	case CountdownActive:
	default:
		return m.invalid("countdown")
	}
	m.Phase = CountdownActive{Value: value}
	return nil
}

// Play replaces the board and turn owner. From Finished it clears the result,
// which is how a server-side restart of the same match is followed.
func (m *Match) Play(b board.Board, localTurn bool) error {
	switch m.Phase.(type) {
	case CountdownActive, Playing, Finished:
	default:
		return m.invalid("playing")
	}
	m.Board = b
	m.Phase = Playing{LocalTurn: localTurn}
	return nil
}

// Hold keeps a playing match but makes it not actionable.
func (m *Match) Hold() {
	if _, ok := m.Phase.(Playing); ok {
		m.Phase = Playing{LocalTurn: false}
	}
}

// Finish sets the result. It succeeds at most once per instance.
func (m *Match) Finish(b board.Board, r Result, highlight []board.Pos) error {
	switch m.Phase.(type) {
	case Finished:
		return ErrAlreadyFinished
	case CountdownActive, Playing:
	default:
		return m.invalid("finished")
	}
	m.Board = b
	m.Phase = Finished{Result: r, Highlight: highlight}
	return nil
}
