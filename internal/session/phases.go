package session

import (
	"go.uber.org/zap"

	"github.com/DoyleJ11/connect4-client/internal/engine"
	wire "github.com/DoyleJ11/connect4-client/pkg/types"
)

// stage is the screen-level grouping of phases. Each stage holds its own router
// subscription and only accepts the message kinds it can act on.
type stage int

const (
	stageNone stage = iota
	stageBrowsing
	stagePairing
	stageCountdown
	stageGame
)

func (st stage) String() string {
	switch st {
	case stageBrowsing:
		return "browsing"
	case stagePairing:
		return "pairing"
	case stageCountdown:
		return "countdown"
	case stageGame:
		return "game"
	default:
		return "none"
	}
}

func stageFor(p engine.Phase) stage {
	switch p.(type) {
	case engine.AwaitingRoster, engine.InvitationPending:
		return stageBrowsing
	case engine.Paired:
		return stagePairing
	case engine.CountdownActive:
		return stageCountdown
	case engine.Playing, engine.Finished:
		return stageGame
	default:
		return stageNone
	}
}

var accepts = map[stage]map[string]bool{
	stageBrowsing: {
		wire.TypeClients:        true,
		wire.TypeUserJoined:     true,
		wire.TypeUserLeft:       true,
		wire.TypeInvite:         true,
		wire.TypeInviteResponse: true,
	},
	stagePairing: {
		wire.TypeInviteResponse: true,
		wire.TypeNameClient:     true,
		wire.TypeEntersPlayer1:  true,
		wire.TypeEntersPlayer2:  true,
		wire.TypeCountdown:      true,
		wire.TypeServerData:     true,
	},
	stageCountdown: {
		wire.TypeEntersPlayer1: true,
		wire.TypeEntersPlayer2: true,
		wire.TypeCountdown:     true,
		wire.TypeServerData:    true,
	},
	stageGame: {
		wire.TypeServerData: true,
	},
}

// phaseHandler is the router subscriber for one stage entry. It runs on the
// transport goroutine and only forwards into the session inbox.
type phaseHandler struct {
	s     *Session
	gen   uint64
	stage stage
}

func (h *phaseHandler) deliver(msg wire.Inbound) {
	if !accepts[h.stage][msg.Type()] {
		h.s.log.Debug("message not expected in phase, ignored",
			zap.String("type", msg.Type()), zap.Stringer("stage", h.stage))
		return
	}
	h.s.post(fromServer{gen: h.gen, msg: msg})
}

func (h *phaseHandler) Roster(m wire.RosterSnapshot)         { h.deliver(m) }
func (h *phaseHandler) Presence(m wire.Presence)             { h.deliver(m) }
func (h *phaseHandler) Invite(m wire.InviteRequest)          { h.deliver(m) }
func (h *phaseHandler) InviteResponse(m wire.InviteResponse) { h.deliver(m) }
func (h *phaseHandler) Countdown(m wire.CountdownTick)       { h.deliver(m) }
func (h *phaseHandler) GameSnapshot(m wire.GameSnapshot)     { h.deliver(m) }
func (h *phaseHandler) PairingNames(m wire.PairingNames)     { h.deliver(m) }
func (h *phaseHandler) Enters(m wire.Enters)                 { h.deliver(m) }

// enter swaps the router subscription over to next. Whatever the old stage had
// in flight (timer, routed messages) is abandoned.
func (s *Session) enter(next stage) {
	s.cancelTimer()
	if s.sub != nil {
		s.sub.Release()
	}
	prev := s.stage
	s.gen++
	s.stage = next
	s.sub = s.router.Subscribe(next.String(), &phaseHandler{s: s, gen: s.gen, stage: next})
	if prev == stagePairing || next == stageBrowsing {
		s.neg.Reset()
	}
	s.log.Debug("phase entered", zap.Stringer("from", prev), zap.String("subscriber", s.sub.Name()), zap.Uint64("gen", s.gen))
}

// afterTransition re-subscribes when the stage changed and reports the new phase.
func (s *Session) afterTransition() {
	if st := stageFor(s.match.Phase); st != s.stage {
		s.enter(st)
	}
	name, id := s.match.Phase.Name(), s.match.ID.String()
	if name != s.lastPhase || id != s.lastMatch {
		s.lastPhase, s.lastMatch = name, id
		e := s.event(EvtPhaseChanged)
		e.Peer = s.match.Opponent
		s.emit(e)
	}
}
