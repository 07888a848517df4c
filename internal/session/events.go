package session

import (
	"go.uber.org/zap"

	"github.com/DoyleJ11/connect4-client/internal/board"
	"github.com/DoyleJ11/connect4-client/internal/engine"
)

type EventKind string

const (
	EvtPhaseChanged       EventKind = "phase_changed"
	EvtRosterUpdated      EventKind = "roster_updated"
	EvtInvitationReceived EventKind = "invitation_received"
	EvtInvitationAccepted EventKind = "invitation_accepted"
	EvtInvitationRejected EventKind = "invitation_rejected"
	EvtPairingConfirmed   EventKind = "pairing_confirmed"
	EvtPlayersReady       EventKind = "players_ready"
	EvtCountdownTick      EventKind = "countdown_tick"
	EvtBoardUpdated       EventKind = "board_updated"
	EvtMatchFinished      EventKind = "match_finished"
	EvtResultsReady       EventKind = "results_ready"
)

// Event tells the presentation layer something changed. Only the fields relevant
// to Kind are set; the full picture is always available from State.
type Event struct {
	Kind      EventKind      `json:"kind"`
	Phase     string         `json:"phase"`
	MatchID   string         `json:"match_id"`
	Peer      string         `json:"peer,omitempty"`
	Text      string         `json:"text,omitempty"`
	Countdown int            `json:"countdown,omitempty"`
	Roster    []string       `json:"roster,omitempty"`
	LocalTurn bool           `json:"local_turn,omitempty"`
	Result    *engine.Result `json:"result,omitempty"`
	Highlight []board.Pos    `json:"highlight,omitempty"`
}

func (s *Session) event(kind EventKind) Event {
	return Event{
		Kind:    kind,
		Phase:   s.match.Phase.Name(),
		MatchID: s.match.ID.String(),
	}
}

// emit never blocks the loop; a consumer that falls behind loses events.
func (s *Session) emit(e Event) {
	select {
	case s.events <- e:
	default:
		s.log.Warn("event buffer full, event dropped", zap.String("kind", string(e.Kind)))
	}
}
