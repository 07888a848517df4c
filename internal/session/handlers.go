package session

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/connect4-client/internal/board"
	"github.com/DoyleJ11/connect4-client/internal/engine"
	"github.com/DoyleJ11/connect4-client/internal/invite"
	"github.com/DoyleJ11/connect4-client/internal/turnsync"
	"github.com/DoyleJ11/connect4-client/internal/types"
	wire "github.com/DoyleJ11/connect4-client/pkg/types"
)

func (s *Session) handleServer(msg wire.Inbound) {
	switch m := msg.(type) {
	case wire.RosterSnapshot:
		if s.roster.Replace(m.Names) {
			s.log.Debug("roster replaced", zap.Int("players", s.roster.Len()))
			e := s.event(EvtRosterUpdated)
			e.Roster = s.roster.Names()
			s.emit(e)
		}

	case wire.Presence:
		s.send(s.roster.RequestRefresh())

	case wire.InviteRequest:
		s.onInvite(m)

	case wire.InviteResponse:
		s.onInviteResponse(m)

	case wire.PairingNames:
		s.onPairingNames(m)

	case wire.Enters:
		e := s.event(EvtPlayersReady)
		e.Text = fmt.Sprintf("player%d", m.Player)
		s.emit(e)

	case wire.CountdownTick:
		s.onCountdown(m.Value)

	case wire.GameSnapshot:
		s.onSnapshot(m)
	}
}

func (s *Session) onInvite(m wire.InviteRequest) {
	if _, ok := s.match.Phase.(engine.AwaitingRoster); !ok {
		s.log.Info("invitation dropped, another one is in progress", zap.String("origin", m.Origin))
		return
	}
	if !s.neg.Receive(m.Origin, m.Message) {
		s.log.Info("invitation dropped", zap.String("origin", m.Origin))
		return
	}
	if err := s.match.AwaitInvitation(engine.Inbound, m.Origin); err != nil {
		s.neg.Reset()
		s.log.Warn("cannot hold invitation", zap.Error(err))
		return
	}
	s.afterTransition()
	e := s.event(EvtInvitationReceived)
	e.Peer = m.Origin
	e.Text = m.Message
	s.emit(e)
}

func (s *Session) onInviteResponse(m wire.InviteResponse) {
	switch s.neg.Respond(m.Origin, m.Accepted) {
	case invite.Ignored:
		s.log.Debug("invite response ignored", zap.String("origin", m.Origin))

	case invite.Accepted:
		switch s.match.Phase.(type) {
		case engine.InvitationPending:
			next, err := s.match.Pair(m.Origin, true, true)
			if err != nil {
				s.log.Warn("cannot pair", zap.Error(err))
				return
			}
			s.match = next
		default:
			if err := s.match.Confirm(m.Origin); err != nil {
				s.log.Warn("cannot confirm pairing", zap.Error(err))
				return
			}
		}
		s.afterTransition()
		e := s.event(EvtPairingConfirmed)
		e.Peer = m.Origin
		s.emit(e)
		s.arm(timerProceed, s.opts.PairingDelay)

	case invite.Rejected:
		e := s.event(EvtInvitationRejected)
		e.Peer = m.Origin
		s.emit(e)
		if _, ok := s.match.Phase.(engine.InvitationPending); ok {
			s.startBrowsing()
			return
		}
		s.arm(timerRejected, s.opts.RejectionDelay)
	}
}

// onPairingNames confirms the opponent on the invitee side. The inviter already
// knows who it paired with.
func (s *Session) onPairingNames(m wire.PairingNames) {
	if s.match.IsInviter {
		return
	}
	var opponent string
	switch s.opts.LocalPlayer {
	case m.Player1:
		opponent = m.Player2
	case m.Player2:
		opponent = m.Player1
	default:
		s.log.Info("pairing names do not include the local player",
			zap.String("player1", m.Player1), zap.String("player2", m.Player2))
		return
	}
	if err := s.match.Confirm(opponent); err != nil {
		s.log.Warn("cannot confirm pairing", zap.Error(err))
		return
	}
	e := s.event(EvtPairingConfirmed)
	e.Peer = s.match.Opponent
	s.emit(e)
	s.arm(timerProceed, s.opts.PairingDelay)
}

func (s *Session) onCountdown(value int) {
	switch s.stage {
	case stagePairing:
		if value != CountdownStart || !s.match.Confirmed() {
			s.log.Debug("countdown before pairing settled", zap.Int("value", value))
			return
		}
		s.proceedToCountdown()

	case stageCountdown:
		if err := s.match.Countdown(value); err != nil {
			s.log.Warn("countdown rejected", zap.Error(err))
			return
		}
		e := s.event(EvtCountdownTick)
		e.Countdown = value
		s.emit(e)
		if value <= 0 {
			s.arm(timerGo, s.opts.GoDelay)
		}
	}
}

// proceedToCountdown leaves the pairing screen. It is reached from the pairing
// delay, a countdown tick or a game snapshot, whichever comes first.
func (s *Session) proceedToCountdown() {
	if _, ok := s.match.Phase.(engine.Paired); !ok {
		return
	}
	if err := s.match.Countdown(CountdownStart); err != nil {
		s.log.Debug("countdown not started", zap.Error(err))
		return
	}
	s.afterTransition()
	e := s.event(EvtCountdownTick)
	e.Countdown = CountdownStart
	s.emit(e)
}

func (s *Session) onSnapshot(snap wire.GameSnapshot) {
	if s.stage == stagePairing {
		if !s.match.Confirmed() {
			s.log.Debug("snapshot before pairing settled", zap.String("status", snap.Status))
			return
		}
		s.proceedToCountdown()
		if turnsync.ParseStatus(snap.Status) == turnsync.StatusWaiting {
			return
		}
	}
	s.applySnapshot(snap)
}

func (s *Session) applySnapshot(snap wire.GameSnapshot) {
	out, err := s.sync.Apply(s.match, snap)
	if err != nil {
		s.log.Warn("snapshot not applied", zap.Error(err), zap.String("status", snap.Status))
		return
	}
	if out.Rematch {
		s.cancelTimer()
	}
	s.afterTransition()

	switch {
	case out.Duplicate:
		s.log.Debug("duplicate result ignored", zap.String("status", string(out.Status)))

	case out.Finished:
		e := s.event(EvtMatchFinished)
		if r, ok := s.match.Result(); ok {
			e.Result = &r
		}
		e.Highlight = s.match.Phase.(engine.Finished).Highlight
		s.emit(e)
		if s.recorder != nil {
			s.recorder.Record(s.match.View())
		}
		s.arm(timerLinger, s.opts.FinishLinger)

	case out.Status == turnsync.StatusPlaying:
		e := s.event(EvtBoardUpdated)
		e.LocalTurn = s.match.LocalTurn()
		s.emit(e)
	}
}

// startBrowsing discards the current match and asks for a fresh roster.
func (s *Session) startBrowsing() {
	s.match = engine.NewMatch(s.opts.LocalPlayer)
	if err := s.match.Browse(); err != nil {
		s.log.Error("cannot browse", zap.Error(err))
		return
	}
	s.neg.Reset()
	s.afterTransition()
	s.send(s.roster.RequestRefresh())
}

func (s *Session) selectOpponent(name string) error {
	switch s.match.Phase.(type) {
	case engine.AwaitingRoster:
	case engine.InvitationPending:
		return invite.ErrBusy
	default:
		return fmt.Errorf("%w: %s", ErrWrongPhase, s.match.Phase.Name())
	}
	intent, err := s.neg.Send(name, s.opts.InvitePrompt)
	if err != nil {
		return err
	}
	if !s.roster.Contains(name) {
		s.log.Info("inviting a player missing from the roster", zap.String("destination", name))
	}
	s.send(intent)

	if s.opts.OptimisticPairing {
		next, err := s.match.Pair(name, true, false)
		if err != nil {
			return err
		}
		s.match = next
	} else if err := s.match.AwaitInvitation(engine.Outbound, name); err != nil {
		return err
	}
	s.afterTransition()
	return nil
}

func (s *Session) accept() error {
	intent, origin, err := s.neg.Accept()
	if err != nil {
		return err
	}
	s.send(intent)
	next, err := s.match.Pair(origin, false, true)
	if err != nil {
		return err
	}
	s.match = next
	s.afterTransition()
	e := s.event(EvtInvitationAccepted)
	e.Peer = origin
	s.emit(e)
	return nil
}

func (s *Session) reject(dismiss bool) error {
	var (
		intent types.Intent
		err    error
	)
	if dismiss {
		intent, err = s.neg.Dismiss()
	} else {
		intent, err = s.neg.Reject()
	}
	if err != nil {
		return err
	}
	s.send(intent)
	if err := s.match.Browse(); err != nil {
		return err
	}
	s.afterTransition()
	return nil
}

// dropPiece asks the server for a move. The board only changes when the next
// snapshot arrives.
func (s *Session) dropPiece(column int) error {
	if !board.ValidColumn(column) {
		return fmt.Errorf("%w: %d", ErrBadColumn, column)
	}
	p, ok := s.match.Phase.(engine.Playing)
	if !ok {
		return ErrNotStarted
	}
	if !p.LocalTurn {
		return ErrNotYourTurn
	}
	s.send(types.SubmitMove{Column: column})
	return nil
}

func (s *Session) backToRoster() error {
	if s.stage == stageBrowsing {
		p, ok := s.match.Phase.(engine.InvitationPending)
		if !ok || p.Direction != engine.Outbound {
			s.send(s.roster.RequestRefresh())
			return nil
		}
		s.log.Info("outbound invitation abandoned", zap.String("destination", p.Peer))
	}
	s.startBrowsing()
	if s.stage != stageBrowsing {
		return errors.New("could not return to the roster")
	}
	return nil
}
