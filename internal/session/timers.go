package session

import (
	"time"

	"go.uber.org/zap"
)

type timerKind int

const (
	timerNone timerKind = iota
	// pairing screen -> countdown
	timerProceed
	// rejection notice -> roster
	timerRejected
	// countdown at zero -> board
	timerGo
	// finished board -> results
	timerLinger
)

func (k timerKind) String() string {
	switch k {
	case timerProceed:
		return "proceed"
	case timerRejected:
		return "rejected"
	case timerGo:
		return "go"
	case timerLinger:
		return "linger"
	default:
		return "none"
	}
}

// arm replaces whatever timer is pending. Each arm gets a new generation so a
// fire that raced with cancellation is recognised and dropped by the loop.
func (s *Session) arm(kind timerKind, d time.Duration) {
	s.cancelTimer()
	gen := s.timerGen
	s.timerKind = kind
	s.timer = time.AfterFunc(d, func() {
		s.post(timerFired{gen: gen, kind: kind})
	})
	s.log.Debug("timer armed", zap.Stringer("timer", kind), zap.Duration("after", d))
}

func (s *Session) cancelTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerGen++
	s.timerKind = timerNone
}

func (s *Session) handleTimer(kind timerKind) {
	switch kind {
	case timerProceed:
		s.proceedToCountdown()

	case timerRejected:
		s.startBrowsing()

	case timerGo:
		if err := s.match.Play(s.match.Board, false); err != nil {
			s.log.Warn("cannot show board", zap.Error(err))
			return
		}
		s.afterTransition()

	case timerLinger:
		if !s.match.IsFinished() {
			return
		}
		e := s.event(EvtResultsReady)
		if r, ok := s.match.Result(); ok {
			e.Result = &r
		}
		s.emit(e)
	}
}
