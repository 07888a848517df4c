// Package turnsync folds authoritative game snapshots into a match.
package turnsync

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/DoyleJ11/connect4-client/internal/board"
	"github.com/DoyleJ11/connect4-client/internal/engine"
	wire "github.com/DoyleJ11/connect4-client/pkg/types"
)

type Status string

const (
	StatusWaiting Status = "waiting"
	StatusPlaying Status = "playing"
	StatusWin     Status = "win"
	StatusDraw    Status = "draw"
)

// ParseStatus maps the server status. Anything that is not playing, win or draw
// (COUNTDOWN, waiting, empty) means the match is not actionable yet.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "playing":
		return StatusPlaying
	case "win":
		return StatusWin
	case "draw":
		return StatusDraw
	default:
		return StatusWaiting
	}
}

// Outcome describes what a snapshot did to the match.
type Outcome struct {
	Status Status
	// Finished is true only on the snapshot that ended the match.
	Finished bool
	// Duplicate is a win/draw for a match that is already finished.
	Duplicate bool
	// Rematch is a playing snapshot that reopened a finished match.
	Rematch bool
	// RoleResolved is true when the local role was found in the client list.
	RoleResolved bool
}

type Synchronizer struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Synchronizer {
	return &Synchronizer{log: log.Named("turnsync")}
}

// Apply reconciles snap into m. Missing fields fall back to defaults; the only
// errors are phase transitions the match does not allow from where it is.
func (s *Synchronizer) Apply(m *engine.Match, snap wire.GameSnapshot) (Outcome, error) {
	out := Outcome{Status: ParseStatus(snap.Status)}
	out.RoleResolved = resolveRole(m, snap.Clients)
	if !out.RoleResolved {
		s.log.Debug("local role unresolved", zap.String("player", m.LocalPlayer))
	}

	switch out.Status {
	case StatusPlaying:
		wasFinished := m.IsFinished()
		if err := m.Play(s.boardFrom(m, snap), snap.Turn == m.LocalPlayer); err != nil {
			return out, err
		}
		out.Rematch = wasFinished

	case StatusWin, StatusDraw:
		if m.IsFinished() {
			out.Duplicate = true
			return out, nil
		}
		b := s.boardFrom(m, snap)
		result := engine.Draw()
		var highlight []board.Pos
		if out.Status == StatusWin {
			if snap.Winner == "" {
				s.log.Warn("win snapshot without winner")
			}
			result = engine.Win(snap.Winner)
			highlight = b.WinScan()
			if highlight == nil {
				s.log.Info("no four-in-a-row found on winning board")
			}
		}
		if err := m.Finish(b, result, highlight); err != nil {
			if errors.Is(err, engine.ErrAlreadyFinished) {
				out.Duplicate = true
				return out, nil
			}
			return out, err
		}
		out.Finished = true

	default:
		m.Hold()
	}
	return out, nil
}

// boardFrom keeps the current board when a snapshot has none.
func (s *Synchronizer) boardFrom(m *engine.Match, snap wire.GameSnapshot) board.Board {
	if !snap.HasBoard {
		s.log.Warn("snapshot without board", zap.String("status", snap.Status))
		return m.Board
	}
	return board.FromRows(snap.Board)
}

func resolveRole(m *engine.Match, clients []wire.ClientEntry) bool {
	for _, c := range clients {
		if c.Name == m.LocalPlayer {
			m.Role = c.Role
			return true
		}
	}
	return false
}
