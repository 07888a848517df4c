package engine

import (
	"slices"

	"github.com/DoyleJ11/connect4-client/internal/board"
)

// View is a read-only copy of a Match for the presentation layer.
type View struct {
	ID          string      `json:"id"`
	Phase       string      `json:"phase"`
	LocalPlayer string      `json:"local_player"`
	Opponent    string      `json:"opponent,omitempty"`
	IsInviter   bool        `json:"is_inviter"`
	Role        string      `json:"role,omitempty"`
	Confirmed   bool        `json:"confirmed"`
	Countdown   *int        `json:"countdown,omitempty"`
	LocalTurn   bool        `json:"local_turn"`
	Board       [][]string  `json:"board"`
	Result      *Result     `json:"result,omitempty"`
	Highlight   []board.Pos `json:"highlight,omitempty"`
}

func (m *Match) View() View {
	v := View{
		ID:          m.ID.String(),
		Phase:       m.Phase.Name(),
		LocalPlayer: m.LocalPlayer,
		Opponent:    m.Opponent,
		IsInviter:   m.IsInviter,
		Role:        m.Role,
		Confirmed:   m.Confirmed(),
		Board:       m.Board.Strings(),
	}
	switch p := m.Phase.(type) {
	case CountdownActive:
		value := p.Value
		v.Countdown = &value
	case Playing:
		v.LocalTurn = p.LocalTurn
	case Finished:
		r := p.Result
		v.Result = &r
		v.Highlight = slices.Clone(p.Highlight)
	}
	return v
}

func (m *Match) LocalTurn() bool {
	p, ok := m.Phase.(Playing)
	return ok && p.LocalTurn
}

func (m *Match) Result() (Result, bool) {
	p, ok := m.Phase.(Finished)
	if !ok {
		return Result{}, false
	}
	return p.Result, true
}

func (m *Match) IsFinished() bool {
	_, ok := m.Phase.(Finished)
	return ok
}

// LocalWin reports whether r names the local player as winner.
func (r Result) LocalWin(localPlayer string) bool {
	return r.Kind == ResultWin && r.Winner != "" && r.Winner == localPlayer
}
