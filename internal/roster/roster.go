// Package roster tracks which players can currently be invited.
package roster

import (
	"slices"

	"github.com/DoyleJ11/connect4-client/internal/types"
)

// Roster is the ordered list of inviteable players. It never contains the local
// player and only changes when a full snapshot replaces it.
type Roster struct {
	self  string
	names []string
}

func New(self string) *Roster {
	return &Roster{self: self}
}

// Replace sets the roster to names minus the local player and blank entries.
// It reports whether the visible roster changed.
func (r *Roster) Replace(names []string) bool {
	next := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || n == r.self {
			continue
		}
		next = append(next, n)
	}
	if slices.Equal(next, r.names) {
		return false
	}
	r.names = next
	return true
}

// RequestRefresh returns the intent asking the server for a new snapshot. It does
// not touch the roster; presence notices go through here instead of patching the
// list, so the roster never drifts from the server's.
func (r *Roster) RequestRefresh() types.Intent {
	return types.RequestRoster{}
}

func (r *Roster) Names() []string {
	return slices.Clone(r.names)
}

func (r *Roster) Contains(name string) bool {
	return slices.Contains(r.names, name)
}

func (r *Roster) Len() int { return len(r.names) }
