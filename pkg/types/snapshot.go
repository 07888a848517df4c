package types

import "github.com/tidwall/gjson"

// GameSnapshot:
//
//	{
//	  type: "serverData",
//	  game: {status: string, board: [[string]], turn: string, winner: string},
//	  clientsList: [{name, role}]
//	}
//
// status is "playing", "win", "draw", or a countdown/waiting value.
type GameSnapshot struct {
	Status string
	// HasBoard is false when the snapshot carried no board at all.
	HasBoard bool
	Board    [][]string
	Turn     string
	Winner   string
	Clients  []ClientEntry
}

type ClientEntry struct {
	Name string
	Role string
}

func decodeSnapshot(root gjson.Result) GameSnapshot {
	game := root.Get("game")
	snap := GameSnapshot{
		Status: str(game.Get("status")),
		Turn:   str(game.Get("turn")),
		Winner: str(game.Get("winner")),
	}

	if rows := game.Get("board"); rows.IsArray() {
		snap.HasBoard = true
		for _, row := range rows.Array() {
			snap.Board = append(snap.Board, strs(row))
		}
	}

	for _, c := range root.Get("clientsList").Array() {
		if !c.IsObject() {
			continue
		}
		snap.Clients = append(snap.Clients, ClientEntry{
			Name: str(c.Get("name")),
			Role: str(c.Get("role")),
		})
	}
	return snap
}
