package types

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Server -> Client discriminants.
const (
	TypeClients        = "clients"
	TypeUserJoined     = "userJoined"
	TypeUserLeft       = "userLeft"
	TypeInvite         = "invite to play"
	TypeInviteResponse = "invite response"
	TypeCountdown      = "countdown"
	TypeServerData     = "serverData"
	TypeNameClient     = "nameClient"
	TypeEntersPlayer1  = "entersPlayer1"
	TypeEntersPlayer2  = "entersPlayer2"
)

// Client -> Server discriminants.
const (
	TypeGetClients = "getClients"
	TypeClientPlay = "clientPlay"
)

var ErrMalformed = errors.New("malformed message")
var ErrUnknownType = errors.New("unknown message type")

// Inbound is any decoded server message.
type Inbound interface {
	Type() string
}

// RosterSnapshot:
//
//	{type: "clients", list: [string]}
type RosterSnapshot struct {
	Names []string
}

// Presence:
//
//	{type: "userJoined"|"userLeft", userName: string}
type Presence struct {
	Joined   bool
	UserName string
}

// InviteRequest:
//
//	{type: "invite to play", origin: string, message: string}
type InviteRequest struct {
	Origin  string
	Message string
}

// InviteResponse:
//
//	{type: "invite response", origin: string, accepted: bool}
type InviteResponse struct {
	Origin   string
	Accepted bool
}

// CountdownTick:
//
//	{type: "countdown", value: int}
type CountdownTick struct {
	Value int
}

// PairingNames:
//
//	{type: "nameClient", player1: string, player2: string}
type PairingNames struct {
	Player1 string
	Player2 string
}

// Enters:
//
//	{type: "entersPlayer1"|"entersPlayer2"}
type Enters struct {
	Player int
}

func (RosterSnapshot) Type() string { return TypeClients }
func (p Presence) Type() string {
	if p.Joined {
		return TypeUserJoined
	}
	return TypeUserLeft
}
func (InviteRequest) Type() string  { return TypeInvite }
func (InviteResponse) Type() string { return TypeInviteResponse }
func (CountdownTick) Type() string  { return TypeCountdown }
func (GameSnapshot) Type() string   { return TypeServerData }
func (PairingNames) Type() string   { return TypeNameClient }
func (e Enters) Type() string {
	if e.Player == 2 {
		return TypeEntersPlayer2
	}
	return TypeEntersPlayer1
}

// Decode classifies a raw server message. Only a payload that is not a JSON object,
// or whose type is unknown, fails; missing or wrong-typed fields decode to zero values.
func Decode(data []byte) (Inbound, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformed
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, ErrMalformed
	}

	typ := str(root.Get("type"))
	switch typ {
	case TypeClients:
		return RosterSnapshot{Names: strs(root.Get("list"))}, nil
	case TypeUserJoined, TypeUserLeft:
		return Presence{Joined: typ == TypeUserJoined, UserName: str(root.Get("userName"))}, nil
	case TypeInvite:
		return InviteRequest{Origin: str(root.Get("origin")), Message: str(root.Get("message"))}, nil
	case TypeInviteResponse:
		return InviteResponse{Origin: str(root.Get("origin")), Accepted: boolean(root.Get("accepted"))}, nil
	case TypeCountdown:
		return CountdownTick{Value: integer(root.Get("value"))}, nil
	case TypeServerData:
		return decodeSnapshot(root), nil
	case TypeNameClient:
		return PairingNames{Player1: str(root.Get("player1")), Player2: str(root.Get("player2"))}, nil
	case TypeEntersPlayer1:
		return Enters{Player: 1}, nil
	case TypeEntersPlayer2:
		return Enters{Player: 2}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
}

func str(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

func boolean(r gjson.Result) bool {
	return r.Type == gjson.True
}

func integer(r gjson.Result) int {
	if r.Type != gjson.Number {
		return 0
	}
	return int(r.Int())
}

func strs(r gjson.Result) []string {
	if !r.IsArray() {
		return nil
	}
	var out []string
	for _, v := range r.Array() {
		out = append(out, str(v))
	}
	return out
}
