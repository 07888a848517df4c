package types

import (
	"encoding/json"
	"fmt"

	wire "github.com/DoyleJ11/connect4-client/pkg/types"
)

// Intent is an outbound message the core hands to the transport.
type Intent interface{ isIntent() }

type RequestRoster struct{}

type SendInvite struct {
	Destination string
	Message     string
}

type RespondInvite struct {
	Destination string
	Accepted    bool
}

type SubmitMove struct {
	Column int
}

func (RequestRoster) isIntent() {}
func (SendInvite) isIntent()    {}
func (RespondInvite) isIntent() {}
func (SubmitMove) isIntent()    {}

// Sender delivers intents. Sends are fire-and-forget.
type Sender interface {
	Send(Intent)
}

func ToClientMessage(i Intent) (wire.ClientMessage, error) {
	switch in := i.(type) {
	case RequestRoster:
		return wire.ClientMessage{Type: wire.TypeGetClients}, nil
	case SendInvite:
		return wire.ClientMessage{Type: wire.TypeInvite, Destination: in.Destination, Message: in.Message}, nil
	case RespondInvite:
		accepted := in.Accepted
		return wire.ClientMessage{Type: wire.TypeInviteResponse, Destination: in.Destination, Accepted: &accepted}, nil
	case SubmitMove:
		return wire.ClientMessage{Type: wire.TypeClientPlay, Value: &wire.PlayValue{Column: in.Column}}, nil
	default:
		return wire.ClientMessage{}, fmt.Errorf("unsupported intent %T", i)
	}
}

func Encode(i Intent) ([]byte, error) {
	msg, err := ToClientMessage(i)
	if err != nil {
		return nil, err
	}
	return json.Marshal(msg)
}
