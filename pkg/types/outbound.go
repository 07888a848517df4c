package types

// ClientMessage is every Client -> Server shape:
//
//	{type: "getClients"}
//	{type: "invite to play", destination, message}
//	{type: "invite response", destination, accepted}
//	{type: "clientPlay", value: {column: int}}
type ClientMessage struct {
	Type        string     `json:"type"`
	Destination string     `json:"destination,omitempty"`
	Message     string     `json:"message,omitempty"`
	Accepted    *bool      `json:"accepted,omitempty"`
	Value       *PlayValue `json:"value,omitempty"`
}

type PlayValue struct {
	Column int `json:"column"`
}
