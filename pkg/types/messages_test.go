package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_KnownTypes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Inbound
	}{
		{
			name: "roster",
			raw:  `{"type":"clients","list":["Alice","Bob"]}`,
			want: RosterSnapshot{Names: []string{"Alice", "Bob"}},
		},
		{
			name: "joined",
			raw:  `{"type":"userJoined","userName":"Carol"}`,
			want: Presence{Joined: true, UserName: "Carol"},
		},
		{
			name: "left",
			raw:  `{"type":"userLeft","userName":"Carol"}`,
			want: Presence{UserName: "Carol"},
		},
		{
			name: "invite",
			raw:  `{"type":"invite to play","origin":"Bob","message":"play?"}`,
			want: InviteRequest{Origin: "Bob", Message: "play?"},
		},
		{
			name: "invite response",
			raw:  `{"type":"invite response","origin":"Bob","accepted":true}`,
			want: InviteResponse{Origin: "Bob", Accepted: true},
		},
		{
			name: "countdown",
			raw:  `{"type":"countdown","value":5}`,
			want: CountdownTick{Value: 5},
		},
		{
			name: "pairing names",
			raw:  `{"type":"nameClient","player1":"Alice","player2":"Bob"}`,
			want: PairingNames{Player1: "Alice", Player2: "Bob"},
		},
		{
			name: "enters",
			raw:  `{"type":"entersPlayer2"}`,
			want: Enters{Player: 2},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode([]byte(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecode_WrongTypedFieldsDegradeToDefaults(t *testing.T) {
	got, err := Decode([]byte(`{"type":"invite response","origin":42,"accepted":"yes"}`))
	require.NoError(t, err)
	assert.Equal(t, InviteResponse{}, got)

	got, err = Decode([]byte(`{"type":"countdown","value":"5"}`))
	require.NoError(t, err)
	assert.Equal(t, CountdownTick{Value: 0}, got)

	got, err = Decode([]byte(`{"type":"clients","list":"Alice"}`))
	require.NoError(t, err)
	assert.Equal(t, RosterSnapshot{}, got)
}

func TestDecode_GameSnapshot(t *testing.T) {
	raw := `{
		"type": "serverData",
		"game": {
			"status": "playing",
			"board": [[" ","R",null],["Y"]],
			"turn": "Alice",
			"winner": ""
		},
		"clientsList": [{"name":"Alice","role":"R"}, "junk", {"name":"Bob","role":"Y"}]
	}`
	got, err := Decode([]byte(raw))
	require.NoError(t, err)

	snap, ok := got.(GameSnapshot)
	require.True(t, ok)
	assert.Equal(t, "playing", snap.Status)
	assert.True(t, snap.HasBoard)
	assert.Equal(t, [][]string{{" ", "R", ""}, {"Y"}}, snap.Board)
	assert.Equal(t, "Alice", snap.Turn)
	assert.Equal(t, []ClientEntry{{Name: "Alice", Role: "R"}, {Name: "Bob", Role: "Y"}}, snap.Clients)
}

func TestDecode_GameSnapshotMissingEverything(t *testing.T) {
	got, err := Decode([]byte(`{"type":"serverData"}`))
	require.NoError(t, err)
	assert.Equal(t, GameSnapshot{}, got)
}

func TestDecode_Failures(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode([]byte(`["clients"]`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode([]byte(`{"type":"chat","text":"hi"}`))
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = Decode([]byte(`{"list":[]}`))
	assert.ErrorIs(t, err, ErrUnknownType)
}
