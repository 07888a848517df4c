package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	wire "github.com/DoyleJ11/connect4-client/pkg/types"
)

type recorder struct {
	got []wire.Inbound
}

func (r *recorder) Roster(m wire.RosterSnapshot)         { r.got = append(r.got, m) }
func (r *recorder) Presence(m wire.Presence)             { r.got = append(r.got, m) }
func (r *recorder) Invite(m wire.InviteRequest)          { r.got = append(r.got, m) }
func (r *recorder) InviteResponse(m wire.InviteResponse) { r.got = append(r.got, m) }
func (r *recorder) Countdown(m wire.CountdownTick)       { r.got = append(r.got, m) }
func (r *recorder) GameSnapshot(m wire.GameSnapshot)     { r.got = append(r.got, m) }
func (r *recorder) PairingNames(m wire.PairingNames)     { r.got = append(r.got, m) }
func (r *recorder) Enters(m wire.Enters)                 { r.got = append(r.got, m) }

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestRoute_DispatchesEachKindOnce(t *testing.T) {
	log, _ := observed()
	r := New(log)
	rec := &recorder{}
	r.Subscribe("test", rec)

	// interleaved, out of lifecycle order
	msgs := []string{
		`{"type":"serverData","game":{"status":"playing"}}`,
		`{"type":"clients","list":["Alice"]}`,
		`{"type":"countdown","value":3}`,
		`{"type":"invite to play","origin":"Bob"}`,
		`{"type":"userLeft","userName":"Carol"}`,
		`{"type":"invite response","origin":"Bob","accepted":false}`,
		`{"type":"nameClient","player1":"Alice","player2":"Bob"}`,
		`{"type":"entersPlayer1"}`,
	}
	for _, m := range msgs {
		r.Route([]byte(m))
	}

	require.Len(t, rec.got, len(msgs))
	assert.IsType(t, wire.GameSnapshot{}, rec.got[0])
	assert.Equal(t, wire.RosterSnapshot{Names: []string{"Alice"}}, rec.got[1])
	assert.Equal(t, wire.CountdownTick{Value: 3}, rec.got[2])
	assert.Equal(t, wire.InviteRequest{Origin: "Bob"}, rec.got[3])
	assert.Equal(t, wire.Presence{UserName: "Carol"}, rec.got[4])
	assert.Equal(t, wire.InviteResponse{Origin: "Bob"}, rec.got[5])
	assert.Equal(t, wire.PairingNames{Player1: "Alice", Player2: "Bob"}, rec.got[6])
	assert.Equal(t, wire.Enters{Player: 1}, rec.got[7])
}

func TestRoute_UnknownAndMalformedAreLoggedOnly(t *testing.T) {
	log, logs := observed()
	r := New(log)
	rec := &recorder{}
	r.Subscribe("test", rec)

	r.Route([]byte(`{"type":"chat","text":"hi"}`))
	r.Route([]byte(`{{{`))

	assert.Empty(t, rec.got)
	assert.Equal(t, 1, logs.FilterMessage("unknown message type").Len())
	assert.Equal(t, 1, logs.FilterMessage("decode failed").Len())
}

func TestRoute_NoSubscriberDrops(t *testing.T) {
	log, logs := observed()
	r := New(log)

	r.Route([]byte(`{"type":"clients","list":[]}`))
	assert.Equal(t, 1, logs.FilterMessage("no active recipient, message dropped").Len())
}

func TestSubscribe_ReplacesPrevious(t *testing.T) {
	log, _ := observed()
	r := New(log)
	first, second := &recorder{}, &recorder{}

	s1 := r.Subscribe("browsing", first)
	s2 := r.Subscribe("pairing", second)
	assert.False(t, s1.Active())
	assert.True(t, s2.Active())
	assert.Equal(t, "pairing", r.Current())

	r.Route([]byte(`{"type":"countdown","value":5}`))
	assert.Empty(t, first.got)
	assert.Len(t, second.got, 1)

	// stale release must not evict the new subscriber
	s1.Release()
	assert.True(t, s2.Active())

	s2.Release()
	assert.Equal(t, "", r.Current())
	r.Route([]byte(`{"type":"countdown","value":4}`))
	assert.Len(t, second.got, 1)
}
