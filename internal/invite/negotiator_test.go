package invite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/connect4-client/internal/types"
)

func TestSend_OutboundPendingThenAccepted(t *testing.T) {
	n := New("Alice")

	intent, err := n.Send("Bob", "play?")
	require.NoError(t, err)
	assert.Equal(t, types.SendInvite{Destination: "Bob", Message: "play?"}, intent)
	assert.Equal(t, OutboundPending, n.State())

	inv, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, Invitation{Origin: "Alice", Destination: "Bob", Prompt: "play?"}, inv)

	assert.Equal(t, Accepted, n.Respond("Bob", true))
	assert.Equal(t, None, n.State())
}

func TestSend_Guards(t *testing.T) {
	n := New("Alice")

	_, err := n.Send("Alice", "")
	assert.ErrorIs(t, err, ErrSelf)
	_, err = n.Send("", "")
	assert.ErrorIs(t, err, ErrNoOpponent)

	require.True(t, n.Receive("Carol", "hi"))
	_, err = n.Send("Bob", "")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, InboundPending, n.State())
}

func TestRespond_RejectedAndIgnored(t *testing.T) {
	n := New("Alice")
	_, err := n.Send("Bob", "")
	require.NoError(t, err)

	assert.Equal(t, Ignored, n.Respond("Mallory", true), "unknown origin must be ignored")
	assert.Equal(t, OutboundPending, n.State())

	assert.Equal(t, Rejected, n.Respond("Bob", false))
	assert.Equal(t, None, n.State())

	assert.Equal(t, Ignored, n.Respond("Bob", true), "a resolved invitation cannot resolve again")
}

func TestReceive_AtMostOneInbound(t *testing.T) {
	n := New("Alice")

	require.True(t, n.Receive("Bob", "first"))
	assert.False(t, n.Receive("Carol", "second"))
	assert.False(t, n.Receive("Bob", "again"))

	inv, _ := n.Current()
	assert.Equal(t, "Bob", inv.Origin, "second invitation must not overwrite the first")
	assert.Equal(t, "first", inv.Prompt)
}

func TestReceive_SequencesNeverHoldTwo(t *testing.T) {
	n := New("Alice")
	origins := []string{"Bob", "Carol", "Dave", "Bob", "Erin"}
	accepted := 0
	for _, o := range origins {
		if n.Receive(o, "") {
			accepted++
		}
		assert.Equal(t, InboundPending, n.State())
	}
	assert.Equal(t, 1, accepted)

	// once resolved, the next one is admitted
	_, err := n.Reject()
	require.NoError(t, err)
	assert.True(t, n.Receive("Carol", ""))
}

func TestReceive_WhileOutboundIsDropped(t *testing.T) {
	n := New("Alice")
	_, err := n.Send("Bob", "")
	require.NoError(t, err)
	assert.False(t, n.Receive("Carol", ""))
	assert.Equal(t, OutboundPending, n.State())
}

func TestReceive_IgnoresBlankAndSelf(t *testing.T) {
	n := New("Alice")
	assert.False(t, n.Receive("", ""))
	assert.False(t, n.Receive("Alice", ""))
	assert.Equal(t, None, n.State())
}

func TestAccept(t *testing.T) {
	n := New("Alice")
	_, _, err := n.Accept()
	assert.ErrorIs(t, err, ErrNoInvitation)

	require.True(t, n.Receive("Bob", ""))
	intent, origin, err := n.Accept()
	require.NoError(t, err)
	assert.Equal(t, "Bob", origin)
	assert.Equal(t, types.RespondInvite{Destination: "Bob", Accepted: true}, intent)
	assert.Equal(t, None, n.State())

	_, _, err = n.Accept()
	assert.ErrorIs(t, err, ErrNoInvitation, "an invitation resolves exactly once")
}

func TestRejectAndDismiss(t *testing.T) {
	for name, resolve := range map[string]func(*Negotiator) (types.Intent, error){
		"reject":  (*Negotiator).Reject,
		"dismiss": (*Negotiator).Dismiss,
	} {
		t.Run(name, func(t *testing.T) {
			n := New("Alice")
			require.True(t, n.Receive("Bob", ""))

			intent, err := resolve(n)
			require.NoError(t, err)
			assert.Equal(t, types.RespondInvite{Destination: "Bob", Accepted: false}, intent)
			assert.Equal(t, None, n.State())

			_, err = resolve(n)
			assert.ErrorIs(t, err, ErrNoInvitation)
		})
	}
}
