package router

import (
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	wire "github.com/DoyleJ11/connect4-client/pkg/types"
)

// Handler receives classified server messages. There is one method per known
// discriminant; the router calls exactly one of them per message.
type Handler interface {
	Roster(wire.RosterSnapshot)
	Presence(wire.Presence)
	Invite(wire.InviteRequest)
	InviteResponse(wire.InviteResponse)
	Countdown(wire.CountdownTick)
	GameSnapshot(wire.GameSnapshot)
	PairingNames(wire.PairingNames)
	Enters(wire.Enters)
}

// Router decodes inbound messages and hands them to the current subscriber. Apart
// from that reference it keeps no state; it neither buffers nor reorders.
type Router struct {
	current atomic.Pointer[Subscription]
	log     *zap.Logger
}

// Subscription is a phase's claim on inbound messages, held from phase entry
// until Release.
type Subscription struct {
	name    string
	handler Handler
	router  *Router
}

func New(log *zap.Logger) *Router {
	return &Router{log: log.Named("router")}
}

// Subscribe makes h the only recipient, replacing whoever held it before.
func (r *Router) Subscribe(name string, h Handler) *Subscription {
	s := &Subscription{name: name, handler: h, router: r}
	if prev := r.current.Swap(s); prev != nil {
		r.log.Debug("subscriber replaced", zap.String("from", prev.name), zap.String("to", name))
	}
	return s
}

// Release gives up the subscription. Releasing a subscription that was already
// replaced is a no-op.
func (s *Subscription) Release() {
	if s.router.current.CompareAndSwap(s, nil) {
		s.router.log.Debug("subscriber released", zap.String("name", s.name))
	}
}

func (s *Subscription) Active() bool {
	return s.router.current.Load() == s
}

func (s *Subscription) Name() string { return s.name }

// Current returns the name of the active subscriber, "" if none.
func (r *Router) Current() string {
	if s := r.current.Load(); s != nil {
		return s.name
	}
	return ""
}

// Route decodes data and dispatches it. Failures are logged and otherwise have no
// effect; Route never returns an error to the transport.
func (r *Router) Route(data []byte) {
	msg, err := wire.Decode(data)
	if err != nil {
		reason := "decode failed"
		if errors.Is(err, wire.ErrUnknownType) {
			reason = "unknown message type"
		}
		r.log.Warn(reason, zap.Error(err), zap.ByteString("payload", truncate(data, 256)))
		return
	}
	r.Dispatch(msg)
}

// Dispatch hands an already decoded message to the current subscriber.
func (r *Router) Dispatch(msg wire.Inbound) {
	sub := r.current.Load()
	if sub == nil {
		r.log.Info("no active recipient, message dropped", zap.String("type", msg.Type()))
		return
	}

	switch m := msg.(type) {
	case wire.RosterSnapshot:
		sub.handler.Roster(m)
	case wire.Presence:
		sub.handler.Presence(m)
	case wire.InviteRequest:
		sub.handler.Invite(m)
	case wire.InviteResponse:
		sub.handler.InviteResponse(m)
	case wire.CountdownTick:
		sub.handler.Countdown(m)
	case wire.GameSnapshot:
		sub.handler.GameSnapshot(m)
	case wire.PairingNames:
		sub.handler.PairingNames(m)
	case wire.Enters:
		sub.handler.Enters(m)
	default:
		r.log.Warn("unhandled message type", zap.String("type", msg.Type()))
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
