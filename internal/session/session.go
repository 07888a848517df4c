package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/connect4-client/internal/engine"
	"github.com/DoyleJ11/connect4-client/internal/invite"
	"github.com/DoyleJ11/connect4-client/internal/roster"
	"github.com/DoyleJ11/connect4-client/internal/router"
	"github.com/DoyleJ11/connect4-client/internal/turnsync"
	"github.com/DoyleJ11/connect4-client/internal/types"
	wire "github.com/DoyleJ11/connect4-client/pkg/types"
)

var (
	ErrNotStarted  = errors.New("match has not started")
	ErrNotYourTurn = errors.New("not your turn")
	ErrBadColumn   = errors.New("column out of range")
	ErrWrongPhase  = errors.New("not possible in the current phase")
	ErrClosed      = errors.New("session closed")
)

// CountdownStart is the countdown value that moves a confirmed pairing onto the
// countdown screen.
const CountdownStart = 5

type Msg interface{ isSessionMsg() }

// fromServer is a routed message tagged with the subscription generation that
// delivered it.
type fromServer struct {
	gen uint64
	msg wire.Inbound
}

type timerFired struct {
	gen  uint64
	kind timerKind
}

type SelectOpponent struct {
	Name  string
	Reply chan error
}

type AcceptInvitation struct{ Reply chan error }

type RejectInvitation struct{ Reply chan error }

// DismissInvitation closes the invitation prompt without a choice.
type DismissInvitation struct{ Reply chan error }

type DropPiece struct {
	Column int
	Reply  chan error
}

type RefreshRoster struct{ Reply chan error }

type BackToRoster struct{ Reply chan error }

type GetState struct {
	Reply chan View
}

type Shutdown struct{}

func (fromServer) isSessionMsg()        {}
func (timerFired) isSessionMsg()        {}
func (SelectOpponent) isSessionMsg()    {}
func (AcceptInvitation) isSessionMsg()  {}
func (RejectInvitation) isSessionMsg()  {}
func (DismissInvitation) isSessionMsg() {}
func (DropPiece) isSessionMsg()         {}
func (RefreshRoster) isSessionMsg()     {}
func (BackToRoster) isSessionMsg()      {}
func (GetState) isSessionMsg()          {}
func (Shutdown) isSessionMsg()          {}

// View is what the presentation layer reads.
type View struct {
	Match       engine.View        `json:"match"`
	Roster      []string           `json:"roster"`
	Negotiation string             `json:"negotiation"`
	Invitation  *invite.Invitation `json:"invitation,omitempty"`
	Subscriber  string             `json:"subscriber"`
}

// Recorder persists finished matches. Record must not block.
type Recorder interface {
	Record(engine.View)
}

type Options struct {
	LocalPlayer  string
	InvitePrompt string
	// OptimisticPairing moves the inviter to the pairing phase as soon as the
	// invitation is sent instead of waiting for the response.
	OptimisticPairing bool
	PairingDelay      time.Duration
	RejectionDelay    time.Duration
	GoDelay           time.Duration
	FinishLinger      time.Duration
	EventBuffer       int
}

func DefaultOptions(localPlayer string) Options {
	return Options{
		LocalPlayer:       localPlayer,
		InvitePrompt:      "Do you want to play Connect 4?",
		OptimisticPairing: true,
		PairingDelay:      time.Second,
		RejectionDelay:    1500 * time.Millisecond,
		GoDelay:           time.Second,
		FinishLinger:      3 * time.Second,
		EventBuffer:       32,
	}
}

// Session owns the match state. Every mutation happens on its loop goroutine;
// transport and presentation talk to it through the inbox.
type Session struct {
	opts     Options
	inbox    chan Msg
	events   chan Event
	router   *router.Router
	sender   types.Sender
	recorder Recorder
	sync     *turnsync.Synchronizer
	log      *zap.Logger

	match  *engine.Match
	roster *roster.Roster
	neg    *invite.Negotiator

	stage     stage
	sub       *router.Subscription
	gen       uint64
	lastPhase string
	lastMatch string

	timer     *time.Timer
	timerGen  uint64
	timerKind timerKind

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New starts a session in roster browsing. recorder may be nil.
func New(parent context.Context, opts Options, r *router.Router, sender types.Sender, recorder Recorder, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 32
	}
	log = log.Named("session").With(zap.String("player", opts.LocalPlayer))

	s := &Session{
		opts:     opts,
		inbox:    make(chan Msg, 64),
		events:   make(chan Event, opts.EventBuffer),
		router:   r,
		sender:   sender,
		recorder: recorder,
		sync:     turnsync.New(log),
		log:      log,
		match:    engine.NewMatch(opts.LocalPlayer),
		roster:   roster.New(opts.LocalPlayer),
		neg:      invite.New(opts.LocalPlayer),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	// subscribe before returning so nothing routed right after New is lost
	s.startBrowsing()
	go s.loop()
	return s
}

func (s *Session) loop() {
	defer close(s.done)

	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case fromServer:
				if msg.gen != s.gen {
					s.log.Info("message for an abandoned phase dropped", zap.String("type", msg.msg.Type()))
					break
				}
				s.handleServer(msg.msg)

			case timerFired:
				if msg.gen != s.timerGen {
					s.log.Debug("stale timer dropped", zap.Stringer("timer", msg.kind))
					break
				}
				s.timer = nil
				s.timerKind = timerNone
				s.handleTimer(msg.kind)

			case SelectOpponent:
				msg.Reply <- s.selectOpponent(msg.Name)
			case AcceptInvitation:
				msg.Reply <- s.accept()
			case RejectInvitation:
				msg.Reply <- s.reject(false)
			case DismissInvitation:
				msg.Reply <- s.reject(true)
			case DropPiece:
				msg.Reply <- s.dropPiece(msg.Column)
			case RefreshRoster:
				s.send(s.roster.RequestRefresh())
				msg.Reply <- nil
			case BackToRoster:
				msg.Reply <- s.backToRoster()

			case GetState:
				msg.Reply <- s.view()

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) shutdown() {
	s.cancelTimer()
	if s.sub != nil {
		s.sub.Release()
		s.sub = nil
	}
	close(s.events) // no more events
	s.cancel()
}

func (s *Session) view() View {
	v := View{
		Match:       s.match.View(),
		Roster:      s.roster.Names(),
		Negotiation: s.neg.State().String(),
		Subscriber:  s.router.Current(),
	}
	if inv, ok := s.neg.Current(); ok {
		v.Invitation = &inv
	}
	return v
}

// post hands m to the loop. It blocks while the inbox is full.
func (s *Session) post(m Msg) {
	select {
	case s.inbox <- m:
	case <-s.ctx.Done():
	}
}

func (s *Session) send(i types.Intent) {
	if s.sender == nil {
		return
	}
	s.log.Debug("sending intent", zap.String("intent", intentName(i)))
	s.sender.Send(i)
}

func intentName(i types.Intent) string {
	switch i.(type) {
	case types.RequestRoster:
		return "request_roster"
	case types.SendInvite:
		return "send_invite"
	case types.RespondInvite:
		return "respond_invite"
	case types.SubmitMove:
		return "submit_move"
	default:
		return "unknown"
	}
}

// Expose the inbox so tests or the transport layer can send messages.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Events is closed when the session stops.
func (s *Session) Events() <-chan Event { return s.events }

func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) Close() {
	select {
	case s.inbox <- Shutdown{}:
	case <-s.done:
	}
	<-s.done
}

func (s *Session) request(ctx context.Context, build func(chan error) Msg) error {
	reply := make(chan error, 1)
	select {
	case s.inbox <- build(reply):
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrClosed
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrClosed
	}
}

func (s *Session) SelectOpponent(ctx context.Context, name string) error {
	return s.request(ctx, func(r chan error) Msg { return SelectOpponent{Name: name, Reply: r} })
}

func (s *Session) AcceptInvitation(ctx context.Context) error {
	return s.request(ctx, func(r chan error) Msg { return AcceptInvitation{Reply: r} })
}

func (s *Session) RejectInvitation(ctx context.Context) error {
	return s.request(ctx, func(r chan error) Msg { return RejectInvitation{Reply: r} })
}

func (s *Session) DismissInvitation(ctx context.Context) error {
	return s.request(ctx, func(r chan error) Msg { return DismissInvitation{Reply: r} })
}

func (s *Session) DropPiece(ctx context.Context, column int) error {
	return s.request(ctx, func(r chan error) Msg { return DropPiece{Column: column, Reply: r} })
}

func (s *Session) RefreshRoster(ctx context.Context) error {
	return s.request(ctx, func(r chan error) Msg { return RefreshRoster{Reply: r} })
}

func (s *Session) BackToRoster(ctx context.Context) error {
	return s.request(ctx, func(r chan error) Msg { return BackToRoster{Reply: r} })
}

func (s *Session) State(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	select {
	case s.inbox <- GetState{Reply: reply}:
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-s.done:
		return View{}, ErrClosed
	}
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-s.done:
		return View{}, ErrClosed
	}
}
