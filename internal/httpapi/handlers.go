// Package httpapi is a local control surface for driving a session: a
// presentation layer reads /state and posts the user's choices.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/DoyleJ11/connect4-client/internal/engine"
	"github.com/DoyleJ11/connect4-client/internal/invite"
	"github.com/DoyleJ11/connect4-client/internal/session"
)

// Controller is the part of the session the API drives.
type Controller interface {
	State(ctx context.Context) (session.View, error)
	RefreshRoster(ctx context.Context) error
	SelectOpponent(ctx context.Context, name string) error
	AcceptInvitation(ctx context.Context) error
	RejectInvitation(ctx context.Context) error
	DismissInvitation(ctx context.Context) error
	DropPiece(ctx context.Context, column int) error
	BackToRoster(ctx context.Context) error
}

type handlers struct {
	c   Controller
	log *zap.Logger
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *handlers) State(w http.ResponseWriter, r *http.Request) {
	v, err := h.c.State(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handlers) RefreshRoster(w http.ResponseWriter, r *http.Request) {
	h.do(w, h.c.RefreshRoster(r.Context()))
}

func (h *handlers) Invite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Destination string `json:"destination"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	h.do(w, h.c.SelectOpponent(r.Context(), body.Destination))
}

func (h *handlers) Accept(w http.ResponseWriter, r *http.Request) {
	h.do(w, h.c.AcceptInvitation(r.Context()))
}

func (h *handlers) Reject(w http.ResponseWriter, r *http.Request) {
	h.do(w, h.c.RejectInvitation(r.Context()))
}

func (h *handlers) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.do(w, h.c.DismissInvitation(r.Context()))
}

func (h *handlers) Move(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Column *int `json:"column"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Column == nil {
		writeError(w, http.StatusBadRequest, "column required")
		return
	}
	h.do(w, h.c.DropPiece(r.Context(), *body.Column))
}

func (h *handlers) Back(w http.ResponseWriter, r *http.Request) {
	h.do(w, h.c.BackToRoster(r.Context()))
}

func (h *handlers) do(w http.ResponseWriter, err error) {
	if err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *handlers) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Warn("request failed", zap.Error(err))
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrBadColumn),
		errors.Is(err, invite.ErrSelf),
		errors.Is(err, invite.ErrNoOpponent):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotYourTurn),
		errors.Is(err, session.ErrNotStarted),
		errors.Is(err, session.ErrWrongPhase),
		errors.Is(err, invite.ErrBusy),
		errors.Is(err, invite.ErrNoInvitation),
		errors.Is(err, engine.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, session.ErrClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: msg})
}
