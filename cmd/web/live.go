package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/AdamBeresnev/matchday/internal/httputil"
	"github.com/AdamBeresnev/matchday/internal/league"
	"github.com/AdamBeresnev/matchday/internal/ledger"
	"github.com/AdamBeresnev/matchday/internal/live"
	"github.com/go-chi/chi/v5"
)

// liveView is what every live endpoint returns: the working copy and the
// roster it is checked against.
type liveView struct {
	Match  league.Match    `json:"jogo"`
	Roster []league.Player `json:"elenco"`
}

func viewOf(l *ledger.Ledger) liveView {
	return liveView{Match: l.Match(), Roster: l.Roster()}
}

func ledgerKey(matchID string) string {
	return "ledger:" + matchID
}

func (s *server) liveRoutes(r chi.Router) {
	r.Get("/", s.showLedger)
	r.Delete("/", s.discardLedger)
	r.Post("/start", s.mutateLedger(func(l *ledger.Ledger, r *http.Request) error {
		return l.Start()
	}))
	r.Post("/attendance/{player}", s.mutateLedger(func(l *ledger.Ledger, r *http.Request) error {
		_, err := l.ToggleAttendance(chi.URLParam(r, "player"))
		return err
	}))
	r.Put("/jersey/{player}", s.mutateLedger(setJersey))
	r.Post("/goals", s.mutateLedger(recordGoal))
	r.Delete("/goals/{index}", s.mutateLedger(func(l *ledger.Ledger, r *http.Request) error {
		index, err := eventIndex(r)
		if err != nil {
			return err
		}
		return l.RemoveGoal(index)
	}))
	r.Post("/cards", s.mutateLedger(recordCard))
	r.Delete("/cards/{index}", s.mutateLedger(func(l *ledger.Ledger, r *http.Request) error {
		index, err := eventIndex(r)
		if err != nil {
			return err
		}
		return l.RemoveCard(index)
	}))
	r.Post("/save", s.saveLedger)
	r.Post("/finalize", s.finalizeLedger)
}

// openLedger resumes the session's working copy of a match, or loads a fresh
// one from the store.
func (s *server) openLedger(ctx context.Context, matchID string) (*ledger.Ledger, error) {
	raw := s.sessions.GetBytes(ctx, ledgerKey(matchID))
	if raw == nil {
		return ledger.Load(ctx, s.records, matchID)
	}

	var snap ledger.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode working copy of match %s: %w", matchID, err)
	}
	return ledger.Resume(ctx, s.records, snap)
}

func (s *server) keepLedger(ctx context.Context, l *ledger.Ledger) error {
	raw, err := json.Marshal(l.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode working copy: %w", err)
	}
	s.sessions.Put(ctx, ledgerKey(l.Match().ID), raw)
	return nil
}

func (s *server) showLedger(w http.ResponseWriter, r *http.Request) {
	l, err := s.openLedger(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "Failed to open match", err)
		return
	}
	httputil.JSON(w, http.StatusOK, viewOf(l))
}

func (s *server) discardLedger(w http.ResponseWriter, r *http.Request) {
	s.sessions.Remove(r.Context(), ledgerKey(chi.URLParam(r, "id")))
	w.WriteHeader(http.StatusNoContent)
}

type ledgerOp func(l *ledger.Ledger, r *http.Request) error

// mutateLedger applies op to the working copy. A failed op leaves the stored
// working copy as it was.
func (s *server) mutateLedger(op ledgerOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		l, err := s.openLedger(ctx, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, "Failed to open match", err)
			return
		}
		if err := op(l, r); err != nil {
			writeError(w, "Failed to update match", err)
			return
		}
		if err := s.keepLedger(ctx, l); err != nil {
			httputil.InternalServerError(w, "Failed to keep working copy", err)
			return
		}
		httputil.JSON(w, http.StatusOK, viewOf(l))
	}
}

func (s *server) saveLedger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l, err := s.openLedger(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "Failed to open match", err)
		return
	}
	if err := l.Persist(ctx); err != nil {
		writeError(w, "Failed to save match", err)
		return
	}
	if err := s.keepLedger(ctx, l); err != nil {
		httputil.InternalServerError(w, "Failed to keep working copy", err)
		return
	}

	view := viewOf(l)
	s.hub.Broadcast(view.Match.ID, live.EventMatchUpdated, view.Match)
	httputil.JSON(w, http.StatusOK, view)
}

func (s *server) finalizeLedger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l, err := s.openLedger(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "Failed to open match", err)
		return
	}
	if err := l.Finalize(ctx); err != nil {
		writeError(w, "Failed to finalize match", err)
		return
	}
	s.sessions.Remove(ctx, ledgerKey(l.Match().ID))

	view := viewOf(l)
	s.hub.Broadcast(view.Match.ID, live.EventMatchFinalized, view.Match)
	httputil.JSON(w, http.StatusOK, view)
}

func eventIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ledger.ErrEventIndexOutOfRange, chi.URLParam(r, "index"))
	}
	return index, nil
}

func setJersey(l *ledger.Ledger, r *http.Request) error {
	var body struct {
		Number *int `json:"numero"`
	}
	if err := httputil.DecodeJSON(r, &body); err != nil {
		return err
	}
	if body.Number == nil {
		return l.ClearJerseyNumber(chi.URLParam(r, "player"))
	}
	return l.SetJerseyNumber(chi.URLParam(r, "player"), *body.Number)
}

func eventOptions(minute *int) []ledger.EventOption {
	if minute == nil {
		return nil
	}
	return []ledger.EventOption{ledger.AtMinute(*minute)}
}

func recordGoal(l *ledger.Ledger, r *http.Request) error {
	var body struct {
		PlayerID string `json:"jogadorId"`
		OwnGoal  bool   `json:"contra"`
		Minute   *int   `json:"minuto"`
	}
	if err := httputil.DecodeJSON(r, &body); err != nil {
		return err
	}
	return l.RecordGoal(body.PlayerID, body.OwnGoal, eventOptions(body.Minute)...)
}

func recordCard(l *ledger.Ledger, r *http.Request) error {
	var body struct {
		PlayerID string          `json:"jogadorId"`
		Kind     league.CardKind `json:"tipo"`
		Minute   *int            `json:"minuto"`
	}
	if err := httputil.DecodeJSON(r, &body); err != nil {
		return err
	}
	return l.RecordCard(body.PlayerID, body.Kind, eventOptions(body.Minute)...)
}
