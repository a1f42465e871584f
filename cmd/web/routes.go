package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/AdamBeresnev/matchday/internal/httputil"
	"github.com/AdamBeresnev/matchday/internal/league"
	"github.com/AdamBeresnev/matchday/internal/live"
	"github.com/AdamBeresnev/matchday/internal/service"
	"github.com/AdamBeresnev/matchday/internal/store"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type server struct {
	records  *store.Collections
	matches  *service.MatchService
	rounds   *service.RoundRegistry
	brackets *service.BracketService
	phases   *service.PhaseService
	progress *service.ProgressService
	sessions *scs.SessionManager
	hub      *live.Hub
}

func newServer(records *store.Collections, sessions *scs.SessionManager, hub *live.Hub) *server {
	rounds := service.NewRoundRegistry(records)
	matches := service.NewMatchService(records, rounds)
	return &server{
		records:  records,
		matches:  matches,
		rounds:   rounds,
		brackets: service.NewBracketService(records, rounds, matches),
		phases:   service.NewPhaseService(records),
		progress: service.NewProgressService(rounds, matches),
		sessions: sessions,
		hub:      hub,
	}
}

func newRouter(s *server, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// The websocket feed holds its connection open, so it stays outside the
	// session middleware and its timeout.
	r.Get("/matches/{id}/ws", s.hub.Handler(func(r *http.Request) string {
		return chi.URLParam(r, "id")
	}, allowedOrigins))

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(30 * time.Second))
		r.Use(s.sessions.LoadAndSave)

		r.Route("/championships/{cid}/phases", func(r chi.Router) {
			r.Get("/", s.listPhases)
			r.Post("/", s.createPhase)

			r.Route("/{pid}/groups", func(r chi.Router) {
				r.Get("/", s.listGroups)
				r.Post("/", s.addGroup)
				r.Delete("/{gid}", s.removeGroup)
				r.Post("/{gid}/teams", s.assignTeam)
				r.Delete("/{gid}/teams/{team}", s.unassignTeam)
			})
		})

		r.Route("/phases/{pid}", func(r chi.Router) {
			r.Get("/rounds", s.listRounds)
			r.Post("/rounds", s.appendRound)
			r.Get("/rounds/{round}/matches", s.listRoundMatches)
			r.Post("/bracket", s.generateRound)
			r.Get("/progress", s.phaseProgress)
			r.Get("/overview", s.phaseOverview)
			r.Get("/matches", s.listPhaseMatches)
			r.Post("/matches", s.createMatch)
		})

		r.Route("/matches/{id}", func(r chi.Router) {
			r.Get("/", s.getMatch)
			r.Patch("/", s.updateMatch)
			r.Delete("/", s.deleteMatch)

			r.Route("/live", s.liveRoutes)
		})
	})

	return r
}

func (s *server) listPhases(w http.ResponseWriter, r *http.Request) {
	phases, err := s.phases.List(r.Context(), chi.URLParam(r, "cid"))
	if err != nil {
		writeError(w, "Failed to list phases", err)
		return
	}
	httputil.JSON(w, http.StatusOK, phases)
}

func (s *server) createPhase(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string           `json:"nome"`
		Kind league.PhaseKind `json:"tipo"`
	}
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.BadRequest(w, "Invalid phase", err)
		return
	}

	phase, err := s.phases.Create(r.Context(), chi.URLParam(r, "cid"), body.Name, body.Kind)
	if err != nil {
		writeError(w, "Failed to create phase", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, phase)
}

func (s *server) listGroups(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := s.phases.Get(ctx, chi.URLParam(r, "cid"), chi.URLParam(r, "pid")); err != nil {
		writeError(w, "Failed to get phase", err)
		return
	}

	groups, err := s.phases.Groups(ctx, chi.URLParam(r, "pid"))
	if err != nil {
		writeError(w, "Failed to list groups", err)
		return
	}
	httputil.JSON(w, http.StatusOK, groups)
}

func (s *server) addGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.phases.AddGroup(r.Context(), chi.URLParam(r, "cid"), chi.URLParam(r, "pid"))
	if err != nil {
		writeError(w, "Failed to add group", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, group)
}

func (s *server) removeGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.phases.RemoveGroup(r.Context(), chi.URLParam(r, "pid"), chi.URLParam(r, "gid")); err != nil {
		writeError(w, "Failed to remove group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) assignTeam(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TeamID string `json:"equipeId"`
	}
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.BadRequest(w, "Invalid team", err)
		return
	}

	group, err := s.phases.AssignTeam(r.Context(), chi.URLParam(r, "pid"), chi.URLParam(r, "gid"), body.TeamID)
	if err != nil {
		writeError(w, "Failed to assign team", err)
		return
	}
	httputil.JSON(w, http.StatusOK, group)
}

func (s *server) unassignTeam(w http.ResponseWriter, r *http.Request) {
	err := s.phases.UnassignTeam(r.Context(), chi.URLParam(r, "pid"), chi.URLParam(r, "gid"), chi.URLParam(r, "team"))
	if err != nil {
		writeError(w, "Failed to remove team from group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) listRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := s.rounds.List(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		writeError(w, "Failed to list rounds", err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string][]int{"rodadas": rounds})
}

func (s *server) appendRound(w http.ResponseWriter, r *http.Request) {
	round, err := s.rounds.Append(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		writeError(w, "Failed to append round", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, map[string]int{"rodada": round})
}

func (s *server) listRoundMatches(w http.ResponseWriter, r *http.Request) {
	round, err := strconv.Atoi(chi.URLParam(r, "round"))
	if err != nil || round < 1 {
		httputil.BadRequest(w, "Invalid round", err)
		return
	}

	matches, err := s.matches.ListByRound(r.Context(), chi.URLParam(r, "pid"), round)
	if err != nil {
		writeError(w, "Failed to list matches", err)
		return
	}
	httputil.JSON(w, http.StatusOK, matches)
}

func (s *server) generateRound(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TeamIDs []string `json:"equipes"`
		service.Schedule
	}
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.BadRequest(w, "Invalid bracket request", err)
		return
	}

	generated, err := s.brackets.GenerateRound(r.Context(), chi.URLParam(r, "pid"), body.TeamIDs, body.Schedule)
	if err != nil {
		writeError(w, "Failed to generate round", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, generated)
}

func (s *server) phaseProgress(w http.ResponseWriter, r *http.Request) {
	phaseID := chi.URLParam(r, "pid")
	pct, err := s.progress.PercentComplete(r.Context(), phaseID)
	if err != nil {
		writeError(w, "Failed to compute progress", err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"faseId": phaseID, "percentual": pct})
}

func (s *server) phaseOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.progress.Overview(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		writeError(w, "Failed to load phase", err)
		return
	}
	httputil.JSON(w, http.StatusOK, overview)
}

func (s *server) listPhaseMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.matches.ListByPhase(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		writeError(w, "Failed to list matches", err)
		return
	}
	httputil.JSON(w, http.StatusOK, matches)
}

func (s *server) createMatch(w http.ResponseWriter, r *http.Request) {
	var fixture service.Fixture
	if err := httputil.DecodeJSON(r, &fixture); err != nil {
		httputil.BadRequest(w, "Invalid match", err)
		return
	}
	fixture.PhaseID = chi.URLParam(r, "pid")

	match, err := s.matches.Create(r.Context(), fixture)
	if err != nil {
		writeError(w, "Failed to create match", err)
		return
	}
	httputil.JSON(w, http.StatusCreated, match)
}

func (s *server) getMatch(w http.ResponseWriter, r *http.Request) {
	match, err := s.matches.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "Failed to get match", err)
		return
	}
	httputil.JSON(w, http.StatusOK, match)
}

func (s *server) updateMatch(w http.ResponseWriter, r *http.Request) {
	var patch service.MatchPatch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		httputil.BadRequest(w, "Invalid match update", err)
		return
	}

	match, err := s.matches.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, "Failed to update match", err)
		return
	}
	httputil.JSON(w, http.StatusOK, match)
}

func (s *server) deleteMatch(w http.ResponseWriter, r *http.Request) {
	if err := s.matches.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, "Failed to delete match", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
