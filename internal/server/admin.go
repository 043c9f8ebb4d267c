// Package server exposes the job entry points and a few read queries
// over a small JSON surface. Every response is a {success, message}
// envelope with an optional data payload; errors never leak stack
// traces.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"golf-pickem/internal/api"
	"golf-pickem/internal/domain"
	"golf-pickem/internal/service"
	"golf-pickem/internal/status"
)

type AdminServer struct {
	fieldSvc    *service.FieldService
	ingestSvc   *service.IngestService
	scoreSvc    *service.ScoreService
	scheduleSvc *service.ScheduleService
	pickSvc     *service.PickService
	normalizer  *status.Normalizer
	logger      zerolog.Logger
}

func NewAdminServer(
	fieldSvc *service.FieldService,
	ingestSvc *service.IngestService,
	scoreSvc *service.ScoreService,
	scheduleSvc *service.ScheduleService,
	pickSvc *service.PickService,
	normalizer *status.Normalizer,
	logger zerolog.Logger,
) *AdminServer {
	return &AdminServer{
		fieldSvc:    fieldSvc,
		ingestSvc:   ingestSvc,
		scoreSvc:    scoreSvc,
		scheduleSvc: scheduleSvc,
		pickSvc:     pickSvc,
		normalizer:  normalizer,
		logger:      logger,
	}
}

func (s *AdminServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /admin/schedule/sync", s.handleScheduleSync)
	mux.HandleFunc("POST /admin/field/sync", s.handleFieldSync)
	mux.HandleFunc("POST /admin/results/ingest", s.handleIngest)
	mux.HandleFunc("POST /admin/scores/calculate", s.handleCalculateScores)
	mux.HandleFunc("POST /admin/scores/recalculate-season", s.handleRecalculateSeason)
	mux.HandleFunc("POST /admin/status-mappings", s.handleLearnStatus)
	mux.HandleFunc("POST /picks", s.handleSubmitPick)
	mux.HandleFunc("GET /tournaments/upcoming", s.handleUpcoming)
	mux.HandleFunc("GET /tournaments/{id}/scores/preview", s.handlePreviewScores)
	mux.HandleFunc("GET /leagues/{id}/standings", s.handleStandings)
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (s *AdminServer) respond(w http.ResponseWriter, code int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *AdminServer) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, api.ErrNoData):
		code = http.StatusServiceUnavailable
	case errors.Is(err, service.ErrTournamentStarted):
		code = http.StatusConflict
	case errors.Is(err, status.ErrUnknownStatus):
		code = http.StatusUnprocessableEntity
	}
	s.respond(w, code, envelope{Success: false, Message: err.Error()})
}

func decodeBody[T any](r *http.Request) (T, error) {
	var body T
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return body, errors.New("invalid JSON body")
	}
	return body, nil
}

func (s *AdminServer) handleScheduleSync(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		TourID int `json:"tour_id"`
		Season int `json:"season"`
	}](r)
	if err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	count, err := s.scheduleSvc.SyncSchedule(r.Context(), body.TourID, body.Season)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, envelope{Success: true, Message: "schedule synced", Data: map[string]int{"tournaments": count}})
}

func (s *AdminServer) handleFieldSync(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Tour string `json:"tour"`
	}](r)
	if err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}
	if body.Tour == "" {
		body.Tour = "pga"
	}

	t, synced, err := s.fieldSvc.SyncUpcoming(r.Context(), body.Tour)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, envelope{
		Success: true,
		Message: "field synced",
		Data:    map[string]any{"tournament_id": t.ID, "tournament": t.Name, "entries": synced},
	})
}

func (s *AdminServer) handleIngest(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		TournamentID int64 `json:"tournament_id"`
		Year         int   `json:"year"`
	}](r)
	if err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	inserted, err := s.ingestSvc.IngestResults(r.Context(), body.TournamentID, body.Year)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, envelope{Success: true, Message: "results ingested", Data: map[string]int{"results": inserted}})
}

func (s *AdminServer) handleCalculateScores(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		TournamentID int64 `json:"tournament_id"`
		LeagueID     int64 `json:"league_id"`
	}](r)
	if err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	rows, err := s.scoreSvc.CalculateTournamentScores(r.Context(), body.TournamentID, body.LeagueID)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, envelope{Success: true, Message: "scores calculated", Data: map[string]int{"rows": len(rows)}})
}

func (s *AdminServer) handleRecalculateSeason(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		LeagueID int64 `json:"league_id"`
		Year     int   `json:"year"`
	}](r)
	if err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	scored, err := s.scoreSvc.CalculateAllPast(r.Context(), body.LeagueID, body.Year)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, envelope{Success: true, Message: "season recalculated", Data: map[string]int{"tournaments": scored}})
}

func (s *AdminServer) handleLearnStatus(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Raw       string `json:"raw"`
		Canonical string `json:"canonical"`
	}](r)
	if err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	if err := s.normalizer.Learn(r.Context(), body.Raw, domain.Status(body.Canonical)); err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}
	s.respond(w, http.StatusOK, envelope{Success: true, Message: "status mapping learned"})
}

func (s *AdminServer) handleSubmitPick(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		LeagueMemberID int64  `json:"league_member_id"`
		TournamentID   int64  `json:"tournament_id"`
		GolferID       string `json:"golfer_id"`
	}](r)
	if err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
		return
	}

	pick, err := s.pickSvc.SubmitPick(r.Context(), body.LeagueMemberID, body.TournamentID, body.GolferID)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, envelope{Success: true, Message: "pick recorded", Data: pick})
}

func (s *AdminServer) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	t, roster, err := s.fieldSvc.UpcomingField(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}

	type rosterEntry struct {
		GolferID string `json:"golfer_id"`
		FullName string `json:"full_name"`
	}
	entries := make([]rosterEntry, len(roster))
	for i, e := range roster {
		entries[i] = rosterEntry{GolferID: e.Entry.GolferID, FullName: e.FullName}
	}
	s.respond(w, http.StatusOK, envelope{
		Success: true,
		Message: "upcoming tournament",
		Data:    map[string]any{"tournament": t, "field": entries},
	})
}

func (s *AdminServer) handlePreviewScores(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid tournament id"})
		return
	}
	leagueID, err := strconv.ParseInt(r.URL.Query().Get("league_id"), 10, 64)
	if err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid league_id"})
		return
	}

	rows, err := s.scoreSvc.PreviewTournamentScores(r.Context(), tournamentID, leagueID)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, envelope{Success: true, Message: "score preview", Data: rows})
}

func (s *AdminServer) handleStandings(w http.ResponseWriter, r *http.Request) {
	leagueID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.respond(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid league id"})
		return
	}

	standings, err := s.scoreSvc.Standings(r.Context(), leagueID)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, envelope{Success: true, Message: "standings", Data: standings})
}
