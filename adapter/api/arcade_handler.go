package api

import (
	"encoding/json"
	"net/http"

	arcadeCommands "github.com/felixgeelhaar/ordo/internal/arcade/application/commands"
	identityDomain "github.com/felixgeelhaar/ordo/internal/identity/domain"
	"github.com/felixgeelhaar/ordo/pkg/observability"
)

// handleLeaderboard handles GET /api/v1/arcade/leaderboard. Out-of-range
// limits fall back to the default.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.app.LeaderboardHandler.Handle(r.Context(), parseIntParam(r, "limit", 0))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type scoreRequest struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

type scoreResponse struct {
	Success   bool `json:"success"`
	Updated   bool `json:"updated"`
	HighScore int  `json:"high_score"`
}

// handleSubmitScore handles POST /api/v1/arcade/scores
func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	var req scoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.app.SubmitScoreHandler.Handle(r.Context(), arcadeCommands.SubmitScoreCommand{
		UserID:          p.UserID,
		Username:        p.Username,
		ClaimedUsername: req.Username,
		Score:           req.Score,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.app.Metrics.Counter(observability.MetricScoresSubmitted, 1)
	if res.Updated {
		s.app.Metrics.Counter(observability.MetricHighScores, 1)
	}
	writeJSON(w, http.StatusOK, scoreResponse{Success: true, Updated: res.Updated, HighScore: res.HighScore})
}

// handleActivePlayers handles GET /api/v1/arcade/players/active
func (s *Server) handleActivePlayers(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	players, err := s.app.PlayersHandler.Active(r.Context(), p.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

type gameStateRequest struct {
	State json.RawMessage `json:"state"`
	Score int             `json:"score"`
}

// handleUpdateGameState handles PUT /api/v1/arcade/players/me/state
func (s *Server) handleUpdateGameState(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	var req gameStateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	err := s.app.GameStateHandler.Update(r.Context(), arcadeCommands.UpdateGameStateCommand{
		UserID: p.UserID,
		State:  req.State,
		Score:  req.Score,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEndGame handles DELETE /api/v1/arcade/players/me/state
func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	if err := s.app.GameStateHandler.End(r.Context(), arcadeCommands.EndGameCommand{UserID: p.UserID}); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePlayerState handles GET /api/v1/arcade/players/{username}/state
func (s *Server) handlePlayerState(w http.ResponseWriter, r *http.Request, _ *identityDomain.Principal) {
	state, err := s.app.PlayersHandler.State(r.Context(), r.PathValue("username"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
