package api

import (
	"net/http"
	"time"

	identityCommands "github.com/felixgeelhaar/ordo/internal/identity/application/commands"
	identityQueries "github.com/felixgeelhaar/ordo/internal/identity/application/queries"
	identityDomain "github.com/felixgeelhaar/ordo/internal/identity/domain"
)

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string                  `json:"token"`
	ExpiresAt time.Time               `json:"expires_at"`
	User      identityQueries.UserDTO `json:"user"`
}

// handleSignup handles POST /api/v1/auth/signup
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	userID, err := s.app.SignupHandler.Handle(r.Context(), identityCommands.SignupCommand{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.app.GetUserHandler.Handle(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// handleLogin handles POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.app.LoginHandler.Handle(r.Context(), identityCommands.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      identityQueries.ToUserDTO(res.User),
	})
}

// handleLogout handles POST /api/v1/auth/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	if err := s.app.LogoutHandler.Handle(r.Context(), identityCommands.LogoutCommand{SessionID: p.SessionID}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// handleMe handles GET /api/v1/auth/me
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	user, err := s.app.GetUserHandler.Handle(r.Context(), p.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
