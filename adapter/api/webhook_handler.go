package api

import (
	"io"
	"net/http"

	deployApp "github.com/felixgeelhaar/ordo/internal/deploy/application"
	deployDomain "github.com/felixgeelhaar/ordo/internal/deploy/domain"
)

// handleGitHubWebhook handles POST /webhooks/github. The raw body is read
// before decoding so the signature covers exactly what GitHub sent.
func (s *Server) handleGitHubWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read body")
		return
	}

	res, err := s.app.WebhookHandler.Handle(r.Context(), deployApp.WebhookCommand{
		EventType: r.Header.Get(deployDomain.EventHeader),
		Signature: r.Header.Get(deployDomain.SignatureHeader),
		Body:      body,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
