package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/felixgeelhaar/ordo/internal/identity/domain"
	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
	todoCommands "github.com/felixgeelhaar/ordo/internal/todos/application/commands"
	todoQueries "github.com/felixgeelhaar/ordo/internal/todos/application/queries"
	"github.com/felixgeelhaar/ordo/pkg/observability"
)

// itemRequest is the body of item create and update calls. Effort may be a
// number or a string; it is clamped rather than rejected.
type itemRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DueDate     string          `json:"due_date"`
	Effort      json.RawMessage `json:"effort"`
	CategoryIDs []string        `json:"category_ids"`
}

type itemInput struct {
	dueAt       *time.Time
	effort      string
	categoryIDs []uuid.UUID
}

func (req itemRequest) parse() (itemInput, error) {
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return itemInput{}, err
	}
	ids, err := parseIDs(req.CategoryIDs)
	if err != nil {
		return itemInput{}, err
	}
	return itemInput{dueAt: due, effort: effortText(req.Effort), categoryIDs: ids}, nil
}

// effortText turns a JSON number or string into the raw form value.
func effortText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

var dueDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

var errBadDueDate = shared.Classify(shared.ErrMalformedRequest, "invalid due_date")

// parseDueDate accepts RFC 3339, a datetime-local value or a bare date.
// Values without a zone are read as UTC.
func parseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", errBadDueDate, raw)
}

// handleListItems handles GET /api/v1/todos
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	query := todoQueries.ListItemsQuery{
		OwnerID:       p.UserID,
		ShowCompleted: parseBoolParam(r, "show_completed", true),
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.fail(w, r, fmt.Errorf("%w: %s", errBadID, raw))
			return
		}
		query.CategoryID = &id
	}

	items, err := s.app.ListItemsHandler.Handle(r.Context(), query)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// handleDueSoon handles GET /api/v1/todos/due-soon
func (s *Server) handleDueSoon(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	items, err := s.app.DueSoonHandler.Handle(r.Context(), todoQueries.DueSoonQuery{OwnerID: p.UserID})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// handleItemDraft handles GET /api/v1/todos/new?category=
func (s *Server) handleItemDraft(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	draft, err := s.app.ItemDraftHandler.Handle(r.Context(), todoQueries.ItemDraftQuery{
		OwnerID:     p.UserID,
		CategoryIDs: r.URL.Query()["category"],
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// handleGetItem handles GET /api/v1/todos/{id}
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	item, err := s.app.GetItemHandler.Handle(r.Context(), todoQueries.GetItemQuery{ItemID: id, OwnerID: p.UserID})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleCreateItem handles POST /api/v1/todos
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	in, err := req.parse()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	id, err := s.app.CreateItemHandler.Handle(r.Context(), todoCommands.CreateItemCommand{
		OwnerID:     p.UserID,
		Title:       req.Title,
		Description: req.Description,
		DueAt:       in.dueAt,
		Effort:      in.effort,
		CategoryIDs: in.categoryIDs,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.app.Metrics.Counter(observability.MetricItemsCreated, 1)

	item, err := s.app.GetItemHandler.Handle(r.Context(), todoQueries.GetItemQuery{ItemID: id, OwnerID: p.UserID})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/todos/"+id.String())
	writeJSON(w, http.StatusCreated, item)
}

// handleUpdateItem handles PUT /api/v1/todos/{id}
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	in, err := req.parse()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	err = s.app.UpdateItemHandler.Handle(r.Context(), todoCommands.UpdateItemCommand{
		ItemID:      id,
		OwnerID:     p.UserID,
		Title:       req.Title,
		Description: req.Description,
		DueAt:       in.dueAt,
		Effort:      in.effort,
		CategoryIDs: in.categoryIDs,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	item, err := s.app.GetItemHandler.Handle(r.Context(), todoQueries.GetItemQuery{ItemID: id, OwnerID: p.UserID})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleDeleteItem handles DELETE /api/v1/todos/{id}
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.app.DeleteItemHandler.Handle(r.Context(), todoCommands.DeleteItemCommand{ItemID: id, OwnerID: p.UserID}); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type toggleResponse struct {
	ID          uuid.UUID  `json:"id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// handleToggleItem handles POST /api/v1/todos/{id}/toggle
func (s *Server) handleToggleItem(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.app.ToggleItemHandler.Handle(r.Context(), todoCommands.ToggleItemCommand{ItemID: id, OwnerID: p.UserID})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.app.Metrics.Counter(observability.MetricItemsToggled, 1)
	writeJSON(w, http.StatusOK, toggleResponse{ID: res.ItemID, Completed: res.Completed, CompletedAt: res.CompletedAt})
}

type followupResponse struct {
	Next        string      `json:"next"`
	CategoryIDs []uuid.UUID `json:"category_ids"`
}

// handleCompleteAndFollowup handles POST /api/v1/todos/{id}/complete-and-followup.
// Location points at the item draft with the categories to preselect.
func (s *Server) handleCompleteAndFollowup(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	next, err := s.app.CompleteAndFollowupHandler.Handle(r.Context(), todoCommands.CompleteAndFollowupCommand{ItemID: id, OwnerID: p.UserID})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	location := "/api/v1/todos/new"
	if len(next.CategoryIDs) > 0 {
		q := url.Values{}
		for _, c := range next.CategoryIDs {
			q.Add("category", c.String())
		}
		location += "?" + q.Encode()
	}
	w.Header().Set("Location", location)

	ids := next.CategoryIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}
	writeJSON(w, http.StatusOK, followupResponse{Next: next.Kind, CategoryIDs: ids})
}

type reorderItemsRequest struct {
	ItemIDs []string `json:"item_ids"`
}

// handleReorderItems handles POST /api/v1/todos/reorder
func (s *Server) handleReorderItems(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	var req reorderItemsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.reorderFailed(w, r, err)
		return
	}
	ids, err := parseIDs(req.ItemIDs)
	if err != nil {
		s.reorderFailed(w, r, err)
		return
	}
	if err := s.app.ReorderItemsHandler.Handle(r.Context(), todoCommands.ReorderItemsCommand{OwnerID: p.UserID, ItemIDs: ids}); err != nil {
		s.app.Metrics.Counter(observability.MetricReorderRejects, 1)
		s.reorderFailed(w, r, err)
		return
	}
	s.app.Metrics.Counter(observability.MetricItemsReordered, 1)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// reorderFailed answers reorder calls in their status envelope.
func (s *Server) reorderFailed(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "reorder failed", "path", r.URL.Path, "error", err)
		message = "internal error"
	}
	writeJSON(w, status, map[string]string{"status": "error", "message": message})
}

// handleListCategories handles GET /api/v1/categories
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	categories, err := s.app.ListCategoriesHandler.Handle(r.Context(), todoQueries.ListCategoriesQuery{OwnerID: p.UserID})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

type categoryRequest struct {
	Name string `json:"name"`
}

type categoryResponse struct {
	Created bool       `json:"created"`
	ID      *uuid.UUID `json:"id,omitempty"`
	Ordinal int        `json:"order"`
}

// handleCreateCategory handles POST /api/v1/categories. A blank name is
// accepted and creates nothing.
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.app.CreateCategoryHandler.Handle(r.Context(), todoCommands.CreateCategoryCommand{OwnerID: p.UserID, Name: req.Name})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !res.Created {
		writeJSON(w, http.StatusOK, categoryResponse{Created: false})
		return
	}
	id := res.CategoryID
	writeJSON(w, http.StatusCreated, categoryResponse{Created: true, ID: &id, Ordinal: res.Ordinal})
}

// handleDeleteCategory handles DELETE /api/v1/categories/{id}
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.app.DeleteCategoryHandler.Handle(r.Context(), todoCommands.DeleteCategoryCommand{CategoryID: id, OwnerID: p.UserID}); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderCategoriesRequest struct {
	CategoryIDs []string `json:"category_ids"`
}

// handleReorderCategories handles POST /api/v1/categories/reorder
func (s *Server) handleReorderCategories(w http.ResponseWriter, r *http.Request, p *identityDomain.Principal) {
	var req reorderCategoriesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.reorderFailed(w, r, err)
		return
	}
	ids, err := parseIDs(req.CategoryIDs)
	if err != nil {
		s.reorderFailed(w, r, err)
		return
	}
	if err := s.app.ReorderCategoriesHandler.Handle(r.Context(), todoCommands.ReorderCategoriesCommand{OwnerID: p.UserID, CategoryIDs: ids}); err != nil {
		s.reorderFailed(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func parseBoolParam(r *http.Request, name string, defaultValue bool) bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return b
}

func parseIntParam(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return n
}
