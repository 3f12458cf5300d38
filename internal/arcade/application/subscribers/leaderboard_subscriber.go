// Package subscribers reacts to delivered domain events.
package subscribers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/arcade/domain"
	identityDomain "github.com/felixgeelhaar/ordo/internal/identity/domain"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/eventbus"
)

// LeaderboardSubscriber keeps the score ledger and its cache in step with
// delivered events.
type LeaderboardSubscriber struct {
	scores domain.ScoreRepository
	cache  domain.LeaderboardCache
	logger *slog.Logger
}

// NewLeaderboardSubscriber creates the subscriber. cache may be nil.
func NewLeaderboardSubscriber(scores domain.ScoreRepository, cache domain.LeaderboardCache, logger *slog.Logger) *LeaderboardSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaderboardSubscriber{scores: scores, cache: cache, logger: logger}
}

// EventTypes returns the routing keys this subscriber handles.
func (s *LeaderboardSubscriber) EventTypes() []string {
	return []string{domain.RoutingKeyScoreImproved, identityDomain.RoutingKeyUserRegistered}
}

// Register subscribes to every routing key in EventTypes.
func (s *LeaderboardSubscriber) Register(bus *eventbus.LocalBus) {
	for _, key := range s.EventTypes() {
		bus.Subscribe(key, s.Handle)
	}
}

type scoreImprovedPayload struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	HighScore int       `json:"high_score"`
}

type userRegisteredPayload struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// Handle applies one event. Undecodable payloads are logged and dropped so
// they do not block the outbox.
func (s *LeaderboardSubscriber) Handle(ctx context.Context, routingKey string, payload []byte) error {
	switch routingKey {
	case domain.RoutingKeyScoreImproved:
		if s.cache == nil {
			return nil
		}
		var p scoreImprovedPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			s.logger.Error("decode score improved payload", "error", err)
			return nil
		}
		return s.cache.Raise(ctx, domain.LeaderboardEntry{UserID: p.UserID, Username: p.Username, HighScore: p.HighScore})

	case identityDomain.RoutingKeyUserRegistered:
		var p userRegisteredPayload
		if err := json.Unmarshal(payload, &p); err != nil || p.UserID == uuid.Nil {
			s.logger.Error("decode user registered payload", "error", err)
			return nil
		}
		if err := s.scores.EnsureRecord(ctx, p.UserID); err != nil {
			return err
		}
		if s.cache == nil {
			return nil
		}
		return s.cache.Raise(ctx, domain.LeaderboardEntry{UserID: p.UserID, Username: p.Username})

	default:
		s.logger.Warn("unknown event type", "routing_key", routingKey)
		return nil
	}
}

// Warm rebuilds the cache from the ledger. It is a no-op without a cache.
func (s *LeaderboardSubscriber) Warm(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	entries, err := s.scores.All(ctx)
	if err != nil {
		return err
	}
	if err := s.cache.Rebuild(ctx, entries); err != nil {
		return err
	}
	s.logger.Info("leaderboard cache warmed", "players", len(entries))
	return nil
}
