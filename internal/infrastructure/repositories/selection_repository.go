package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rahulwaghole14/mandap/domain"
)

// SelectionRepositoryImpl stores the contact screen state per session in Redis
type SelectionRepositoryImpl struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSelectionRepository creates a selection repository whose entries live
// at most ttl, normally the session lifetime.
func NewSelectionRepository(client *redis.Client, ttl time.Duration) domain.SelectionRepository {
	return &SelectionRepositoryImpl{
		client: client,
		prefix: "selection:",
		ttl:    ttl,
	}
}

// Load returns an empty state when nothing is stored yet
func (r *SelectionRepositoryImpl) Load(ctx context.Context, sessionID string) (*domain.SelectionState, error) {
	data, err := r.client.Get(ctx, r.prefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &domain.SelectionState{Displayed: []domain.Contact{}, Selected: domain.Selection{}}, nil
		}
		return nil, err
	}

	var state domain.SelectionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selection: %w", err)
	}
	if state.Selected == nil {
		state.Selected = domain.Selection{}
	}
	if state.Displayed == nil {
		state.Displayed = []domain.Contact{}
	}
	return &state, nil
}

// Save implements domain.SelectionRepository
func (r *SelectionRepositoryImpl) Save(ctx context.Context, sessionID string, state *domain.SelectionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}
	return r.client.Set(ctx, r.prefix+sessionID, data, r.ttl).Err()
}

// Delete implements domain.SelectionRepository
func (r *SelectionRepositoryImpl) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.prefix+sessionID).Err()
}
