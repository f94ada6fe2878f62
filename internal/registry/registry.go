// Package registry tracks every user that has interacted with the bot.
package registry

import (
	"context"
	"fmt"
	"log"
	"sync"
	"tg-info-bot/internal/database"
	"tg-info-bot/internal/database/models"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
)

// Registry is an in-memory view of known users backed by a UserStore.
// Writes go through to the store one record at a time.
type Registry struct {
	mu    sync.RWMutex
	users map[int64]*models.UserRecord
	store database.UserStore
	now   func() time.Time
}

// New loads the existing records from store and returns a ready Registry.
func New(ctx context.Context, store database.UserStore) (*Registry, error) {
	if store == nil {
		return nil, fmt.Errorf("user store cannot be nil")
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	users := make(map[int64]*models.UserRecord, len(loaded))
	for id, rec := range loaded {
		rec := rec
		users[id] = &rec
	}
	log.Printf("User registry loaded with %d user(s)", len(users))

	return &Registry{
		users: users,
		store: store,
		now:   time.Now,
	}, nil
}

// Record registers a sighting of user: the first sighting creates the record,
// later ones refresh the profile fields, bump the counter and the last-seen time.
// Persistence failures are logged and reported but never returned.
func (r *Registry) Record(ctx context.Context, user *telego.User) {
	if user == nil {
		return
	}

	now := r.now()
	r.mu.Lock()
	rec, ok := r.users[user.ID]
	if !ok {
		rec = &models.UserRecord{ID: user.ID, FirstSeen: now}
		r.users[user.ID] = rec
	}
	rec.FirstName = user.FirstName
	rec.LastName = user.LastName
	rec.Username = user.Username
	rec.InteractionCount++
	rec.LastSeen = now
	snapshot := *rec
	r.mu.Unlock()

	if err := r.store.Upsert(ctx, snapshot); err != nil {
		log.Printf("[Registry User:%d] Error persisting user record: %v", user.ID, err)
		sentry.CaptureException(fmt.Errorf("persist user %d: %w", user.ID, err))
	}
}

// Count returns the number of known users.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Get returns a copy of the record for userID.
func (r *Registry) Get(userID int64) (models.UserRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.users[userID]
	if !ok {
		return models.UserRecord{}, false
	}
	return *rec, true
}
