package database

import (
	"context"
	"tg-info-bot/internal/database/models"
)

// UserStore is the durable side of the user registry.
type UserStore interface {
	// Load returns every stored record keyed by user ID.
	Load(ctx context.Context) (map[int64]models.UserRecord, error)
	// Upsert creates or replaces the record for rec.ID.
	Upsert(ctx context.Context, rec models.UserRecord) error
	// Close releases the underlying resources.
	Close(ctx context.Context) error
}
