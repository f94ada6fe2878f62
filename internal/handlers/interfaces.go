package handlers

import (
	"context"

	"github.com/mymmrac/telego"
)

// UserRegistry records user sightings and reports how many users are known.
type UserRegistry interface {
	Record(ctx context.Context, user *telego.User)
	Count() int
}

// RateLimiter decides whether a user may issue another command right now.
type RateLimiter interface {
	Allow(userID int64) bool
}

// AdminChecker reports whether a user may run admin-only commands.
type AdminChecker interface {
	IsAdmin(userID int64) bool
}
