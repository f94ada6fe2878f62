package models

import "time"

// UserRecord is the last-seen metadata kept for every Telegram user that talked to the bot.
type UserRecord struct {
	ID               int64     `bson:"user_id" json:"id"`
	FirstName        string    `bson:"first_name,omitempty" json:"first_name"`
	LastName         string    `bson:"last_name,omitempty" json:"last_name"`
	Username         string    `bson:"username,omitempty" json:"username"`
	InteractionCount int       `bson:"interaction_count" json:"count"`
	FirstSeen        time.Time `bson:"first_seen" json:"first_seen"`
	LastSeen         time.Time `bson:"last_seen" json:"last_seen"`
}
