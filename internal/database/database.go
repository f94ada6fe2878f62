package database

import (
	"context"
	"fmt"
	"log"
	"tg-info-bot/config"
)

// Open creates the UserStore selected by cfg.StorageDriver.
func Open(ctx context.Context, cfg *config.Config) (UserStore, error) {
	switch cfg.StorageDriver {
	case config.StorageJSON:
		log.Printf("Using JSON user store at %s", cfg.UsersFile)
		return NewJSONUserStore(cfg.UsersFile), nil
	case config.StorageSQLite:
		log.Printf("Using SQLite user store at %s", cfg.SQLitePath)
		return NewSQLiteUserStore(ctx, cfg.SQLitePath)
	case config.StorageMongo:
		client, db, err := ConnectDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewMongoUserStore(client, db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
