package testutil

import (
	"testing"

	"github.com/kasuganosora/rotationsolver/cache"
	"github.com/kasuganosora/rotationsolver/config"
	dbadapter "github.com/kasuganosora/rotationsolver/db"
	dbsqlite "github.com/kasuganosora/rotationsolver/db/sqlite"
	"github.com/kasuganosora/rotationsolver/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SetupTestDB opens a private in-memory sqlite DB and runs AutoMigrate.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dbadapter.Open(config.DatabaseConfig{
		Mode:       dbadapter.ModeSQLite,
		SQLitePath: dbsqlite.Memory,
	}, nil)
	require.NoError(t, err, "SetupTestDB: Open")
	require.NoError(t, model.AutoMigrate(db), "SetupTestDB: AutoMigrate")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SetupTestCache creates LocalCache and LocalPubSub (no Redis required).
func SetupTestCache(t *testing.T) (cache.Cache, cache.PubSub) {
	t.Helper()
	cfg := cache.Config{} // empty RedisAddr → LocalCache
	c, err := cache.NewCache(cfg)
	require.NoError(t, err, "SetupTestCache: NewCache")
	t.Cleanup(func() { _ = c.Close() })
	ps, err := cache.NewPubSub(cfg)
	require.NoError(t, err, "SetupTestCache: NewPubSub")
	return c, ps
}
