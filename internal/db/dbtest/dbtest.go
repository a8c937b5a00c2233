// Package dbtest opens a migrated SQLite database for tests.
package dbtest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/db"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/hash"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/models"
)

// Open uses a file rather than :memory: so every pooled connection sees the
// same database. One open connection serializes transactions the way row
// locks do in Postgres.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func CreateUser(t testing.TB, gdb *gorm.DB, username, role string) models.User {
	t.Helper()

	pw, err := hash.HashPassword("password123")
	require.NoError(t, err)

	u := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: pw,
		Role:         role,
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func CreateMenuItem(t testing.TB, gdb *gorm.DB, name, category, price string) models.MenuItem {
	t.Helper()

	it := models.MenuItem{
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
	}
	require.NoError(t, gdb.Create(&it).Error)
	return it
}
